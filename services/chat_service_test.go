package services

import (
	"log/slog"
	"strings"
	"task-lab/domain"
	"task-lab/errors"
	"task-lab/mocks"
	"task-lab/moderation"
	"task-lab/runtime"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	alice = domain.Identity{UserID: "u-alice", Name: "alice"}
	bob   = domain.Identity{UserID: "u-bob", Name: "bob"}
	carol = domain.Identity{UserID: "u-carol", Name: "carol"}
)

type chatFixture struct {
	svc      *ChatService
	rooms    *runtime.RoomRegistry
	verifier *mocks.MockIIdentityVerifier
}

func newChatFixture(t *testing.T) chatFixture {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	moderator, err := moderation.NewModerator([]string{"idiot"}, '*', log)
	require.NoError(t, err)
	rooms := runtime.NewRoomRegistry(log)
	dispatcher := runtime.NewDispatcher(log, runtime.NewSessionRegistry(log), rooms)
	verifier := mocks.NewMockIIdentityVerifier(gomock.NewController(t))
	return chatFixture{
		svc:      NewChatService(rooms, dispatcher, verifier, moderator, log, 50),
		rooms:    rooms,
		verifier: verifier,
	}
}

func (f chatFixture) join(t *testing.T, conn *fakeConn, identity domain.Identity, room string) *ChatSession {
	session := f.svc.Open(conn, &identity)
	require.NoError(t, session.Handle(InboundChat{Room: room}))
	return session
}

func TestChatSession_Text_Reaches_Others_Only(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)
	c1, c2 := newFakeConn("c1"), newFakeConn("c2")

	// Given two connections in "general"
	s1 := f.join(t, c1, alice, "general")
	f.join(t, c2, bob, "general")

	// When C1 says hello
	req.NoError(s1.Handle(InboundChat{Text: "hello"}))

	// Then C2 gets a text message from alice
	received := c2.chatMessages()
	last := received[len(received)-1]
	req.Equal(domain.MessageText, last.Type)
	req.Equal("hello", last.Text)
	req.Equal(alice.UserID, last.SenderID)
	req.Equal("alice", last.SenderName)
	req.Equal(domain.RoomName("general"), last.Room)

	// And C1 only got its welcome and bob's arrival
	types := make([]domain.MessageType, 0)
	for _, msg := range c1.chatMessages() {
		types = append(types, msg.Type)
	}
	req.Equal([]domain.MessageType{domain.MessageSystem, domain.MessageJoin}, types)
}

func TestChatSession_Join_Announces_To_Others(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)
	c1, c2 := newFakeConn("c1"), newFakeConn("c2")
	f.join(t, c1, alice, "general")

	s2 := f.join(t, c2, bob, "general")

	req.Equal(ChatJoined, s2.State())
	c1Messages := c1.chatMessages()
	req.Equal(domain.MessageJoin, c1Messages[len(c1Messages)-1].Type)
	req.Equal("bob joined the room", c1Messages[len(c1Messages)-1].Text)

	// The joiner receives its private welcome, not its own arrival
	c2Messages := c2.chatMessages()
	req.Len(c2Messages, 1)
	req.Equal(domain.MessageSystem, c2Messages[0].Type)
	req.Contains(c2Messages[0].Text, "general")
}

func TestChatSession_Authenticates_With_First_Message(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t)
		conn := newFakeConn("c1")
		f.verifier.EXPECT().Verify("good-token").Return(alice, nil).Times(1)

		session := f.svc.Open(conn, nil)
		req.Equal(ChatUnauthenticated, session.State())

		req.NoError(session.Handle(InboundChat{Token: "good-token", Room: "general"}))
		req.Equal(ChatJoined, session.State())

		// The token is verified once only
		req.NoError(session.Handle(InboundChat{Token: "ignored", Text: "hi"}))
	})

	t.Run("invalid token ends the stream", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t)
		conn := newFakeConn("c1")
		f.verifier.EXPECT().Verify("").Return(domain.Identity{}, errors.ErrUnauthenticated).Times(1)

		session := f.svc.Open(conn, nil)
		err := session.Handle(InboundChat{Room: "general"})

		req.ErrorIs(err, errors.ErrUnauthenticated)
		req.Equal(ChatUnauthenticated, session.State())
		req.Empty(f.rooms.Rooms())
	})
}

func TestChatSession_Text_Before_Join(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)
	conn := newFakeConn("c1")
	session := f.svc.Open(conn, &alice)

	err := session.Handle(InboundChat{Text: "anyone?"})

	// The stream continues with a private error message
	req.NoError(err)
	req.Equal(ChatAuthenticated, session.State())
	received := conn.chatMessages()
	req.Len(received, 1)
	req.Equal(domain.MessageSystem, received[0].Type)
	req.Equal(errors.ErrNotJoined.Error(), received[0].Text)
}

func TestChatSession_Room_Is_Sticky(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)
	conn := newFakeConn("c1")
	session := f.join(t, conn, alice, "general")

	req.NoError(session.Handle(InboundChat{Room: "random", Text: "still here"}))

	room, joined := session.Room()
	req.True(joined)
	req.Equal(domain.RoomName("general"), room)
	req.Equal([]domain.RoomName{"general"}, f.rooms.Rooms())
}

func TestChatSession_Invalid_Room_Name(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)
	conn := newFakeConn("c1")
	session := f.svc.Open(conn, &alice)

	req.NoError(session.Handle(InboundChat{Room: strings.Repeat("r", 65)}))

	req.Equal(ChatAuthenticated, session.State())
	req.Empty(f.rooms.Rooms())
	req.Len(conn.chatMessages(), 1)
}

func TestChatSession_Censors_And_Limits_Text(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)
	c1, c2 := newFakeConn("c1"), newFakeConn("c2")
	s1 := f.join(t, c1, alice, "general")
	f.join(t, c2, bob, "general")
	before := len(c2.chatMessages())

	req.NoError(s1.Handle(InboundChat{Text: "  you idiot  "}))
	req.NoError(s1.Handle(InboundChat{Text: strings.Repeat("a", 51)}))

	received := c2.chatMessages()
	req.Len(received, before+1)
	req.Equal("you *****", received[len(received)-1].Text)
	c1Messages := c1.chatMessages()
	req.Equal(domain.MessageSystem, c1Messages[len(c1Messages)-1].Type)
}

func TestChatSession_Close_Announces_Leave_Once(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)
	c1, c2 := newFakeConn("c1"), newFakeConn("c2")
	s1 := f.join(t, c1, alice, "general")
	f.join(t, c2, bob, "general")
	before := len(c2.chatMessages())

	s1.Close()
	s1.Close()

	received := c2.chatMessages()
	req.Len(received, before+1)
	req.Equal(domain.MessageLeave, received[len(received)-1].Type)
	req.Equal([]domain.Identity{bob}, f.rooms.Members("general"))
	req.ErrorIs(s1.Handle(InboundChat{Text: "late"}), errors.ErrConnectionClosed)
}

func TestChatSession_Dropped_Member_Leaves_Silently(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)
	c1, c2, c3 := newFakeConn("c1"), newFakeConn("c2"), newFakeConn("c3")
	s1 := f.join(t, c1, alice, "general")
	s2 := f.join(t, c2, bob, "general")
	f.join(t, c3, carol, "general")

	// Given bob's transport is gone
	c2.Break()

	// When alice talks, bob is dropped from the room
	req.NoError(s1.Handle(InboundChat{Text: "hello"}))
	req.ElementsMatch([]domain.Identity{alice, carol}, f.rooms.Members("general"))
	before := len(c3.chatMessages())

	// Then closing bob's session does not announce anything
	s2.Close()
	req.Len(c3.chatMessages(), before)
}

func TestChatSession_Last_Leave_Removes_Room(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)
	c1 := newFakeConn("c1")
	s1 := f.join(t, c1, alice, "general")

	// When the only member's connection goes away
	c1.Close()
	s1.Close()

	// Then the room is gone and a new join recreates it fresh
	req.Empty(f.rooms.Rooms())
	f.join(t, newFakeConn("c2"), bob, "general")
	req.Equal([]domain.Identity{bob}, f.rooms.Members("general"))
}
