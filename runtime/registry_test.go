package runtime

import (
	"fmt"
	"log/slog"
	"sync"
	"task-lab/contract"
	"task-lab/domain"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var (
	alice = domain.Identity{UserID: "u-alice", Name: "alice"}
	bob   = domain.Identity{UserID: "u-bob", Name: "bob"}
	carol = domain.Identity{UserID: "u-carol", Name: "carol"}
)

func textMessage(room domain.RoomName, text string) domain.ChatMessage {
	return domain.ChatMessage{Room: room, Text: text, Type: domain.MessageText, Timestamp: time.Now().UTC()}
}

func TestRoomRegistry_Join_Creates_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRoomRegistry(logs.GetLoggerFromLevel(slog.LevelDebug))
	conn := newFakeConn("c1")

	// Given no room exists
	req.Empty(registry.Rooms())

	// When a connection joins "general"
	registry.Join("general", conn, alice)

	// Then the room exists with one member bound to it
	req.Equal([]domain.RoomName{"general"}, registry.Rooms())
	req.Equal([]domain.Identity{alice}, registry.Members("general"))
	room, ok := registry.RoomOf(conn)
	req.True(ok)
	req.Equal(domain.RoomName("general"), room)
}

func TestRoomRegistry_Rooms_Are_Case_Sensitive(t *testing.T) {
	req := require.New(t)
	registry := NewRoomRegistry(logs.GetLoggerFromLevel(slog.LevelDebug))

	registry.Join("General", newFakeConn("c1"), alice)
	registry.Join("general", newFakeConn("c2"), bob)

	req.Equal([]domain.RoomName{"General", "general"}, registry.Rooms())
}

func TestRoomRegistry_Leave_Removes_Empty_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRoomRegistry(logs.GetLoggerFromLevel(slog.LevelDebug))
	c1, c2 := newFakeConn("c1"), newFakeConn("c2")
	registry.Join("general", c1, alice)
	registry.Join("general", c2, bob)

	req.True(registry.Leave("general", c1))
	req.Len(registry.Members("general"), 1)

	req.True(registry.Leave("general", c2))
	req.Empty(registry.Rooms())
	_, ok := registry.RoomOf(c2)
	req.False(ok)

	// Leaving twice is a no-op
	req.False(registry.Leave("general", c2))
	req.False(registry.Leave("unknown", c1))
}

func TestRoomRegistry_Broadcast_Excludes_Sender(t *testing.T) {
	req := require.New(t)
	registry := NewRoomRegistry(logs.GetLoggerFromLevel(slog.LevelDebug))
	c1, c2, c3 := newFakeConn("c1"), newFakeConn("c2"), newFakeConn("c3")
	registry.Join("general", c1, alice)
	registry.Join("general", c2, bob)
	registry.Join("random", c3, carol)

	delivered := registry.Broadcast("general", textMessage("general", "hi"), c1)

	req.Equal(1, delivered)
	req.Empty(c1.Received())
	req.Len(c2.Received(), 1)
	req.Empty(c3.Received())
}

func TestRoomRegistry_Broadcast_Drops_Broken_Member(t *testing.T) {
	req := require.New(t)
	registry := NewRoomRegistry(logs.GetLoggerFromLevel(slog.LevelDebug))
	c1, c2, c3 := newFakeConn("c1"), newFakeConn("c2"), newFakeConn("c3")
	registry.Join("general", c1, alice)
	registry.Join("general", c2, bob)
	registry.Join("general", c3, carol)

	// Given bob's connection is broken
	c2.Break()

	// When alice broadcasts
	delivered := registry.Broadcast("general", textMessage("general", "hi"), c1)

	// Then carol still receives the message and bob is removed silently
	req.Equal(1, delivered)
	req.Len(c3.Received(), 1)
	req.ElementsMatch([]domain.Identity{alice, carol}, registry.Members("general"))
	req.False(registry.Leave("general", c2))
}

func TestRoomRegistry_Concurrent_Join_Leave_Broadcast(t *testing.T) {
	req := require.New(t)
	registry := NewRoomRegistry(logs.GetLoggerFromLevel(slog.LevelDebug))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn := newFakeConn(fmt.Sprintf("c%d", i))
			registry.Join("general", conn, domain.Identity{UserID: conn.ID()})
			registry.Broadcast("general", textMessage("general", "ping"), conn)
			registry.Leave("general", conn)
		}(i)
	}
	wg.Wait()

	rooms, members := registry.Count()
	req.Zero(rooms)
	req.Zero(members)
}

func TestSessionRegistry_Register_And_Matching(t *testing.T) {
	req := require.New(t)
	registry := NewSessionRegistry(logs.GetLoggerFromLevel(slog.LevelDebug))

	taskAll := registry.Register("alice", domain.TaskStream, nil, newFakeConn("c1"))
	taskDone := registry.Register("alice", domain.TaskStream, &domain.TaskFilter{Completed: lo.ToPtr(true)}, newFakeConn("c2"))
	notif := registry.Register("alice", domain.NotificationStream, nil, newFakeConn("c3"))
	registry.Register("bob", domain.TaskStream, nil, newFakeConn("c4"))

	req.NotEqual(taskAll, taskDone)
	req.Equal(4, registry.Count())
	req.Equal(3, registry.CountByKind(domain.TaskStream))

	// Every task stream of alice
	req.ElementsMatch([]domain.SessionID{taskAll, taskDone},
		sessionIDs(registry.Matching("alice", domain.TaskStream, nil)))

	// Only the streams accepting a pending task
	pending := domain.Task{ID: "t1", Completed: false}
	req.Equal([]domain.SessionID{taskAll},
		sessionIDs(registry.Matching("alice", domain.TaskStream, func(s contract.Session) bool {
			return s.Filter.Match(pending)
		})))

	req.Equal([]domain.SessionID{notif},
		sessionIDs(registry.Matching("alice", domain.NotificationStream, nil)))
	req.Empty(registry.Matching("carol", domain.TaskStream, nil))
}

func TestSessionRegistry_Unregister_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	registry := NewSessionRegistry(logs.GetLoggerFromLevel(slog.LevelDebug))
	id := registry.Register("alice", domain.TaskStream, nil, newFakeConn("c1"))

	req.True(registry.Unregister(id))
	req.False(registry.Unregister(id))
	req.False(registry.Unregister("unknown"))

	_, ok := registry.Get(id)
	req.False(ok)
	req.Empty(registry.Matching("alice", domain.TaskStream, nil))
	req.Zero(registry.Count())
}

func TestSessionRegistry_Concurrent_Register_Unregister(t *testing.T) {
	req := require.New(t)
	registry := NewSessionRegistry(logs.GetLoggerFromLevel(slog.LevelDebug))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := registry.Register("alice", domain.TaskStream, nil, newFakeConn(fmt.Sprintf("c%d", i)))
			registry.Matching("alice", domain.TaskStream, nil)
			registry.Unregister(id)
		}(i)
	}
	wg.Wait()

	req.Zero(registry.Count())
}

func sessionIDs(sessions []contract.Session) []domain.SessionID {
	return lo.Map(sessions, func(s contract.Session, _ int) domain.SessionID { return s.ID })
}
