package services

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"task-lab/contract"
	"task-lab/domain"
	"task-lab/errors"
	"time"

	"github.com/abadojack/whatlanggo"
)

// ICensor masks forbidden words and reports which ones were found.
type ICensor interface {
	Censor(text string) (string, []string)
}

// ChatState is the position of a chat stream in its protocol.
type ChatState int

const (
	ChatUnauthenticated ChatState = iota
	ChatAuthenticated
	ChatJoined
)

func (s ChatState) String() string {
	switch s {
	case ChatUnauthenticated:
		return "UNAUTHENTICATED"
	case ChatAuthenticated:
		return "AUTHENTICATED"
	case ChatJoined:
		return "JOINED"
	default:
		return fmt.Sprintf("ChatState(%d)", int(s))
	}
}

// InboundChat is what a client may send on the chat stream.
type InboundChat struct {
	Room  string
	Text  string
	Token string
}

type ChatService struct {
	rooms            contract.IRoomRegistry
	dispatcher       contract.IDispatcher
	verifier         contract.IIdentityVerifier
	censor           ICensor
	log              *slog.Logger
	maxMessageLength int
	now              func() time.Time
}

func NewChatService(
	rooms contract.IRoomRegistry,
	dispatcher contract.IDispatcher,
	verifier contract.IIdentityVerifier,
	censor ICensor,
	log *slog.Logger,
	maxMessageLength int,
) *ChatService {
	return &ChatService{
		rooms:            rooms,
		dispatcher:       dispatcher,
		verifier:         verifier,
		censor:           censor,
		log:              log,
		maxMessageLength: maxMessageLength,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Open starts the protocol of one chat stream. A non-nil identity means the
// stream was already authenticated from its metadata.
func (s *ChatService) Open(conn contract.Connection, identity *domain.Identity) *ChatSession {
	session := &ChatSession{svc: s, conn: conn, state: ChatUnauthenticated}
	if identity != nil {
		session.identity = *identity
		session.state = ChatAuthenticated
	}
	return session
}

// ChatSession holds the explicit state of one chat stream:
// who it is, which room it sits in and whether it has ended.
type ChatSession struct {
	svc      *ChatService
	conn     contract.Connection
	mu       sync.Mutex
	state    ChatState
	identity domain.Identity
	room     domain.RoomName
	closed   bool
}

func (c *ChatSession) State() ChatState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *ChatSession) Room() (domain.RoomName, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room, c.state == ChatJoined
}

// Handle advances the protocol with one inbound message.
// The returned error is terminal: the stream must end. Recoverable problems
// are answered with a private system message instead.
func (c *ChatSession) Handle(msg InboundChat) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.ErrConnectionClosed
	}

	if c.state == ChatUnauthenticated {
		identity, err := c.svc.verifier.Verify(msg.Token)
		if err != nil {
			c.svc.log.Debug("Chat authentication failed", "connection_id", c.conn.ID(), "error", err)
			return err
		}
		c.identity = identity
		c.state = ChatAuthenticated
	}

	if room := strings.TrimSpace(msg.Room); room != "" {
		switch c.state {
		case ChatAuthenticated:
			if err := c.join(domain.RoomName(room)); err != nil {
				return err
			}
		case ChatJoined:
			if domain.RoomName(room) != c.room {
				c.svc.log.Debug("Ignoring room change", "room", c.room, "requested", room)
			}
		}
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}
	if c.state != ChatJoined {
		return c.reply(errors.ErrNotJoined.Error())
	}
	if c.svc.maxMessageLength > 0 && len([]rune(text)) > c.svc.maxMessageLength {
		return c.reply(fmt.Sprintf("%v: message longer than %d characters", errors.ErrInvalidArgument, c.svc.maxMessageLength))
	}
	c.post(text)
	return nil
}

func (c *ChatSession) join(room domain.RoomName) error {
	if err := validateCommand(JoinRoomCommand{Room: string(room)}); err != nil {
		return c.reply(err.Error())
	}
	c.svc.rooms.Join(room, c.conn, c.identity)
	c.room = room
	c.state = ChatJoined
	c.svc.dispatcher.DispatchChatMessage(room, domain.JoinMessage(room, c.identity, c.svc.now()), c.conn)
	c.svc.log.Debug("Joined room", "room", room, "user_id", c.identity.UserID)
	return c.reply(fmt.Sprintf("Welcome to %s, %s", room, c.identity.DisplayName()))
}

func (c *ChatSession) post(text string) {
	sanitized, censored := c.svc.censor.Censor(text)
	if len(censored) > 0 {
		c.svc.log.Info("Censored chat message", "room", c.room, "user_id", c.identity.UserID, "words", censored)
	}
	info := whatlanggo.Detect(text)
	language := ""
	if info.IsReliable() {
		language = info.Lang.Iso6391()
	}
	c.svc.dispatcher.DispatchChatMessage(c.room, domain.ChatMessage{
		Room:       c.room,
		Text:       sanitized,
		SenderID:   c.identity.UserID,
		SenderName: c.identity.DisplayName(),
		Timestamp:  c.svc.now(),
		Type:       domain.MessageText,
		Language:   language,
	}, c.conn)
}

// reply sends a private system message to this stream only.
// A failed write ends the stream.
func (c *ChatSession) reply(text string) error {
	return c.conn.Send(domain.SystemMessage(c.room, text, c.svc.now()))
}

// Close leaves the room. Members are told only when the membership was still
// there: a member dropped by a failed broadcast already left silently.
// Close is idempotent.
func (c *ChatSession) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.state != ChatJoined {
		return
	}
	if c.svc.rooms.Leave(c.room, c.conn) {
		c.svc.dispatcher.DispatchChatMessage(c.room, domain.LeaveMessage(c.room, c.identity, c.svc.now()), c.conn)
		c.svc.log.Debug("Left room", "room", c.room, "user_id", c.identity.UserID)
	}
}
