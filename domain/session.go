package domain

// Outbound is anything that can be pushed on a streaming connection.
// The set is closed: tasks, notifications and chat messages.
type Outbound interface {
	outbound()
}

type SessionID string

type SessionKind int

const (
	TaskStream SessionKind = iota + 1
	NotificationStream
)

func (k SessionKind) String() string {
	switch k {
	case TaskStream:
		return "TASK_STREAM"
	case NotificationStream:
		return "NOTIFICATION_STREAM"
	default:
		return "UNKNOWN_STREAM"
	}
}

// Identity is the authenticated peer behind a request or a stream.
type Identity struct {
	UserID string
	Name   string
	Roles  []string
}

func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.UserID
}

// User is an account as stored by the user repository.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Roles        []string
}
