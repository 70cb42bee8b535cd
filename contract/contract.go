//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"task-lab/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Connection is one open streaming link to a peer.
// Send never blocks: it either queues the payload or fails with errors.ErrWrite,
// in which case the connection is considered dead.
type Connection interface {
	ID() string
	Send(payload domain.Outbound) error
	// Done is closed once the connection is torn down, whatever the cause.
	Done() <-chan struct{}
	Close()
}

type ISessionRegistry interface {
	Register(ownerID string, kind domain.SessionKind, filter *domain.TaskFilter, conn Connection) domain.SessionID
	Unregister(id domain.SessionID) bool
	Matching(ownerID string, kind domain.SessionKind, predicate func(Session) bool) []Session
}

// Session is one open task or notification stream.
// It lives in the registry as long as its connection is open.
type Session struct {
	ID         domain.SessionID
	OwnerID    string
	Kind       domain.SessionKind
	Filter     *domain.TaskFilter
	Connection Connection
}

type IRoomRegistry interface {
	Join(room domain.RoomName, conn Connection, identity domain.Identity)
	Leave(room domain.RoomName, conn Connection) bool
	Broadcast(room domain.RoomName, msg domain.ChatMessage, exclude Connection) int
	RoomOf(conn Connection) (domain.RoomName, bool)
}

type IDispatcher interface {
	DispatchTaskEvent(evt domain.TaskEvent) int
	DispatchChatMessage(room domain.RoomName, msg domain.ChatMessage, exclude Connection) int
}
