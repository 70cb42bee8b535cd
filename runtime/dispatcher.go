package runtime

import (
	"log/slog"
	"task-lab/contract"
	"task-lab/domain"
	"time"
)

// Dispatcher connects committed mutations to live subscribers.
// It holds no state of its own and reads the registries at dispatch time.
// A failed write never aborts a dispatch: the failing session is unregistered
// and the others still receive the event.
type Dispatcher struct {
	sessions contract.ISessionRegistry
	rooms    contract.IRoomRegistry
	log      *slog.Logger
	now      func() time.Time
}

func NewDispatcher(log *slog.Logger, sessions contract.ISessionRegistry, rooms contract.IRoomRegistry) *Dispatcher {
	return &Dispatcher{
		sessions: sessions,
		rooms:    rooms,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// DispatchTaskEvent pushes the event to the owner's task and notification streams.
// It returns the number of successful deliveries.
func (d *Dispatcher) DispatchTaskEvent(evt domain.TaskEvent) int {
	delivered := 0

	if forwardToTaskStreams(evt.Action) {
		targets := d.sessions.Matching(evt.OwnerID, domain.TaskStream, func(s contract.Session) bool {
			return s.Filter.Match(evt.Task)
		})
		delivered += d.deliver(targets, evt.Task)
	}

	targets := d.sessions.Matching(evt.OwnerID, domain.NotificationStream, nil)
	if len(targets) > 0 {
		delivered += d.deliver(targets, domain.NewNotification(evt, d.now()))
	}

	d.log.Debug("Task event dispatched",
		"action", evt.Action,
		"task_id", evt.Task.ID,
		"owner_id", evt.OwnerID,
		"delivered", delivered)
	return delivered
}

// forwardToTaskStreams reports whether the action has a "current state" view.
// A deletion has none, so it only reaches notification streams.
func forwardToTaskStreams(action domain.TaskAction) bool {
	switch action {
	case domain.TaskCreated, domain.TaskUpdated, domain.TaskCompleted:
		return true
	case domain.TaskDeleted:
		return false
	default:
		return false
	}
}

func (d *Dispatcher) deliver(targets []contract.Session, payload domain.Outbound) int {
	delivered := 0
	for _, target := range targets {
		if err := target.Connection.Send(payload); err != nil {
			d.log.Debug("Dropping session after failed write",
				"session_id", target.ID,
				"owner_id", target.OwnerID,
				"error", err)
			d.sessions.Unregister(target.ID)
			continue
		}
		delivered++
	}
	return delivered
}

// DispatchChatMessage broadcasts to the room, skipping exclude.
func (d *Dispatcher) DispatchChatMessage(room domain.RoomName, msg domain.ChatMessage, exclude contract.Connection) int {
	return d.rooms.Broadcast(room, msg, exclude)
}
