package runtime

import (
	"log/slog"
	"sync"
	"task-lab/contract"
	"task-lab/domain"

	"github.com/google/uuid"
)

// SessionRegistry tracks open task and notification streams.
// Sessions are indexed by owner so that dispatch only scans the owner's streams.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]contract.Session
	byOwner  map[string]map[domain.SessionID]struct{}
	log      *slog.Logger
}

func NewSessionRegistry(log *slog.Logger) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[domain.SessionID]contract.Session),
		byOwner:  make(map[string]map[domain.SessionID]struct{}),
		log:      log,
	}
}

// Register inserts a new session under a fresh random 128-bit id.
func (r *SessionRegistry) Register(ownerID string, kind domain.SessionKind,
	filter *domain.TaskFilter, conn contract.Connection) domain.SessionID {
	id := domain.SessionID(uuid.NewString())

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[id] = contract.Session{
		ID:         id,
		OwnerID:    ownerID,
		Kind:       kind,
		Filter:     filter,
		Connection: conn,
	}
	if _, ok := r.byOwner[ownerID]; !ok {
		r.byOwner[ownerID] = make(map[domain.SessionID]struct{})
	}
	r.byOwner[ownerID][id] = struct{}{}

	r.log.Debug("Session registered", "session_id", id, "owner_id", ownerID, "kind", kind)
	return id
}

// Unregister removes the session. Unknown ids are a no-op.
func (r *SessionRegistry) Unregister(id domain.SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return false
	}
	delete(r.sessions, id)
	if ids, ok := r.byOwner[session.OwnerID]; ok {
		delete(ids, id)
		if len(ids) == 0 {
			delete(r.byOwner, session.OwnerID)
		}
	}

	r.log.Debug("Session unregistered", "session_id", id, "owner_id", session.OwnerID)
	return true
}

// Matching returns a snapshot of the owner's sessions of the given kind
// accepted by predicate. A nil predicate accepts everything.
func (r *SessionRegistry) Matching(ownerID string, kind domain.SessionKind,
	predicate func(contract.Session) bool) []contract.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byOwner[ownerID]
	matching := make([]contract.Session, 0, len(ids))
	for id := range ids {
		session := r.sessions[id]
		if session.Kind != kind {
			continue
		}
		if predicate != nil && !predicate(session) {
			continue
		}
		matching = append(matching, session)
	}
	return matching
}

func (r *SessionRegistry) Get(id domain.SessionID) (contract.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *SessionRegistry) CountByKind(kind domain.SessionKind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, session := range r.sessions {
		if session.Kind == kind {
			count++
		}
	}
	return count
}
