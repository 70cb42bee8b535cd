package runtime

import (
	"log/slog"
	"sort"
	"sync"
	"task-lab/contract"
	"task-lab/domain"
)

type member struct {
	conn     contract.Connection
	identity domain.Identity
}

// RoomRegistry tracks chat participants per room.
// A room exists only while it has at least one member.
type RoomRegistry struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomName]map[string]member // room -> connection id -> member
	joined map[string]domain.RoomName            // connection id -> room
	log    *slog.Logger
}

func NewRoomRegistry(log *slog.Logger) *RoomRegistry {
	return &RoomRegistry{
		rooms:  make(map[domain.RoomName]map[string]member),
		joined: make(map[string]domain.RoomName),
		log:    log,
	}
}

// Join adds the connection to the room, creating the room on the fly.
// Whether a connection may join a second room is the caller's decision.
func (r *RoomRegistry) Join(room domain.RoomName, conn contract.Connection, identity domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[string]member)
		r.rooms[room] = members
	}
	members[conn.ID()] = member{conn: conn, identity: identity}
	r.joined[conn.ID()] = room
}

// Leave removes the connection from the room and drops the room once empty.
// It reports whether a membership was actually removed, so it is safe to call
// from racing cleanup paths.
func (r *RoomRegistry) Leave(room domain.RoomName, conn contract.Connection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(room, conn.ID())
}

func (r *RoomRegistry) leaveLocked(room domain.RoomName, connID string) bool {
	members, ok := r.rooms[room]
	if !ok {
		return false
	}
	if _, ok = members[connID]; !ok {
		return false
	}
	delete(members, connID)
	if r.joined[connID] == room {
		delete(r.joined, connID)
	}

	// If no one is left in the room, remove the room entry entirely
	if len(members) == 0 {
		delete(r.rooms, room)
	}
	return true
}

// Broadcast pushes the message to every member but exclude.
// Members are snapshotted under the read lock and written to outside of it.
// A member whose write fails is removed from the room without notifying the others.
func (r *RoomRegistry) Broadcast(room domain.RoomName, msg domain.ChatMessage, exclude contract.Connection) int {
	r.mu.RLock()
	targets := make([]contract.Connection, 0, len(r.rooms[room]))
	for id, m := range r.rooms[room] {
		if exclude != nil && id == exclude.ID() {
			continue
		}
		targets = append(targets, m.conn)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, conn := range targets {
		if err := conn.Send(msg); err != nil {
			r.log.Debug("Dropping room member after failed write",
				"room", room,
				"connection_id", conn.ID(),
				"error", err)
			r.mu.Lock()
			r.leaveLocked(room, conn.ID())
			r.mu.Unlock()
			continue
		}
		delivered++
	}
	return delivered
}

// RoomOf returns the room the connection is bound to, if any.
func (r *RoomRegistry) RoomOf(conn contract.Connection) (domain.RoomName, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.joined[conn.ID()]
	return room, ok
}

// Members returns the identities currently in the room.
func (r *RoomRegistry) Members(room domain.RoomName) []domain.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members, ok := r.rooms[room]
	if !ok {
		return nil
	}
	identities := make([]domain.Identity, 0, len(members))
	for _, m := range members {
		identities = append(identities, m.identity)
	}
	return identities
}

// Rooms lists the active rooms in lexical order.
func (r *RoomRegistry) Rooms() []domain.RoomName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms := make([]domain.RoomName, 0, len(r.rooms))
	for room := range r.rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i] < rooms[j] })
	return rooms
}

// Count returns the number of rooms and the number of members across them.
func (r *RoomRegistry) Count() (rooms, members int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms), len(r.joined)
}
