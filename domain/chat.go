package domain

import (
	"fmt"
	"time"
)

// RoomName is a case-sensitive chat channel key. First write creates the room.
type RoomName string

type MessageType int

const (
	MessageText MessageType = iota + 1
	MessageJoin
	MessageLeave
	MessageSystem
)

func (t MessageType) String() string {
	switch t {
	case MessageText:
		return "TEXT"
	case MessageJoin:
		return "JOIN"
	case MessageLeave:
		return "LEAVE"
	case MessageSystem:
		return "SYSTEM"
	default:
		return fmt.Sprintf("MessageType(%d)", int(t))
	}
}

// ChatMessage is broadcast to room members. Never persisted nor replayed.
type ChatMessage struct {
	Room       RoomName
	Text       string
	SenderID   string
	SenderName string
	Timestamp  time.Time
	Type       MessageType
	Language   string
}

func (ChatMessage) outbound() {}

// SystemSender is the sender of join, leave and welcome messages.
const SystemSender = "system"

func JoinMessage(room RoomName, who Identity, at time.Time) ChatMessage {
	return ChatMessage{
		Room:       room,
		Text:       fmt.Sprintf("%s joined the room", who.DisplayName()),
		SenderID:   SystemSender,
		SenderName: SystemSender,
		Timestamp:  at,
		Type:       MessageJoin,
	}
}

func LeaveMessage(room RoomName, who Identity, at time.Time) ChatMessage {
	return ChatMessage{
		Room:       room,
		Text:       fmt.Sprintf("%s left the room", who.DisplayName()),
		SenderID:   SystemSender,
		SenderName: SystemSender,
		Timestamp:  at,
		Type:       MessageLeave,
	}
}

func SystemMessage(room RoomName, text string, at time.Time) ChatMessage {
	return ChatMessage{
		Room:       room,
		Text:       text,
		SenderID:   SystemSender,
		SenderName: SystemSender,
		Timestamp:  at,
		Type:       MessageSystem,
	}
}
