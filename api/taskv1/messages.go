// Package taskv1 holds the wire messages and service descriptors of the
// task-lab gRPC API. Messages travel with the JSON codec registered in codec.go.
package taskv1

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token  string `json:"token"`
	UserId string `json:"user_id"`
}

type Task struct {
	Id          string    `json:"id"`
	OwnerId     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type GetTaskRequest struct {
	Id string `json:"id"`
}

// UpdateTaskRequest is a partial update: absent fields are left untouched.
type UpdateTaskRequest struct {
	Id          string  `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

type CompleteTaskRequest struct {
	Id string `json:"id"`
}

type DeleteTaskRequest struct {
	Id string `json:"id"`
}

type DeleteTaskResponse struct {
	Success bool `json:"success"`
}

type ListTasksRequest struct {
	Page      int   `json:"page,omitempty"`
	Limit     int   `json:"limit,omitempty"`
	Completed *bool `json:"completed,omitempty"`
}

type ListTasksResponse struct {
	Tasks []*Task `json:"tasks"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

type SearchTasksRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type SearchTasksResponse struct {
	Tasks []*Task `json:"tasks"`
}

type StreamTasksRequest struct {
	Completed *bool `json:"completed,omitempty"`
}

type StreamNotificationsRequest struct{}

type Notification struct {
	Type      string    `json:"type"`
	Task      *Task     `json:"task"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatMessage flows both ways on the chat stream.
// Inbound messages use Room, Text and optionally Token; the server fills the rest.
type ChatMessage struct {
	Room       string    `json:"room,omitempty"`
	Text       string    `json:"text,omitempty"`
	Token      string    `json:"token,omitempty"`
	SenderId   string    `json:"sender_id,omitempty"`
	SenderName string    `json:"sender_name,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
	Type       string    `json:"type,omitempty"`
	Language   string    `json:"language,omitempty"`
}
