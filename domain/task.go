// Package domain contains core concepts of the task system.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"fmt"
	"time"
)

// Task is the authoritative record owned by the Task Store.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Task) outbound() {}

// TaskFilter narrows which task events a task stream receives.
// A nil Completed matches any task.
type TaskFilter struct {
	Completed *bool
}

// Match reports whether the task passes the filter.
func (f *TaskFilter) Match(task Task) bool {
	if f == nil || f.Completed == nil {
		return true
	}
	return *f.Completed == task.Completed
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Apply returns a copy of the task with the patch applied.
func (p TaskPatch) Apply(task Task) Task {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Completed != nil {
		task.Completed = *p.Completed
	}
	return task
}

// TaskQuery describes a page of an owner's tasks.
type TaskQuery struct {
	OwnerID   string
	Completed *bool
	Page      int
	Limit     int
}

// Offset is the number of matching tasks to skip for the requested page.
func (q TaskQuery) Offset() int {
	if q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

type TaskList struct {
	Tasks []Task
	Total int
	Page  int
	Limit int
}

// TaskAction is the closed set of task mutations that raise events.
type TaskAction int

const (
	TaskCreated TaskAction = iota + 1
	TaskUpdated
	TaskDeleted
	TaskCompleted
)

func (a TaskAction) String() string {
	switch a {
	case TaskCreated:
		return "TASK_CREATED"
	case TaskUpdated:
		return "TASK_UPDATED"
	case TaskDeleted:
		return "TASK_DELETED"
	case TaskCompleted:
		return "TASK_COMPLETED"
	default:
		return fmt.Sprintf("TaskAction(%d)", int(a))
	}
}

// TaskEvent is produced by a committed mutation and consumed immediately by the dispatcher.
type TaskEvent struct {
	Action  TaskAction
	Task    Task
	OwnerID string
}

// Notification is the envelope pushed to notification streams.
type Notification struct {
	Type      TaskAction
	Task      Task
	Message   string
	Timestamp time.Time
}

func (Notification) outbound() {}

// NewNotification builds the envelope and its human-readable summary.
func NewNotification(evt TaskEvent, at time.Time) Notification {
	return Notification{
		Type:      evt.Action,
		Task:      evt.Task,
		Message:   Summary(evt),
		Timestamp: at,
	}
}

// Summary describes the event in one sentence.
func Summary(evt TaskEvent) string {
	switch evt.Action {
	case TaskCreated:
		return fmt.Sprintf("Task %q has been created", evt.Task.Title)
	case TaskUpdated:
		return fmt.Sprintf("Task %q has been updated", evt.Task.Title)
	case TaskDeleted:
		return fmt.Sprintf("Task %q has been deleted", evt.Task.Title)
	case TaskCompleted:
		return fmt.Sprintf("Task %q has been completed", evt.Task.Title)
	default:
		return fmt.Sprintf("Task %q changed", evt.Task.Title)
	}
}
