package server

import (
	"context"
	"task-lab/api/taskv1"
	"task-lab/auth"
	"task-lab/domain"

	"github.com/samber/lo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// requireIdentity returns the identity injected by the auth interceptors.
func requireIdentity(ctx context.Context) (domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return domain.Identity{}, status.Error(codes.Unauthenticated, "no identity in context")
	}
	return identity, nil
}

func toPbTask(task domain.Task) *taskv1.Task {
	return &taskv1.Task{
		Id:          task.ID,
		OwnerId:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func toPbTasks(tasks []domain.Task) []*taskv1.Task {
	return lo.Map(tasks, func(task domain.Task, _ int) *taskv1.Task {
		return toPbTask(task)
	})
}

func toPbNotification(n domain.Notification) *taskv1.Notification {
	return &taskv1.Notification{
		Type:      n.Type.String(),
		Task:      toPbTask(n.Task),
		Message:   n.Message,
		Timestamp: n.Timestamp,
	}
}

func toPbChatMessage(msg domain.ChatMessage) *taskv1.ChatMessage {
	return &taskv1.ChatMessage{
		Room:       string(msg.Room),
		Text:       msg.Text,
		SenderId:   msg.SenderID,
		SenderName: msg.SenderName,
		Timestamp:  msg.Timestamp,
		Type:       msg.Type.String(),
		Language:   msg.Language,
	}
}
