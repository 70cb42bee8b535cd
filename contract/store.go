//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks
package contract

import (
	"context"
	"task-lab/domain"
	"time"
)

// ITaskRepository is the Task Store: the only source of truth for task data.
// Writes for one record are serialized by the store itself.
type ITaskRepository interface {
	Create(task domain.Task) error
	Get(ownerID, taskID string) (domain.Task, error)
	Update(ownerID, taskID string, patch domain.TaskPatch, at time.Time) (domain.Task, error)
	Delete(ownerID, taskID string) (domain.Task, error)
	List(query domain.TaskQuery) (domain.TaskList, error)
}

// ITaskIndex is a secondary full-text index over tasks.
type ITaskIndex interface {
	Index(task domain.Task) error
	Remove(taskID string) error
	Search(ctx context.Context, ownerID, terms string, limit int) ([]string, error)
}

type IUserRepository interface {
	CreateUser(email, hashedPassword string) (string, error)
	GetUserByEmail(email string) (domain.User, error)
}

// IIdentityVerifier maps a credential string to an identity or fails with errors.ErrUnauthenticated.
type IIdentityVerifier interface {
	Verify(credential string) (domain.Identity, error)
}
