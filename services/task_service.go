package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"task-lab/contract"
	"task-lab/domain"
	"task-lab/errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type ITaskService interface {
	CreateTask(cmd CreateTaskCommand) (domain.Task, error)
	GetTask(ownerID, taskID string) (domain.Task, error)
	UpdateTask(cmd UpdateTaskCommand) (domain.Task, error)
	CompleteTask(ownerID, taskID string) (domain.Task, error)
	DeleteTask(ownerID, taskID string) (domain.Task, error)
	ListTasks(cmd ListTasksCommand) (domain.TaskList, error)
	SearchTasks(ctx context.Context, cmd SearchTasksCommand) ([]domain.Task, error)
	OpenTaskStream(ownerID string, filter *domain.TaskFilter, conn contract.Connection) (domain.SessionID, []domain.Task, error)
	OpenNotificationStream(ownerID string, conn contract.Connection) domain.SessionID
	CloseStream(id domain.SessionID)
	Replay(ctx context.Context, tasks []domain.Task, write func(domain.Outbound) error) error
}

type PageConfig struct {
	DefaultSize int
	MaxSize     int
}

// TaskService runs task mutations and opens the live streams.
// Mutations of one owner are serialized: the store commit and the dispatch of
// the resulting event happen under the same lock, so subscribers observe events
// in commit order.
type TaskService struct {
	repository  contract.ITaskRepository
	index       contract.ITaskIndex
	sessions    contract.ISessionRegistry
	dispatcher  contract.IDispatcher
	log         *slog.Logger
	pages       PageConfig
	replayDelay time.Duration
	now         func() time.Time
	locks       sync.Map
}

func NewTaskService(
	repository contract.ITaskRepository,
	index contract.ITaskIndex,
	sessions contract.ISessionRegistry,
	dispatcher contract.IDispatcher,
	log *slog.Logger,
	pages PageConfig,
	replayDelay time.Duration,
) *TaskService {
	return &TaskService{
		repository:  repository,
		index:       index,
		sessions:    sessions,
		dispatcher:  dispatcher,
		log:         log,
		pages:       pages,
		replayDelay: replayDelay,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *TaskService) lockOwner(ownerID string) func() {
	mu, _ := s.locks.LoadOrStore(ownerID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func (s *TaskService) CreateTask(cmd CreateTaskCommand) (domain.Task, error) {
	cmd.Title = strings.TrimSpace(cmd.Title)
	if err := validateCommand(cmd); err != nil {
		return domain.Task{}, err
	}
	now := s.now()
	task := domain.Task{
		ID:          uuid.NewString(),
		OwnerID:     cmd.OwnerID,
		Title:       cmd.Title,
		Description: cmd.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	unlock := s.lockOwner(cmd.OwnerID)
	defer unlock()
	if err := s.repository.Create(task); err != nil {
		return domain.Task{}, err
	}
	s.indexTask(task)
	s.dispatcher.DispatchTaskEvent(domain.TaskEvent{Action: domain.TaskCreated, Task: task, OwnerID: task.OwnerID})
	return task, nil
}

func (s *TaskService) GetTask(ownerID, taskID string) (domain.Task, error) {
	if taskID == "" {
		return domain.Task{}, fmt.Errorf("%w: task id is required", errors.ErrInvalidArgument)
	}
	return s.repository.Get(ownerID, taskID)
}

func (s *TaskService) UpdateTask(cmd UpdateTaskCommand) (domain.Task, error) {
	if cmd.Title != nil {
		cmd.Title = lo.ToPtr(strings.TrimSpace(*cmd.Title))
	}
	if err := validateCommand(cmd); err != nil {
		return domain.Task{}, err
	}
	return s.mutate(cmd.OwnerID, cmd.TaskID, cmd.Patch(), domain.TaskUpdated)
}

// CompleteTask marks the task as done and raises a completion event,
// even when the task was already completed.
func (s *TaskService) CompleteTask(ownerID, taskID string) (domain.Task, error) {
	if taskID == "" {
		return domain.Task{}, fmt.Errorf("%w: task id is required", errors.ErrInvalidArgument)
	}
	return s.mutate(ownerID, taskID, domain.TaskPatch{Completed: lo.ToPtr(true)}, domain.TaskCompleted)
}

func (s *TaskService) mutate(ownerID, taskID string, patch domain.TaskPatch, action domain.TaskAction) (domain.Task, error) {
	unlock := s.lockOwner(ownerID)
	defer unlock()
	task, err := s.repository.Update(ownerID, taskID, patch, s.now())
	if err != nil {
		return domain.Task{}, err
	}
	s.indexTask(task)
	s.dispatcher.DispatchTaskEvent(domain.TaskEvent{Action: action, Task: task, OwnerID: ownerID})
	return task, nil
}

func (s *TaskService) DeleteTask(ownerID, taskID string) (domain.Task, error) {
	if taskID == "" {
		return domain.Task{}, fmt.Errorf("%w: task id is required", errors.ErrInvalidArgument)
	}
	unlock := s.lockOwner(ownerID)
	defer unlock()
	task, err := s.repository.Delete(ownerID, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if err = s.index.Remove(taskID); err != nil {
		s.log.Warn("Unable to remove task from search index", "task_id", taskID, "error", err)
	}
	s.dispatcher.DispatchTaskEvent(domain.TaskEvent{Action: domain.TaskDeleted, Task: task, OwnerID: ownerID})
	return task, nil
}

func (s *TaskService) ListTasks(cmd ListTasksCommand) (domain.TaskList, error) {
	if err := validateCommand(cmd); err != nil {
		return domain.TaskList{}, err
	}
	query := domain.TaskQuery{
		OwnerID:   cmd.OwnerID,
		Completed: cmd.Completed,
		Page:      max(cmd.Page, 1),
		Limit:     s.pageSize(cmd.Limit),
	}
	return s.repository.List(query)
}

// SearchTasks resolves index hits against the store.
// Hits whose task vanished in the meantime are skipped.
func (s *TaskService) SearchTasks(ctx context.Context, cmd SearchTasksCommand) ([]domain.Task, error) {
	cmd.Query = strings.TrimSpace(cmd.Query)
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	ids, err := s.index.Search(ctx, cmd.OwnerID, cmd.Query, s.pageSize(cmd.Limit))
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		task, err := s.repository.Get(cmd.OwnerID, id)
		if err != nil {
			if stderrors.Is(err, errors.ErrTaskNotFound) {
				s.log.Debug("Search hit without task", "task_id", id)
				continue
			}
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// OpenTaskStream registers a task stream and returns the owner's current tasks
// matching the filter. Registration and snapshot happen under the owner lock:
// every task committed before is in the snapshot, every later change arrives live.
func (s *TaskService) OpenTaskStream(ownerID string, filter *domain.TaskFilter, conn contract.Connection) (domain.SessionID, []domain.Task, error) {
	unlock := s.lockOwner(ownerID)
	defer unlock()
	list, err := s.repository.List(domain.TaskQuery{OwnerID: ownerID, Completed: filterCompleted(filter), Page: 1})
	if err != nil {
		return "", nil, err
	}
	id := s.sessions.Register(ownerID, domain.TaskStream, filter, conn)
	s.log.Debug("Task stream opened", "session_id", id, "owner_id", ownerID, "replay", len(list.Tasks))
	return id, list.Tasks, nil
}

func (s *TaskService) OpenNotificationStream(ownerID string, conn contract.Connection) domain.SessionID {
	id := s.sessions.Register(ownerID, domain.NotificationStream, nil, conn)
	s.log.Debug("Notification stream opened", "session_id", id, "owner_id", ownerID)
	return id
}

func (s *TaskService) CloseStream(id domain.SessionID) {
	if s.sessions.Unregister(id) {
		s.log.Debug("Stream closed", "session_id", id)
	}
}

// Replay writes the snapshot of an opened task stream, pausing replayDelay
// between tasks. It runs on the stream goroutine, before the outbox is pumped.
func (s *TaskService) Replay(ctx context.Context, tasks []domain.Task, write func(domain.Outbound) error) error {
	for i, task := range tasks {
		if i > 0 && s.replayDelay > 0 {
			timer := time.NewTimer(s.replayDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
		if err := write(task); err != nil {
			return fmt.Errorf("%w: replay: %v", errors.ErrWrite, err)
		}
	}
	return nil
}

func (s *TaskService) pageSize(requested int) int {
	if requested == 0 {
		requested = s.pages.DefaultSize
	}
	return min(requested, s.pages.MaxSize)
}

func (s *TaskService) indexTask(task domain.Task) {
	if err := s.index.Index(task); err != nil {
		s.log.Warn("Unable to index task", "task_id", task.ID, "error", err)
	}
}

func filterCompleted(filter *domain.TaskFilter) *bool {
	if filter == nil {
		return nil
	}
	return filter.Completed
}
