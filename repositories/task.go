package repositories

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"task-lab/domain"
	"task-lab/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	taskPrefix    = "task:"
	createdPrefix = "idx:created:"
)

// TaskRepository persists tasks in BadgerDB.
// Each task lives under "task:{owner}:{id}" and is listed through a secondary key
// "idx:created:{owner}:{created_unix_nano_padded}:{id}" so that prefix scans return
// an owner's tasks in creation order.
type TaskRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewTaskRepository(db *badger.DB, log *slog.Logger) *TaskRepository {
	return &TaskRepository{db: db, log: log}
}

func taskKey(ownerID, taskID string) []byte {
	return []byte(taskPrefix + ownerID + ":" + taskID)
}

func createdKey(task domain.Task) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d:%s", createdPrefix, task.OwnerID, task.CreatedAt.UnixNano(), task.ID))
}

func (r *TaskRepository) Create(task domain.Task) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(taskKey(task.OwnerID, task.ID), marshalTask(task)); err != nil {
			return err
		}
		return txn.Set(createdKey(task), nil)
	})
	if err != nil {
		return fmt.Errorf("%w: create task %s: %v", errors.ErrStore, task.ID, err)
	}
	return nil
}

func (r *TaskRepository) Get(ownerID, taskID string) (domain.Task, error) {
	var task domain.Task
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		task, err = readTask(txn, ownerID, taskID)
		return err
	})
	if err != nil {
		return domain.Task{}, storeError(err, taskID)
	}
	return task, nil
}

// Update applies the patch and bumps UpdatedAt inside one transaction.
func (r *TaskRepository) Update(ownerID, taskID string, patch domain.TaskPatch, at time.Time) (domain.Task, error) {
	var updated domain.Task
	err := r.db.Update(func(txn *badger.Txn) error {
		current, err := readTask(txn, ownerID, taskID)
		if err != nil {
			return err
		}
		updated = patch.Apply(current)
		updated.UpdatedAt = at
		return txn.Set(taskKey(ownerID, taskID), marshalTask(updated))
	})
	if err != nil {
		return domain.Task{}, storeError(err, taskID)
	}
	return updated, nil
}

// Delete removes the task and returns its last known state.
func (r *TaskRepository) Delete(ownerID, taskID string) (domain.Task, error) {
	var deleted domain.Task
	err := r.db.Update(func(txn *badger.Txn) error {
		current, err := readTask(txn, ownerID, taskID)
		if err != nil {
			return err
		}
		deleted = current
		if err = txn.Delete(taskKey(ownerID, taskID)); err != nil {
			return err
		}
		return txn.Delete(createdKey(current))
	})
	if err != nil {
		return domain.Task{}, storeError(err, taskID)
	}
	return deleted, nil
}

// List walks the creation index of the owner, applies the completion filter
// and returns the requested page along with the total of matching tasks.
func (r *TaskRepository) List(query domain.TaskQuery) (domain.TaskList, error) {
	list := domain.TaskList{Tasks: []domain.Task{}, Page: query.Page, Limit: query.Limit}
	filter := &domain.TaskFilter{Completed: query.Completed}
	offset := query.Offset()

	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(createdPrefix + query.OwnerID + ":")
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			taskID := key[strings.LastIndex(key, ":")+1:]
			task, err := readTask(txn, query.OwnerID, taskID)
			if err != nil {
				if stderrors.Is(err, badger.ErrKeyNotFound) {
					r.log.Warn("Dangling creation index entry", "key", key)
					continue
				}
				return err
			}
			if !filter.Match(task) {
				continue
			}
			if list.Total >= offset && (query.Limit <= 0 || len(list.Tasks) < query.Limit) {
				list.Tasks = append(list.Tasks, task)
			}
			list.Total++
		}
		return nil
	})
	if err != nil {
		return domain.TaskList{}, fmt.Errorf("%w: list tasks of %s: %v", errors.ErrStore, query.OwnerID, err)
	}
	return list, nil
}

func readTask(txn *badger.Txn, ownerID, taskID string) (domain.Task, error) {
	item, err := txn.Get(taskKey(ownerID, taskID))
	if err != nil {
		return domain.Task{}, err
	}
	var task domain.Task
	err = item.Value(func(val []byte) error {
		task, err = unmarshalTask(val)
		return err
	})
	return task, err
}

func storeError(err error, taskID string) error {
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", errors.ErrTaskNotFound, taskID)
	}
	return fmt.Errorf("%w: task %s: %v", errors.ErrStore, taskID, err)
}
