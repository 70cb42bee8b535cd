package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"task-lab/domain"
	"task-lab/errors"

	"github.com/blugelabs/bluge"
)

const (
	defaultSearchLimit = 10

	fieldOwner       = "owner"
	fieldTitle       = "title"
	fieldDescription = "description"
)

// TaskIndex keeps a Bluge full-text index of task titles and descriptions.
// The Badger store stays the source of truth; the index only returns ids.
type TaskIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewTaskIndex(writer *bluge.Writer, log *slog.Logger) *TaskIndex {
	return &TaskIndex{writer: writer, log: log}
}

// Index inserts or replaces the document of the task.
func (i *TaskIndex) Index(task domain.Task) error {
	doc := bluge.NewDocument(task.ID).
		AddField(bluge.NewKeywordField(fieldOwner, task.OwnerID)).
		AddField(bluge.NewTextField(fieldTitle, task.Title)).
		AddField(bluge.NewTextField(fieldDescription, task.Description))
	if err := i.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("%w: index task %s: %v", errors.ErrStore, task.ID, err)
	}
	return nil
}

func (i *TaskIndex) Remove(taskID string) error {
	if err := i.writer.Delete(bluge.Identifier(taskID)); err != nil {
		return fmt.Errorf("%w: unindex task %s: %v", errors.ErrStore, taskID, err)
	}
	return nil
}

// Search returns the ids of the owner's tasks whose title or description
// match the terms, best score first.
func (i *TaskIndex) Search(ctx context.Context, ownerID, terms string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	text := bluge.NewBooleanQuery().
		AddShould(bluge.NewMatchQuery(terms).SetField(fieldTitle)).
		AddShould(bluge.NewMatchQuery(terms).SetField(fieldDescription)).
		SetMinShould(1)
	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(ownerID).SetField(fieldOwner)).
		AddMust(text)

	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("%w: open index reader: %v", errors.ErrStore, err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Warn("Unable to close index reader", "error", err)
		}
	}()

	matches, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, fmt.Errorf("%w: search tasks: %v", errors.ErrStore, err)
	}

	ids := make([]string, 0, limit)
	match, err := matches.Next()
	for err == nil && match != nil {
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, string(value))
				return false
			}
			return true
		})
		if err != nil {
			break
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read search results: %v", errors.ErrStore, err)
	}
	return ids, nil
}
