package repositories

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T) *TaskIndex {
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewTaskIndex(writer, slog.Default())
}

func TestTaskIndex_Search_Title_And_Description(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index := openTestIndex(t)
	now := time.Now().UTC()

	// Given three tasks of alice
	report := newTask("alice", "Quarterly report", false, now)
	groceries := newTask("alice", "Groceries", false, now)
	groceries.Description = "buy milk for the report meeting"
	gym := newTask("alice", "Gym", false, now)
	req.NoError(index.Index(report))
	req.NoError(index.Index(groceries))
	req.NoError(index.Index(gym))

	// When searching a word present in a title and a description
	ids, err := index.Search(ctx, "alice", "REPORT", 10)

	// Then both tasks match, case-insensitively
	req.NoError(err)
	req.ElementsMatch([]string{report.ID, groceries.ID}, ids)
}

func TestTaskIndex_Search_Is_Scoped_To_Owner(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	now := time.Now().UTC()
	mine := newTask("alice", "deploy release", false, now)
	theirs := newTask("bob", "deploy release", false, now)
	req.NoError(index.Index(mine))
	req.NoError(index.Index(theirs))

	ids, err := index.Search(context.Background(), "bob", "deploy", 10)

	req.NoError(err)
	req.Equal([]string{theirs.ID}, ids)
}

func TestTaskIndex_Update_And_Remove(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index := openTestIndex(t)
	task := newTask("alice", "paint fence", false, time.Now().UTC())
	req.NoError(index.Index(task))

	// When the title changes, the old words no longer match
	task.Title = "fix roof"
	req.NoError(index.Index(task))

	ids, err := index.Search(ctx, "alice", "fence", 10)
	req.NoError(err)
	req.Empty(ids)
	ids, err = index.Search(ctx, "alice", "roof", 10)
	req.NoError(err)
	req.Equal([]string{task.ID}, ids)

	// When removed, nothing matches anymore
	req.NoError(index.Remove(task.ID))
	ids, err = index.Search(ctx, "alice", "roof", 10)
	req.NoError(err)
	req.Empty(ids)
}

func TestTaskIndex_Search_Limit(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		req.NoError(index.Index(newTask("alice", "standup notes", false, now)))
	}

	ids, err := index.Search(context.Background(), "alice", "standup", 3)

	req.NoError(err)
	req.Len(ids, 3)
}
