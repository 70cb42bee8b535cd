package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"task-lab/api/taskv1"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCompletionFilter(t *testing.T) {
	req := require.New(t)

	filter, err := completionFilter(false, false)
	req.NoError(err)
	req.Nil(filter)

	filter, err = completionFilter(true, false)
	req.NoError(err)
	req.True(*filter)

	filter, err = completionFilter(false, true)
	req.NoError(err)
	req.False(*filter)

	_, err = completionFilter(true, true)
	req.Error(err)
}

func TestRenderTasks(t *testing.T) {
	req := require.New(t)
	var out bytes.Buffer
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	renderTasks(&out, []*taskv1.Task{
		{Id: "t1", Title: "buy milk", CreatedAt: at, UpdatedAt: at},
		{Id: "t2", Title: "ship release", Completed: true, CreatedAt: at, UpdatedAt: at},
	})

	req.Contains(out.String(), "buy milk")
	req.Contains(out.String(), "ship release")
	req.Contains(out.String(), "t2")
}

func TestReceiveAll(t *testing.T) {
	t.Run("drains until EOF", func(t *testing.T) {
		req := require.New(t)
		queue := []*taskv1.Task{{Id: "a"}, {Id: "b"}}
		recv := func() (*taskv1.Task, error) {
			if len(queue) == 0 {
				return nil, io.EOF
			}
			next := queue[0]
			queue = queue[1:]
			return next, nil
		}
		var seen []string
		req.NoError(receiveAll(context.Background(), recv, func(task *taskv1.Task) { seen = append(seen, task.Id) }))
		req.Equal([]string{"a", "b"}, seen)
	})

	t.Run("local cancel is a clean exit", func(t *testing.T) {
		recv := func() (*taskv1.Task, error) { return nil, status.Error(codes.Canceled, "context canceled") }
		require.NoError(t, receiveAll(context.Background(), recv, func(*taskv1.Task) {}))
	})

	t.Run("server failure is reported", func(t *testing.T) {
		req := require.New(t)
		recv := func() (*taskv1.Task, error) { return nil, status.Error(codes.Unavailable, "outbox full") }
		err := receiveAll(context.Background(), recv, func(*taskv1.Task) {})
		req.Error(err)
		req.Equal(codes.Unavailable, status.Code(errors.Unwrap(err)))
	})
}

func TestRootCmd_Requires_Token(t *testing.T) {
	req := require.New(t)
	app := newApp(Config{ServerAddr: "localhost:0", Timeout: time.Second})
	app.out = io.Discard
	root := newRootCmd(app)
	root.SetArgs([]string{"tasks", "list"})

	err := root.ExecuteContext(context.Background())

	req.ErrorContains(err, "no token")
}
