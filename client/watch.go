package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"task-lab/api/taskv1"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newWatchCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow live task changes (Ctrl+C to quit)",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return requireToken(app)
		},
	}
	cmd.AddCommand(newWatchTasksCmd(app), newWatchNotificationsCmd(app))
	return cmd
}

func newWatchTasksCmd(app *app) *cobra.Command {
	var completed, pending bool
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Replay your tasks, then print every change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.taskClient()
			if err != nil {
				return err
			}
			filter, err := completionFilter(completed, pending)
			if err != nil {
				return err
			}
			stream, err := client.StreamTasks(cmd.Context(), &taskv1.StreamTasksRequest{Completed: filter})
			if err != nil {
				return fmt.Errorf("failed to open stream: %w", err)
			}
			return receiveAll(cmd.Context(), stream.Recv, func(task *taskv1.Task) {
				state := app.paint(color.New(color.FgYellow), "todo")
				if task.Completed {
					state = app.paint(color.New(color.FgGreen), "done")
				}
				_, _ = fmt.Fprintf(app.out, "%s %s %s %q\n",
					task.UpdatedAt.Local().Format(time.TimeOnly), state, task.Id, task.Title)
			})
		},
	}
	cmd.Flags().BoolVar(&completed, "completed", false, "only completed tasks")
	cmd.Flags().BoolVar(&pending, "pending", false, "only pending tasks")
	return cmd
}

func newWatchNotificationsCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "notifications",
		Short: "Print a notification for every create, update, completion and deletion",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.taskClient()
			if err != nil {
				return err
			}
			stream, err := client.StreamNotifications(cmd.Context(), &taskv1.StreamNotificationsRequest{})
			if err != nil {
				return fmt.Errorf("failed to open stream: %w", err)
			}
			return receiveAll(cmd.Context(), stream.Recv, app.renderNotification)
		},
	}
}

// receiveAll drains a server stream until it ends. A local cancellation
// (Ctrl+C) is a normal exit.
func receiveAll[T any](ctx context.Context, recv func() (*T, error), handle func(*T)) error {
	for {
		msg, err := recv()
		switch {
		case err == nil:
			handle(msg)
		case stderrors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil || status.Code(err) == codes.Canceled:
			return nil
		default:
			return fmt.Errorf("stream ended: %w", err)
		}
	}
}
