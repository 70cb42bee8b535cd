package main

import (
	"fmt"

	"task-lab/api/taskv1"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage your tasks",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return requireToken(app)
		},
	}
	cmd.AddCommand(
		newTasksCreateCmd(app),
		newTasksListCmd(app),
		newTasksGetCmd(app),
		newTasksUpdateCmd(app),
		newTasksCompleteCmd(app),
		newTasksDeleteCmd(app),
		newTasksSearchCmd(app),
	)
	return cmd
}

func newTasksCreateCmd(app *app) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create TITLE",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.taskClient()
			if err != nil {
				return err
			}
			ctx, cancel := app.unaryContext(cmd.Context())
			defer cancel()
			task, err := client.CreateTask(ctx, &taskv1.CreateTaskRequest{Title: args[0], Description: description})
			if err != nil {
				return err
			}
			renderTasks(app.out, []*taskv1.Task{task})
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	return cmd
}

func newTasksListCmd(app *app) *cobra.Command {
	var (
		page, limit        int
		completed, pending bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.taskClient()
			if err != nil {
				return err
			}
			filter, err := completionFilter(completed, pending)
			if err != nil {
				return err
			}
			ctx, cancel := app.unaryContext(cmd.Context())
			defer cancel()
			resp, err := client.ListTasks(ctx, &taskv1.ListTasksRequest{Page: page, Limit: limit, Completed: filter})
			if err != nil {
				return err
			}
			renderTasks(app.out, resp.Tasks)
			_, _ = fmt.Fprintf(app.out, "page %d, %d per page, %d total\n", resp.Page, resp.Limit, resp.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number, from 1")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size, server default when 0")
	cmd.Flags().BoolVar(&completed, "completed", false, "only completed tasks")
	cmd.Flags().BoolVar(&pending, "pending", false, "only pending tasks")
	return cmd
}

func newTasksGetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.taskClient()
			if err != nil {
				return err
			}
			ctx, cancel := app.unaryContext(cmd.Context())
			defer cancel()
			task, err := client.GetTask(ctx, &taskv1.GetTaskRequest{Id: args[0]})
			if err != nil {
				return err
			}
			renderTasks(app.out, []*taskv1.Task{task})
			return nil
		},
	}
}

func newTasksUpdateCmd(app *app) *cobra.Command {
	var (
		title, description string
		completed          bool
	)
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the fields given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := &taskv1.UpdateTaskRequest{Id: args[0]}
			if cmd.Flags().Changed("title") {
				in.Title = &title
			}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			if cmd.Flags().Changed("completed") {
				in.Completed = &completed
			}
			client, err := app.taskClient()
			if err != nil {
				return err
			}
			ctx, cancel := app.unaryContext(cmd.Context())
			defer cancel()
			task, err := client.UpdateTask(ctx, in)
			if err != nil {
				return err
			}
			renderTasks(app.out, []*taskv1.Task{task})
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().BoolVar(&completed, "completed", false, "completion flag")
	return cmd
}

func newTasksCompleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.taskClient()
			if err != nil {
				return err
			}
			ctx, cancel := app.unaryContext(cmd.Context())
			defer cancel()
			task, err := client.CompleteTask(ctx, &taskv1.CompleteTaskRequest{Id: args[0]})
			if err != nil {
				return err
			}
			renderTasks(app.out, []*taskv1.Task{task})
			return nil
		},
	}
}

func newTasksDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.taskClient()
			if err != nil {
				return err
			}
			ctx, cancel := app.unaryContext(cmd.Context())
			defer cancel()
			if _, err := client.DeleteTask(ctx, &taskv1.DeleteTaskRequest{Id: args[0]}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(app.out, "deleted %s\n", args[0])
			return nil
		},
	}
}

func newTasksSearchCmd(app *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Full-text search over titles and descriptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.taskClient()
			if err != nil {
				return err
			}
			ctx, cancel := app.unaryContext(cmd.Context())
			defer cancel()
			resp, err := client.SearchTasks(ctx, &taskv1.SearchTasksRequest{Query: args[0], Limit: limit})
			if err != nil {
				return err
			}
			renderTasks(app.out, resp.Tasks)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum hits, server default when 0")
	return cmd
}

// completionFilter turns the --completed/--pending pair into an optional filter.
func completionFilter(completed, pending bool) (*bool, error) {
	switch {
	case completed && pending:
		return nil, fmt.Errorf("--completed and --pending are exclusive")
	case completed:
		v := true
		return &v, nil
	case pending:
		v := false
		return &v, nil
	default:
		return nil, nil
	}
}
