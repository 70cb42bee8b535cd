package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd(app *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tasklab",
		Short:         "task-lab client: tasks, live streams and chat rooms",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.config.ServerAddr, "addr", app.config.ServerAddr, "server address (TASKLAB_ADDR)")
	flags.StringVar(&app.config.Token, "token", app.config.Token, "bearer token (TASKLAB_TOKEN)")
	flags.BoolVar(&app.config.Colours, "colours", app.config.Colours, "coloured output (TASKLAB_COLOURS)")

	rootCmd.AddCommand(
		newRegisterCmd(app),
		newLoginCmd(app),
		newTasksCmd(app),
		newWatchCmd(app),
		newChatCmd(app),
	)
	return rootCmd
}

func requireToken(app *app) error {
	if app.config.Token == "" {
		return fmt.Errorf("no token: run login and export TASKLAB_TOKEN, or pass --token")
	}
	return nil
}
