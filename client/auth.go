package main

import (
	"fmt"

	"task-lab/api/taskv1"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

func newRegisterCmd(app *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and print its token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.authClient()
			if err != nil {
				return err
			}
			ctx, cancel := app.unaryContext(cmd.Context())
			defer cancel()
			resp, err := client.Register(ctx, &taskv1.RegisterRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			printToken(app, resp)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd(app *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and print a token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.authClient()
			if err != nil {
				return err
			}
			ctx, cancel := app.unaryContext(cmd.Context())
			defer cancel()
			resp, err := client.Login(ctx, &taskv1.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			printToken(app, resp)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func printToken(app *app, resp *taskv1.AuthResponse) {
	_, _ = fmt.Fprintf(app.out, "%s %s\n", app.paint(color.New(color.FgGreen), "user"), resp.UserId)
	_, _ = fmt.Fprintf(app.out, "export TASKLAB_TOKEN=%s\n", resp.Token)
}
