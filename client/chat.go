package main

import (
	"bufio"
	"fmt"
	"os"

	"task-lab/api/taskv1"

	"github.com/spf13/cobra"
)

func newChatCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat ROOM",
		Short: "Join a room and chat: each stdin line is a message",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(*cobra.Command, []string) error {
			return requireToken(app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.chatClient()
			if err != nil {
				return err
			}
			stream, err := client.Chat(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to open chat: %w", err)
			}
			if err := stream.Send(&taskv1.ChatMessage{Room: args[0]}); err != nil {
				return fmt.Errorf("failed to join %s: %w", args[0], err)
			}

			go func() {
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					if err := stream.Send(&taskv1.ChatMessage{Text: scanner.Text()}); err != nil {
						return
					}
				}
				_ = stream.CloseSend()
			}()

			return receiveAll(cmd.Context(), stream.Recv, app.renderChat)
		},
	}
}
