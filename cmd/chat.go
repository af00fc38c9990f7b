package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Vovarama1992/sales-bot/internal/dialog"
)

func newChatCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the bot from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprint(out, "> ")
			for in.Scan() {
				text := strings.TrimSpace(in.Text())
				if text == "" {
					fmt.Fprint(out, "> ")
					continue
				}
				if text == "/quit" {
					return nil
				}

				reply, err := a.svc.HandleMessage(cmd.Context(), userID, text)
				if err != nil {
					a.log.Sugar().Errorw("turn failed", "error", err)
					reply = dialog.ApologyReply
				}
				fmt.Fprintf(out, "%s\n> ", reply)
			}
			return in.Err()
		},
	}
	cmd.Flags().StringVar(&userID, "user", "local", "user id for the session")
	return cmd
}
