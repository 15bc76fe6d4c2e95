package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send one message and print the reply",
	RunE:  runSend,
}

var sendMessage string

func init() {
	sendCmd.Flags().StringVarP(&sendMessage, "message", "m", "", "Message text (required)")
	_ = sendCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, _ []string) error {
	if strings.TrimSpace(sendMessage) == "" {
		return fmt.Errorf("--message must not be empty")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	reply, err := client.Send(ctx, sendMessage)
	if err != nil {
		return fmt.Errorf("send interrupted: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}
