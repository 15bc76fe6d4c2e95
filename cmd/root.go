package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"chatui/chatclient"
	"chatui/config"
	"chatui/ui"
)

const Version = "v0.01.00"

var (
	hostFlag   string
	configFlag string
)

var rootCmd = &cobra.Command{
	Use:           "chatui",
	Short:         "Terminal chat client for a remote chatbot",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "Backend base URL (overrides config and CHATUI_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default ~/.config/chatui/config.toml)")
}

// Execute runs the root command and exits non-zero on error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective config for every subcommand
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyHost(hostFlag); err != nil {
		return nil, fmt.Errorf("invalid --host: %w", err)
	}
	return cfg, nil
}

func newClient(cfg *config.Config) (*chatclient.Client, error) {
	client, err := chatclient.New(cfg.BaseURL, chatclient.WithTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func runChat(_ *cobra.Command, _ []string) error {
	config.InitDebugLog(config.GetCacheDir())

	cfg, err := loadConfig()
	if err != nil {
		// The alt screen is not up yet; show the problem the way the app would
		errorModal := ui.NewErrorModal("Configuration Error", err.Error())
		p := tea.NewProgram(errorModal, tea.WithAltScreen())
		if _, runErr := p.Run(); runErr != nil {
			return runErr
		}
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	config.Log.Info().
		Str("base_url", client.BaseURL()).
		Dur("timeout", cfg.Timeout).
		Msg("starting chat view")

	view := ui.NewChatView(cfg, client)
	defer view.Abort()

	p := tea.NewProgram(
		view,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
