package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatui/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE:  runConfig,
}

var configInit bool

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write a commented default config file if none exists")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if configInit {
		path := configFlag
		if path == "" {
			path = config.GetConfigFilePath()
		}
		created, err := config.CreateDefaultConfig(path)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(out, "Created %s\n", path)
		} else {
			fmt.Fprintf(out, "%s already exists, left unchanged\n", path)
		}
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return config.WriteEffective(out, cfg)
}
