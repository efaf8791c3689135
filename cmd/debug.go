package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"more-shortcuts/config"
	"more-shortcuts/log"

	"github.com/spf13/cobra"
)

func newDebugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Print debug info like config paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()

			configDir, err := config.GetConfigDir()
			if err != nil {
				return fmt.Errorf("failed to get config directory: %w", err)
			}
			configJson, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			logPath, err := log.GetLogFilePath(cfg.Log)
			if err != nil {
				logPath = log.FilePath()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config: %s\n%s\n", filepath.Join(configDir, config.ConfigFileName), configJson)
			fmt.Fprintf(out, "State: %s\n", filepath.Join(configDir, config.StateFileName))
			fmt.Fprintf(out, "Logs: %s\n", logPath)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of more-shortcuts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "more-shortcuts version %s\n", Version)
		},
	}
}
