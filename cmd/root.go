// Package cmd is the command line interface: the root command runs the
// terminal host, the subcommands manage the stored shortcuts without it.
package cmd

import (
	"context"
	"fmt"
	"os"

	"more-shortcuts/app"
	"more-shortcuts/config"
	"more-shortcuts/keys"
	"more-shortcuts/log"
	"more-shortcuts/shortcut"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X more-shortcuts/cmd.Version=...".
var Version = "0.3.0"

// NewRootCmd builds the command tree. Each call returns fresh commands and
// flags, so tests can run several in one process.
func NewRootCmd() *cobra.Command {
	var disableCapture bool

	rootCmd := &cobra.Command{
		Use:   "more-shortcuts",
		Short: "More Shortcuts - bind any key to any button",
		Long: "More Shortcuts lets you bind a key chord to any button of the scene.\n" +
			"Run without arguments to open the host; use the subcommands to manage stored shortcuts.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			log.Initialize(cfg.Log)
			defer log.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return app.Run(ctx, app.Options{DisableCapture: disableCapture})
		},
	}
	rootCmd.Flags().BoolVar(&disableCapture, "disable-capture", false,
		"[experimental] Turn off the highlight affordance so no shortcut can be added from the scene")

	rootCmd.AddCommand(
		newListCmd(),
		newExportCmd(),
		newImportCmd(),
		newBindCmd(),
		newResetCmd(),
		newDebugCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command line.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withRegistry loads the stored shortcuts, runs fn and releases the state
// file. Logs go to the log file so they never mix with command output.
func withRegistry(fn func(reg *shortcut.Registry) error) error {
	cfg := config.LoadConfig()
	log.Initialize(cfg.Log)
	defer log.Close()
	keys.SetHighlightKey(cfg.HighlightKey)

	state := config.LoadState()
	defer func() {
		if err := state.Close(); err != nil {
			log.WarningLog.Printf("failed to close state: %v", err)
		}
	}()

	reg := shortcut.NewRegistry(state)
	reg.Load()
	return fn(reg)
}
