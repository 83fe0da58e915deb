// Package cli wires the doist commands.
package cli

import (
	"fmt"
	"os"

	"github.com/dori/doist/internal/app"
	"github.com/dori/doist/internal/config"
	"github.com/dori/doist/internal/logger"
	"github.com/spf13/cobra"
)

// options are the global flags shared by every command
type options struct {
	configPath string
	debug      bool
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd := newRootCmd(version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newRootCmd(version string) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "doist",
		Short: "doist - a terminal client for Todoist",
		Long: `doist manages Todoist projects and tasks from the terminal.

Without a subcommand it starts the interactive UI. Favorites are tracked
locally; moving a task recreates it in the destination project.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.debug || os.Getenv("DOIST_DEBUG") == "1" {
				logger.SetLevel(logger.LevelDebug)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newProjectsCmd(opts))
	rootCmd.AddCommand(newTasksCmd(opts))
	rootCmd.AddCommand(newAddCmd(opts))
	rootCmd.AddCommand(newCompleteCmd(opts))
	rootCmd.AddCommand(newReopenCmd(opts))
	rootCmd.AddCommand(newDeleteCmd(opts))
	rootCmd.AddCommand(newMoveCmd(opts))
	rootCmd.AddCommand(newFavoritesCmd(opts))
	rootCmd.AddCommand(newFavoriteCmd(opts))
	rootCmd.AddCommand(newResetFavoritesCmd(opts))
	rootCmd.AddCommand(newOrphansCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd(version))

	rootCmd.Version = version
	return rootCmd
}

// openApp loads configuration and opens the application. One-shot commands
// do not take the single-instance lock.
func openApp(opts *options, exclusive bool) (*app.App, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, app.Options{Exclusive: exclusive})
}
