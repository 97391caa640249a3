// Package cmd is the eduplayctl command tree.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the full command tree. Each call returns fresh
// commands and flags.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "eduplayctl",
		Short: "EduPlay admin console",
		Long: `eduplayctl administers the EduPlay educational minigames platform.

It logs in against the admin API, lists and edits users, admins and games,
shows revenue, builds and platform updates, and sends live effects to
connected players. Run 'eduplayctl console' for the interactive terminal
console.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $EDUPLAY_HOME/config.yaml)")
	flags.String("home", "", "console home directory (default is ~/.eduplay)")
	flags.String("api-url", "", "admin API base URL (overrides config)")
	flags.StringP("format", "o", "", "output format: text, json or yaml")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newSeedCmd(),
		newStatsCmd(),
		newConsoleCmd(),
		newConfigCmd(),
		newDoctorCmd(),
		newVersionCmd(),
		newMockServerCmd(),
	)
	rootCmd.AddCommand(newEntityCmds()...)

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which commands pass to
// every API call.
func ExecuteContext(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
