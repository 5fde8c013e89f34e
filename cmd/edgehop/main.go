// edgehop locates, ranks, and raises Microsoft Edge windows, tabs, and
// workspaces across profiles. It is built to be driven one-shot from a
// launcher: results go to stdout, logs to stderr, and activation outcomes
// map to the exit code.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"edgehop/internal/config"
	"edgehop/internal/logging"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	timeoutFlag time.Duration

	// Per-listing flags
	alfredOut bool
	limitFlag int

	logger *zap.Logger
	theApp *app
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "edgehop",
	Short: "Find and raise Microsoft Edge windows, tabs, and workspaces",
	Long: `edgehop searches the open tabs, workspaces, and profiles of Microsoft
Edge on macOS and brings the chosen window to the foreground without
raising the rest.

It joins three sources: the profile catalog (Local State), the per-profile
workspace caches, and a live scripting snapshot of the running browser.
Activation prefers a targeted single-window raise and falls back to
whole-application activation only when the narrow path is denied.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(verbose)

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if timeoutFlag > 0 {
			cfg.QueryTimeout = timeoutFlag.String()
		}

		theApp = newApp(cfg, logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "override the live-session query timeout")

	for _, cmd := range []*cobra.Command{tabsCmd, workspacesCmd, profilesCmd} {
		cmd.Flags().BoolVar(&alfredOut, "alfred", false, "emit Alfred Script Filter JSON")
		cmd.Flags().IntVar(&limitFlag, "limit", 50, "maximum number of rows")
	}

	openCmd.AddCommand(openWorkspaceCmd, openProfileCmd)
	rootCmd.AddCommand(
		tabsCmd,
		workspacesCmd,
		profilesCmd,
		switchCmd,
		openCmd,
		closeCmd,
		copyCmd,
		doctorCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
