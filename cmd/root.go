package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-lvmsnap/pkg/app"
)

var (
	// Global output flags only
	verbose      bool
	quiet        bool
	debug        bool
	outputFormat string
	logFile      string
	configFile   string
)

var rootCmd = &cobra.Command{
	Use:   "lvmsnap",
	Short: "Crash-consistent backups of LVM logical volumes",
	Long: `lvmsnap takes a copy-on-write snapshot of every eligible logical volume,
exposes the partitions inside each snapshot, mounts them one at a time and
archives their contents with tar or rsync.

Snapshots, partition mappings and mounts created by a run are always
released before it exits, including when a step fails or the run is
interrupted. Snapshots left behind by an earlier run are removed first.

Commands:
  backup      Snapshot, mount and archive every eligible volume
  list        Show logical volumes and whether they would be backed up`,
	Version:       "0.1.0-dev",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

// Execute adds all child commands to the root command and returns the
// process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return app.ExitCode(err)
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log every host command")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also append log lines to this file")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default lvmsnap.yaml in ., $HOME/.lvmsnap or /etc/lvmsnap)")
}

// newAppContext builds the application context from the global settings
func newAppContext() (*app.Context, error) {
	ctx := app.NewContext()
	ctx.OutputFormat = config.GetString("output")
	ctx.Verbose = config.GetBool("verbose")
	ctx.Quiet = config.GetBool("quiet")
	ctx.Debug = config.GetBool("debug")

	switch ctx.OutputFormat {
	case "table", "json", "yaml":
	default:
		return nil, app.NewError(app.ErrCodeConfiguration,
			fmt.Sprintf("unsupported output format %q, use table, json or yaml", ctx.OutputFormat), nil)
	}

	if err := ctx.ConfigureLogging(config.GetString("log-file")); err != nil {
		return nil, err
	}
	if used := config.ConfigFileUsed(); used != "" {
		ctx.Logger.WithField("config", used).Debug("loaded config file")
	}
	return ctx, nil
}
