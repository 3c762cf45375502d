package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-lvmsnap/internal/services"
	"github.com/deploymenttheory/go-lvmsnap/pkg/app/backup"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot, mount and archive every eligible volume",
	Long: `Back up every eligible logical volume. Each volume is snapshotted, the
partitions inside the snapshot are mapped and mounted one at a time, and
each filesystem is archived to <destination><group>-<volume>[-<n>] with
the selected backend.

Snapshots left over from an earlier run are removed first. Everything the
run created is released before it exits, including on failure or SIGINT.

Examples:
  # Archive to /backup/ with tar and bzip2
  sudo lvmsnap backup --destination /backup/

  # Mirror every filesystem with rsync, skipping swap
  sudo lvmsnap backup --backend rsync --exclude vg0/swap --destination /srv/mirror/

  # Show what would be snapshotted
  sudo lvmsnap backup --dry-run`,

	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBackup()
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)

	// Snapshot selection
	backupCmd.Flags().String("snapshot-prefix", services.DefaultSnapshotPrefix, "name prefix of snapshots taken by lvmsnap")
	backupCmd.Flags().StringSlice("exclude", nil, "volumes to exclude, as group/name")
	backupCmd.Flags().Bool("dry-run", false, "report what would be snapshotted without changing anything")

	// Mounting
	backupCmd.Flags().Bool("ignore-mount-errors", false, "skip partitions that fail to mount")
	backupCmd.Flags().Bool("read-write", false, "mount partitions read-write, e.g. to replay a journal")
	backupCmd.Flags().StringSlice("mount-options", nil, "extra mount options")
	backupCmd.Flags().String("mount-dir", "", "parent of the temporary mount points (default system temp dir)")

	// Archiving
	backupCmd.Flags().StringP("destination", "d", "./", "destination prefix, a trailing / names a directory")
	backupCmd.Flags().StringP("backend", "b", services.BackendTar,
		fmt.Sprintf("archive backend (%s)", strings.Join(services.Backends(), ", ")))
	backupCmd.Flags().StringP("compression", "c", services.DefaultCompression,
		fmt.Sprintf("tar compression (%s)", strings.Join(services.Compressions(), ", ")))
	backupCmd.Flags().Bool("overwrite", false, "replace existing tar archives")
}

func runBackup() error {
	appCtx, err := newAppContext()
	if err != nil {
		return err
	}
	defer appCtx.Close()

	ctx, stop := appCtx.WithSignals()
	defer stop()

	request := backup.NewRequest()
	request.SnapshotPrefix = config.GetString("snapshot-prefix")
	request.Exclude = config.GetStringSlice("exclude")
	request.DryRun = config.GetBool("dry-run")
	request.IgnoreMountErrors = config.GetBool("ignore-mount-errors")
	request.ReadWrite = config.GetBool("read-write")
	request.MountOptions = config.GetStringSlice("mount-options")
	request.MountDir = config.GetString("mount-dir")
	request.Destination = config.GetString("destination")
	request.Backend = config.GetString("backend")
	request.Compression = config.GetString("compression")
	request.Overwrite = config.GetBool("overwrite")

	response, err := backup.Handle(ctx, request)
	if response != nil && !ctx.Quiet {
		if formatErr := backup.FormatOutput(os.Stdout, response, ctx.OutputFormat); formatErr != nil && err == nil {
			err = formatErr
		}
	}
	return err
}
