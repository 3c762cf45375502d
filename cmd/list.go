package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-lvmsnap/internal/services"
	"github.com/deploymenttheory/go-lvmsnap/pkg/app/list"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show logical volumes and whether they would be backed up",
	Long: `List every logical volume with its size, attribute code and the
backup verdict: eligible, excluded, a stale snapshot of an earlier run, or
the reason it is skipped. Nothing is created, removed or mounted.

Examples:
  # List all volumes
  lvmsnap list

  # Decode the attribute code of every volume
  lvmsnap list --attributes

  # Show the verdict with exclusions applied
  lvmsnap list --exclude vg0/swap -o json`,

	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("attributes", false, "decode the attribute code of every volume")
	listCmd.Flags().String("snapshot-prefix", services.DefaultSnapshotPrefix, "name prefix of snapshots taken by lvmsnap")
	listCmd.Flags().StringSlice("exclude", nil, "volumes to exclude, as group/name")
}

func runList() error {
	ctx, err := newAppContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	request := list.NewRequest()
	request.Attributes = config.GetBool("attributes")
	request.SnapshotPrefix = config.GetString("snapshot-prefix")
	request.Exclude = config.GetStringSlice("exclude")

	response, err := list.Handle(ctx, request)
	if err != nil {
		return err
	}

	return list.FormatOutput(os.Stdout, response, ctx.OutputFormat)
}
