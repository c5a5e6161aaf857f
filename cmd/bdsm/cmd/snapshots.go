package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/ssargent/bdsm/pkg/archive"
	"github.com/ssargent/bdsm/pkg/codec"
	"github.com/ssargent/bdsm/pkg/shell"
	"github.com/ssargent/bdsm/pkg/store"
)

// snapshotsCmd represents the snapshots command
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List archived snapshots",
	Long: `List the snapshots kept in the archive directory, oldest first.

Examples:
  bdsm snapshots
  bdsm snapshots --archive-dir ./backups`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(a *archive.Archive) error {
			snaps, err := a.List()
			if err != nil {
				return err
			}
			shell.PrintSnapshots(cmd.OutOrStdout(), snaps)
			return nil
		})
	},
}

var snapshotsCreateCmd = &cobra.Command{
	Use:   "create <file> [label]",
	Short: "Archive a data file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newPersister().Load(args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%s does not exist", args[0])
		}
		if err != nil {
			return err
		}

		return withArchive(func(a *archive.Archive) error {
			snap, err := a.Put(codec.NewBookCodec().Marshal(c), strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot %s saved (%d book(s))\n", snap.ID, snap.Books)
			return nil
		})
	},
}

var snapshotsExportCmd = &cobra.Command{
	Use:   "export <id> <file>",
	Short: "Write a snapshot to a data file",
	Long: `Write an archived snapshot to a data file, replacing the file if it exists.

Example:
  bdsm snapshots export 2XNqFpRVdQXuJRlSF4LXyQDyDoD restored.dat`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid snapshot id %q", args[0])
		}

		return withArchive(func(a *archive.Archive) error {
			blob, err := a.Get(id)
			if err != nil {
				return err
			}
			c, err := codec.NewBookCodec().Unmarshal(blob)
			if err != nil {
				return fmt.Errorf("snapshot %s: %w", id, err)
			}
			if err := newPersister().Save(c, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d book(s) to %s\n", c.Len(), args[1])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
	snapshotsCmd.AddCommand(snapshotsCreateCmd)
	snapshotsCmd.AddCommand(snapshotsExportCmd)
}

func withArchive(fn func(a *archive.Archive) error) error {
	a, err := container.GetArchiveOpener()(settings.ArchiveDir)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
