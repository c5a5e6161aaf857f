package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ssargent/bdsm/pkg/buffer"
	"github.com/ssargent/bdsm/pkg/codec"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Hex dump a data file",
	Long: `Print a hex dump of a bookstore data file after checking that it decodes.

Example:
  bdsm dump bookstore.dat`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		c, err := codec.NewBookCodec().Unmarshal(data)
		if err != nil {
			return fmt.Errorf("%s is not a valid data file: %w", path, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %s, %d book(s)\n", path, humanize.Bytes(uint64(len(data))), c.Len())
		return buffer.FromBytes(data).Dump(out)
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
