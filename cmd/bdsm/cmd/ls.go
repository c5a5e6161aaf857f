package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/bdsm/pkg/catalog"
	"github.com/ssargent/bdsm/pkg/shell"
	"github.com/ssargent/bdsm/pkg/store"
)

// lsCmd represents the ls command
var lsCmd = &cobra.Command{
	Use:   "ls <file>",
	Short: "List the books of a data file",
	Long: `List the books of a bookstore data file without starting the shell.

Examples:
  bdsm ls bookstore.dat
  bdsm ls bookstore.dat --author Herbert
  bdsm ls bookstore.dat --soldout`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		author, _ := cmd.Flags().GetString("author")
		genre, _ := cmd.Flags().GetString("genre")
		soldOut, _ := cmd.Flags().GetBool("soldout")

		c, err := newPersister().Load(args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%s does not exist", args[0])
		}
		if err != nil {
			return err
		}

		var it *catalog.Cursor
		switch {
		case author != "":
			it = c.ByAuthor(author)
		case genre != "":
			it = c.ByGenre(genre)
		case soldOut:
			it = c.SoldOut()
		default:
			shell.PrintCatalog(cmd.OutOrStdout(), c)
			return nil
		}

		books, err := catalog.Collect(it)
		if err != nil {
			return err
		}
		shell.PrintBooks(cmd.OutOrStdout(), books)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().String("author", "", "Only list books by this author")
	lsCmd.Flags().String("genre", "", "Only list books of this genre")
	lsCmd.Flags().Bool("soldout", false, "Only list books with no copies in stock")
	lsCmd.MarkFlagsMutuallyExclusive("author", "genre", "soldout")
}
