package shell

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/ssargent/bdsm/pkg/archive"
	"github.com/ssargent/bdsm/pkg/catalog"
)

// PrintBook displays a single book
func PrintBook(out io.Writer, b *catalog.Book) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ISBN:\t%s\n", b.ISBN())
	fmt.Fprintf(w, "Title:\t%s\n", b.Title)
	fmt.Fprintf(w, "Author:\t%s\n", b.Author)
	fmt.Fprintf(w, "Genre:\t%s\n", b.Genre)
	fmt.Fprintf(w, "In stock:\t%d\n", b.Stocked)
	fmt.Fprintf(w, "Sold:\t%d\n", b.Sold)
	fmt.Fprintf(w, "Price:\t%.2f\n", b.Price)
}

// PrintBooks displays books as a table
func PrintBooks(out io.Writer, books []*catalog.Book) {
	if len(books) == 0 {
		fmt.Fprintln(out, "No books found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ISBN\tTITLE\tAUTHOR\tGENRE\tSTOCK\tSOLD\tPRICE")
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.2f\n",
			b.ISBN(), truncate(b.Title, 40), truncate(b.Author, 30), b.Genre, b.Stocked, b.Sold, b.Price)
	}
}

// PrintCatalog displays the number of books followed by all of them
func PrintCatalog(out io.Writer, c *catalog.Catalog) {
	fmt.Fprintf(out, "%d book(s) in store\n", c.Len())
	if c.Len() > 0 {
		PrintBooks(out, c.Books())
	}
}

// PrintSnapshots displays archived snapshots, oldest first
func PrintSnapshots(out io.Writer, snaps []archive.Snapshot) {
	if len(snaps) == 0 {
		fmt.Fprintln(out, "No snapshots found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tCREATED\tBOOKS\tSIZE\tLABEL")
	for _, s := range snaps {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			s.ID, humanize.Time(s.CreatedAt), s.Books, humanize.Bytes(uint64(s.Size)), s.Label)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}
