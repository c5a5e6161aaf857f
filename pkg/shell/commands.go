package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/bdsm/pkg/buffer"
	"github.com/ssargent/bdsm/pkg/catalog"
	"github.com/ssargent/bdsm/pkg/store"
)

type command struct {
	name    string
	usage   string
	help    string
	minArgs int
	run     func(s *Shell, args []string) error
}

func (s *Shell) registerCommands() {
	s.order = []*command{
		{name: "help", usage: "help", help: "Show this help", run: (*Shell).cmdHelp},
		{name: "exit", usage: "exit", help: "Leave the shell", run: (*Shell).cmdExit},
		{name: "load", usage: "load <file>", help: "Load a bookstore from a file", minArgs: 1, run: (*Shell).cmdLoad},
		{name: "save", usage: "save [file]", help: "Save the bookstore, to the session file by default", run: (*Shell).cmdSave},
		{name: "reset", usage: "reset", help: "Remove all books", run: (*Shell).cmdReset},
		{name: "bookadd", usage: "bookadd <isbn> <title> <author> <genre> <stocked> <sold> <price>", help: "Add a book", minArgs: 7, run: (*Shell).cmdBookAdd},
		{name: "bookdel", usage: "bookdel <isbn>", help: "Delete a book", minArgs: 1, run: (*Shell).cmdBookDel},
		{name: "byauthor", usage: "byauthor <author>", help: "List books by an author", minArgs: 1, run: (*Shell).cmdByAuthor},
		{name: "bygenre", usage: "bygenre <genre>", help: "List books of a genre", minArgs: 1, run: (*Shell).cmdByGenre},
		{name: "sell", usage: "sell <isbn> <qty>", help: "Sell copies of a book", minArgs: 2, run: (*Shell).cmdSell},
		{name: "stock", usage: "stock <isbn> <qty>", help: "Add copies of a book to stock", minArgs: 2, run: (*Shell).cmdStock},
		{name: "chprice", usage: "chprice <isbn> <price>", help: "Change the price of a book", minArgs: 2, run: (*Shell).cmdChPrice},
		{name: "info", usage: "info <isbn>", help: "Show a book", minArgs: 1, run: (*Shell).cmdInfo},
		{name: "ls", usage: "ls", help: "List all books", run: (*Shell).cmdLs},
		{name: "top", usage: "top <n>", help: "List the n best selling books", minArgs: 1, run: (*Shell).cmdTop},
		{name: "soldout", usage: "soldout", help: "List books with no copies in stock", run: (*Shell).cmdSoldOut},
		{name: "revenue", usage: "revenue", help: "Show units sold and their value", run: (*Shell).cmdRevenue},
		{name: "dump", usage: "dump", help: "Hex dump of the encoded bookstore", run: (*Shell).cmdDump},
		{name: "metrics", usage: "metrics", help: "Show metrics in Prometheus text format", run: (*Shell).cmdMetrics},
		{name: "snapshot", usage: "snapshot [label]", help: "Archive the current bookstore", run: (*Shell).cmdSnapshot},
		{name: "snapshots", usage: "snapshots", help: "List archived snapshots", run: (*Shell).cmdSnapshots},
		{name: "restore", usage: "restore <id>", help: "Replace the bookstore with a snapshot", minArgs: 1, run: (*Shell).cmdRestore},
		{name: "snapdel", usage: "snapdel <id>", help: "Delete a snapshot", minArgs: 1, run: (*Shell).cmdSnapDel},
	}

	s.commands = make(map[string]*command, len(s.order))
	for _, c := range s.order {
		s.commands[c.name] = c
	}
}

func (s *Shell) cmdHelp(_ []string) error {
	fmt.Fprintln(s.out, "Commands:")
	for _, c := range s.order {
		fmt.Fprintf(s.out, "  %-66s %s\n", c.usage, c.help)
	}
	return nil
}

func (s *Shell) cmdExit(_ []string) error {
	if s.session.Unsaved {
		yes, eof, err := s.confirm("You have unsaved changes. Really exit?")
		if err != nil {
			return err
		}
		if !yes && !eof {
			return nil
		}
	}
	fmt.Fprintln(s.out, "Bye.")
	return errExit
}

// discardChanges asks before unsaved changes are thrown away. It returns
// errExit when the input ends at the question.
func (s *Shell) discardChanges(question string) (bool, error) {
	if !s.session.Unsaved {
		return true, nil
	}
	yes, eof, err := s.confirm(question)
	if err != nil {
		return false, err
	}
	if eof {
		fmt.Fprintln(s.out, "Bye.")
		return false, errExit
	}
	return yes, nil
}

func (s *Shell) cmdLoad(args []string) error {
	ok, err := s.discardChanges("You have unsaved changes. Really load?")
	if !ok {
		return err
	}

	path := args[0]
	c, err := s.persister.Load(path)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to load bookstore from %s: file does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to load bookstore from %s: %w", path, err)
	}

	s.session.Catalog = c
	s.session.Path = path
	s.session.Unsaved = false
	fmt.Fprintf(s.out, "Loaded %d book(s) from %s\n", c.Len(), path)
	return nil
}

func (s *Shell) cmdSave(args []string) error {
	path := s.session.Path
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no filename given and the session has no data file")
	}

	if err := s.persister.Save(s.session.Catalog, path); err != nil {
		return fmt.Errorf("failed to save bookstore to %s: %w", path, err)
	}

	s.session.Path = path
	s.session.Unsaved = false
	fmt.Fprintf(s.out, "Saved %d book(s) to %s\n", s.session.Catalog.Len(), path)
	return nil
}

func (s *Shell) cmdReset(_ []string) error {
	s.session.Catalog.Reset()
	s.session.Unsaved = true
	fmt.Fprintln(s.out, "Bookstore reset")
	return nil
}

func (s *Shell) cmdBookAdd(args []string) error {
	stocked, err := parseQuantity("stocked", args[4])
	if err != nil {
		return err
	}
	sold, err := parseQuantity("sold", args[5])
	if err != nil {
		return err
	}
	price, err := parsePrice(args[6])
	if err != nil {
		return err
	}

	b := catalog.NewBook(args[0], args[1], args[2], args[3], stocked, sold, price)
	if err := s.session.Catalog.Insert(b); err != nil {
		if errors.Is(err, catalog.ErrDuplicateKey) {
			return fmt.Errorf("book with ISBN %s already exists", args[0])
		}
		return err
	}

	s.session.Unsaved = true
	fmt.Fprintf(s.out, "Added %s\n", b.ISBN())
	return nil
}

func (s *Shell) findBook(isbn string) (*catalog.Book, error) {
	b, ok := s.session.Catalog.Find(isbn)
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrNotFound, isbn)
	}
	return b, nil
}

func (s *Shell) cmdBookDel(args []string) error {
	b, err := s.findBook(args[0])
	if err != nil {
		return err
	}
	s.session.Catalog.Remove(b.ID)
	s.session.Unsaved = true
	fmt.Fprintf(s.out, "Deleted %s\n", b.ISBN())
	return nil
}

func (s *Shell) listCursor(it *catalog.Cursor) error {
	books, err := catalog.Collect(it)
	if err != nil {
		return err
	}
	PrintBooks(s.out, books)
	return nil
}

func (s *Shell) cmdByAuthor(args []string) error {
	return s.listCursor(s.session.Catalog.ByAuthor(strings.Join(args, " ")))
}

func (s *Shell) cmdByGenre(args []string) error {
	return s.listCursor(s.session.Catalog.ByGenre(strings.Join(args, " ")))
}

func (s *Shell) cmdSoldOut(_ []string) error {
	return s.listCursor(s.session.Catalog.SoldOut())
}

func (s *Shell) cmdSell(args []string) error {
	b, err := s.findBook(args[0])
	if err != nil {
		return err
	}
	qty, err := parseQuantity("quantity", args[1])
	if err != nil {
		return err
	}
	if err := b.Sell(qty); err != nil {
		return err
	}

	s.session.Unsaved = true
	fmt.Fprintf(s.out, "Sold %d of %s, %d left in stock\n", qty, b.ISBN(), b.Stocked)
	return nil
}

func (s *Shell) cmdStock(args []string) error {
	b, err := s.findBook(args[0])
	if err != nil {
		return err
	}
	qty, err := parseQuantity("quantity", args[1])
	if err != nil {
		return err
	}
	if err := b.Restock(qty); err != nil {
		return err
	}

	s.session.Unsaved = true
	fmt.Fprintf(s.out, "Stocked %d of %s, %d in stock\n", qty, b.ISBN(), b.Stocked)
	return nil
}

func (s *Shell) cmdChPrice(args []string) error {
	b, err := s.findBook(args[0])
	if err != nil {
		return err
	}
	price, err := parsePrice(args[1])
	if err != nil {
		return err
	}

	b.SetPrice(price)
	s.session.Unsaved = true
	fmt.Fprintf(s.out, "Price of %s is now %.2f\n", b.ISBN(), b.Price)
	return nil
}

func (s *Shell) cmdInfo(args []string) error {
	b, err := s.findBook(args[0])
	if err != nil {
		return err
	}
	PrintBook(s.out, b)
	return nil
}

func (s *Shell) cmdLs(_ []string) error {
	PrintCatalog(s.out, s.session.Catalog)
	return nil
}

func (s *Shell) cmdTop(args []string) error {
	n, err := strconv.ParseUint(args[0], 10, 31)
	if err != nil {
		return fmt.Errorf("invalid count %q", args[0])
	}

	top, clamped := s.session.Catalog.TopNBySold(int(n))
	if clamped {
		fmt.Fprintf(s.out, "Only %d book(s) in store\n", len(top))
	}
	PrintBooks(s.out, top)
	return nil
}

func (s *Shell) cmdRevenue(_ []string) error {
	sold, total := s.session.Catalog.Revenue()
	fmt.Fprintf(s.out, "Total %s book(s) sold, totaling %.2f\n", humanize.Comma(int64(sold)), total)
	return nil
}

func (s *Shell) cmdDump(_ []string) error {
	buf := buffer.New()
	s.codec.EncodeCatalog(s.session.Catalog, buf)
	fmt.Fprintf(s.out, "%d bytes, %d book(s)\n", buf.Len(), s.session.Catalog.Len())
	return buf.Dump(s.out)
}

func (s *Shell) cmdMetrics(_ []string) error {
	return s.metrics.WriteText(s.out)
}

func (s *Shell) cmdSnapshot(args []string) error {
	a, err := s.getArchive()
	if err != nil {
		return err
	}

	snap, err := a.Put(s.codec.Marshal(s.session.Catalog), strings.Join(args, " "))
	if err != nil {
		return err
	}

	s.logger.Info().Str("id", snap.ID.String()).Int("size", snap.Size).Msg("snapshot created")
	fmt.Fprintf(s.out, "Snapshot %s saved (%d book(s), %s)\n", snap.ID, snap.Books, humanize.Bytes(uint64(snap.Size)))
	return nil
}

func (s *Shell) cmdSnapshots(_ []string) error {
	a, err := s.getArchive()
	if err != nil {
		return err
	}

	snaps, err := a.List()
	if err != nil {
		return err
	}
	PrintSnapshots(s.out, snaps)
	return nil
}

func (s *Shell) cmdRestore(args []string) error {
	id, err := ksuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid snapshot id %q", args[0])
	}
	a, err := s.getArchive()
	if err != nil {
		return err
	}
	blob, err := a.Get(id)
	if err != nil {
		return err
	}
	c, err := s.codec.Unmarshal(blob)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", id, err)
	}

	ok, err := s.discardChanges("You have unsaved changes. Really restore?")
	if !ok {
		return err
	}

	s.session.Catalog = c
	s.session.Unsaved = true
	fmt.Fprintf(s.out, "Restored %d book(s) from snapshot %s\n", c.Len(), id)
	return nil
}

func (s *Shell) cmdSnapDel(args []string) error {
	id, err := ksuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid snapshot id %q", args[0])
	}
	a, err := s.getArchive()
	if err != nil {
		return err
	}
	if err := a.Delete(id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Deleted snapshot %s\n", id)
	return nil
}

func parseQuantity(field, v string) (uint32, error) {
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", field, v)
	}
	return uint32(n), nil
}

func parsePrice(v string) (float64, error) {
	p, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", v)
	}
	return p, nil
}
