package catalog

// Cursor walks a catalog forward, yielding the books that match a filter.
// It is single-pass: once Next returns false the cursor is exhausted.
//
// A cursor is positional. Inserting, removing or sorting books while it is open
// invalidates it, after which Next returns false and Err returns ErrStaleCursor.
type Cursor struct {
	catalog    *Catalog
	match      func(*Book) bool
	generation uint64
	pos        int // index of the next book to examine
	current    *Book
	err        error
}

func (c *Catalog) cursor(match func(*Book) bool) *Cursor {
	return &Cursor{
		catalog:    c,
		match:      match,
		generation: c.generation,
	}
}

// ByAuthor iterates over the books whose author equals author
func (c *Catalog) ByAuthor(author string) *Cursor {
	return c.cursor(func(b *Book) bool { return b.Author == author })
}

// ByGenre iterates over the books whose genre equals genre
func (c *Catalog) ByGenre(genre string) *Cursor {
	return c.cursor(func(b *Book) bool { return b.Genre == genre })
}

// SoldOut iterates over the books with nothing left in stock
func (c *Catalog) SoldOut() *Cursor {
	return c.cursor((*Book).SoldOut)
}

// All iterates over every book
func (c *Catalog) All() *Cursor {
	return c.cursor(func(*Book) bool { return true })
}

// Next advances to the next matching book
func (it *Cursor) Next() bool {
	it.current = nil
	if it.err != nil {
		return false
	}
	if it.generation != it.catalog.generation {
		it.err = ErrStaleCursor
		return false
	}

	books := it.catalog.books
	for it.pos < len(books) {
		b := books[it.pos]
		it.pos++
		if it.match(b) {
			it.current = b
			return true
		}
	}
	return false
}

// Book returns the book the cursor is positioned on, or nil
func (it *Cursor) Book() *Book {
	return it.current
}

// Err returns the error that stopped the iteration, if any
func (it *Cursor) Err() error {
	return it.err
}

// Collect drains the cursor into a slice
func Collect(it *Cursor) ([]*Book, error) {
	var books []*Book
	for it.Next() {
		books = append(books, it.Book())
	}
	return books, it.Err()
}
