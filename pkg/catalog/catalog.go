// Package catalog holds the in-memory book collection of a bdsm session.
//
// A Catalog is an ordered slice of books searched linearly; there are no
// secondary indexes. It is owned by a single session and is not safe for
// concurrent use.
package catalog

import (
	"cmp"
	"slices"

	"github.com/segmentio/ksuid"
)

// Catalog is an ordered collection of books with unique ISBNs
type Catalog struct {
	books []*Book

	// generation is bumped on every structural change so open cursors can
	// detect that their positions no longer mean anything
	generation uint64
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{books: []*Book{}}
}

// Len returns the number of books
func (c *Catalog) Len() int {
	return len(c.books)
}

// At returns the book at position i
func (c *Catalog) At(i int) *Book {
	return c.books[i]
}

// Books returns the books in catalog order. The slice is a copy; the books are not.
func (c *Catalog) Books() []*Book {
	return slices.Clone(c.books)
}

// Find returns the first book with the given ISBN
func (c *Catalog) Find(isbn string) (*Book, bool) {
	for _, b := range c.books {
		if b.ISBN() == isbn {
			return b, true
		}
	}
	return nil, false
}

// Get returns the book with the given handle
func (c *Catalog) Get(id ksuid.KSUID) (*Book, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.books[i], true
	}
	return nil, false
}

// Insert appends b unless a book with the same ISBN already exists.
// A missing handle, or one already held by another book, is replaced with a
// fresh one so every handle names exactly one record.
func (c *Catalog) Insert(b *Book) error {
	if err := Validate(b); err != nil {
		return err
	}
	if _, exists := c.Find(b.ISBN()); exists {
		return ErrDuplicateKey
	}
	if b.ID.IsNil() || c.indexOf(b.ID) >= 0 {
		b.ID = ksuid.New()
	}
	c.books = append(c.books, b)
	c.generation++
	return nil
}

// Remove deletes the exact book with the given handle and closes the gap.
// It reports false and leaves the catalog untouched when no book has that handle.
func (c *Catalog) Remove(id ksuid.KSUID) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.books = slices.Delete(c.books, i, i+1)
	c.generation++
	return true
}

// Reset drops every book
func (c *Catalog) Reset() {
	c.books = []*Book{}
	c.generation++
}

func (c *Catalog) indexOf(id ksuid.KSUID) int {
	for i, b := range c.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// SortBySold orders the catalog ascending by sold quantity, in place.
// The order among equal quantities is unspecified.
func (c *Catalog) SortBySold() {
	slices.SortFunc(c.books, func(a, b *Book) int {
		return cmp.Compare(a.Sold, b.Sold)
	})
	c.generation++
}

// TopNBySold sorts the catalog and returns its n best sellers, highest first.
// When n exceeds the catalog size it is clamped and clamped is true.
func (c *Catalog) TopNBySold(n int) (top []*Book, clamped bool) {
	if n > len(c.books) {
		n = len(c.books)
		clamped = true
	}
	if n < 0 {
		n = 0
	}
	c.SortBySold()

	top = make([]*Book, 0, n)
	for i := len(c.books) - 1; i >= len(c.books)-n; i-- {
		top = append(top, c.books[i])
	}
	return top, clamped
}

// Revenue returns the total units sold and their value at current prices
func (c *Catalog) Revenue() (sold uint64, total float64) {
	for _, b := range c.books {
		sold += uint64(b.Sold)
		total += b.Price * float64(b.Sold)
	}
	return sold, total
}

// InStock returns the total number of units in stock
func (c *Catalog) InStock() uint64 {
	var n uint64
	for _, b := range c.books {
		n += uint64(b.Stocked)
	}
	return n
}
