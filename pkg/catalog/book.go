package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/segmentio/ksuid"
)

// Book is one inventory record, identified by its ISBN.
// The ISBN is fixed when the book is created.
type Book struct {
	ID      ksuid.KSUID // In-memory handle, never persisted
	isbn    string
	Title   string
	Author  string
	Genre   string
	Stocked uint32
	Sold    uint32
	Price   float64
}

// NewBook creates a book with a fresh handle
func NewBook(isbn, title, author, genre string, stocked, sold uint32, price float64) *Book {
	return &Book{
		ID:      ksuid.New(),
		isbn:    isbn,
		Title:   title,
		Author:  author,
		Genre:   genre,
		Stocked: stocked,
		Sold:    sold,
		Price:   price,
	}
}

// ISBN returns the key of the book
func (b *Book) ISBN() string {
	return b.isbn
}

// Validate checks that a book can be stored and encoded
func Validate(b *Book) error {
	if b.ISBN() == "" {
		return ErrInvalidISBN
	}
	fields := []struct{ name, value string }{
		{"isbn", b.ISBN()},
		{"title", b.Title},
		{"author", b.Author},
		{"genre", b.Genre},
	}
	for _, f := range fields {
		if strings.IndexByte(f.value, 0) >= 0 {
			return fmt.Errorf("%s: %w", f.name, ErrInvalidField)
		}
	}
	return nil
}

// Sell moves qty units from stock to sold. Either the whole quantity is sold
// or nothing changes.
func (b *Book) Sell(qty uint32) error {
	if qty > b.Stocked {
		return fmt.Errorf("%w: %d requested, %d in stock", ErrInsufficientStock, qty, b.Stocked)
	}
	if qty > math.MaxUint32-b.Sold {
		return ErrQuantityOverflow
	}
	b.Stocked -= qty
	b.Sold += qty
	return nil
}

// Restock adds qty units to stock
func (b *Book) Restock(qty uint32) error {
	if qty > math.MaxUint32-b.Stocked {
		return ErrQuantityOverflow
	}
	b.Stocked += qty
	return nil
}

// SetPrice replaces the price. Negative prices are accepted.
func (b *Book) SetPrice(price float64) {
	b.Price = price
}

// SoldOut reports whether no units are left in stock
func (b *Book) SoldOut() bool {
	return b.Stocked == 0
}
