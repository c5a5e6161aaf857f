package codec

import (
	"errors"
	"fmt"

	"github.com/ssargent/bdsm/pkg/buffer"
	"github.com/ssargent/bdsm/pkg/catalog"
)

// MinBookSize is the encoded size of a book with four empty strings
const MinBookSize = 4 + 4 + 4 + 8

var (
	// ErrTruncatedData is returned when the input ends before a value is complete
	ErrTruncatedData = buffer.ErrTruncatedData

	// ErrCorruptCatalog is returned when decoded books violate catalog invariants
	ErrCorruptCatalog = errors.New("corrupt catalog")

	// ErrTrailingData is returned by Unmarshal when bytes follow the last book
	ErrTrailingData = errors.New("trailing data after catalog")
)

// BookCodec handles serialization and deserialization of books and catalogs
type BookCodec struct{}

// NewBookCodec creates a new book codec instance
func NewBookCodec() *BookCodec {
	return &BookCodec{}
}

// EncodeBook appends b to buf
// Format: [ISBN\0][Title\0][Author\0][Genre\0][Stocked(4)][Sold(4)][Price(8)]
func (c *BookCodec) EncodeBook(b *catalog.Book, buf *buffer.Buffer) {
	buf.WriteString(b.ISBN())
	buf.WriteString(b.Title)
	buf.WriteString(b.Author)
	buf.WriteString(b.Genre)
	buf.WriteUint32(b.Stocked)
	buf.WriteUint32(b.Sold)
	buf.WriteFloat64(b.Price)
}

// DecodeBook reads one book from buf and gives it a fresh handle
func (c *BookCodec) DecodeBook(buf *buffer.Buffer) (*catalog.Book, error) {
	var strs [4]string
	for i := range strs {
		s, err := buf.ReadString()
		if err != nil {
			return nil, err
		}
		strs[i] = s
	}

	stocked, err := buf.ReadUint32()
	if err != nil {
		return nil, err
	}
	sold, err := buf.ReadUint32()
	if err != nil {
		return nil, err
	}
	price, err := buf.ReadFloat64()
	if err != nil {
		return nil, err
	}

	return catalog.NewBook(strs[0], strs[1], strs[2], strs[3], stocked, sold, price), nil
}

// EncodeCatalog appends the book count followed by every book, in catalog order
func (c *BookCodec) EncodeCatalog(store *catalog.Catalog, buf *buffer.Buffer) {
	buf.WriteUint32(uint32(store.Len()))
	for i := 0; i < store.Len(); i++ {
		c.EncodeBook(store.At(i), buf)
	}
}

// DecodeCatalog reads a count and exactly that many books into a new catalog.
// Either every book decodes or an error is returned and no catalog is exposed.
func (c *BookCodec) DecodeCatalog(buf *buffer.Buffer) (*catalog.Catalog, error) {
	count, err := buf.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("book count: %w", err)
	}

	// A corrupt count must not drive the allocation
	if int64(count)*MinBookSize > int64(buf.Remaining()) {
		return nil, fmt.Errorf("%d books declared, %d bytes left: %w", count, buf.Remaining(), ErrTruncatedData)
	}

	store := catalog.New()
	for i := uint32(0); i < count; i++ {
		b, err := c.DecodeBook(buf)
		if err != nil {
			return nil, fmt.Errorf("book %d of %d: %w", i+1, count, err)
		}
		if err := store.Insert(b); err != nil {
			return nil, fmt.Errorf("%w: book %d (isbn %q): %w", ErrCorruptCatalog, i+1, b.ISBN(), err)
		}
	}

	return store, nil
}

// Marshal encodes a whole catalog into a new byte slice
func (c *BookCodec) Marshal(store *catalog.Catalog) []byte {
	buf := buffer.New()
	c.EncodeCatalog(store, buf)
	return buf.Bytes()
}

// Unmarshal decodes a catalog that must span all of data
func (c *BookCodec) Unmarshal(data []byte) (*catalog.Catalog, error) {
	buf := buffer.FromBytes(data)
	store, err := c.DecodeCatalog(buf)
	if err != nil {
		return nil, err
	}
	if buf.Remaining() > 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, buf.Remaining())
	}
	return store, nil
}
