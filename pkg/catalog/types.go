package catalog

import "errors"

// Errors
var (
	ErrNotFound          = errors.New("book not found")
	ErrDuplicateKey      = errors.New("duplicate isbn")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidISBN       = errors.New("isbn must not be empty")
	ErrInvalidField      = errors.New("field contains a NUL byte")
	ErrQuantityOverflow  = errors.New("quantity overflows uint32")

	// ErrStaleCursor is reported by a Cursor whose catalog was structurally
	// modified (insert, remove, sort, reset) after the cursor was created.
	ErrStaleCursor = errors.New("catalog modified during iteration")
)
