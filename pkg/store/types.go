package store

import (
	"errors"
	"fmt"
)

// FileWriterConfig holds configuration for the data file writer
type FileWriterConfig struct {
	FilePath   string // Path of the data file, replaced on every save
	BufferSize int    // Write buffer size
	NoSync     bool   // Skip fsync after writing (tests only)
}

// Errors
var (
	// ErrNotFound is returned by Load when the data file does not exist.
	// It is a miss, not a failure; callers usually start a new catalog.
	ErrNotFound = errors.New("data file not found")
)

// IOError reports a failure to open, read or write a data file
type IOError struct {
	Op   string // "open", "read", "write" or "sync"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
