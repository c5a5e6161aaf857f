package store

import (
	"bufio"
	"os"
	"path/filepath"
)

const defaultBufferSize = 64 * 1024 // 64KB buffer

// FileWriter replaces the contents of a data file with one encoded blob
type FileWriter struct {
	file   *os.File
	writer *bufio.Writer
	config FileWriterConfig
	size   int64
}

// NewFileWriter opens config.FilePath for writing, truncating any existing file
func NewFileWriter(config FileWriterConfig) (*FileWriter, error) {
	if dir := filepath.Dir(config.FilePath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, &IOError{Op: "open", Path: config.FilePath, Err: err}
		}
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, &IOError{Op: "open", Path: config.FilePath, Err: err}
	}

	if config.BufferSize <= 0 {
		config.BufferSize = defaultBufferSize
	}

	return &FileWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, config.BufferSize),
		config: config,
	}, nil
}

// Write buffers p for the data file
func (w *FileWriter) Write(p []byte) (int, error) {
	n, err := w.writer.Write(p)
	w.size += int64(n)
	if err != nil {
		return n, &IOError{Op: "write", Path: w.config.FilePath, Err: err}
	}
	return n, nil
}

// sync flushes buffered writes and fsyncs the file
func (w *FileWriter) sync() error {
	if err := w.writer.Flush(); err != nil {
		return &IOError{Op: "write", Path: w.config.FilePath, Err: err}
	}
	if w.config.NoSync {
		return nil
	}
	if err := w.file.Sync(); err != nil {
		return &IOError{Op: "sync", Path: w.config.FilePath, Err: err}
	}
	return nil
}

// Close flushes, syncs and closes the file
func (w *FileWriter) Close() error {
	if err := w.sync(); err != nil {
		w.file.Close()
		return err
	}
	if err := w.file.Close(); err != nil {
		return &IOError{Op: "write", Path: w.config.FilePath, Err: err}
	}
	return nil
}

// Size returns the number of bytes written so far
func (w *FileWriter) Size() int64 {
	return w.size
}

// Path returns the file path
func (w *FileWriter) Path() string {
	return w.config.FilePath
}
