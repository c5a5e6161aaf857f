// Package buffer provides the growable byte region used by the bdsm codec.
//
// A Buffer keeps a single cursor (the pivot) shared by reads and writes. Writes
// past the end grow the storage by exactly the missing amount; reads never move
// the pivot beyond the end and fail with ErrTruncatedData instead.
package buffer

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"io"
	"math"
)

// ErrTruncatedData is returned when a read needs more bytes than the buffer holds.
var ErrTruncatedData = errors.New("truncated data")

// Buffer is a byte region with a read/write cursor
type Buffer struct {
	bytes []byte
	pivot int
}

var _ io.Writer = (*Buffer)(nil)

// New creates an empty buffer
func New() *Buffer {
	return &Buffer{bytes: []byte{}}
}

// FromBytes creates a buffer whose storage is exactly b, with the pivot at 0
func FromBytes(b []byte) *Buffer {
	return &Buffer{bytes: b}
}

// Len returns the size of the buffer in bytes
func (b *Buffer) Len() int {
	return len(b.bytes)
}

// Pivot returns the current cursor position
func (b *Buffer) Pivot() int {
	return b.pivot
}

// Remaining returns the number of bytes between the pivot and the end
func (b *Buffer) Remaining() int {
	return len(b.bytes) - b.pivot
}

// Bytes returns the whole underlying storage, independent of the pivot
func (b *Buffer) Bytes() []byte {
	return b.bytes
}

// Rewind moves the pivot back to the beginning without changing the size
func (b *Buffer) Rewind() {
	b.pivot = 0
}

// Write copies p at the pivot and advances it. Storage grows by exactly the
// deficit when p does not fit. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	if deficit := len(p) - b.Remaining(); deficit > 0 {
		b.extend(deficit)
	}
	copy(b.bytes[b.pivot:], p)
	b.pivot += len(p)
	return len(p), nil
}

// extend grows the storage by n bytes
func (b *Buffer) extend(n int) {
	grown := make([]byte, len(b.bytes)+n)
	copy(grown, b.bytes)
	b.bytes = grown
}

// WriteString writes s followed by a NUL terminator
func (b *Buffer) WriteString(s string) {
	p := make([]byte, len(s)+1)
	copy(p, s)
	b.Write(p)
}

// WriteUint32 writes v in native byte order
func (b *Buffer) WriteUint32(v uint32) {
	var p [4]byte
	binary.NativeEndian.PutUint32(p[:], v)
	b.Write(p[:])
}

// WriteFloat64 writes the IEEE 754 bits of v in native byte order
func (b *Buffer) WriteFloat64(v float64) {
	var p [8]byte
	binary.NativeEndian.PutUint64(p[:], math.Float64bits(v))
	b.Write(p[:])
}

// ReadExact fills dst from the pivot and advances it by len(dst).
// The pivot is left untouched when fewer than len(dst) bytes remain.
func (b *Buffer) ReadExact(dst []byte) error {
	if len(dst) > b.Remaining() {
		return ErrTruncatedData
	}
	copy(dst, b.bytes[b.pivot:])
	b.pivot += len(dst)
	return nil
}

// ReadString returns the bytes up to the next NUL and moves the pivot past it
func (b *Buffer) ReadString() (string, error) {
	end := bytes.IndexByte(b.bytes[b.pivot:], 0)
	if end < 0 {
		return "", ErrTruncatedData
	}
	s := string(b.bytes[b.pivot : b.pivot+end])
	b.pivot += end + 1
	return s, nil
}

// ReadUint32 reads a native byte order uint32
func (b *Buffer) ReadUint32() (uint32, error) {
	var p [4]byte
	if err := b.ReadExact(p[:]); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint32(p[:]), nil
}

// ReadFloat64 reads a native byte order float64
func (b *Buffer) ReadFloat64() (float64, error) {
	var p [8]byte
	if err := b.ReadExact(p[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.NativeEndian.Uint64(p[:])), nil
}

// Dump writes a hex dump of the whole buffer, 16 bytes per row with an ASCII gutter
func (b *Buffer) Dump(w io.Writer) error {
	d := hex.Dumper(w)
	if _, err := d.Write(b.bytes); err != nil {
		return err
	}
	return d.Close()
}
