// Package store persists whole catalogs to data files.
//
// A data file is the encoded catalog and nothing else. Saves replace the file
// and loads read it back in one piece; there is no partial-failure recovery.
package store

import (
	"errors"
	"io/fs"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/ssargent/bdsm/pkg/buffer"
	"github.com/ssargent/bdsm/pkg/catalog"
	"github.com/ssargent/bdsm/pkg/codec"
	"github.com/ssargent/bdsm/pkg/metrics"
)

// Persister saves and loads catalogs, logging and counting every operation
type Persister struct {
	codec   *codec.BookCodec
	logger  zerolog.Logger
	metrics *metrics.Metrics
	noSync  bool
}

// Option configures a Persister
type Option func(*Persister)

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Persister) { p.logger = logger }
}

// WithMetrics records persistence metrics on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Persister) { p.metrics = m }
}

// WithoutSync skips fsync on save
func WithoutSync() Option {
	return func(p *Persister) { p.noSync = true }
}

// NewPersister creates a persister
func NewPersister(opts ...Option) *Persister {
	p := &Persister{
		codec:  codec.NewBookCodec(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Save encodes c and replaces the file at path with the result
func (p *Persister) Save(c *catalog.Catalog, path string) error {
	buf := buffer.New()
	p.codec.EncodeCatalog(c, buf)

	size, err := p.writeFile(path, buf.Bytes())
	p.record("save", err, int(size))
	if err != nil {
		p.logger.Error().Err(err).Str("path", path).Msg("save failed")
		return err
	}

	p.logger.Info().
		Str("path", path).
		Int("books", c.Len()).
		Str("size", humanize.Bytes(uint64(size))).
		Msg("catalog saved")
	return nil
}

// writeFile replaces the file at path with data and returns the bytes written
func (p *Persister) writeFile(path string, data []byte) (int64, error) {
	w, err := NewFileWriter(FileWriterConfig{FilePath: path, NoSync: p.noSync})
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return w.Size(), err
	}
	if err := w.Close(); err != nil {
		return w.Size(), err
	}
	p.logger.Debug().Str("path", w.Path()).Int64("bytes", w.Size()).Msg("data file written")
	return w.Size(), nil
}

// Load reads and decodes the catalog stored at path.
// A missing file yields ErrNotFound.
func (p *Persister) Load(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Debug().Str("path", path).Msg("data file does not exist")
			return nil, ErrNotFound
		}
		err = &IOError{Op: "read", Path: path, Err: err}
		p.record("load", err, 0)
		p.logger.Error().Err(err).Str("path", path).Msg("load failed")
		return nil, err
	}

	c, err := p.codec.Unmarshal(data)
	p.record("load", err, len(data))
	if err != nil {
		p.logger.Error().Err(err).Str("path", path).Msg("data file is malformed")
		return nil, err
	}

	p.logger.Info().
		Str("path", path).
		Int("books", c.Len()).
		Str("size", humanize.Bytes(uint64(len(data)))).
		Msg("catalog loaded")
	return c, nil
}

func (p *Persister) record(op string, err error, n int) {
	if p.metrics != nil {
		p.metrics.RecordPersistence(op, err == nil, n)
	}
}

var defaultPersister = NewPersister()

// Save writes c to path with the default persister
func Save(c *catalog.Catalog, path string) error {
	return defaultPersister.Save(c, path)
}

// Load reads a catalog from path with the default persister
func Load(path string) (*catalog.Catalog, error) {
	return defaultPersister.Load(path)
}
