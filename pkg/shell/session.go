package shell

import (
	"errors"
	"fmt"
	"io"

	"github.com/ssargent/bdsm/pkg/catalog"
	"github.com/ssargent/bdsm/pkg/store"
)

// Session is the state a shell carries between commands
type Session struct {
	Catalog *catalog.Catalog
	Path    string // data file of the session, empty when working in memory
	Unsaved bool   // catalog differs from the last save or load
}

// NewSession creates an in-memory session with an empty catalog
func NewSession() *Session {
	return &Session{Catalog: catalog.New()}
}

// OpenSession prepares the session a shell starts with. Without a path the
// session is in-memory. A path that does not exist yet is created by saving
// an empty catalog to it, so permission problems surface immediately.
func OpenSession(p *store.Persister, path string, out io.Writer) (*Session, error) {
	if path == "" {
		fmt.Fprintln(out, "NOTE: No filename specified, working in-memory only.")
		fmt.Fprintln(out, `HINT: Pass a filename to work with a file-based bookstore, or type "load <filename>". Make sure to save often!`)
		return NewSession(), nil
	}

	c, err := p.Load(path)
	switch {
	case err == nil:
		fmt.Fprintf(out, "Loaded bookstore database from %s...\n", path)
		return &Session{Catalog: c, Path: path}, nil
	case errors.Is(err, store.ErrNotFound):
		fmt.Fprintf(out, "Bookstore database file %s does not exist yet, creating...\n", path)
		s := &Session{Catalog: catalog.New(), Path: path}
		if err := p.Save(s.Catalog, path); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, err
	}
}
