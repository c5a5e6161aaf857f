// Package archive keeps point-in-time snapshots of encoded catalogs in Pebble.
//
// Snapshots hold the exact bytes of a data file. Keys are KSUIDs, so iterating
// the archive visits snapshots oldest first.
package archive

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/bdsm/pkg/buffer"
)

var (
	blobPrefix = []byte("blob/")
	metaPrefix = []byte("meta/")
)

// ErrSnapshotNotFound is returned when no snapshot has the requested id
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot describes one archived catalog
type Snapshot struct {
	ID        ksuid.KSUID
	Label     string
	Size      int    // Encoded size in bytes
	Books     uint32 // Book count read from the blob header
	CreatedAt time.Time
}

// Archive is a Pebble-backed snapshot store
type Archive struct {
	db   *pebble.DB
	last ksuid.KSUID // newest id handed out, keeps ids strictly increasing
}

// Opener opens an archive in a directory
type Opener func(dir string) (*Archive, error)

// Open opens or creates the archive in dir
func Open(dir string) (*Archive, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", dir, err)
	}
	a := &Archive{db: db}
	if err := a.loadLast(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func (a *Archive) loadLast() error {
	iter, err := a.db.NewIter(metaBounds())
	if err != nil {
		return err
	}
	defer iter.Close()

	if iter.Last() {
		id, err := ksuid.FromBytes(iter.Key()[len(metaPrefix):])
		if err != nil {
			return fmt.Errorf("bad snapshot key %x: %w", iter.Key(), err)
		}
		a.last = id
	}
	return iter.Error()
}

func metaBounds() *pebble.IterOptions {
	return &pebble.IterOptions{
		LowerBound: metaPrefix,
		UpperBound: []byte("meta0"), // '0' follows '/'
	}
}

// nextID returns a fresh id ordered after every id already issued.
// KSUIDs only carry second resolution, so ids minted within the same second
// are bumped past the previous one.
func (a *Archive) nextID() ksuid.KSUID {
	id := ksuid.New()
	if ksuid.Compare(id, a.last) <= 0 {
		id = a.last.Next()
	}
	return id
}

func key(prefix []byte, id ksuid.KSUID) []byte {
	return append(append([]byte{}, prefix...), id.Bytes()...)
}

// Put stores blob under a new snapshot id
func (a *Archive) Put(blob []byte, label string) (Snapshot, error) {
	id := a.nextID()
	snap := Snapshot{
		ID:        id,
		Label:     label,
		Size:      len(blob),
		CreatedAt: id.Time(),
	}
	if count, err := buffer.FromBytes(blob).ReadUint32(); err == nil {
		snap.Books = count
	}

	meta := buffer.New()
	meta.WriteUint32(uint32(snap.Size))
	meta.WriteUint32(snap.Books)
	meta.WriteString(label)

	batch := a.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(key(blobPrefix, id), blob, nil); err != nil {
		return Snapshot{}, err
	}
	if err := batch.Set(key(metaPrefix, id), meta.Bytes(), nil); err != nil {
		return Snapshot{}, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return Snapshot{}, fmt.Errorf("commit snapshot: %w", err)
	}

	a.last = id
	return snap, nil
}

// Get returns a copy of the blob stored for id
func (a *Archive) Get(id ksuid.KSUID) ([]byte, error) {
	data, closer, err := a.db.Get(key(blobPrefix, id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return append([]byte{}, data...), nil
}

// List returns all snapshots, oldest first
func (a *Archive) List() ([]Snapshot, error) {
	iter, err := a.db.NewIter(metaBounds())
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var snaps []Snapshot
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key()[len(metaPrefix):])
		if err != nil {
			return nil, fmt.Errorf("bad snapshot key %x: %w", iter.Key(), err)
		}
		snap, err := decodeMeta(id, iter.Value())
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, iter.Error()
}

func decodeMeta(id ksuid.KSUID, value []byte) (Snapshot, error) {
	buf := buffer.FromBytes(value)
	size, err := buf.ReadUint32()
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s metadata: %w", id, err)
	}
	books, err := buf.ReadUint32()
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s metadata: %w", id, err)
	}
	label, err := buf.ReadString()
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s metadata: %w", id, err)
	}
	return Snapshot{
		ID:        id,
		Label:     label,
		Size:      int(size),
		Books:     books,
		CreatedAt: id.Time(),
	}, nil
}

// Delete removes a snapshot
func (a *Archive) Delete(id ksuid.KSUID) error {
	_, closer, err := a.db.Get(key(metaPrefix, id))
	if errors.Is(err, pebble.ErrNotFound) {
		return ErrSnapshotNotFound
	}
	if err != nil {
		return err
	}
	closer.Close()

	batch := a.db.NewBatch()
	defer batch.Close()
	if err := batch.Delete(key(blobPrefix, id), nil); err != nil {
		return err
	}
	if err := batch.Delete(key(metaPrefix, id), nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

// Close closes the underlying database
func (a *Archive) Close() error {
	return a.db.Close()
}
