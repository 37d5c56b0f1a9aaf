package store

import (
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	nodesBucket = []byte("mmr_nodes")
	metaBucket  = []byte("mmr_meta")
)

// Codec converts between an mmr item type and the flat bytes bbolt stores.
type Codec[T any] struct {
	Encode func(T) []byte
	Decode func([]byte) (T, error)
}

// Fixed32Codec is the Codec for the common case of a 32-byte hash item, the
// output type of every merge implementation in the merge package.
func Fixed32Codec() Codec[[32]byte] {
	return Codec[[32]byte]{
		Encode: func(v [32]byte) []byte { return v[:] },
		Decode: func(raw []byte) ([32]byte, error) {
			var v [32]byte
			if len(raw) != 32 {
				return v, fmt.Errorf("store: expected a 32 byte node, got %d bytes", len(raw))
			}
			copy(v[:], raw)
			return v, nil
		},
	}
}

type boltRun[T any] struct {
	startPos uint64
	items    []T
}

// Bolt is a persistent mmr.Store backed by a single bbolt bucket, keyed by
// big-endian position. Writes staged via Append are only visible to Get
// once Commit runs them inside a single bbolt write transaction.
type Bolt[T any] struct {
	db      *bbolt.DB
	codec   Codec[T]
	pending []boltRun[T]
}

// OpenBolt opens (creating if necessary) a bbolt database at path and
// prepares its node bucket.
func OpenBolt[T any](path string, codec Codec[T]) (*Bolt[T], error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening bolt store: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, e := tx.CreateBucketIfNotExists(nodesBucket); e != nil {
			return e
		}
		_, e := tx.CreateBucketIfNotExists(metaBucket)
		return e
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating mmr buckets: %w", err)
	}
	return &Bolt[T]{db: db, codec: codec}, nil
}

// MMRSize reads the mmr size last recorded by SetMMRSize, or 0 if none has
// been recorded yet - a fresh database backs an empty mmr.
func (b *Bolt[T]) MMRSize() (uint64, error) {
	var size uint64
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(metaBucket).Get([]byte("size"))
		if v != nil {
			size = binary.BigEndian.Uint64(v)
		}
		return nil
	})
	return size, err
}

// SetMMRSize persists the mmr size a caller should resume from on next open.
// The CLI calls this after every committed push so the next invocation of
// the process can pick up where the last one left off.
func (b *Bolt[T]) SetMMRSize(size uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, size)
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(metaBucket).Put([]byte("size"), buf)
	})
}

func posKey(pos uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, pos)
	return key
}

// Get implements mmr.NodeReader.
func (b *Bolt[T]) Get(pos uint64) (T, bool, error) {
	var zero T
	var raw []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(nodesBucket).Get(posKey(pos)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return zero, false, err
	}
	if raw == nil {
		return zero, false, nil
	}
	item, err := b.codec.Decode(raw)
	if err != nil {
		return zero, false, err
	}
	return item, true, nil
}

// Append implements mmr.NodeWriter, staging a run until Commit.
func (b *Bolt[T]) Append(startPos uint64, items []T) error {
	b.pending = append(b.pending, boltRun[T]{startPos: startPos, items: items})
	return nil
}

// Commit implements mmr.NodeWriter, writing every staged run in one bbolt
// transaction.
func (b *Bolt[T]) Commit() error {
	if len(b.pending) == 0 {
		return nil
	}
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(nodesBucket)
		for _, r := range b.pending {
			for i, item := range r.items {
				if err := bucket.Put(posKey(r.startPos+uint64(i)), b.codec.Encode(item)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("committing mmr nodes: %w", err)
	}
	b.pending = nil
	return nil
}

// Close releases the underlying bbolt database handle.
func (b *Bolt[T]) Close() error {
	return b.db.Close()
}
