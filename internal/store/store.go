// Package store keeps the most recent extracted artifact of each kind in a
// badger database, so repeated extractions overwrite rather than accumulate.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const artifactPrefix = "artifact:"

type Kind string

const (
	KindPKESK Kind = "pkesk"
	KindSEIP  Kind = "seip"
)

var (
	ErrNotFound    = errors.New("store: artifact not found")
	ErrInvalidKind = errors.New("store: invalid artifact kind")
)

// Record is one stored artifact.
type Record struct {
	Kind     Kind      `json:"kind"`
	Source   string    `json:"source"`
	Offset   int       `json:"offset"`
	StoredAt time.Time `json:"stored_at"`
	Data     []byte    `json:"data"`
}

type Store struct {
	db *badger.DB
}

func Open(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("store: empty directory")
	}
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	return open(opts)
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", opts.Dir, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func artifactKey(kind Kind) []byte {
	return []byte(artifactPrefix + string(kind))
}

func validKind(kind Kind) bool {
	return kind == KindPKESK || kind == KindSEIP
}

// Put replaces the stored artifact of rec.Kind.
func (s *Store) Put(rec Record) error {
	if !validKind(rec.Kind) {
		return fmt.Errorf("%w: %q", ErrInvalidKind, rec.Kind)
	}
	if rec.StoredAt.IsZero() {
		rec.StoredAt = time.Now().UTC()
	}
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", rec.Kind, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(artifactKey(rec.Kind), val)
	})
}

func (s *Store) Get(kind Kind) (Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(artifactKey(kind))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, kind)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns every stored artifact ordered by kind.
func (s *Store) List() ([]Record, error) {
	var out []Record
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(artifactPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("store: read %s: %w", it.Item().Key(), err)
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
