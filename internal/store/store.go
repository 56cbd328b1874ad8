// Package store persists computed fingerprints keyed by the content hash
// of the source file, so unchanged files are not decoded again on the
// next scan. Lookups are by exact content only.
package store

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/AnyUserName/imgprint-cli/internal/phash"
)

// Record is the cached outcome of fingerprinting one file.
type Record struct {
	Format     string                       `json:"format"` // decoded format, not the extension
	Width      int                          `json:"width"`
	Height     int                          `json:"height"`
	Components int                          `json:"components"`
	ColorSpace string                       `json:"color_space"`
	HasAlpha   bool                         `json:"has_alpha,omitempty"`
	Hashes     map[string]phash.Fingerprint `json:"hashes"`
}

// Store is a bbolt-backed fingerprint cache. Records are grouped in one
// bucket per namespace (see profile.Profile.CacheNamespace).
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the cache file at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open cache")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the record stored for contentHash, if any.
func (s *Store) Get(namespace, contentHash string) (*Record, bool, error) {
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(namespace))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(contentHash)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "read cache")
	}
	if raw == nil {
		return nil, false, nil
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false, errors.Wrapf(err, "decode cache record %s", contentHash)
	}
	return &rec, true, nil
}

// Put stores rec under contentHash, replacing any previous record.
func (s *Store) Put(namespace, contentHash string, rec *Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encode cache record")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(namespace))
		if err != nil {
			return errors.Wrap(err, "create bucket")
		}
		return b.Put([]byte(contentHash), raw)
	})
}

// Len returns the number of records in namespace.
func (s *Store) Len(namespace string) (int, error) {
	n := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket([]byte(namespace)); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}
