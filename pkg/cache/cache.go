// Package cache provides a persistent cache of conversion results, so that
// repeated conversions of the same script skip the parser and converter
// entirely.
//
// Results are stored in a single-file database, keyed by a digest of the
// source text and the output style.
package cache

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"github.com/nuposix/nuposix/pkg/logutil"
)

var logger = logutil.GetLogger("[cache] ")

const bucketConversion = "conversion"

// ErrNoCachedResult is returned by [Store.Get] when the source has no cached
// conversion.
var ErrNoCachedResult = errors.New("no cached result")

// Store is a cache backed by a database file. It is safe for concurrent use.
type Store struct {
	db *bolt.DB
}

// Open opens the database file, creating it and the necessary buckets when
// missing. The timeout bounds the wait for the file lock when another
// process holds the database open.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{
		Timeout: time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open cache %v: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketConversion))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize cache %v: %w", path, err)
	}
	logger.Println("opened cache at", path)
	return &Store{db}, nil
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get looks up the cached conversion of code. It returns ErrNoCachedResult
// when there is none.
func (s *Store) Get(code string, compact bool) (string, error) {
	var result string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketConversion))
		v := b.Get(key(code, compact))
		if v == nil {
			return ErrNoCachedResult
		}
		result = string(v)
		return nil
	})
	return result, err
}

// Put stores the conversion of code.
func (s *Store) Put(code string, compact bool, result string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketConversion))
		return b.Put(key(code, compact), []byte(result))
	})
}

// Clear drops all cached conversions.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketConversion)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(bucketConversion))
		return err
	})
}

// Len counts the cached conversions.
func (s *Store) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketConversion)).Stats().KeyN
		return nil
	})
	return n, err
}

// key derives the bucket key of one source text. The output style is part of
// the key since it changes the result.
func key(code string, compact bool) []byte {
	h := sha256.New()
	if compact {
		h.Write([]byte{'c'})
	} else {
		h.Write([]byte{'p'})
	}
	h.Write([]byte(code))
	return h.Sum(nil)
}
