// Package store implements storedefs.Store on top of a bbolt database, and
// in memory.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"src.deck.sh/pkg/logutil"
	"src.deck.sh/pkg/store/storedefs"
)

var logger = logutil.GetLogger("store")

// Bucket names.
const (
	bucketDocuments = "documents"
	bucketInfo      = "document_info"
	bucketAssets    = "assets"
)

// initDB is a map of functions that initialize the database, keyed by a
// description. Each file that uses a bucket registers its own initializer.
var initDB = map[string](func(*bolt.Tx) error){}

// DBStore is a storedefs.Store backed by a bbolt database file.
type DBStore struct {
	db  *bolt.DB
	now func() time.Time
}

var _ storedefs.Store = (*DBStore)(nil)

// NewStore opens or creates the database at the given path, creating its
// directory if needed.
func NewStore(path string) (*DBStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a new store from a bbolt database.
func NewStoreFromDB(db *bolt.DB) (*DBStore, error) {
	logger.Info("initializing store", zap.String("path", db.Path()))
	st := &DBStore{db, func() time.Time { return time.Now().UTC() }}
	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("initialized store")
	return st, nil
}

// Close closes the database.
func (s *DBStore) Close() error {
	logger.Info("closing store", zap.String("path", s.db.Path()))
	return s.db.Close()
}

func (s *DBStore) view(ctx context.Context, fn func(*bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

func (s *DBStore) update(ctx context.Context, fn func(*bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(fn)
}
