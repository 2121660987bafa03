// Package state defines the store capability consumed by the engine: a
// path-addressed byte store with an explicit read-only/read-write split.
// Validate phases receive a Reader; execute phases receive a Writer. The
// context is always passed explicitly, never ambient.
package state

import (
	dbm "github.com/tendermint/tm-db"
)

// Reader is the read-only view of host state handed to validate phases. It
// is safe to share across concurrent validations of a single snapshot.
type Reader interface {
	// Get returns the value at path, or nil if absent.
	Get(path string) ([]byte, error)

	// Has reports whether a value exists at path.
	Has(path string) (bool, error)
}

// Writer is the mutable handle handed to execute phases. Execute must be
// applied sequentially against the single mutable state.
type Writer interface {
	Reader

	// Set writes the value at path.
	Set(path string, value []byte) error

	// Delete removes the value at path. Deleting an absent path is a no-op.
	Delete(path string) error
}

// Store adapts a tm-db database to the path-addressed contract.
type Store struct {
	db dbm.DB
}

var _ Writer = (*Store)(nil)

// NewStore wraps an existing database.
func NewStore(db dbm.DB) *Store {
	return &Store{db: db}
}

// NewMemStore returns a Store backed by a fresh in-memory database.
func NewMemStore() *Store {
	return NewStore(dbm.NewMemDB())
}

// Get implements Reader.
func (s *Store) Get(path string) ([]byte, error) {
	return s.db.Get([]byte(path))
}

// Has implements Reader.
func (s *Store) Has(path string) (bool, error) {
	return s.db.Has([]byte(path))
}

// Set implements Writer.
func (s *Store) Set(path string, value []byte) error {
	return s.db.Set([]byte(path), value)
}

// Delete implements Writer.
func (s *Store) Delete(path string) error {
	return s.db.Delete([]byte(path))
}

// DB exposes the underlying database, for host tooling such as state dumps.
func (s *Store) DB() dbm.DB { return s.db }
