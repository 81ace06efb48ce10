// Package sqlite provides the public API for the SQLite tinyj store.
// This package exposes the factory functions for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/tinyj/internal/sqlite"
	"github.com/mesh-intelligence/tinyj/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: "tinyj-data",
//	})
//	defer backend.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}

// Open creates a backend and attaches it to cfg.
func Open(cfg types.Config) (types.Store, error) {
	b := sqlite.NewBackend()
	if err := b.Attach(cfg); err != nil {
		return nil, err
	}
	return b, nil
}
