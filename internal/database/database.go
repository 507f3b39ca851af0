package database

import (
	"context"
	"strings"

	"github.com/isdelr/taskmanager-be/internal/storage"
	"github.com/isdelr/taskmanager-be/internal/storage/mongo"
	"github.com/isdelr/taskmanager-be/internal/storage/sqlite"
)

// Backend names the storage engine selected by a database URL.
type Backend string

const (
	BackendSQLite  Backend = "sqlite"
	BackendMongoDB Backend = "mongodb"
)

// Resolve picks the backend for url and returns the backend-specific address.
// mongodb:// and mongodb+srv:// URLs select MongoDB; anything else is a SQLite
// file path, optionally prefixed with sqlite://.
func Resolve(url string) (Backend, string) {
	url = strings.TrimSpace(url)
	if strings.HasPrefix(url, "mongodb://") || strings.HasPrefix(url, "mongodb+srv://") {
		return BackendMongoDB, url
	}
	return BackendSQLite, strings.TrimPrefix(url, "sqlite://")
}

// Open opens the store selected by url.
func Open(ctx context.Context, url string) (storage.Store, Backend, error) {
	backend, addr := Resolve(url)
	switch backend {
	case BackendMongoDB:
		store, err := mongo.Open(ctx, addr)
		if err != nil {
			return nil, backend, err
		}
		return store, backend, nil
	default:
		store, err := sqlite.Open(addr)
		if err != nil {
			return nil, backend, err
		}
		return store, backend, nil
	}
}
