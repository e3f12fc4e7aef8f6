// Package store persists library blocks and designs behind a small
// key-value interface.
//
// Four backends implement [Store]:
//   - [FileStore]: one JSON file per key under a directory, for CLI usage
//   - [RedisStore]: a Redis server, for a shared library across API servers
//   - [MongoStore]: a MongoDB collection
//   - [NullStore]: stores nothing
//
// [Library] layers typed access on top: it encodes blocks with package io,
// derives keys with a [Keyer], validates names, retries transient backend
// failures and reports hits and misses to the observability hooks.
package store

import (
	"context"
	"fmt"
	"time"
)

// Store is a key-value store for encoded documents.
type Store interface {
	// Get returns the value for key. The bool is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every live key starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// Backend names the implementation ("file", "redis", ...).
	Backend() string

	// Close releases any connection held by the store.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile    = "file"
	BackendRedis   = "redis"
	BackendMongo   = "mongodb"
	BackendNull    = "null"
	defaultBackend = BackendFile
)

// Config selects and configures a backend.
type Config struct {
	Backend string

	// Dir is the FileStore root.
	Dir string

	// RedisURL is a redis:// URL for RedisStore.
	RedisURL string

	// MongoURI, MongoDatabase and MongoCollection configure MongoStore.
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open connects to the backend named by cfg.Backend. An empty backend
// means "file".
func Open(ctx context.Context, cfg Config) (Store, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = defaultBackend
	}
	switch backend {
	case BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file store: no directory configured")
		}
		return NewFileStore(cfg.Dir)
	case BackendRedis:
		return NewRedisStore(ctx, cfg.RedisURL)
	case BackendMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case BackendNull:
		return NewNullStore(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}
