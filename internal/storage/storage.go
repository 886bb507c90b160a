// Package storage defines the key-value persistence port the rule store
// writes through, plus file, SQLite, and in-memory backends. The engine
// never touches a concrete backend directly.
package storage

import "errors"

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// KV is the persistence port: opaque values under stable string keys.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}
