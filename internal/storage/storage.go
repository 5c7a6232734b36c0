// Package storage is the durability layer: each store serializes its full
// in-memory state to JSON and files it under a fixed key. Backends are
// interchangeable; the engine runs on SQLite, tests on Memory.
package storage

// Backend persists named JSON snapshots.
//
// Load returns ok=false when no snapshot exists under key (first run).
// Callers treat an unparseable snapshot the same way: fall back to defaults,
// never fail construction.
type Backend interface {
	Load(key string) (data []byte, ok bool, err error)
	Save(key string, data []byte) error
	Close() error
}
