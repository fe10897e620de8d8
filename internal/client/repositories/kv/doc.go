// Package kv provides the client-side key/value persistence layer.
//
// # Overview
//
// The package defines a Store interface with Get/Set/Delete/List/Clear over
// structured keys (see Key). Three implementations are provided:
//
//   - SQLiteStore: modernc SQLite with goose migrations (default)
//   - BoltStore: a BoltDB file, one bucket per namespace
//   - MemoryStore: process memory, used by tests and the "memory" driver
//
// # Keys
//
// A Key is a (Namespace, Name) pair. Namespaces keep unrelated records apart,
// so favorites of "alice" and "bob" live under the same namespace but can
// never collide with each other or with a password record.
//
// # Contract
//
// Get returns (nil, nil) for an absent key. Delete is idempotent. Values are
// copied on the way in and on the way out.
//
// # Atomic writes
//
// Stores that can group writes implement Batcher. Use Atomic to run a batch
// when available and fall back to sequential writes otherwise.
//
// Typical Usage
//
//	store, _ := kv.Open(ctx, "sqlite", "countries.db")
//	defer store.Close()
//	_ = store.Set(ctx, kv.Key{Namespace: "favorites", Name: "alice"}, data)
//	v, _ := store.Get(ctx, kv.Key{Namespace: "favorites", Name: "alice"})
package kv
