// Package kv defines the synchronous key-value store the session layer
// persists its records to. Writes are last-writer-wins; implementations must
// be safe for concurrent use.
package kv

// Store is a minimal per-user string store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)
	Set(key, value string) error
	// Delete removes key; deleting an absent key is not an error.
	Delete(key string) error
}
