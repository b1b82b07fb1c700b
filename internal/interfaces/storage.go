package interfaces

import "time"

// Cache is the process-wide TTL cache, explicitly constructed and injected by
// the application entrypoint. Entries are immutable once written: a racing
// recompute on a cold key does duplicated work, never corruption.
type Cache interface {
	// Get returns the cached value, or false if missing or expired.
	Get(key string) (interface{}, bool)

	// Set stores a value with the given TTL.
	Set(key string, value interface{}, ttl time.Duration)

	// Clear removes one key.
	Clear(key string)

	// ClearAll removes every entry.
	ClearAll()
}
