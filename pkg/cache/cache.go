// Package cache memoizes report query results keyed by a canonical hash
// of the normalized query arguments. Entries carry no TTL; freshness is
// maintained by write-path collaborators flushing a whole namespace
// whenever underlying customer or order data changes.
package cache

import "context"

// Store is the report result cache contract. Keys live inside a
// namespace (one per report type) and are invalidated wholesale via
// Flush. Implementations must tolerate concurrent readers and writers;
// Set is idempotent, re-running the same query overwrites the entry
// with an identical value.
type Store interface {
	// Get returns the cached value for key, or ErrCacheMiss.
	Get(ctx context.Context, namespace, key string) ([]byte, error)

	// Set stores value under key. Overwrites are permitted.
	Set(ctx context.Context, namespace, key string, value []byte) error

	// Flush invalidates every entry in the namespace.
	Flush(ctx context.Context, namespace string) error

	// Close releases backend resources.
	Close() error
}
