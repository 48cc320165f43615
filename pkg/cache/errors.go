package cache

import "errors"

// ErrCacheMiss classifies a lookup for a key that is not cached.
var ErrCacheMiss = errors.New("cache miss")
