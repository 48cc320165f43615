package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key derives a stable cache key from a parameter value. The value is
// serialized to canonical JSON (object keys sorted, so two maps that
// differ only in insertion order hash identically) and digested with
// SHA-256. The same normalized parameters always produce the same key.
func Key(params any) (string, error) {
	canonical, err := canonicalJSON(params)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize cache key params: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalJSON round-trips the value through an untyped decode so that
// encoding/json emits object keys in sorted order regardless of the
// original field or insertion order.
func canonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}
