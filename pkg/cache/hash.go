package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// DiagramKey returns the cache key for DOT source rendered to format.
func DiagramKey(src, format string) string {
	return "diagram:" + format + ":" + Hash([]byte(src))
}
