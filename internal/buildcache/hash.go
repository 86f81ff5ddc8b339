package buildcache

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash hashes a compilation unit's source text into the cache key
// companion to its UUID. Any change to the source, however small,
// invalidates the cached outcome.
func ContentHash(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
