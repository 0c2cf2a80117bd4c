package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey returns a stable opaque key for a client ID so raw identifiers are never stored.
func HashUserKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
