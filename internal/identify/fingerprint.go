package identify

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint digests the raw, un-decoded image payload. It is only a
// cache key; collisions are a negligible-probability risk we accept.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
