// Package hash provides the digests learnpath stores or sends: truncated
// SHA256 ids for anonymized telemetry and argon2id password digests.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// IDLength is the number of hex characters used for truncated hash IDs.
// 16 hex chars = 8 bytes = 64 bits.
const IDLength = 16

// TruncatedSHA256 returns the first IDLength hex characters of the SHA256 of
// data. Learner ids pass through it before leaving the process.
func TruncatedSHA256(data string) string {
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])[:IDLength]
}
