package history

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// ContentHash returns the hex SHA3-256 fingerprint of content.
func ContentHash(content string) string {
	sum := sha3.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
