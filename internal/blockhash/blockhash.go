// Package blockhash computes the content identity used to address blocks
// in a BlockDir: the hex-encoded BLAKE2b-512 digest of a byte slice.
package blockhash

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Size is the length in hex characters of a Hash: 64 raw digest bytes,
// two hex characters each.
const Size = 2 * blake2b.Size

// Hash identifies a block by the hex digest of its decompressed contents.
type Hash = string

// Bytes returns the lowercase hex BLAKE2b-512 digest of buf.
func Bytes(buf []byte) Hash {
	sum := blake2b.Sum512(buf)
	return hex.EncodeToString(sum[:])
}
