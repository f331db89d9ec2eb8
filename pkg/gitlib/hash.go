// Package gitlib exposes the parts of a libgit2 object database that gitbloat
// needs: object enumeration, raw object headers and typed blob reads.
package gitlib

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

const (
	// HashSize is the size of a SHA-1 object id in bytes.
	HashSize = 20
	// HashHexSize is the size of a hex-encoded SHA-1 object id.
	HashHexSize = 40
)

// ErrInvalidHash is returned by ParseHash for malformed hex input.
var ErrInvalidHash = errors.New("invalid object id")

// Hash identifies a git object by its SHA-1 content hash.
type Hash [HashSize]byte

// ParseHash decodes a full 40-character hex object id.
func ParseHash(hexStr string) (Hash, error) {
	var h Hash

	if len(hexStr) != HashHexSize {
		return h, fmt.Errorf("%w: %q has length %d", ErrInvalidHash, hexStr, len(hexStr))
	}

	_, err := hex.Decode(h[:], []byte(hexStr))
	if err != nil {
		return h, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}

	return h, nil
}

// NewHash decodes a hex object id, ignoring malformed input.
// Used for testing and constants.
func NewHash(hexStr string) Hash {
	h, err := ParseHash(hexStr)
	if err != nil {
		return Hash{}
	}

	return h
}

// HashFromOid converts a libgit2 Oid to Hash.
func HashFromOid(oid *git2go.Oid) Hash {
	var h Hash
	copy(h[:], oid[:])

	return h
}

// ToOid converts the hash back to a libgit2 Oid.
func (h Hash) ToOid() *git2go.Oid {
	oid := new(git2go.Oid)
	copy(oid[:], h[:])

	return oid
}

// String returns the lowercase hex representation of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the first n hex characters of the hash.
func (h Hash) Short(n int) string {
	s := h.String()
	if n <= 0 || n >= len(s) {
		return s
	}

	return s[:n]
}

// Compare orders hashes by their raw bytes.
func (h Hash) Compare(other Hash) int {
	return bytes.Compare(h[:], other[:])
}
