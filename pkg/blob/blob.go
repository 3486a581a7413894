// Package blob implements the content-addressed blob store (component C1,
// SPEC_FULL.md §4.8): per-workspace binary storage keyed by the blake2b-256
// hash of its contents, base58-encoded and right-padded to 44 characters.
// Grounded on
// _examples/original_source/sn0int-std/src/blobs.rs (the Blob type and its
// hash/encode test vectors) and
// _examples/original_source/src/blobs.rs (the filesystem-backed
// BlobStorage), translated from fs::read/write into os.ReadFile/WriteFile.
package blob

import (
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// Blob is a self-describing byte buffer: Id always equals Hash(Bytes).
type Blob struct {
	ID    string
	Bytes []byte
}

// Create hashes bytes and returns the resulting Blob.
func Create(bytes []byte) Blob {
	return Blob{ID: Hash(bytes), Bytes: bytes}
}

// Hash returns the canonical blob id for bytes: base58(blake2b-256(bytes))
// right-padded with '0' to 44 characters.
func Hash(bytes []byte) string {
	sum := blake2b.Sum256(bytes)
	return encodeHash(sum[:])
}

func encodeHash(sum []byte) string {
	s := base58.Encode(sum)
	if len(s) >= 44 {
		return s
	}
	padding := make([]byte, 44-len(s))
	for i := range padding {
		padding[i] = '0'
	}
	return s + string(padding)
}

// ValidID reports whether id only contains characters blake2b's base58
// encoding can ever produce — alphanumerics, never path separators.
func ValidID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}
