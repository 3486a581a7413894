// Package cryptoutil implements the hashing/HMAC host functions
// (SPEC_FULL.md §4.4: md5/sha1/sha2-256/sha2-512/sha3-256/sha3-512 plus
// hmac variants) that scripts call directly on byte arrays. Grounded on
// _examples/original_source/src/runtime/hashes.rs, whose exact
// hex-digest test vectors for "abcdef" are reused in cryptoutil_test.go.
package cryptoutil

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"
)

func MD5(data []byte) []byte {
	sum := md5.Sum(data)
	return sum[:]
}

func SHA1(data []byte) []byte {
	sum := sha1.Sum(data)
	return sum[:]
}

func SHA256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

func SHA512(data []byte) []byte {
	sum := sha512.Sum512(data)
	return sum[:]
}

func SHA3_256(data []byte) []byte {
	sum := sha3.Sum256(data)
	return sum[:]
}

func SHA3_512(data []byte) []byte {
	sum := sha3.Sum512(data)
	return sum[:]
}

type hashFunc func() hash.Hash

var hmacHashes = map[string]hashFunc{
	"md5":       md5.New,
	"sha1":      sha1.New,
	"sha2-256":  sha256.New,
	"sha2-512":  sha512.New,
	"sha3-256":  sha3.New256,
	"sha3-512":  sha3.New512,
}

// HMAC computes an HMAC over msg under secret, using the named digest —
// one of the hmacHashes keys — mirroring hashes.rs's generic `hmac<D>`
// helper instantiated once per digest by each `hmac_*` host function.
func HMAC(digest string, secret, msg []byte) ([]byte, error) {
	newHash, ok := hmacHashes[digest]
	if !ok {
		return nil, fmt.Errorf("unknown HMAC digest: %q", digest)
	}
	mac := hmac.New(newHash, secret)
	mac.Write(msg)
	return mac.Sum(nil), nil
}

// Hex renders a byte array as lowercase hex, the `hex()` host function
// scripts pipe every digest through before comparing it to a literal.
func Hex(data []byte) string {
	return fmt.Sprintf("%x", data)
}
