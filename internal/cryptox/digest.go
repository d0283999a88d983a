// Package cryptox computes content digests for compiled artifacts.
package cryptox

import (
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
)

// Digest is a BLAKE2b-256 checksum together with the number of bytes hashed.
type Digest struct {
	Sum  string
	Size int64
}

// DigestReader hashes everything read from r.
func DigestReader(r io.Reader) (Digest, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return Digest{}, err
	}
	n, err := io.Copy(h, r)
	if err != nil {
		return Digest{}, fmt.Errorf("hash: %w", err)
	}
	return Digest{Sum: hex.EncodeToString(h.Sum(nil)), Size: n}, nil
}
