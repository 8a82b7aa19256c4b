// Package hmac signs short messages with HMAC-SHA256 under a fixed-size
// key. The RPC server uses it to mint session tokens.
package hmac

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/go-i2p/crypto/rand"
	"github.com/samber/oops"
)

type (
	Key    [32]byte
	Digest [sha256.Size]byte
)

// NewKey draws a key from the system's secure random source.
func NewKey() (k Key, err error) {
	if _, err = rand.Read(k[:]); err != nil {
		err = oops.Wrapf(err, "failed to generate HMAC key")
	}
	return
}

// Sum computes HMAC-SHA256 of data under k.
func Sum(data []byte, k Key) (d Digest) {
	mac := hmac.New(sha256.New, k[:])
	mac.Write(data)
	copy(d[:], mac.Sum(nil))
	return
}

// Equal compares two byte strings in constant time.
func Equal(a, b []byte) bool {
	return hmac.Equal(a, b)
}
