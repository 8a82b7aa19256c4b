// Package caesar implements the Caesar shift cipher over ASCII letters.
//
// Upper and lower case letters rotate within their own 26-letter alphabet;
// every other byte, including all bytes of multi-byte UTF-8 sequences,
// passes through unchanged. The cipher never fails.
package caesar

import "github.com/go-i2p/cipherlab/lib/crypto/types"

const alphabetSize = 26

// Normalize reduces any shift, negative or not, into [0, 25].
func Normalize(shift int) int {
	return ((shift % alphabetSize) + alphabetSize) % alphabetSize
}

// Inverse returns the shift that undoes shift.
func Inverse(shift int) int {
	return (alphabetSize - Normalize(shift)) % alphabetSize
}

// Encrypt rotates every ASCII letter in text forward by shift positions.
func Encrypt(text string, shift int) string {
	s := byte(Normalize(shift))
	if s == 0 {
		return text
	}

	// ASCII letters are single bytes and no byte of a multi-byte UTF-8
	// sequence falls in the ASCII range, so a byte-wise walk is safe
	out := []byte(text)
	for i, c := range out {
		switch {
		case c >= 'A' && c <= 'Z':
			out[i] = 'A' + (c-'A'+s)%alphabetSize
		case c >= 'a' && c <= 'z':
			out[i] = 'a' + (c-'a'+s)%alphabetSize
		}
	}
	return string(out)
}

// Decrypt undoes Encrypt with the same shift.
func Decrypt(text string, shift int) string {
	return Encrypt(text, Inverse(shift))
}

// Cipher binds a shift so it can be used through the types interfaces.
type Cipher struct {
	Shift int
}

// EncryptText implements types.TextEncrypter. The error is always nil.
func (c Cipher) EncryptText(text string) (string, error) {
	return Encrypt(text, c.Shift), nil
}

// DecryptText implements types.TextDecrypter. The error is always nil.
func (c Cipher) DecryptText(text string) (string, error) {
	return Decrypt(text, c.Shift), nil
}

var _ types.TextCipher = Cipher{}
