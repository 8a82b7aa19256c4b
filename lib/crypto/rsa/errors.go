package rsa

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrInvalidKey is returned when a key component is missing or is not a usable decimal integer.
	ErrInvalidKey = errors.New("invalid key")

	// ErrMissingPublicKey is returned by Encrypt when e or n is empty.
	ErrMissingPublicKey = fmt.Errorf("public key is missing: %w", ErrInvalidKey)

	// ErrMissingPrivateKey is returned by Decrypt when d or n is empty.
	ErrMissingPrivateKey = fmt.Errorf("private key is missing: %w", ErrInvalidKey)

	// ErrCharacterTooLarge is matched by every *CharacterTooLargeError.
	ErrCharacterTooLarge = errors.New("character code exceeds key modulus")

	// ErrMalformedCiphertext is matched by every *MalformedCiphertextError.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// ErrInvalidBitSize is returned for prime or key sizes that cannot produce a prime.
	ErrInvalidBitSize = errors.New("invalid bit size")
)

// CharacterTooLargeError reports an input code unit that does not fit below the modulus.
// The caller has to generate a larger key to encrypt this text.
type CharacterTooLargeError struct {
	Code    uint16
	Modulus *big.Int
}

func (e *CharacterTooLargeError) Error() string {
	return fmt.Sprintf("character code %d is too large for the given key size (n=%s); generate larger keys",
		e.Code, e.Modulus)
}

func (e *CharacterTooLargeError) Is(target error) bool {
	return target == ErrCharacterTooLarge
}

// MalformedCiphertextError reports a ciphertext token that is not an unsigned decimal integer.
type MalformedCiphertextError struct {
	// Index is the position of the token in the '.'-separated sequence.
	Index int
	Token string
}

func (e *MalformedCiphertextError) Error() string {
	return fmt.Sprintf("malformed ciphertext: token %d (%q) is not a decimal integer", e.Index, e.Token)
}

func (e *MalformedCiphertextError) Is(target error) bool {
	return target == ErrMalformedCiphertext
}
