package rsa

import (
	"math/big"
	"strings"
	"unicode/utf16"

	"github.com/samber/oops"
)

// Delimiter separates ciphertext tokens. It must never be a decimal digit.
const Delimiter = "."

var lowBits = big.NewInt(0xFFFF)

// Encrypt turns every UTF-16 code unit of text into code^e mod n and joins
// the decimal results with Delimiter. If any code unit is >= n the whole
// call fails with a *CharacterTooLargeError and no ciphertext is returned.
func Encrypt(text, e, n string) (string, error) {
	if e == "" || n == "" {
		return "", ErrMissingPublicKey
	}
	exp, err := parseKeyComponent("e", e)
	if err != nil {
		return "", err
	}
	mod, err := parseModulus(n)
	if err != nil {
		return "", err
	}

	units := utf16.Encode([]rune(text))
	tokens := make([]string, len(units))
	code := new(big.Int)
	for i, u := range units {
		code.SetUint64(uint64(u))
		if code.Cmp(mod) >= 0 {
			return "", &CharacterTooLargeError{Code: u, Modulus: mod}
		}
		tokens[i] = ModPow(code, exp, mod).String()
	}
	return strings.Join(tokens, Delimiter), nil
}

// Decrypt splits cipher on Delimiter, raises every token to d mod n and
// reassembles the resulting UTF-16 code units. Empty tokens, such as the
// one left by a trailing delimiter, contribute nothing. A token that is not
// an unsigned decimal integer fails with a *MalformedCiphertextError.
func Decrypt(cipher, d, n string) (string, error) {
	if d == "" || n == "" {
		return "", ErrMissingPrivateKey
	}
	exp, err := parseKeyComponent("d", d)
	if err != nil {
		return "", err
	}
	mod, err := parseModulus(n)
	if err != nil {
		return "", err
	}

	parts := strings.Split(cipher, Delimiter)
	units := make([]uint16, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			continue
		}
		c, ok := parseUnsigned(strings.TrimSpace(part))
		if !ok {
			return "", &MalformedCiphertextError{Index: i, Token: part}
		}
		m := ModPow(c, exp, mod)
		// keep the low 16 bits, as String.fromCharCode does
		units = append(units, uint16(m.And(m, lowBits).Uint64()))
	}
	return string(utf16.Decode(units)), nil
}

func parseKeyComponent(name, s string) (*big.Int, error) {
	v, ok := parseUnsigned(strings.TrimSpace(s))
	if !ok {
		return nil, oops.Wrapf(ErrInvalidKey, "key component %s is not a decimal integer: %q", name, s)
	}
	return v, nil
}

func parseModulus(s string) (*big.Int, error) {
	n, err := parseKeyComponent("n", s)
	if err != nil {
		return nil, err
	}
	if n.Sign() <= 0 {
		return nil, oops.Wrapf(ErrInvalidKey, "modulus must be positive, got %s", n)
	}
	return n, nil
}

// parseUnsigned accepts only ASCII digits, so signs, spaces and prefixes
// such as 0x are rejected.
func parseUnsigned(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, false
		}
	}
	return new(big.Int).SetString(s, 10)
}
