package rsa

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textbook key: p=61, q=53
const (
	tbE = "17"
	tbD = "2753"
	tbN = "3233"
)

func TestEncryptTextbook(t *testing.T) {
	ct, err := Encrypt("A", tbE, tbN)
	require.NoError(t, err)
	assert.Equal(t, "2790", ct)

	ct, err = Encrypt("AA", tbE, tbN)
	require.NoError(t, err)
	assert.Equal(t, "2790.2790", ct)

	pt, err := Decrypt("2790.2790", tbD, tbN)
	require.NoError(t, err)
	assert.Equal(t, "AA", pt)
}

func TestEncryptEmpty(t *testing.T) {
	ct, err := Encrypt("", tbE, tbN)
	require.NoError(t, err)
	assert.Equal(t, "", ct)

	pt, err := Decrypt("", tbD, tbN)
	require.NoError(t, err)
	assert.Equal(t, "", pt)
}

func TestEncryptTokensStayBelowModulus(t *testing.T) {
	ct, err := Encrypt("Hello, World! 123", tbE, tbN)
	require.NoError(t, err)

	tokens := strings.Split(ct, Delimiter)
	assert.Len(t, tokens, len("Hello, World! 123"))
	for _, tok := range tokens {
		v := mustInt(t, tok)
		assert.True(t, v.Sign() >= 0 && v.Cmp(mustInt(t, tbN)) < 0, "token %s out of range", tok)
	}
}

func TestEncryptBoundary(t *testing.T) {
	// code n-1 is the largest encryptable value
	ct, err := Encrypt(string(rune(3232)), tbE, tbN)
	require.NoError(t, err)
	pt, err := Decrypt(ct, tbD, tbN)
	require.NoError(t, err)
	assert.Equal(t, string(rune(3232)), pt)

	for _, code := range []rune{3233, 3234, 0x4E2D} {
		ct, err := Encrypt("ok"+string(code), tbE, tbN)
		assert.Empty(t, ct, "no partial ciphertext for code %d", code)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCharacterTooLarge)

		var tooLarge *CharacterTooLargeError
		require.True(t, errors.As(err, &tooLarge))
		assert.Equal(t, uint16(code), tooLarge.Code)
		assert.Equal(t, tbN, tooLarge.Modulus.String())
		assert.Contains(t, err.Error(), "n=3233")
	}
}

func TestEncryptMissingKey(t *testing.T) {
	for _, tc := range []struct{ e, n string }{{"", tbN}, {tbE, ""}, {"", ""}} {
		_, err := Encrypt("x", tc.e, tc.n)
		assert.ErrorIs(t, err, ErrMissingPublicKey)
		assert.ErrorIs(t, err, ErrInvalidKey)
	}
}

func TestDecryptMissingKey(t *testing.T) {
	for _, tc := range []struct{ d, n string }{{"", tbN}, {tbD, ""}} {
		_, err := Decrypt("2790", tc.d, tc.n)
		assert.ErrorIs(t, err, ErrMissingPrivateKey)
		assert.ErrorIs(t, err, ErrInvalidKey)
	}
}

func TestInvalidKeyComponents(t *testing.T) {
	cases := []struct {
		name string
		e, n string
	}{
		{"non-numeric e", "abc", tbN},
		{"negative e", "-17", tbN},
		{"hex n", tbE, "0xCA1"},
		{"zero modulus", tbE, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Encrypt("A", tc.e, tc.n)
			assert.ErrorIs(t, err, ErrInvalidKey)

			_, err = Decrypt("2790", tc.e, tc.n)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestKeyComponentsTolerateSurroundingSpace(t *testing.T) {
	ct, err := Encrypt("A", " 17 ", "3233\n")
	require.NoError(t, err)
	assert.Equal(t, "2790", ct)
}

func TestDecryptEmptyTokens(t *testing.T) {
	cases := map[string]string{
		"2790.":          "A",
		".2790":          "A",
		"2790..2790":     "AA",
		"...":            "",
		" 2790 .\t2790 ": "AA",
	}
	for in, want := range cases {
		got, err := Decrypt(in, tbD, tbN)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestDecryptMalformed(t *testing.T) {
	cases := []struct {
		cipher string
		index  int
	}{
		{"abc", 0},
		{"2790.x1", 1},
		{"2790.2790.-5", 2},
		{"2790,2790", 0},
		{"1e3", 0},
	}
	for _, tc := range cases {
		pt, err := Decrypt(tc.cipher, tbD, tbN)
		assert.Empty(t, pt)
		require.Error(t, err, "cipher %q", tc.cipher)
		assert.ErrorIs(t, err, ErrMalformedCiphertext)

		var malformed *MalformedCiphertextError
		require.True(t, errors.As(err, &malformed))
		assert.Equal(t, tc.index, malformed.Index, "cipher %q", tc.cipher)
	}
}

func TestRoundTripGeneratedKeys(t *testing.T) {
	texts := []string{
		"",
		"abcXYZ",
		"Hello, World! 123",
		"مرحباً بالعالم!",
		"emoji 😀 and 中文",
		"tabs\tand\nnewlines",
	}

	for seed := int64(10); seed < 14; seed++ {
		g := NewKeyGenerator(rand.NewSource(seed))
		g.DistinctPrimes = true
		kp, err := g.Generate(16)
		require.NoError(t, err)

		for _, text := range texts {
			ct, err := kp.PublicKey.EncryptText(text)
			require.NoError(t, err)
			pt, err := kp.PrivateKey.DecryptText(ct)
			require.NoError(t, err)
			assert.Equal(t, text, pt, "seed %d", seed)
		}
	}
}

func TestRoundTripRandomASCII(t *testing.T) {
	g := NewKeyGenerator(rand.NewSource(77))
	g.DistinctPrimes = true
	kp, err := g.Generate(12)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(78))
	for i := 0; i < 50; i++ {
		b := make([]byte, rnd.Intn(40))
		for j := range b {
			b[j] = byte(0x20 + rnd.Intn(0x5F))
		}
		text := string(b)

		ct, err := Encrypt(text, kp.PublicKey.E, kp.PublicKey.N)
		require.NoError(t, err)
		pt, err := Decrypt(ct, kp.PrivateKey.D, kp.PrivateKey.N)
		require.NoError(t, err)
		assert.Equal(t, text, pt)
	}
}

// TestDecryptTruncatesToCodeUnit decrypts with a mismatched key so that the
// recovered values exceed 16 bits; the output must still be a valid string.
func TestDecryptTruncatesToCodeUnit(t *testing.T) {
	pt, err := Decrypt("123456789", "1", "4294967291")
	require.NoError(t, err)
	// 123456789 & 0xFFFF == 0xCD15
	assert.Equal(t, string(rune(0xCD15)), pt)
}
