package rsa

import (
	"encoding/json"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustInt(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "not a decimal integer: %q", s)
	return v
}

func TestGenerateKeysShape(t *testing.T) {
	kp, err := GenerateKeys(16)
	require.NoError(t, err)

	assert.Equal(t, kp.PublicKey.N, kp.PrivateKey.N, "both halves share the modulus")

	n := mustInt(t, kp.PublicKey.N)
	e := mustInt(t, kp.PublicKey.E)
	d := mustInt(t, kp.PrivateKey.D)

	// two 16-bit primes give a 31 or 32 bit modulus
	assert.GreaterOrEqual(t, n.BitLen(), 31)
	assert.LessOrEqual(t, n.BitLen(), 32)
	assert.GreaterOrEqual(t, e.Int64(), int64(DefaultExponent))
	assert.Equal(t, uint(1), e.Bit(0), "e stays odd")
	assert.True(t, d.Sign() > 0)
}

func TestGenerateKeysRejectsTinySizes(t *testing.T) {
	for _, bits := range []int{-1, 0, 1} {
		_, err := GenerateKeys(bits)
		assert.ErrorIs(t, err, ErrInvalidBitSize, "bits=%d", bits)
	}
}

func TestKeyGeneratorDeterministic(t *testing.T) {
	a, err := NewKeyGenerator(rand.NewSource(2024)).Generate(16)
	require.NoError(t, err)
	b, err := NewKeyGenerator(rand.NewSource(2024)).Generate(16)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestKeyGeneratorTwoBits covers the smallest accepted size, where p and q
// are both 3 and φ is computed as (3-1)(3-1) = 4.
func TestKeyGeneratorTwoBits(t *testing.T) {
	kp, err := NewKeyGenerator(rand.NewSource(1)).Generate(2)
	require.NoError(t, err)
	assert.Equal(t, "9", kp.PublicKey.N)
	assert.Equal(t, "65537", kp.PublicKey.E)
	assert.Equal(t, "1", kp.PrivateKey.D)
}

func TestKeyGeneratorDistinctPrimesNeedsThreeBits(t *testing.T) {
	g := NewKeyGenerator(rand.NewSource(1))
	g.DistinctPrimes = true
	_, err := g.Generate(2)
	assert.ErrorIs(t, err, ErrInvalidBitSize)

	kp, err := g.Generate(3)
	require.NoError(t, err)
	// 3-bit primes are 5 and 7
	assert.Equal(t, "35", kp.PublicKey.N)
}

// TestKeyValidity spot-checks (m^e)^d mod n == m for random m in [0, n-1].
func TestKeyValidity(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		g := NewKeyGenerator(rand.NewSource(seed))
		g.DistinctPrimes = true
		kp, err := g.Generate(16)
		require.NoError(t, err)

		n := mustInt(t, kp.PublicKey.N)
		e := mustInt(t, kp.PublicKey.E)
		d := mustInt(t, kp.PrivateKey.D)

		rnd := rand.New(rand.NewSource(seed * 31))
		samples := []*big.Int{big.NewInt(0), big.NewInt(1), new(big.Int).Sub(n, one)}
		for i := 0; i < 50; i++ {
			samples = append(samples, new(big.Int).Rand(rnd, n))
		}
		for _, m := range samples {
			c := ModPow(m, e, n)
			assert.Equal(t, 0, ModPow(c, d, n).Cmp(m), "seed %d: m=%s n=%s", seed, m, n)
		}
	}
}

func TestKeyPairSerialization(t *testing.T) {
	kp := &KeyPair{
		PublicKey:  PublicKey{E: "17", N: "3233"},
		PrivateKey: PrivateKey{D: "2753", N: "3233"},
	}

	data, err := json.Marshal(kp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"publicKey":{"e":"17","n":"3233"},"privateKey":{"d":"2753","n":"3233"}}`, string(data))

	out, err := yaml.Marshal(kp)
	require.NoError(t, err)
	var back KeyPair
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, *kp, back)
	assert.Contains(t, string(out), "publicKey:")
}
