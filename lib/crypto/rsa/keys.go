package rsa

import (
	"math/big"
	"math/rand"
	"sync"
	"time"

	"github.com/go-i2p/cipherlab/lib/crypto/types"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

// DefaultExponent is where the search for the public exponent starts.
const DefaultExponent = 65537

// PublicKey is the (e, n) half of a key pair, as decimal strings.
type PublicKey struct {
	E string `json:"e" yaml:"e"`
	N string `json:"n" yaml:"n"`
}

// PrivateKey is the (d, n) half of a key pair, as decimal strings.
type PrivateKey struct {
	D string `json:"d" yaml:"d"`
	N string `json:"n" yaml:"n"`
}

// KeyPair holds both halves generated together. It is never mutated after
// GenerateKeys returns it.
type KeyPair struct {
	PublicKey  PublicKey  `json:"publicKey" yaml:"publicKey"`
	PrivateKey PrivateKey `json:"privateKey" yaml:"privateKey"`
}

// EncryptText implements types.TextEncrypter.
func (k PublicKey) EncryptText(text string) (string, error) {
	return Encrypt(text, k.E, k.N)
}

// DecryptText implements types.TextDecrypter.
func (k PrivateKey) DecryptText(cipher string) (string, error) {
	return Decrypt(cipher, k.D, k.N)
}

var (
	_ types.TextEncrypter = PublicKey{}
	_ types.TextDecrypter = PrivateKey{}
)

// KeyGenerator produces key pairs from a non-cryptographic random source.
// It is safe for concurrent use.
type KeyGenerator struct {
	// DistinctPrimes redraws q until it differs from p. Off by default, in
	// which case p == q (and so n = p²) is possible for small sizes.
	DistinctPrimes bool

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewKeyGenerator returns a generator drawing from src. A nil src seeds
// one from the current time.
func NewKeyGenerator(src rand.Source) *KeyGenerator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &KeyGenerator{rnd: rand.New(src)}
}

var (
	defaultGenerator     *KeyGenerator
	defaultGeneratorOnce sync.Once
)

// GenerateKeys creates a key pair from two bits-wide primes using the
// package's shared time-seeded generator.
func GenerateKeys(bits int) (*KeyPair, error) {
	defaultGeneratorOnce.Do(func() {
		defaultGenerator = NewKeyGenerator(nil)
	})
	return defaultGenerator.Generate(bits)
}

// Generate draws p and q, picks the smallest e >= 65537 (odd) coprime to
// φ = (p-1)(q-1), and sets d = e⁻¹ mod φ.
func (g *KeyGenerator) Generate(bits int) (*KeyPair, error) {
	if bits < 2 {
		return nil, oops.Wrapf(ErrInvalidBitSize, "key size must be at least 2 bits, got %d", bits)
	}
	if g.DistinctPrimes && bits < 3 {
		// 3 is the only 2-bit candidate
		return nil, oops.Wrapf(ErrInvalidBitSize, "distinct primes need at least 3 bits, got %d", bits)
	}

	p, q, err := g.primes(bits)
	if err != nil {
		return nil, err
	}

	n := new(big.Int).Mul(p, q)
	phi := new(big.Int).Mul(new(big.Int).Sub(p, one), new(big.Int).Sub(q, one))

	e := big.NewInt(DefaultExponent)
	for GCD(e, phi).Cmp(one) != 0 {
		e.Add(e, two)
	}
	d := ModInverse(e, phi)

	log.WithFields(logger.Fields{
		"at":   "(KeyGenerator).Generate",
		"bits": bits,
		"n":    n.String(),
		"e":    e.String(),
	}).Debug("generated key pair")

	return &KeyPair{
		PublicKey:  PublicKey{E: e.String(), N: n.String()},
		PrivateKey: PrivateKey{D: d.String(), N: n.String()},
	}, nil
}

func (g *KeyGenerator) primes(bits int) (p, q *big.Int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p, err = GeneratePrime(g.rnd, bits); err != nil {
		return nil, nil, err
	}
	for {
		if q, err = GeneratePrime(g.rnd, bits); err != nil {
			return nil, nil, err
		}
		if !g.DistinctPrimes || p.Cmp(q) != 0 {
			return p, q, nil
		}
	}
}
