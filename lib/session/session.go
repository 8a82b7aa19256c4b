// Package session holds the state a front-end keeps between cipher
// operations: the current RSA key pair and the key size to generate.
//
// A Session generates its key pair on demand, the first time an RSA
// operation needs one, or explicitly through GenerateKeys. Regenerating
// replaces the pair; a failed generation or a failed operation leaves the
// held pair as it was. Key pairs are never written anywhere.
package session

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/go-i2p/cipherlab/lib/config"
	"github.com/go-i2p/cipherlab/lib/crypto/caesar"
	"github.com/go-i2p/cipherlab/lib/crypto/rsa"
	"github.com/go-i2p/cipherlab/lib/crypto/types"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

var log = logger.GetGoI2PLogger()

// Algorithm selects the cipher.
type Algorithm string

const (
	Caesar Algorithm = "caesar"
	RSA    Algorithm = "rsa"
)

// Mode selects the direction.
type Mode string

const (
	Encrypt Mode = "encrypt"
	Decrypt Mode = "decrypt"
)

var (
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrUnknownMode      = errors.New("unknown mode")
)

// ParseAlgorithm accepts "caesar" or "rsa" in any case.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case Caesar, RSA:
		return a, nil
	}
	return "", oops.Wrapf(ErrUnknownAlgorithm, "%q", s)
}

// ParseMode accepts "encrypt" or "decrypt" in any case.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Encrypt, Decrypt:
		return m, nil
	}
	return "", oops.Wrapf(ErrUnknownMode, "%q", s)
}

// Opposite returns the other direction.
func (m Mode) Opposite() Mode {
	if m == Encrypt {
		return Decrypt
	}
	return Encrypt
}

// ParseShift converts free-form shift input to an integer. Anything that is
// not an integer counts as 0, which leaves text unchanged.
func ParseShift(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// Request is one cipher operation.
type Request struct {
	Algorithm Algorithm
	Mode      Mode
	Text      string
	// Shift is only used by Caesar.
	Shift int
}

// Swap turns the output of req into the input of the opposite operation.
func Swap(req Request, output string) Request {
	req.Text = output
	req.Mode = req.Mode.Opposite()
	return req
}

// Session is safe for concurrent use.
type Session struct {
	mu   sync.RWMutex
	keys *rsa.KeyPair
	bits int
	cfg  config.RSAConfig
	gen  *rsa.KeyGenerator
}

// New returns a session generating keys of cfg.KeyBits from a time-seeded source.
func New(cfg config.RSAConfig) *Session {
	return NewWithGenerator(cfg, rsa.NewKeyGenerator(nil))
}

// NewWithGenerator returns a session that draws keys from gen.
// cfg.DistinctPrimes is applied to gen.
func NewWithGenerator(cfg config.RSAConfig, gen *rsa.KeyGenerator) *Session {
	gen.DistinctPrimes = cfg.DistinctPrimes
	return &Session{
		bits: cfg.KeyBits,
		cfg:  cfg,
		gen:  gen,
	}
}

// Keys returns the held key pair, or nil before the first generation.
func (s *Session) Keys() *rsa.KeyPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys
}

// Bits returns the prime width used for the next generation.
func (s *Session) Bits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bits
}

// GenerateKeys draws a new key pair and makes it the held pair.
// If ctx ends first the held pair is left as it was.
func (s *Session) GenerateKeys(ctx context.Context) (*rsa.KeyPair, error) {
	return s.generate(ctx, s.Bits(), false)
}

// GenerateKeysWithBits draws a pair from bits-wide primes. The new width
// and the new pair are committed together, and only on success.
func (s *Session) GenerateKeysWithBits(ctx context.Context, bits int) (*rsa.KeyPair, error) {
	if err := s.CheckBits(bits); err != nil {
		return nil, err
	}
	return s.generate(ctx, bits, true)
}

func (s *Session) generate(ctx context.Context, bits int, commitBits bool) (*rsa.KeyPair, error) {
	kp, err := Generate(ctx, s.gen, bits)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.keys = kp
	if commitBits {
		s.bits = bits
	}
	s.mu.Unlock()
	log.WithFields(logger.Fields{
		"at":   "(Session).GenerateKeys",
		"bits": bits,
	}).Debug("replaced session key pair")
	return kp, nil
}

// CheckBits reports whether bits is within the session's configured range.
func (s *Session) CheckBits(bits int) error {
	return s.cfg.CheckKeyBits(bits)
}

// Generate runs gen.Generate on its own goroutine. If ctx ends first it
// returns ctx.Err() and the eventual result is discarded. An already
// finished ctx never starts a generation.
func Generate(ctx context.Context, gen *rsa.KeyGenerator, bits int) (*rsa.KeyPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type result struct {
		kp  *rsa.KeyPair
		err error
	}
	done := make(chan result, 1)
	go func() {
		kp, err := gen.Generate(bits)
		done <- result{kp, err}
	}()

	select {
	case <-ctx.Done():
		log.WithFields(logger.Fields{
			"at":   "Generate",
			"bits": bits,
		}).Debug("key generation abandoned")
		return nil, ctx.Err()
	case r := <-done:
		return r.kp, r.err
	}
}

// EnsureKeys returns the held pair, generating one first if there is none.
func (s *Session) EnsureKeys(ctx context.Context) (*rsa.KeyPair, error) {
	if kp := s.Keys(); kp != nil {
		return kp, nil
	}
	return s.GenerateKeys(ctx)
}

// Process runs req and returns the transformed text. RSA requests use the
// held key pair, generating one first if needed.
func (s *Session) Process(ctx context.Context, req Request) (string, error) {
	c, err := s.cipherFor(ctx, req.Algorithm, req.Shift)
	if err != nil {
		return "", err
	}

	switch req.Mode {
	case Encrypt:
		return c.EncryptText(req.Text)
	case Decrypt:
		return c.DecryptText(req.Text)
	}
	return "", oops.Wrapf(ErrUnknownMode, "%q", req.Mode)
}

func (s *Session) cipherFor(ctx context.Context, alg Algorithm, shift int) (types.TextCipher, error) {
	switch alg {
	case Caesar:
		return caesar.Cipher{Shift: shift}, nil
	case RSA:
		kp, err := s.EnsureKeys(ctx)
		if err != nil {
			return nil, err
		}
		return rsaCipher{kp}, nil
	}
	return nil, oops.Wrapf(ErrUnknownAlgorithm, "%q", alg)
}

// rsaCipher pairs both halves of a key pair into one types.TextCipher.
type rsaCipher struct {
	kp *rsa.KeyPair
}

func (c rsaCipher) EncryptText(text string) (string, error) {
	return c.kp.PublicKey.EncryptText(text)
}

func (c rsaCipher) DecryptText(cipher string) (string, error) {
	return c.kp.PrivateKey.DecryptText(cipher)
}
