package rsa

import (
	"math/big"
	"math/rand"

	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

var log = logger.GetGoI2PLogger()

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
	six   = big.NewInt(6)
)

// IsPrime reports whether n is prime using trial division by 2, 3 and
// every 6k±1 up to √n. It is exact but only practical for the small
// moduli this package generates.
func IsPrime(n *big.Int) bool {
	if n.Cmp(one) <= 0 {
		return false
	}
	if n.Cmp(three) <= 0 {
		return true
	}
	r := new(big.Int)
	if r.Mod(n, two).Sign() == 0 || r.Mod(n, three).Sign() == 0 {
		return false
	}

	i := big.NewInt(5)
	j := new(big.Int)
	sq := new(big.Int)
	for sq.Mul(i, i).Cmp(n) <= 0 {
		if r.Mod(n, i).Sign() == 0 {
			return false
		}
		if r.Mod(n, j.Add(i, two)).Sign() == 0 {
			return false
		}
		i.Add(i, six)
	}
	return true
}

// GeneratePrime draws uniformly distributed integers from
// [2^(bits-1), 2^bits-1] using rnd, forces each one odd, and returns the
// first that IsPrime accepts. The search has no iteration cap.
//
// bits must be at least 2: the only 1-bit candidate is 1, which is never prime.
func GeneratePrime(rnd *rand.Rand, bits int) (*big.Int, error) {
	if bits < 2 {
		return nil, oops.Wrapf(ErrInvalidBitSize, "prime size must be at least 2 bits, got %d", bits)
	}

	lo := new(big.Int).Lsh(one, uint(bits-1))
	hi := new(big.Int).Lsh(one, uint(bits))
	hi.Sub(hi, one)
	span := new(big.Int).Sub(hi, lo)
	span.Add(span, one)

	attempts := 0
	for {
		attempts++
		p := new(big.Int).Rand(rnd, span)
		p.Add(p, lo)
		// hi is odd, so setting the low bit never leaves the range
		p.SetBit(p, 0, 1)
		if IsPrime(p) {
			log.WithFields(logger.Fields{
				"at":       "GeneratePrime",
				"bits":     bits,
				"attempts": attempts,
			}).Debug("found prime")
			return p, nil
		}
	}
}

// GCD returns the greatest common divisor of a and b by Euclid's algorithm.
// Both arguments are expected to be non-negative.
func GCD(a, b *big.Int) *big.Int {
	x := new(big.Int).Set(a)
	y := new(big.Int).Set(b)
	for y.Sign() != 0 {
		x.Mod(x, y)
		x, y = y, x
	}
	return x
}

// ModInverse returns d in [0, phi-1] with e·d ≡ 1 (mod phi), computed with
// the extended Euclidean recurrence. It returns 0 when phi is 1 and the
// result is meaningless when gcd(e, phi) != 1.
func ModInverse(e, phi *big.Int) *big.Int {
	if phi.Cmp(one) == 0 {
		return new(big.Int)
	}

	a := new(big.Int).Set(e)
	m := new(big.Int).Set(phi)
	x := big.NewInt(1)
	y := big.NewInt(0)
	q := new(big.Int)
	t := new(big.Int)

	for a.Cmp(one) > 0 {
		if m.Sign() == 0 {
			// gcd(e, phi) > 1, no inverse exists
			return new(big.Int)
		}
		q.Quo(a, m)

		t.Rem(a, m)
		a, m = m, a
		m.Set(t)

		t.Mul(q, y)
		t.Sub(x, t)
		x, y = y, x
		y.Set(t)
	}

	if x.Sign() < 0 {
		x.Add(x, phi)
	}
	return x
}

// ModPow computes base^exponent mod modulus by square-and-multiply.
// base is reduced into [0, modulus-1] first, a non-positive exponent
// yields 1 mod modulus, and a non-positive modulus yields 0.
func ModPow(base, exponent, modulus *big.Int) *big.Int {
	if modulus.Sign() <= 0 {
		return new(big.Int)
	}

	result := new(big.Int).Mod(one, modulus)
	b := new(big.Int).Mod(base, modulus)
	exp := new(big.Int).Set(exponent)

	for exp.Sign() > 0 {
		if exp.Bit(0) == 1 {
			result.Mul(result, b)
			result.Mod(result, modulus)
		}
		b.Mul(b, b)
		b.Mod(b, modulus)
		exp.Rsh(exp, 1)
	}
	return result
}
