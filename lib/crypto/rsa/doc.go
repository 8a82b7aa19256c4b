// Package rsa implements a textbook RSA toy over single text characters.
//
// Keys are a few tens of bits wide and are drawn from math/rand, not
// crypto/rand. The package exists to show how RSA works, not to protect
// anything: there is no padding, no constant-time arithmetic and no
// resistance to any real adversary.
//
// # Number theory
//
// The primitives are written out by hand so each step can be followed:
//
//   - IsPrime: trial division by 2, 3 and 6k±1 up to √n
//   - GeneratePrime: random odd candidates in [2^(bits-1), 2^bits-1] until IsPrime accepts one
//   - GCD: Euclid's algorithm
//   - ModInverse: extended Euclid, result normalised into [0, φ-1]
//   - ModPow: square-and-multiply
//
// # Keys
//
// GenerateKeys draws p and q, computes n = p·q and φ = (p-1)(q-1), then
// walks e upward from 65537 in steps of 2 until gcd(e, φ) = 1 and sets
// d = e⁻¹ mod φ. Every component is carried as a decimal string so it
// survives display and copy/paste:
//
//	{"publicKey": {"e": "17", "n": "3233"}, "privateKey": {"d": "2753", "n": "3233"}}
//
// # Ciphertext
//
// Encrypt maps every UTF-16 code unit c of the input to c^e mod n and joins
// the decimal results with '.':
//
//	ct, err := rsa.Encrypt("AA", "17", "3233")   // ct == "2790.2790"
//	pt, err := rsa.Decrypt(ct, "2753", "3233")   // pt == "AA"
//
// A code unit that is not smaller than n cannot be represented and fails
// the whole call with a *CharacterTooLargeError.
package rsa
