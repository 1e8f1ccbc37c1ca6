// Package cpf validates and generates CPF identity strings.
//
// A CPF is an 11-digit string whose last two digits are check digits
// computed from the first nine via a modulus-11 weighted sum.
package cpf

import (
	"fmt"
	"math/rand"
)

// Valid reports whether s is a well-formed CPF: exactly 11 characters, all
// decimal digits (separators such as "." and "-" are rejected), with both
// check digits matching.
func Valid(s string) bool {
	if len(s) != 11 {
		return false
	}
	digits := make([]int, 11)
	for i := 0; i < 11; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		digits[i] = int(c - '0')
	}
	return digits[9] == checkDigit(digits[:9]) &&
		digits[10] == checkDigit(digits[:10])
}

// Generate appends the two check digits to a 9-digit numeric seed,
// producing a valid CPF.
func Generate(seed string) (string, error) {
	if len(seed) != 9 {
		return "", fmt.Errorf("cpf seed must have 9 digits, got %d", len(seed))
	}
	digits := make([]int, 0, 11)
	for i := 0; i < 9; i++ {
		c := seed[i]
		if c < '0' || c > '9' {
			return "", fmt.Errorf("cpf seed must be numeric, got %q", seed)
		}
		digits = append(digits, int(c-'0'))
	}
	out := seed
	for len(digits) < 11 {
		d := checkDigit(digits)
		digits = append(digits, d)
		out += string(rune('0' + d))
	}
	return out, nil
}

// Random produces a valid CPF from a random 9-digit seed. Test fixtures
// and seed tooling use it; it is not cryptographic.
func Random() string {
	seed := fmt.Sprintf("%09d", 100000000+rand.Intn(900000000))
	out, _ := Generate(seed)
	return out
}

// checkDigit computes one check digit over the given digits, weighting
// them from len(digits)+1 down to 2.
func checkDigit(digits []int) int {
	weight := len(digits) + 1
	sum := 0
	for _, d := range digits {
		sum += weight * d
		weight--
	}
	d := 11 - sum%11
	if d > 9 {
		return 0
	}
	return d
}
