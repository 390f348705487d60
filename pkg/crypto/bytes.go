package crypto

import "fmt"

// RotateLeft moves the first byte of b to the end, as required by the
// DESFire challenge-response exchange (RndB' and RndA').
func RotateLeft(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("cannot rotate empty input")
	}

	out := make([]byte, len(b))
	copy(out, b[1:])
	out[len(b)-1] = b[0]
	return out, nil
}

// ConstantTimeEquals compares two byte slices without short-circuiting on
// content. A length mismatch returns false immediately (the length is not
// secret); otherwise every byte pair is XORed and the results are folded
// with OR before a single final test.
func ConstantTimeEquals(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
