// Package hexstr provides helpers for the hexadecimal string encoding used
// on the wire by the DESFire engine. All card commands and responses travel
// as uppercase hex strings; this package centralizes the conversions so the
// protocol layers never touch encoding/hex directly.
package hexstr

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// MustBytes constructs a byte slice from a series of hex strings.
// Spaces are stripped to allow the readable "90 5A 00 00" form.
// It panics on invalid input and is meant for fixtures and constants.
func MustBytes(parts ...string) []byte {
	fullHex := strings.Join(parts, "")
	cleanHex := strings.ReplaceAll(fullHex, " ", "")

	data, err := hex.DecodeString(cleanHex)
	if err != nil {
		panic(fmt.Sprintf("invalid input '%s': %v", cleanHex, err))
	}
	return data
}

// Bytes decodes a hex string, tolerating mixed case.
func Bytes(s string) ([]byte, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string %q: %w", s, err)
	}
	return data, nil
}

// Encode renders data as an uppercase hex string.
func Encode(data []byte) string {
	return strings.ToUpper(hex.EncodeToString(data))
}

// ReverseBytes returns the byte-order mirror of data.
// DESFire command frames carry multi-byte values little-endian, while the
// human-facing representation (AIDs, offsets) is written big-endian.
func ReverseBytes(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[len(data)-1-i] = b
	}
	return out
}

// IsHex reports whether s is non-empty and consists only of hex digits
// with an even length.
func IsHex(s string) bool {
	if len(s) == 0 || len(s)%2 != 0 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
