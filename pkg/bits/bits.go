package bits

// GetRange extracts the value from a range of bits (e.g., bits 4 to 3).
// Example: GetRange(0b00001100, 4, 3) returns 3 (0b11)
func GetRange(b byte, high, low uint) byte {
	if high < low || high > 8 || low < 1 {
		return 0
	}

	width := high - low + 1
	mask := byte((1 << width) - 1)

	return (b >> (low - 1)) & mask
}

// HighNibble returns the upper four bits of b shifted into the low position.
// DESFire packs one key selector per nibble in its access-right bytes.
func HighNibble(b byte) byte {
	return b >> 4
}

// LowNibble returns the lower four bits of b.
func LowNibble(b byte) byte {
	return b & 0x0F
}
