package bits

import "testing"

func TestGetRange(t *testing.T) {
	tests := []struct {
		name     string
		input    byte
		high     uint
		low      uint
		expected byte
	}{
		{"Bits 4-3 of 0x0C", 0b0000_1100, 4, 3, 3},
		{"Comm mode bits of file option 0x03", 0x03, 2, 1, 3},
		{"Comm mode bits survive upper option flags", 0x43, 2, 1, 3},
		{"Full Byte", 0xAA, 8, 1, 0xAA},
		{"Inverted range", 0xFF, 1, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := GetRange(tt.input, tt.high, tt.low); res != tt.expected {
				t.Errorf("GetRange(0x%02X, %d, %d) = %d; want %d", tt.input, tt.high, tt.low, res, tt.expected)
			}
		})
	}
}

func TestNibbles(t *testing.T) {
	// Access rights 0x12 0xE0: Read=1, Write=2, R&W=E (free), Change=0
	if HighNibble(0x12) != 0x1 || LowNibble(0x12) != 0x2 {
		t.Errorf("nibbles of 0x12 = %X/%X; want 1/2", HighNibble(0x12), LowNibble(0x12))
	}
	if HighNibble(0xE0) != 0xE || LowNibble(0xE0) != 0x0 {
		t.Errorf("nibbles of 0xE0 = %X/%X; want E/0", HighNibble(0xE0), LowNibble(0xE0))
	}
}
