package apdu

import (
	"fmt"
	"strconv"
	"strings"
)

// StatusWord represents the two-byte trailer (SW1-SW2) of a wrapped
// DESFire response.
type StatusWord uint16

// Protocol sentinels.
const (
	StatusSuccess         StatusWord = 0x9100 // operation complete
	StatusAdditionalFrame StatusWord = 0x91AF // more data follows, continue
)

// Code returns the native DESFire status code (SW2).
func (sw StatusWord) Code() byte {
	return byte(sw)
}

// IsSuccess reports whether the word is the success sentinel.
func (sw StatusWord) IsSuccess() bool {
	return sw == StatusSuccess
}

// Hex renders the word as four uppercase hex characters.
func (sw StatusWord) Hex() string {
	return fmt.Sprintf("%04X", uint16(sw))
}

// Native DESFire status codes (SW2 under SW1 = 0x91).
var statusMessages = map[byte]string{
	0x00: "Success",
	0x0C: "No changes",
	0x0E: "Insufficient NV memory",
	0x1C: "Illegal command code",
	0x1E: "Integrity error",
	0x40: "No such key",
	0x6E: "Wrong command length",
	0x7E: "Length error",
	0x97: "Crypto error",
	0x9D: "Permission denied",
	0x9E: "Parameter error",
	0xA0: "Application not found",
	0xA1: "Application integrity error",
	0xAD: "Authentication delay",
	0xAE: "Authentication error",
	0xAF: "Additional frame expected",
	0xBE: "Boundary error",
	0xC1: "PICC integrity error",
	0xCA: "Command aborted",
	0xCD: "PICC disabled",
	0xCE: "Count error",
	0xDE: "Duplicate error",
	0xEE: "EEPROM error",
	0xF0: "File not found",
	0xF1: "File integrity error",
}

// Describe returns the human-readable meaning of the status word.
// Unknown codes report themselves rather than guessing.
func (sw StatusWord) Describe() string {
	if byte(sw>>8) == 0x91 {
		if msg, ok := statusMessages[sw.Code()]; ok {
			return msg
		}
	}
	return fmt.Sprintf("unknown error code: %s", sw.Hex())
}

// ParseStatusWord decodes a four-character hex trailer, tolerating mixed
// case. Non-hex input is rejected as a format error.
func ParseStatusWord(trailer string) (StatusWord, error) {
	if len(trailer) != 4 {
		return 0, fmt.Errorf("invalid status code format: %q", trailer)
	}

	v, err := strconv.ParseUint(strings.ToUpper(trailer), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid status code format: %q", trailer)
	}
	return StatusWord(v), nil
}
