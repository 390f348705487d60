package desfire

import (
	"fmt"

	"github.com/gregLibert/desfire-read/pkg/bits"
	"github.com/gregLibert/desfire-read/pkg/hexstr"
)

// CommMode is the communication setting of a file.
type CommMode byte

const (
	CommModePlain      CommMode = 0x00
	CommModeMACed      CommMode = 0x01
	CommModeEnciphered CommMode = 0x03
)

// mode isolates the low two bits that select the communication mode.
// The upper bits of the settings byte carry unrelated file options.
func (m CommMode) mode() byte {
	return bits.GetRange(byte(m), 2, 1)
}

func (m CommMode) String() string {
	switch CommMode(m.mode()) {
	case CommModePlain:
		return "plain"
	case CommModeMACed:
		return "MACed"
	case CommModeEnciphered:
		return "enciphered"
	default:
		return fmt.Sprintf("unknown (0x%02X)", byte(m))
	}
}

// IsEnciphered reports whether file data travels encrypted under the
// session key.
func (m CommMode) IsEnciphered() bool {
	return m.mode() == byte(CommModeEnciphered)
}

// AccessRights holds the four key selectors of a file, one nibble each.
// Values 0x0-0xD name a key slot, 0xE grants free access, 0xF denies.
type AccessRights struct {
	Read      byte
	Write     byte
	ReadWrite byte
	Change    byte
}

// FileSettings is the card's answer to GetFileSettings: file type,
// communication mode and the packed access rights. Read once per
// operation and immutable afterwards.
type FileSettings struct {
	FileType     byte
	CommMode     CommMode
	AccessRights AccessRights
}

// parseFileSettings decodes the leading four bytes of a GetFileSettings
// payload. Larger payloads (data file sizes, value file limits) keep
// their extra bytes ignored; the read flow only needs the mode.
func parseFileSettings(payloadHex string) (*FileSettings, error) {
	raw, err := hexstr.Bytes(payloadHex)
	if err != nil {
		return nil, fmt.Errorf("file settings: %w", err)
	}
	if len(raw) < 4 {
		return nil, fmt.Errorf("file settings too short: %d bytes", len(raw))
	}

	// Access rights travel LSB first: byte 2 carries ReadWrite/Change,
	// byte 3 carries Read/Write.
	return &FileSettings{
		FileType: raw[0],
		CommMode: CommMode(raw[1]),
		AccessRights: AccessRights{
			ReadWrite: bits.HighNibble(raw[2]),
			Change:    bits.LowNibble(raw[2]),
			Read:      bits.HighNibble(raw[3]),
			Write:     bits.LowNibble(raw[3]),
		},
	}, nil
}
