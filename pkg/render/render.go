// Package render turns the hex payload of a card read into the views a
// human wants to look at: spaced hex pairs, bit strings and an ASCII
// dump. All views work on the payload exactly as the engine returned it,
// so a reversed byte window stays reversed in every view.
package render

import (
	"fmt"
	"strings"

	"github.com/gregLibert/desfire-read/pkg/hexstr"
)

// Hex formats a hex payload as space-separated byte pairs: "DEADBE"
// becomes "DE AD BE".
func Hex(payloadHex string) (string, error) {
	raw, err := hexstr.Bytes(payloadHex)
	if err != nil {
		return "", err
	}

	pairs := make([]string, len(raw))
	for i, b := range raw {
		pairs[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(pairs, " "), nil
}

// Binary formats a hex payload as space-separated 8-bit groups, most
// significant bit first.
func Binary(payloadHex string) (string, error) {
	raw, err := hexstr.Bytes(payloadHex)
	if err != nil {
		return "", err
	}

	groups := make([]string, len(raw))
	for i, b := range raw {
		groups[i] = fmt.Sprintf("%08b", b)
	}
	return strings.Join(groups, " "), nil
}

// ASCII renders each payload byte as its printable ASCII character, with
// a dot standing in for everything outside 0x20..0x7E.
func ASCII(payloadHex string) (string, error) {
	raw, err := hexstr.Bytes(payloadHex)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, b := range raw {
		if b >= 0x20 && b <= 0x7E {
			sb.WriteByte(b)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String(), nil
}

// Report carries one completed read for display.
type Report struct {
	ApplicationID string
	FileID        string
	Payload       string // uppercase hex, window already applied
}

// Describe generates the standard multi-view report of a read result.
func (r *Report) Describe() string {
	var sb strings.Builder
	sb.WriteString("=== SECURE FILE READ ===\n")
	fmt.Fprintf(&sb, "  Application: %s\n", r.ApplicationID)
	fmt.Fprintf(&sb, "  File:        %s\n", r.FileID)

	hexView, err := Hex(r.Payload)
	if err != nil {
		fmt.Fprintf(&sb, "  Payload:     (unrenderable: %v)", err)
		return sb.String()
	}
	binView, _ := Binary(r.Payload)
	asciiView, _ := ASCII(r.Payload)

	fmt.Fprintf(&sb, "  Hex:         %s\n", hexView)
	fmt.Fprintf(&sb, "  Binary:      %s\n", binView)
	fmt.Fprintf(&sb, "  ASCII:       %s", asciiView)
	return sb.String()
}
