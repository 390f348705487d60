package apdu

import (
	"fmt"
	"strings"
)

// StatusError reports a response that terminated with an unexpected
// status word. It carries the actual word so callers can inspect the
// native code.
type StatusError struct {
	Status StatusWord
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("card returned status %s: %s", e.Status.Hex(), e.Status.Describe())
}

// ValidateResponse checks a raw response against the expected status word
// and a minimum payload size (in hex characters). It returns the payload
// with the 4-character status trailer stripped, normalized to uppercase.
//
// An undersized response fails before any parsing; a well-formed trailer
// with the wrong status yields a *StatusError.
func ValidateResponse(responseHex string, expected StatusWord, minPayloadHex int) (string, error) {
	if len(responseHex) < minPayloadHex+4 {
		return "", fmt.Errorf("response too short: %d hex chars, need at least %d", len(responseHex), minPayloadHex+4)
	}

	trailer := responseHex[len(responseHex)-4:]
	sw, err := ParseStatusWord(trailer)
	if err != nil {
		return "", err
	}

	if sw != expected {
		return "", &StatusError{Status: sw}
	}

	return strings.ToUpper(responseHex[:len(responseHex)-4]), nil
}
