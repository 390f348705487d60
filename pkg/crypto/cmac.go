package crypto

import (
	"crypto/aes"
	"fmt"

	"github.com/aead/cmac"
	"github.com/pkg/errors"

	"github.com/gregLibert/desfire-read/pkg/hexstr"
)

// Supported CMAC output sizes in bits.
const (
	CMACBits64  = 64
	CMACBits128 = 128
)

// CMACHex computes AES-CMAC over a hex-encoded message with a hex-encoded
// key and returns the MAC as an uppercase hex string, truncated to the
// requested output size (leftmost bytes, per NIST SP 800-38B).
func CMACHex(keyHex, messageHex string, outputBits int) (string, error) {
	if outputBits != CMACBits64 && outputBits != CMACBits128 {
		return "", fmt.Errorf("unsupported CMAC output size: %d bits", outputBits)
	}

	key, err := hexstr.Bytes(keyHex)
	if err != nil {
		return "", errors.Wrap(err, "CMAC key")
	}

	message, err := hexstr.Bytes(messageHex)
	if err != nil {
		return "", errors.Wrap(err, "CMAC message")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", errors.Wrap(err, "CMAC cipher")
	}

	mac, err := cmac.Sum(message, block, aes.BlockSize)
	if err != nil {
		return "", errors.Wrap(err, "CMAC sum")
	}

	return hexstr.Encode(mac[:outputBits/8]), nil
}
