package desfire

import (
	"github.com/gregLibert/desfire-read/pkg/apdu"
	"github.com/gregLibert/desfire-read/pkg/crypto"
	"github.com/gregLibert/desfire-read/pkg/hexstr"
)

// readBlock issues the fixed card-level read (offset 0, one full block)
// and decrypts the payload when the file is enciphered. The caller's byte
// window is applied to the result afterwards, never to the card read.
func (o *operation) readBlock(fileID byte, settings *FileSettings) (string, error) {
	cmd, err := apdu.ReadData(fileID, 0, apdu.BlockReadLength)
	if err != nil {
		return "", o.fail(protocolErrorf("read data", "%v", err))
	}

	payload, err := o.exchange("read data", cmd, apdu.StatusSuccess, 2*apdu.BlockReadLength)
	if err != nil {
		return "", o.fail(err)
	}

	block, err := hexstr.Bytes(payload[:2*apdu.BlockReadLength])
	if err != nil {
		return "", o.fail(protocolErrorf("read data", "payload is not valid hex: %v", err))
	}

	if settings.CommMode.IsEnciphered() {
		// The decryption IV is the session-key CMAC over the command
		// bytes that requested the data.
		ivHex, err := crypto.CMACHex(
			hexstr.Encode(o.sess.sessionKey),
			apdu.ReadDataMACInput(fileID, 0, apdu.BlockReadLength),
			crypto.CMACBits128,
		)
		if err != nil {
			return "", o.fail(cryptoError("read data", err))
		}

		iv, err := hexstr.Bytes(ivHex)
		if err != nil {
			return "", o.fail(cryptoError("read data", err))
		}

		block, err = crypto.DecryptCBC(o.sess.sessionKey, iv, block)
		if err != nil {
			return "", o.fail(cryptoError("read data", err))
		}
	}

	return hexstr.Encode(block), nil
}

// extractWindow cuts the requested byte window out of a decoded payload.
// When first > last the bytes are emitted in descending index order (the
// deliberate "reverse read" mode); both bounds are inclusive. Positions
// outside the payload are argument errors.
func extractWindow(payloadHex string, first, last uint) (string, error) {
	raw, err := hexstr.Bytes(payloadHex)
	if err != nil {
		return "", argErrorf("window payload is not valid hex: %v", err)
	}

	total := uint(len(raw))
	if first >= total || last >= total {
		return "", argErrorf("byte window %d..%d out of range for %d bytes", first, last, total)
	}

	window := make([]byte, 0, total)
	if first <= last {
		window = append(window, raw[first:last+1]...)
	} else {
		for i := int(first); i >= int(last); i-- {
			window = append(window, raw[i])
		}
	}

	return hexstr.Encode(window), nil
}
