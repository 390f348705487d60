package apdu

import (
	"encoding/binary"
	"fmt"

	"github.com/gregLibert/desfire-read/pkg/hexstr"
)

// Native DESFire instruction codes used by the read flow.
const (
	InsSelectApplication byte = 0x5A
	InsAuthenticateAES   byte = 0xAA
	InsAdditionalFrame   byte = 0xAF
	InsGetFileSettings   byte = 0xF5
	InsReadData          byte = 0xBD
)

// BlockReadLength is the fixed card-level read size: the engine always
// requests one full AES block and applies the caller's byte window to the
// decrypted payload afterwards.
const BlockReadLength = 16

// wrap assembles the 90 <ins> 00 00 <lc> <data> 00 envelope.
func wrap(ins byte, data []byte) string {
	frame := make([]byte, 0, len(data)+6)
	frame = append(frame, 0x90, ins, 0x00, 0x00, byte(len(data)))
	frame = append(frame, data...)
	frame = append(frame, 0x00)
	return hexstr.Encode(frame)
}

// SelectApplication builds the SelectApplication command for a 3-byte AID
// given in big-endian hex notation (6 hex chars).
func SelectApplication(aidHex string) (string, error) {
	aid, err := hexstr.Bytes(aidHex)
	if err != nil {
		return "", fmt.Errorf("application ID: %w", err)
	}
	if len(aid) != 3 {
		return "", fmt.Errorf("application ID must be 3 bytes, got %d", len(aid))
	}

	return wrap(InsSelectApplication, hexstr.ReverseBytes(aid)), nil
}

// AuthenticateAES builds the first frame of the AES handshake for the
// given key slot.
func AuthenticateAES(keyNo byte) string {
	return wrap(InsAuthenticateAES, []byte{keyNo})
}

// AdditionalFrame builds the handshake continuation carrying the host's
// 32-byte encrypted response.
func AdditionalFrame(encryptedHex string) (string, error) {
	enc, err := hexstr.Bytes(encryptedHex)
	if err != nil {
		return "", fmt.Errorf("encrypted response: %w", err)
	}
	if len(enc) != 32 {
		return "", fmt.Errorf("encrypted response must be 32 bytes, got %d", len(enc))
	}

	return wrap(InsAdditionalFrame, enc), nil
}

// GetFileSettings builds the file settings query for one file ID.
func GetFileSettings(fileID byte) string {
	return wrap(InsGetFileSettings, []byte{fileID})
}

// ReadData builds the ReadData command: file ID followed by a 3-byte
// little-endian offset and a 3-byte little-endian length.
func ReadData(fileID byte, offset, length uint32) (string, error) {
	if offset > 0xFFFFFF || length > 0xFFFFFF {
		return "", fmt.Errorf("offset/length exceed 24 bits: %d/%d", offset, length)
	}

	return wrap(InsReadData, readDataParams(fileID, offset, length)), nil
}

// ReadDataMACInput returns the native command bytes covered by the
// session-key CMAC that derives the decryption IV for enciphered reads:
// the INS byte plus the same parameters that went on the wire.
func ReadDataMACInput(fileID byte, offset, length uint32) string {
	params := readDataParams(fileID, offset, length)
	return hexstr.Encode(append([]byte{InsReadData}, params...))
}

func readDataParams(fileID byte, offset, length uint32) []byte {
	params := make([]byte, 7)
	params[0] = fileID
	putUint24LE(params[1:4], offset)
	putUint24LE(params[4:7], length)
	return params
}

func putUint24LE(dst []byte, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	copy(dst, buf[:3])
}
