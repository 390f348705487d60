package crypto

import (
	"bytes"
	"testing"

	"github.com/gregLibert/desfire-read/pkg/hexstr"
)

func TestCBC_RoundTrip(t *testing.T) {
	key := hexstr.MustBytes("2B7E1516 28AED2A6 ABF71588 09CF4F3C")
	iv := hexstr.MustBytes("00010203 04050607 08090A0B 0C0D0E0F")

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"One block", hexstr.MustBytes("6BC1BEE2 2E409F96 E93D7E11 7393172A")},
		{"Two blocks", bytes.Repeat([]byte{0x5A}, 32)},
		{"Four blocks", bytes.Repeat([]byte{0x00}, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := EncryptCBC(key, iv, tt.plaintext)
			if err != nil {
				t.Fatalf("encrypt failed: %v", err)
			}
			if bytes.Equal(ct, tt.plaintext) {
				t.Error("ciphertext equals plaintext")
			}

			pt, err := DecryptCBC(key, iv, ct)
			if err != nil {
				t.Fatalf("decrypt failed: %v", err)
			}
			if !bytes.Equal(pt, tt.plaintext) {
				t.Errorf("round trip mismatch\ngot:  % X\nwant: % X", pt, tt.plaintext)
			}
		})
	}
}

func TestCBC_RejectsBadInput(t *testing.T) {
	key := make([]byte, 16)
	iv := make([]byte, 16)

	if _, err := EncryptCBC(key, iv, nil); err == nil {
		t.Error("expected error for empty plaintext")
	}
	if _, err := EncryptCBC(key, iv, make([]byte, 17)); err == nil {
		t.Error("expected error for unaligned plaintext")
	}
	if _, err := DecryptCBC(key, iv, make([]byte, 8)); err == nil {
		t.Error("expected error for unaligned ciphertext")
	}
	if _, err := EncryptCBC(make([]byte, 5), iv, make([]byte, 16)); err == nil {
		t.Error("expected error for bad key size")
	}
	if _, err := EncryptCBC(key, make([]byte, 8), make([]byte, 16)); err == nil {
		t.Error("expected error for bad IV size")
	}
}
