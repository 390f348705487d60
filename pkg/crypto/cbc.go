package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// EncryptCBC encrypts plaintext with AES-128-CBC and no padding.
// The plaintext length must be a positive multiple of the AES block size.
func EncryptCBC(key, iv, plaintext []byte) ([]byte, error) {
	if err := checkBlocks(plaintext); err != nil {
		return nil, fmt.Errorf("CBC encrypt: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("CBC encrypt: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("CBC encrypt: IV must be %d bytes, got %d", aes.BlockSize, len(iv))
	}

	out := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, plaintext)
	return out, nil
}

// DecryptCBC decrypts ciphertext with AES-128-CBC and no padding.
// Same alignment contract as EncryptCBC.
func DecryptCBC(key, iv, ciphertext []byte) ([]byte, error) {
	if err := checkBlocks(ciphertext); err != nil {
		return nil, fmt.Errorf("CBC decrypt: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("CBC decrypt: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("CBC decrypt: IV must be %d bytes, got %d", aes.BlockSize, len(iv))
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return out, nil
}

func checkBlocks(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("data is empty")
	}
	if len(data)%aes.BlockSize != 0 {
		return fmt.Errorf("data length %d is not a multiple of %d", len(data), aes.BlockSize)
	}
	return nil
}
