package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	// ErrInvalidKey means the configured CRYPTO_KEY is not a 32-byte hex string.
	ErrInvalidKey = errors.New("crypto key must be 64 hex characters (32 bytes)")
	// ErrDecrypt covers corrupted ciphertext and key mismatches.
	ErrDecrypt = errors.New("failed to decrypt secret")
)

// Cipher encrypts and decrypts stored credential secrets with AES-256-CBC.
// The stored form is "hex(iv):hex(ciphertext)" with a fresh random IV per
// call, so encrypting the same secret twice yields different values.
type Cipher struct {
	key []byte
}

func NewCipher(hexKey string) (*Cipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != 32 {
		return nil, ErrInvalidKey
	}
	return &Cipher{key: key}, nil
}

func (c *Cipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	encrypted := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(encrypted, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(encrypted), nil
}

func (c *Cipher) Decrypt(opaque string) (string, error) {
	parts := strings.SplitN(opaque, ":", 2)
	if len(parts) != 2 {
		return "", ErrDecrypt
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return "", ErrDecrypt
	}
	encrypted, err := hex.DecodeString(parts[1])
	if err != nil || len(encrypted) == 0 || len(encrypted)%aes.BlockSize != 0 {
		return "", ErrDecrypt
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, len(encrypted))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, encrypted)

	plaintext, err = unpad(plaintext)
	if err != nil {
		return "", ErrDecrypt
	}

	return string(plaintext), nil
}

// PKCS#7 padding, matching the aes-256-cbc format the credentials were
// originally stored in.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrDecrypt
	}
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, ErrDecrypt
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrDecrypt
		}
	}
	return data[:len(data)-n], nil
}
