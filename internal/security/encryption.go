package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// sealedPrefix marks values produced by Encrypt. Values without either
// prefix are returned unchanged by Decrypt, so notes written before a key
// was configured stay readable.
const sealedPrefix = "enc:v1:"

// plainPrefix escapes unsealed text that would otherwise read as sealed.
const plainPrefix = "plain:v1:"

// Encryptor seals free-text journal notes with AES-256-GCM. A nil
// *Encryptor stores notes as plain text.
type Encryptor struct {
	aead cipher.AEAD
}

// NewEncryptor creates a new encryptor with a 32-byte key for AES-256
func NewEncryptor(key []byte) (*Encryptor, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes for AES-256, got %d bytes", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Encryptor{aead: gcm}, nil
}

// NewOptionalEncryptor returns nil when key is empty
func NewOptionalEncryptor(key []byte) (*Encryptor, error) {
	if len(key) == 0 {
		return nil, nil
	}
	return NewEncryptor(key)
}

// Encrypt seals plaintext; the nonce is prepended and the result base64 encoded
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return plaintext, nil
	}
	if e == nil {
		if strings.HasPrefix(plaintext, sealedPrefix) || strings.HasPrefix(plaintext, plainPrefix) {
			return plainPrefix + plaintext, nil
		}
		return plaintext, nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt
func (e *Encryptor) Decrypt(value string) (string, error) {
	if rest, ok := strings.CutPrefix(value, plainPrefix); ok {
		return rest, nil
	}
	if !strings.HasPrefix(value, sealedPrefix) {
		return value, nil
	}
	if e == nil {
		return "", fmt.Errorf("value is encrypted but no encryption key is configured")
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	nonceSize := e.aead.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}
