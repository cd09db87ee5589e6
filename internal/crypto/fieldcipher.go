package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	ciphertextPrefix = "v1:"
	nonceBytes       = 12
)

// FieldCipher encrypts individual string fields before they reach storage.
// It is constructed once and handed to the repositories that need it; there
// is no package-level instance to reach for.
type FieldCipher struct {
	aead    cipher.AEAD
	enabled bool
}

// NewFieldCipher builds an AES-256-GCM cipher from a base64 key. An empty
// key yields a disabled cipher that passes values through unchanged.
func NewFieldCipher(keyB64 string) (*FieldCipher, error) {
	keyB64 = strings.TrimSpace(keyB64)
	if keyB64 == "" {
		return &FieldCipher{}, nil
	}

	raw, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		return nil, fmt.Errorf("crypto: decode field key: %w", err)
	}
	if len(raw) != 32 {
		return nil, errors.New("crypto: field key must decode to 32 bytes for AES-256")
	}

	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &FieldCipher{aead: aead, enabled: true}, nil
}

// Enabled reports whether a key is configured.
func (c *FieldCipher) Enabled() bool {
	return c.enabled
}

// EncryptString returns "v1:<nonce>:<ciphertext>" (both base64), or the
// plaintext unchanged when the cipher is disabled.
func (c *FieldCipher) EncryptString(plaintext string) (string, error) {
	if !c.enabled || plaintext == "" {
		return plaintext, nil
	}

	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return ciphertextPrefix +
		base64.StdEncoding.EncodeToString(nonce) + ":" +
		base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString. Values without the version prefix,
// and values that fail to decrypt (rotated key, corrupted row), are returned
// as-is so reads stay usable.
func (c *FieldCipher) DecryptString(value string) string {
	if !c.enabled || !strings.HasPrefix(value, ciphertextPrefix) {
		return value
	}

	rest := strings.SplitN(strings.TrimPrefix(value, ciphertextPrefix), ":", 2)
	if len(rest) != 2 {
		return value
	}

	nonce, err := base64.StdEncoding.DecodeString(rest[0])
	if err != nil || len(nonce) != nonceBytes {
		return value
	}
	sealed, err := base64.StdEncoding.DecodeString(rest[1])
	if err != nil {
		return value
	}

	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return value
	}
	return string(plain)
}
