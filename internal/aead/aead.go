// Package aead wraps the AES-256-GCM primitive used to encrypt partial
// documents. Keys carry their raw material so the demo can export and
// fragment it; a production system must not retain exportable key material.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrIntegrity is returned when authenticated decryption fails tag
// verification.
var ErrIntegrity = errors.New("integrity check failed")

// keySize is the AES-256 key length in bytes.
const keySize = 32

// Key is an authenticated-encryption key handle.
type Key struct {
	aead     cipher.AEAD
	material []byte
}

// GenerateKey creates a fresh 256-bit AES-GCM key.
func GenerateKey() (*Key, error) {
	material := make([]byte, keySize)
	if _, err := rand.Read(material); err != nil {
		return nil, fmt.Errorf("generate key material: %w", err)
	}
	return NewKey(material)
}

// NewKey builds a key handle from existing raw material.
func NewKey(material []byte) (*Key, error) {
	block, err := aes.NewCipher(material)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	return &Key{aead: aead, material: material}, nil
}

// Encrypt seals the plaintext under a freshly random 96-bit nonce and
// returns ciphertext and nonce separately.
func (k *Key) Encrypt(plaintext string) (ciphertext, iv []byte, err error) {
	iv = make([]byte, k.aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, fmt.Errorf("generate nonce: %w", err)
	}
	ciphertext = k.aead.Seal(nil, iv, []byte(plaintext), nil)
	return ciphertext, iv, nil
}

// Decrypt opens the ciphertext with the given nonce. Returns ErrIntegrity
// if tag verification fails.
func (k *Key) Decrypt(ciphertext, iv []byte) (string, error) {
	plain, err := k.aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return "", ErrIntegrity
	}
	return string(plain), nil
}

// ExportMaterial returns the hex-encoded raw key bytes. Demo-only.
func (k *Key) ExportMaterial() string {
	return hex.EncodeToString(k.material)
}

// Destroy zeroes the key material in place.
func (k *Key) Destroy() {
	for i := range k.material {
		k.material[i] = 0
	}
}
