package aead_test

import (
	"encoding/hex"
	"errors"
	"testing"

	"cipherdoc/internal/aead"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key, err := aead.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	ciphertext, iv, err := key.Encrypt("secret content")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if len(iv) != 12 {
		t.Errorf("iv length = %d; want 12 (96-bit nonce)", len(iv))
	}
	plain, err := key.Decrypt(ciphertext, iv)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if plain != "secret content" {
		t.Errorf("plaintext = %q; want %q", plain, "secret content")
	}
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	key, err := aead.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	_, iv1, _ := key.Encrypt("same")
	_, iv2, _ := key.Encrypt("same")
	if string(iv1) == string(iv2) {
		t.Error("two encryptions produced the same nonce")
	}
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	key, err := aead.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	ciphertext, iv, _ := key.Encrypt("payload")
	ciphertext[0] ^= 0xff

	_, err = key.Decrypt(ciphertext, iv)
	if !errors.Is(err, aead.ErrIntegrity) {
		t.Errorf("error = %v; want ErrIntegrity", err)
	}
}

func TestExportMaterial_HexOf256BitKey(t *testing.T) {
	key, err := aead.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	material := key.ExportMaterial()
	if len(material) != 64 {
		t.Errorf("material length = %d; want 64 hex chars", len(material))
	}
}

func TestNewKey_ImportedMaterialDecrypts(t *testing.T) {
	key, err := aead.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	ciphertext, iv, _ := key.Encrypt("portable")

	material, err := hex.DecodeString(key.ExportMaterial())
	if err != nil {
		t.Fatalf("decode material: %v", err)
	}
	imported, err := aead.NewKey(material)
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	plain, err := imported.Decrypt(ciphertext, iv)
	if err != nil || plain != "portable" {
		t.Errorf("Decrypt with imported key = %q, %v; want portable, nil", plain, err)
	}
}

func TestDestroy_ZeroesMaterial(t *testing.T) {
	key, err := aead.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	key.Destroy()
	for _, c := range key.ExportMaterial() {
		if c != '0' {
			t.Fatal("material not zeroed after Destroy")
		}
	}
}
