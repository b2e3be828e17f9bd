package postgres

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func TestTokenCipher_RoundTrip(t *testing.T) {
	cipher, err := NewTokenCipher(testKey(t))
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	token := "ya29.a0AfB_secret-token-value"
	blob, err := cipher.Encrypt(token)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if bytes.Contains(blob, []byte(token)) {
		t.Error("blob must not contain the plaintext token")
	}

	got, err := cipher.Decrypt(blob)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if got != token {
		t.Errorf("expected %q, got %q", token, got)
	}
}

func TestTokenCipher_NonceUnique(t *testing.T) {
	cipher, err := NewTokenCipher(testKey(t))
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	a, _ := cipher.Encrypt("token")
	b, _ := cipher.Encrypt("token")
	if bytes.Equal(a, b) {
		t.Error("encrypting the same token twice must produce distinct blobs")
	}
}

func TestTokenCipher_InvalidKeySize(t *testing.T) {
	_, err := NewTokenCipher([]byte("too-short"))
	if !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("expected ErrInvalidKeySize, got %v", err)
	}
}

func TestTokenCipher_TamperedBlob(t *testing.T) {
	cipher, err := NewTokenCipher(testKey(t))
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	blob, err := cipher.Encrypt("token")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	blob[len(blob)-1] ^= 0xFF

	_, err = cipher.Decrypt(blob)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestTokenCipher_WrongKey(t *testing.T) {
	cipherA, err := NewTokenCipher(testKey(t))
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	cipherB, err := NewTokenCipher(testKey(t))
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	blob, err := cipherA.Encrypt("token")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	_, err = cipherB.Decrypt(blob)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestTokenCipher_TruncatedBlob(t *testing.T) {
	cipher, err := NewTokenCipher(testKey(t))
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	_, err = cipher.Decrypt([]byte{blobVersion, 0x01, 0x02})
	if !errors.Is(err, ErrInvalidBlobSize) {
		t.Errorf("expected ErrInvalidBlobSize, got %v", err)
	}
}

func TestTokenCipher_UnknownVersion(t *testing.T) {
	cipher, err := NewTokenCipher(testKey(t))
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	blob, err := cipher.Encrypt("token")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	blob[0] = 0x7F

	_, err = cipher.Decrypt(blob)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}
