package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Key purposes derived from the session secret. Each purpose gets an
// independent key so a leak of one does not expose the other.
const (
	KeyPurposeCSRF        = "contacts/csrf"
	KeyPurposeCredentials = "contacts/queued-credentials"
)

// GenerateSessionSecret generates a random 32-byte secret, hex encoded.
func GenerateSessionSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// DecodeSessionSecret turns a configured secret into 32 bytes of key
// material. A 64 character hex string is used as is; anything else is hashed.
func DecodeSessionSecret(secret string) []byte {
	if key, err := hex.DecodeString(secret); err == nil && len(key) == 32 {
		return key
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// DeriveKey returns the 32-byte key for one purpose, expanded from the
// session secret with HKDF-SHA256.
func DeriveKey(secret, purpose string) ([]byte, error) {
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, DecodeSessionSecret(secret), nil, []byte(purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", purpose, err)
	}
	return key, nil
}
