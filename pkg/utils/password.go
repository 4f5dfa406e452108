package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// HashPassword derives an argon2id hash and encodes it as
// base64(salt).base64(hash).
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)

	saltBase64 := base64.StdEncoding.EncodeToString(salt)
	hashBase64 := base64.StdEncoding.EncodeToString(hash)
	return fmt.Sprintf("%s.%s", saltBase64, hashBase64), nil
}

// VerifyMemberPassword compares a generated trip-member credential in
// constant time. Member credentials are stored as issued, not hashed.
func VerifyMemberPassword(provided, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(provided), []byte(stored)) == 1
}

// VerifyPassword checks password against an encoded hash from HashPassword.
func VerifyPassword(password, encodedHash string) error {
	parts := strings.Split(encodedHash, ".")
	if len(parts) != 2 {
		return errors.New("invalid encoded hash format")
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return errors.New("failed to decode salt")
	}

	expected, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return errors.New("failed to decode hashed password")
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	if len(hash) != len(expected) || subtle.ConstantTimeCompare(hash, expected) != 1 {
		return errors.New("incorrect password")
	}
	return nil
}
