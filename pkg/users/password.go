package users

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters for the salted credential path.
const (
	pbkdf2Iterations = 25_000
	pbkdf2KeyLen     = 64
	saltBytes        = 32
)

// GenerateCredential derives a fresh salt and hash for a password.
func GenerateCredential(password string) (salt, hash string, err error) {
	if password == "" {
		return "", "", fmt.Errorf("users.GenerateCredential: password is required")
	}
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("users.GenerateCredential: %w", err)
	}
	salt = hex.EncodeToString(raw)
	hash = deriveHash(password, salt)
	return salt, hash, nil
}

// VerifyCredential checks a password against a salted hash in constant time.
func VerifyCredential(password, salt, hash string) bool {
	if password == "" || salt == "" || hash == "" {
		return false
	}
	derived := deriveHash(password, salt)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(hash)) == 1
}

// VerifyLegacyHash checks a password against a pre-salting bcrypt hash.
func VerifyLegacyHash(password, legacyHash string) bool {
	if password == "" || legacyHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(legacyHash), []byte(password)) == nil
}

func deriveHash(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha512.New)
	return hex.EncodeToString(key)
}
