package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// keyEntropyBytes is the random suffix length per key. 16 bytes gives 128
// bits of entropy; these strings are bearer secrets.
const keyEntropyBytes = 16

// KeyPair is a public/secret key pair for one environment.
type KeyPair struct {
	Public string
	Secret string
}

// GenerateKeyPair produces a fresh key pair for the given environment tag
// ("test" or "live"). The public and secret suffixes are independent random
// draws; uniqueness across apps is enforced by the store at insert time.
func GenerateKeyPair(environment string) (KeyPair, error) {
	if environment == "" {
		return KeyPair{}, fmt.Errorf("auth.GenerateKeyPair: environment is required")
	}
	pub, err := randomSuffix()
	if err != nil {
		return KeyPair{}, fmt.Errorf("auth.GenerateKeyPair: %w", err)
	}
	sec, err := randomSuffix()
	if err != nil {
		return KeyPair{}, fmt.Errorf("auth.GenerateKeyPair: %w", err)
	}
	return KeyPair{
		Public: "pk_" + environment + "_" + pub,
		Secret: "sk_" + environment + "_" + sec,
	}, nil
}

func randomSuffix() (string, error) {
	buf := make([]byte, keyEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
