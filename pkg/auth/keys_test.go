package auth

import (
	"strings"
	"testing"
)

func TestGenerateKeyPair_Prefixes(t *testing.T) {
	for _, env := range []string{"test", "live"} {
		kp, err := GenerateKeyPair(env)
		if err != nil {
			t.Fatalf("GenerateKeyPair(%q): %v", env, err)
		}
		if !strings.HasPrefix(kp.Public, "pk_"+env+"_") {
			t.Errorf("public key %q missing pk_%s_ prefix", kp.Public, env)
		}
		if !strings.HasPrefix(kp.Secret, "sk_"+env+"_") {
			t.Errorf("secret key %q missing sk_%s_ prefix", kp.Secret, env)
		}
		if kp.Public == kp.Secret {
			t.Error("public and secret keys must differ")
		}
	}
}

func TestGenerateKeyPair_MissingEnvironment(t *testing.T) {
	if _, err := GenerateKeyPair(""); err == nil {
		t.Fatal("expected error for empty environment")
	}
}

func TestGenerateKeyPair_IndependentSuffixes(t *testing.T) {
	kp, err := GenerateKeyPair("test")
	if err != nil {
		t.Fatal(err)
	}
	pubSuffix := strings.TrimPrefix(kp.Public, "pk_test_")
	secSuffix := strings.TrimPrefix(kp.Secret, "sk_test_")
	if pubSuffix == secSuffix {
		t.Error("public and secret suffixes must be independent random draws")
	}
}

func TestGenerateKeyPair_NoCollisions(t *testing.T) {
	trials := 1_000_000
	if testing.Short() {
		trials = 10_000
	}
	seen := make(map[string]bool, 2*trials)
	for i := 0; i < trials; i++ {
		kp, err := GenerateKeyPair("test")
		if err != nil {
			t.Fatal(err)
		}
		for _, k := range []string{kp.Public, kp.Secret} {
			if seen[k] {
				t.Fatalf("key collision on %q", k)
			}
			seen[k] = true
		}
	}
}
