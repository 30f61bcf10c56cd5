// Package hash is the credential engine: bcrypt digests for passwords and
// remember tokens, plus random token generation. Digests embed their own
// salt, so two digests of the same secret never compare equal as strings;
// Compare is the only way to check a candidate.
package hash

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// tokenBytes is 176 bits of entropy, matching SecureRandom.urlsafe_base64.
const tokenBytes = 22

var underTest = strings.HasSuffix(os.Args[0], ".test")

func cost() int {
	// full-cost bcrypt makes suites that register many users crawl
	if underTest {
		return bcrypt.MinCost
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if c, err := strconv.Atoi(v); err == nil && c >= bcrypt.MinCost && c <= bcrypt.MaxCost {
			return c
		}
	}
	return bcrypt.DefaultCost
}

// Digest returns an irreversible salted hash of secret. Each call salts
// freshly, so repeated calls on the same secret yield distinct digests.
func Digest(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), cost())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether candidate is the secret behind digest. A
// malformed digest compares false rather than erroring, and the comparison
// does not short-circuit on the first differing byte.
func Compare(digest, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(candidate)) == nil
}

// NewToken returns a URL-safe random token suitable for remember sessions.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
