package leads

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"
)

const tokenBytes = 16

// ErrDuplicateToken is returned by storage when a plan token already exists.
var ErrDuplicateToken = errors.New("duplicate plan token")

// NewToken returns 32 lowercase hex characters from 16 random bytes.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

var tokenRE = regexp.MustCompile(`^[0-9a-f]{32}$`)

// ValidToken reports whether s has the shape NewToken produces.
func ValidToken(s string) bool { return tokenRE.MatchString(s) }

var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail is a shape check (local@domain.tld), not deliverability.
func ValidEmail(s string) bool { return emailRE.MatchString(s) }
