package auth

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/garnizeh/jobhunt/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

const specialChars = `!@#$%^&*(),.?":{}|<>`

// PasswordPolicy checks password strength. Strict additionally demands a
// special character.
type PasswordPolicy struct {
	MinLength int
	Strict    bool
}

// Check returns a ValidationError naming every rule the password breaks.
func (p PasswordPolicy) Check(pw string) error {
	minLen := p.MinLength
	if minLen == 0 {
		minLen = 8
	}

	verr := &apperr.ValidationError{}
	if len([]rune(pw)) < minLen {
		verr.Add("password", fmt.Sprintf("must be at least %d characters long", minLen))
	}
	if !strings.ContainsFunc(pw, unicode.IsDigit) {
		verr.Add("password", "must contain at least one digit")
	}
	if !strings.ContainsFunc(pw, unicode.IsUpper) {
		verr.Add("password", "must contain at least one uppercase letter")
	}
	if p.Strict && !strings.ContainsAny(pw, specialChars) {
		verr.Add("password", "must contain at least one special character")
	}
	return verr.OrNil()
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
