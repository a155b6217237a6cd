package utils

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordMatcher is the only place credentials are compared. Prepare turns
// a signup password into the stored form; Matches checks a login attempt
// against it.
type PasswordMatcher interface {
	Prepare(password string) (string, error)
	Matches(password, stored string) bool
}

// PlainMatcher stores passwords as given and compares them as opaque strings.
type PlainMatcher struct{}

func (PlainMatcher) Prepare(password string) (string, error) { return password, nil }

func (PlainMatcher) Matches(password, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}

// BcryptMatcher stores bcrypt hashes.
type BcryptMatcher struct {
	Cost int
}

// Prepare hashes a given password using bcrypt.
func (m BcryptMatcher) Prepare(password string) (string, error) {
	cost := m.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// Matches compares a plain password with its hashed version.
func (BcryptMatcher) Matches(password, stored string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
	return err == nil
}

// NewPasswordMatcher picks a matcher by scheme name ("plain" or "bcrypt").
func NewPasswordMatcher(scheme string) (PasswordMatcher, error) {
	switch scheme {
	case "", "plain":
		return PlainMatcher{}, nil
	case "bcrypt":
		return BcryptMatcher{}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}
