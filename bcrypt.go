package tasks

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost keeps hashing deliberately slow to resist offline
// brute force. Raise it as hardware catches up; existing digests keep
// working because the cost is embedded in the digest.
var DefaultBcryptCost = 14

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), DefaultBcryptCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password. bcrypt's comparison does not
// short-circuit on the first differing byte.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}
