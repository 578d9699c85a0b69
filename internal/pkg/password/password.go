// Package password wraps bcrypt for credential checks.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Verify reports whether plain matches hash. It fails closed: a malformed or
// empty hash, or anything going wrong inside bcrypt, yields false.
func Verify(plain, hash string) (ok bool) {
	if hash == "" {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Hash returns the bcrypt hash of plain at the default cost.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
