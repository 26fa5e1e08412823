// Package passwords implements the salted PBKDF2 credential scheme. A
// stored hash has the form "base64(salt)$iterations$base64(key)" with a
// 16-byte random salt and PBKDF2-SHA512.
package passwords

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	iterations = 100_000
	saltLength = 16
	keyLength  = sha512.Size
)

var (
	// ErrMismatch signals that the password does not match the stored hash.
	ErrMismatch = errors.New("password is incorrect")
	// ErrMalformedHash signals a stored hash that cannot be decoded.
	ErrMalformedHash = errors.New("malformed password hash")
)

// Hash derives a storable hash from a plaintext password.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha512.New)

	return strings.Join([]string{
		base64.StdEncoding.EncodeToString(salt),
		strconv.Itoa(iterations),
		base64.StdEncoding.EncodeToString(key),
	}, "$"), nil
}

// Verify re-derives the key from password using the salt and iteration count
// embedded in stored and compares in constant time.
func Verify(password, stored string) error {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 {
		return ErrMalformedHash
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return ErrMalformedHash
	}
	iters, err := strconv.Atoi(parts[1])
	if err != nil || iters <= 0 {
		return ErrMalformedHash
	}
	want, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return ErrMalformedHash
	}

	got := pbkdf2.Key([]byte(password), salt, iters, len(want), sha512.New)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}
