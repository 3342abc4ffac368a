package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16

	argonPrefix = "argon2id"
)

// ErrMalformedDigest is returned for a digest that is neither argon2id nor
// legacy base64.
var ErrMalformedDigest = errors.New("malformed password digest")

// HashPassword returns a salted argon2id digest of password in the form
// argon2id$<salt>$<key>, both parts standard base64.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return strings.Join([]string{
		argonPrefix,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	}, "$"), nil
}

// IsLegacy reports whether digest predates argon2id, meaning it is the plain
// base64 encoding of the password.
func IsLegacy(digest string) bool {
	return digest != "" && !strings.HasPrefix(digest, argonPrefix+"$")
}

// VerifyPassword reports whether password matches digest. Legacy digests are
// accepted so old records can still log in.
func VerifyPassword(digest, password string) (bool, error) {
	if digest == "" {
		return false, ErrMalformedDigest
	}

	if IsLegacy(digest) {
		want, err := base64.StdEncoding.DecodeString(digest)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrMalformedDigest, err)
		}
		return subtle.ConstantTimeCompare(want, []byte(password)) == 1, nil
	}

	parts := strings.Split(digest, "$")
	if len(parts) != 3 {
		return false, ErrMalformedDigest
	}
	salt, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrMalformedDigest, err)
	}
	want, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return false, fmt.Errorf("%w: key: %v", ErrMalformedDigest, err)
	}

	got := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}
