// pkg/crypto/password.go

package crypto

import (
	"crypto/rand"
	"math/big"

	cerr "github.com/cockroachdb/errors"
	"golang.org/x/crypto/bcrypt"
)

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_.%"

// GeneratePassword returns a random password of the given length drawn from
// a shell-safe alphabet.
func GeneratePassword(length int) (string, error) {
	if length < 12 {
		return "", cerr.Newf("refusing to generate password shorter than 12 characters, got %d", length)
	}

	buf := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", cerr.Wrap(err, "failed to read random bytes")
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// HashPassword hashes the given password using bcrypt at the default cost.
// The resulting $2b$ hash is accepted by pam_unix on current Ubuntu, so it
// can be handed to usermod --password directly.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", cerr.Wrap(err, "bcrypt hash failed")
	}
	return string(hash), nil
}

// ComparePassword checks if password matches the bcrypt hash.
func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
