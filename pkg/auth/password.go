// Package auth hashes and verifies passwords and signs session tokens.
//
// New hashes are bcrypt. CheckPassword also accepts the Werkzeug formats
// an existing users table may hold:
//
//	pbkdf2:sha256:600000$<salt>$<hex>
//	scrypt:32768:8:1$<salt>$<hex>
package auth

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// DefaultPBKDF2Iterations applies to a "pbkdf2:<hash>" method with no count.
const DefaultPBKDF2Iterations = 600000

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a stored hash against the plain-text candidate.
func CheckPassword(hashed, plain string) bool {
	if strings.HasPrefix(hashed, "pbkdf2:") || strings.HasPrefix(hashed, "scrypt") {
		return checkWerkzeug(hashed, plain)
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

func checkWerkzeug(hashed, plain string) bool {
	parts := strings.SplitN(hashed, "$", 3)
	if len(parts) != 3 {
		return false
	}
	method, salt, want := parts[0], parts[1], parts[2]

	expected, err := hex.DecodeString(want)
	if err != nil {
		return false
	}

	var got []byte
	args := strings.Split(method, ":")
	switch args[0] {
	case "pbkdf2":
		if len(args) < 2 {
			return false
		}
		newHash, ok := hashFunc(args[1])
		if !ok {
			return false
		}
		iter := DefaultPBKDF2Iterations
		if len(args) > 2 {
			if iter, err = strconv.Atoi(args[2]); err != nil || iter <= 0 {
				return false
			}
		}
		got = pbkdf2.Key([]byte(plain), []byte(salt), iter, newHash().Size(), newHash)
	case "scrypt":
		n, r, p := 1<<15, 8, 1
		if len(args) == 4 {
			vals := make([]int, 3)
			for i, s := range args[1:] {
				if vals[i], err = strconv.Atoi(s); err != nil {
					return false
				}
			}
			n, r, p = vals[0], vals[1], vals[2]
		}
		if got, err = scrypt.Key([]byte(plain), []byte(salt), n, r, p, 64); err != nil {
			return false
		}
	default:
		return false
	}

	return subtle.ConstantTimeCompare(got, expected) == 1
}

func hashFunc(name string) (func() hash.Hash, bool) {
	switch name {
	case "sha1":
		return sha1.New, true
	case "sha256":
		return sha256.New, true
	case "sha512":
		return sha512.New, true
	}
	return nil, false
}
