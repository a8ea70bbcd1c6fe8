package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters, OWASP's low-memory profile. Stored hashes carry no
// parameter header, so changing these invalidates existing credentials.
const (
	hashIterations = 3
	hashMemoryKiB  = 12 * 1024
	hashLanes      = 1
	hashKeyBytes   = 32
	hashSaltBytes  = 16
)

// hashSecret derives an argon2id key under a fresh random salt.
// Stored form: base64(salt) ":" base64(key).
func hashSecret(secret string) (string, error) {
	salt := make([]byte, hashSaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth: salt: %w", err)
	}

	key := argon2.IDKey([]byte(secret), salt, hashIterations, hashMemoryKiB, hashLanes, hashKeyBytes)

	return base64.RawStdEncoding.EncodeToString(salt) + ":" + base64.RawStdEncoding.EncodeToString(key), nil
}

// matchSecret re-derives the key under the stored salt and compares in
// constant time. Any malformed stored value simply fails the match.
func matchSecret(secret, stored string) bool {
	saltPart, keyPart, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltPart)
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(keyPart)
	if err != nil || len(want) != hashKeyBytes {
		return false
	}

	got := argon2.IDKey([]byte(secret), salt, hashIterations, hashMemoryKiB, hashLanes, hashKeyBytes)

	return subtle.ConstantTimeCompare(got, want) == 1
}
