package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrEmptySecret is returned when the HMAC key is blank.
var ErrEmptySecret = errors.New("hash: hmac secret is empty")

// HMACSHA256 hashes with HMAC-SHA256 and hex encodes the result.
type HMACSHA256 struct {
	secret []byte
}

// NewHMACSHA256 creates a hasher keyed by secret.
func NewHMACSHA256(secret string) (*HMACSHA256, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	return &HMACSHA256{secret: []byte(secret)}, nil
}

// Hash returns the hex digest of str. It never fails.
func (s *HMACSHA256) Hash(str string) ([]byte, error) {
	return s.sum(str), nil
}

// Verify compares in constant time.
func (s *HMACSHA256) Verify(hashed, str string) bool {
	return hmac.Equal([]byte(hashed), s.sum(str))
}

func (s *HMACSHA256) sum(str string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(str))
	return []byte(hex.EncodeToString(mac.Sum(nil)))
}
