package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
)

const (
	// Length is the number of digits in a generated code.
	Length = 6

	minCode = 100000
	maxCode = 999999

	// codeSpan is the width of the [minCode, maxCode] range.
	codeSpan = maxCode - minCode + 1

	maskToken  = "****"
	maskPrefix = 2
)

var (
	// ErrSecureSourceUnavailable is returned by NewGenerator when the secure
	// random source cannot produce a value.
	ErrSecureSourceUnavailable = errors.New("otp: secure random source is not available")

	// ErrUnexpectedValue is returned when the random source yields a value
	// outside the 6-digit range.
	ErrUnexpectedValue = errors.New("otp: generation produced an unexpected value")
)

// IntSource returns a uniformly distributed integer in [0, n).
type IntSource interface {
	Int(n int64) (int64, error)
}

// CryptoSource reads from crypto/rand.
type CryptoSource struct{}

// Int returns a uniform value in [0, n) using crypto/rand.
func (CryptoSource) Int(n int64) (int64, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}

// Generator produces 6-digit codes.
type Generator struct {
	src IntSource
}

// NewGenerator probes src once and returns a Generator backed by it. A nil src
// selects CryptoSource.
func NewGenerator(src IntSource) (*Generator, error) {
	if src == nil {
		src = CryptoSource{}
	}

	if _, err := src.Int(codeSpan); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSecureSourceUnavailable, err)
	}

	return &Generator{src: src}, nil
}

// Generate returns a new code in [100000, 999999].
func (g *Generator) Generate() (string, error) {
	n, err := g.src.Int(codeSpan)
	if err != nil {
		return "", err
	}

	v := minCode + n
	if n < 0 || v < minCode || v > maxCode {
		return "", ErrUnexpectedValue
	}

	return strconv.FormatInt(v, 10), nil
}

// Mask keeps the first two characters of code and replaces the rest with a
// fixed token. Codes too short to hide anything mask entirely.
func Mask(code string) string {
	if len(code) <= maskPrefix {
		return maskToken
	}
	return code[:maskPrefix] + maskToken
}
