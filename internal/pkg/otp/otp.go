package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidWidth is returned when the requested code width is out of range.
var ErrInvalidWidth = errors.New("otp width must be between 4 and 8 digits")

// Generator produces fixed-width numeric one-time codes.
type Generator interface {
	// Generate returns a numeric code of exactly the configured width.
	Generate() (string, error)
}

// Numeric is a Generator drawing uniformly random codes from crypto/rand.
//
// A 4-digit code is drawn from [1000, 9999] so it never carries a leading
// zero and every value is equally likely.
type Numeric struct {
	width int
	low   int64
	span  int64
}

// NewNumeric constructs a Numeric generator of the given code width.
func NewNumeric(width int) (*Numeric, error) {
	if width < 4 || width > 8 {
		return nil, ErrInvalidWidth
	}

	low := int64(1)
	for i := 1; i < width; i++ {
		low *= 10
	}

	return &Numeric{
		width: width,
		low:   low,
		span:  low*10 - low,
	}, nil
}

// Generate returns a uniformly random numeric code.
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(n.span))
	if err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}

	return fmt.Sprintf("%0*d", n.width, n.low+v.Int64()), nil
}
