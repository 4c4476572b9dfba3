package otp

import (
	"errors"
	"strconv"
	"testing"
)

func TestNewNumericWidthBounds(t *testing.T) {
	for _, width := range []int{-1, 0, 3, 9} {
		if _, err := NewNumeric(width); !errors.Is(err, ErrInvalidWidth) {
			t.Fatalf("width %d: expected ErrInvalidWidth, got %v", width, err)
		}
	}

	for width := 4; width <= 8; width++ {
		if _, err := NewNumeric(width); err != nil {
			t.Fatalf("width %d: unexpected error %v", width, err)
		}
	}
}

func TestNumericGenerateWidthAndRange(t *testing.T) {
	for _, width := range []int{4, 6, 8} {
		gen, err := NewNumeric(width)
		if err != nil {
			t.Fatalf("new numeric: %v", err)
		}

		low := int64(1)
		for i := 1; i < width; i++ {
			low *= 10
		}
		high := low*10 - 1

		for range 200 {
			code, err := gen.Generate()
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if len(code) != width {
				t.Fatalf("expected %d digits, got %q", width, code)
			}

			v, err := strconv.ParseInt(code, 10, 64)
			if err != nil {
				t.Fatalf("code %q is not numeric: %v", code, err)
			}
			if v < low || v > high {
				t.Fatalf("code %q outside [%d, %d]", code, low, high)
			}
		}
	}
}

func TestNumericGenerateNoLeadingZero(t *testing.T) {
	gen, err := NewNumeric(4)
	if err != nil {
		t.Fatalf("new numeric: %v", err)
	}

	for range 500 {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if code[0] == '0' {
			t.Fatalf("code %q has a leading zero", code)
		}
	}
}
