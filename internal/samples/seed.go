// Package samples generates the sample names printed over gel lanes.
package samples

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidSeed is returned when a seed identifier has no usable number.
var ErrInvalidSeed = errors.New("invalid seed identifier")

// Seed is a parsed first-sample name such as "XM1".
type Seed struct {
	Prefix string // Letters of the identifier, in order
	Start  int    // Digits of the identifier, in order, as a number
}

// ParseSeed splits s into its letters and its digits. Characters that are
// neither are dropped, so "XM-01" parses as prefix "XM" and start 1.
func ParseSeed(s string) (Seed, error) {
	var prefix, digits strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			prefix.WriteRune(r)
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		}
	}

	if digits.Len() == 0 {
		return Seed{}, fmt.Errorf("%w: %q has no digits", ErrInvalidSeed, s)
	}

	// unicode.IsDigit accepts non-ASCII digits; Atoi does not, so they
	// surface here rather than producing a silent zero.
	start, err := strconv.Atoi(digits.String())
	if err != nil {
		return Seed{}, fmt.Errorf("%w: %q: %v", ErrInvalidSeed, s, err)
	}

	return Seed{Prefix: prefix.String(), Start: start}, nil
}

// Label returns the sample name carrying number n.
func (s Seed) Label(n int) string {
	return s.Prefix + strconv.Itoa(n)
}

func (s Seed) String() string {
	return s.Label(s.Start)
}
