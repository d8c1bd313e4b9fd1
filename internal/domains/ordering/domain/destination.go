package domain

import (
	"errors"
	"strings"
)

// CountryCode is the canonical prefix of a normalized destination.
const CountryCode = "62"

var ErrInvalidDestination = errors.New("destination number has no digits")

// NormalizeDestination strips every non-digit and rewrites local prefixes to CountryCode.
func NormalizeDestination(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case digits == "":
		return "", ErrInvalidDestination
	case strings.HasPrefix(digits, "0"):
		return CountryCode + digits[1:], nil
	case strings.HasPrefix(digits, "8"):
		return CountryCode + digits, nil
	default:
		return digits, nil
	}
}
