// Package money formats and parses prices held in minor currency units.
package money

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Symbol prefixes every formatted amount.
const Symbol = "Rp"

// ErrAmountOverflow is returned when parsed digits do not fit into an int64.
var ErrAmountOverflow = errors.New("amount exceeds supported range")

// Format renders minor units with dot thousands separators, e.g. 15000 -> "Rp15.000".
func Format(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
	}
	return sign + Symbol + Group(minor)
}

// Group returns the absolute value of minor with dot thousands separators and no symbol.
func Group(minor int64) string {
	var digits []byte
	if minor == math.MinInt64 {
		digits = []byte("9223372036854775808")
	} else {
		if minor < 0 {
			minor = -minor
		}
		digits = []byte(strconv.FormatInt(minor, 10))
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.Write(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.Write(digits[i : i+3])
	}
	return b.String()
}

// Parse keeps only the digits of input and reads them as minor units.
// Input without digits yields zero.
func Parse(input string) (int64, error) {
	var value int64
	for _, r := range input {
		if r < '0' || r > '9' {
			continue
		}
		d := int64(r - '0')
		if value > (math.MaxInt64-d)/10 {
			return 0, ErrAmountOverflow
		}
		value = value*10 + d
	}
	return value, nil
}
