package parser

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a numeric literal.
// Decimal, float, exponent and 0x/0o/0b prefixed integers are accepted.
// Words that merely look like numbers to strconv, such as "inf" or "nan", are not literals.
func ParseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	switch c := s[0]; {
	case c >= '0' && c <= '9', c == '-', c == '+', c == '.':
	default:
		return 0, false
	}

	unsigned := strings.TrimLeft(s, "+-")
	if len(unsigned) > 1 && unsigned[0] == '0' && strings.ContainsRune("xXoObB", rune(unsigned[1])) {
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// IsNumber reports whether s is a numeric literal.
func IsNumber(s string) bool {
	_, ok := ParseNumber(s)
	return ok
}
