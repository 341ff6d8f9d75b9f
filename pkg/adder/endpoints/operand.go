package endpoints

import (
	"math/big"
	"strings"
	"unicode"
)

// ParseOperand reads an addend the forgiving way: leading whitespace is
// skipped, an optional sign is accepted, and the longest run of decimal
// digits that follows is the value, however many digits there are. Trailing
// text is ignored, so "12px" is 12 and "3.9" is 3. Input without leading
// digits is 0.
func ParseOperand(s string) *big.Int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return new(big.Int)
	}

	n, ok := new(big.Int).SetString(s[:end], 10)
	if !ok {
		return new(big.Int)
	}
	return n
}
