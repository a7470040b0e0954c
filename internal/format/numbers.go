package format

import (
	"strconv"
	"strings"
)

// FormatNumberString inserts thousands separators into a string of decimal
// digits. A leading minus sign is preserved.
func FormatNumberString(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 1)
	if neg {
		b.WriteByte('-')
	}
	head := len(s) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(s[:head])
	for i := head; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatUint64 formats v in decimal with thousands separators.
func FormatUint64(v uint64) string {
	return FormatNumberString(strconv.FormatUint(v, 10))
}

// DigitCount returns the number of decimal digits of v.
func DigitCount(v uint64) int {
	return len(strconv.FormatUint(v, 10))
}
