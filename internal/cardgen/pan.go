package cardgen

import (
	"strings"
)

// GeneratePAN builds a Luhn-valid number of totalLen digits that starts
// with prefix. A prefix that leaves no room for the check digit is cut to
// totalLen-1 digits, so the result is always exactly totalLen long.
// prefix must contain digits only.
func GeneratePAN(prefix string, totalLen int, src DigitSource) string {
	if totalLen < 1 {
		totalLen = 1
	}
	if len(prefix) > totalLen-1 {
		prefix = prefix[:totalLen-1]
	}
	fill := totalLen - 1 - len(prefix)
	return AppendCheckDigit(prefix + RandomDigits(src, fill))
}

func IsDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// StripNonDigits drops every character that is not an ASCII digit.
func StripNonDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// LastN returns the trailing n bytes of s, or s when it is shorter.
func LastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// MaskPAN keeps the first six and last four digits, the rest become '*'.
// Use it whenever a number has to reach a log line.
func MaskPAN(pan string) string {
	cleaned := StripNonDigits(pan)
	n := len(cleaned)
	if n == 0 {
		return ""
	}
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	if n < 10 {
		return strings.Repeat("*", n-4) + LastN(cleaned, 4)
	}
	return cleaned[:6] + strings.Repeat("*", n-10) + LastN(cleaned, 4)
}

// FormatNumber groups digits into blocks of four separated by spaces.
func FormatNumber(digits string) string {
	if len(digits) <= 4 {
		return digits
	}
	var sb strings.Builder
	sb.Grow(len(digits) + len(digits)/4)
	for i := 0; i < len(digits); i++ {
		if i > 0 && i%4 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(digits[i])
	}
	return sb.String()
}
