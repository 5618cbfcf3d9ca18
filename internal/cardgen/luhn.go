package cardgen

// LuhnValid reports whether digits satisfies the mod-10 checksum.
// digits must already be stripped of non-digit characters. The empty
// string sums to zero and is therefore valid; callers enforce length.
func LuhnValid(digits string) bool {
	return luhnSum(digits, false)%10 == 0
}

// CheckDigit returns the digit that makes body+digit Luhn-valid.
// The empty body yields 0.
func CheckDigit(body string) int {
	return (10 - luhnSum(body, true)%10) % 10
}

// AppendCheckDigit returns body followed by its Luhn check digit.
func AppendCheckDigit(body string) string {
	return body + string('0'+byte(CheckDigit(body)))
}

// luhnSum walks digits right to left, doubling every second position.
// dbl is the state of the rightmost digit.
func luhnSum(digits string, dbl bool) int {
	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if dbl {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		dbl = !dbl
	}
	return sum
}
