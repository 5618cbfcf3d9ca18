package expiry

import (
    "errors"
    "fmt"
    "strconv"
    "strings"
    "time"
)

var (
    ErrInvalidMonth = errors.New("expiry month must be 01..12")
    ErrInvalidYear  = errors.New("expiry year must be 2 or 4 digits")
)

// MaxYearsAhead bounds random expiry years: current+1 .. current+MaxYearsAhead.
const MaxYearsAhead = 5

// Intn is the randomness expiry needs; cardgen.DigitSource satisfies it.
type Intn interface {
    Intn(n int) int
}

// RandomMonth picks a month in 01..12.
func RandomMonth(src Intn) string {
    return fmt.Sprintf("%02d", 1+src.Intn(12))
}

// RandomYear picks a year 1..MaxYearsAhead years after now and returns its
// last two digits.
func RandomYear(now time.Time, src Intn) string {
    y := now.Year() + 1 + src.Intn(MaxYearsAhead)
    return fmt.Sprintf("%02d", y%100)
}

// NormalizeMonth accepts "1".."12" with or without a leading zero.
func NormalizeMonth(in string) (string, error) {
    s := strings.TrimSpace(in)
    if s == "" || len(s) > 2 || !allDigits(s) {
        return "", fmt.Errorf("%q: %w", in, ErrInvalidMonth)
    }
    mm, _ := strconv.Atoi(s)
    if mm < 1 || mm > 12 {
        return "", fmt.Errorf("%q: %w", in, ErrInvalidMonth)
    }
    return fmt.Sprintf("%02d", mm), nil
}

// NormalizeYear accepts YY or YYYY and returns YY.
func NormalizeYear(in string) (string, error) {
    s := strings.TrimSpace(in)
    if (len(s) != 2 && len(s) != 4) || !allDigits(s) {
        return "", fmt.Errorf("%q: %w", in, ErrInvalidYear)
    }
    return s[len(s)-2:], nil
}

// CardFace returns expiry as MM/YY for card imprint.
func CardFace(mm, yy string) string {
    return mm + "/" + yy
}

// YYMM returns the ISO 8583 DE14 form of an expiry.
func YYMM(mm, yy string) string {
    return yy + mm
}

// ParseCardFace accepts "MM/YY" or "MMYY" and returns month and year.
func ParseCardFace(in string) (mm, yy string, err error) {
    s := strings.TrimSpace(in)
    s = strings.ReplaceAll(s, "/", "")
    if len(s) != 4 {
        return "", "", fmt.Errorf("card face must be MM/YY or MMYY")
    }
    if !allDigits(s) {
        return "", "", fmt.Errorf("card face must be digits")
    }
    mm, err = NormalizeMonth(s[:2])
    if err != nil {
        return "", "", err
    }
    return mm, s[2:], nil
}

// ParseYYMM splits a DE14 expiry into month and year.
func ParseYYMM(yymm string) (mm, yy string, err error) {
    if err := ValidateYYMM(yymm); err != nil {
        return "", "", err
    }
    return yymm[2:], yymm[:2], nil
}

// ValidateYYMM checks YYMM format with month 01..12.
func ValidateYYMM(yymm string) error {
    if len(yymm) != 4 {
        return fmt.Errorf("expiry must be YYMM (4 digits)")
    }
    if !allDigits(yymm) {
        return fmt.Errorf("expiry must be digits: YYMM")
    }
    mm := (int(yymm[2]-'0')*10 + int(yymm[3]-'0'))
    if mm < 1 || mm > 12 {
        return ErrInvalidMonth
    }
    return nil
}

func allDigits(s string) bool {
    for i := 0; i < len(s); i++ {
        if s[i] < '0' || s[i] > '9' {
            return false
        }
    }
    return true
}
