package engine

import (
	"fmt"
	"strings"

	"github.com/alovak/cardforge/internal/cardgen"
)

// Accepted digit counts for validation.
const (
	MinLength = 13
	MaxLength = 19
)

// ValidationResult is never an error: bad input is reported through
// IsValid and Message.
type ValidationResult struct {
	Number  string `json:"number"`
	IsValid bool   `json:"isValid"`
	Brand   string `json:"brand,omitempty"`
	Message string `json:"message"`
}

// Validate checks raw input for length, checksum and brand. Text after
// the first '|' is dropped so a pasted number|MM/YY|cvv record validates
// its number only.
func (e *Engine) Validate(raw string) ValidationResult {
	candidate := raw
	if i := strings.IndexByte(candidate, '|'); i >= 0 {
		candidate = candidate[:i]
	}
	digits := cardgen.StripNonDigits(candidate)

	if n := len(digits); n < MinLength || n > MaxLength {
		return ValidationResult{
			Number:  digits,
			Message: fmt.Sprintf("Invalid length: card numbers have %d-%d digits, got %d", MinLength, MaxLength, n),
		}
	}

	res := ValidationResult{
		Number:  digits,
		IsValid: cardgen.LuhnValid(digits),
	}
	name := "Unknown Brand"
	if b, ok := e.detector().Detect(digits); ok {
		res.Brand = b.Name
		name = b.Name
	}
	if res.IsValid {
		res.Message = fmt.Sprintf("Valid card number (%s)", name)
	} else {
		res.Message = fmt.Sprintf("Invalid card number: Luhn checksum failed (%s)", name)
	}
	return res
}

// Validate runs validation against the built-in catalog.
func Validate(raw string) ValidationResult {
	return (&Engine{}).Validate(raw)
}
