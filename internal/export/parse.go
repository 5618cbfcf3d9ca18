package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alovak/cardforge/internal/cardgen"
	"github.com/alovak/cardforge/internal/engine"
	"github.com/alovak/cardforge/internal/expiry"
)

var ErrMalformedLine = errors.New("malformed pipe line")

// ParsePipe reads number|MM/YY|cvv lines back into cards. Blank lines are
// skipped. Brand and validity are recomputed from the number.
func ParsePipe(text string) ([]engine.Card, error) {
	var cards []engine.Card
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		card, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func parseLine(line string) (engine.Card, error) {
	parts := strings.Split(line, "|")
	if len(parts) != 3 {
		return engine.Card{}, fmt.Errorf("want 3 fields, got %d: %w", len(parts), ErrMalformedLine)
	}
	number := strings.TrimSpace(parts[0])
	cvv := strings.TrimSpace(parts[2])
	if number == "" || !cardgen.IsDigits(number) {
		return engine.Card{}, fmt.Errorf("number must be digits: %w", ErrMalformedLine)
	}
	if cvv == "" || !cardgen.IsDigits(cvv) {
		return engine.Card{}, fmt.Errorf("cvv must be digits: %w", ErrMalformedLine)
	}
	mm, yy, err := expiry.ParseCardFace(parts[1])
	if err != nil {
		return engine.Card{}, fmt.Errorf("%v: %w", err, ErrMalformedLine)
	}
	return newCard(number, mm, yy, cvv), nil
}

func newCard(number, mm, yy, cvv string) engine.Card {
	res := engine.Validate(number)
	return engine.Card{
		Number:          number,
		FormattedNumber: cardgen.FormatNumber(number),
		Brand:           res.Brand,
		ExpMonth:        mm,
		ExpYear:         yy,
		CVV:             cvv,
		IsValid:         res.IsValid,
	}
}
