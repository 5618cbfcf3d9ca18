// Package export renders generated batches as copy-ready text.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alovak/cardforge/internal/engine"
)

type Format string

const (
	FormatPipe    Format = "pipe"
	FormatNewline Format = "newline"
	FormatJSON    Format = "json"
	FormatISO8583 Format = "iso8583"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatPipe, FormatNewline, FormatJSON, FormatISO8583}
}

// ParseFormat maps a user supplied name to a Format; empty means pipe.
func ParseFormat(name string) (Format, error) {
	if strings.TrimSpace(name) == "" {
		return FormatPipe, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownFormat)
}

// Render serialises cards in the requested format.
func Render(cards []engine.Card, f Format) (string, error) {
	switch f {
	case FormatPipe:
		return Pipe(cards), nil
	case FormatNewline:
		return Newline(cards), nil
	case FormatJSON:
		return JSON(cards)
	case FormatISO8583:
		return ISO8583(cards)
	default:
		return "", fmt.Errorf("%q: %w", f, ErrUnknownFormat)
	}
}

// Pipe renders one number|MM/YY|cvv line per card with no trailing newline.
func Pipe(cards []engine.Card) string {
	lines := make([]string, len(cards))
	for i, c := range cards {
		lines[i] = c.Number + "|" + c.Exp() + "|" + c.CVV
	}
	return strings.Join(lines, "\n")
}

// Newline renders number, MM/YY and cvv on separate lines with a blank
// line between cards.
func Newline(cards []engine.Card) string {
	blocks := make([]string, len(cards))
	for i, c := range cards {
		blocks[i] = c.Number + "\n" + c.Exp() + "\n" + c.CVV
	}
	return strings.Join(blocks, "\n\n")
}

// Record is the JSON export shape of one card.
type Record struct {
	Number string `json:"number"`
	Exp    string `json:"exp"`
	CVV    string `json:"cvv"`
	Brand  string `json:"brand"`
}

// JSON renders a pretty-printed array of Records.
func JSON(cards []engine.Card) (string, error) {
	records := make([]Record, len(cards))
	for i, c := range cards {
		records[i] = Record{
			Number: c.Number,
			Exp:    c.Exp(),
			CVV:    c.CVV,
			Brand:  c.BrandName(),
		}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling records: %w", err)
	}
	return string(b), nil
}
