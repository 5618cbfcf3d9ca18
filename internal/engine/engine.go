// Package engine composes the Luhn primitives, brand catalog and expiry
// helpers into the generate and validate operations. Everything here is
// synchronous and free of shared state; randomness and the clock are
// injected so callers can make output reproducible.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alovak/cardforge/internal/brand"
	"github.com/alovak/cardforge/internal/cardgen"
	"github.com/alovak/cardforge/internal/expiry"
)

// Random selects a randomly drawn value for month, year or CVV.
const Random = "random"

// DefaultBIN is used when the configured prefix has no digits.
const DefaultBIN = "4"

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidMonth    = expiry.ErrInvalidMonth
	ErrInvalidYear     = expiry.ErrInvalidYear
	ErrInvalidCVV      = errors.New("cvv must contain digits only")
)

// Config describes one generate request. Empty ExpMonth, ExpYear and CVV
// mean the same as Random.
type Config struct {
	BINPrefix string `json:"bin_prefix"`
	Quantity  int    `json:"quantity"`
	ExpMonth  string `json:"exp_month"`
	ExpYear   string `json:"exp_year"`
	CVV       string `json:"cvv"`
}

// Card is one generated record. Brand is empty when no catalog entry
// matched the number.
type Card struct {
	Number          string `json:"number"`
	FormattedNumber string `json:"formattedNumber"`
	Brand           string `json:"brand,omitempty"`
	ExpMonth        string `json:"expMonth"`
	ExpYear         string `json:"expYear"`
	CVV             string `json:"cvv"`
	IsValid         bool   `json:"isValid"`
}

// BrandName returns the brand or "Unknown".
func (c Card) BrandName() string {
	if c.Brand == "" {
		return "Unknown"
	}
	return c.Brand
}

// Exp returns the card-face expiry, MM/YY.
func (c Card) Exp() string {
	return expiry.CardFace(c.ExpMonth, c.ExpYear)
}

type Engine struct {
	Rand     cardgen.DigitSource
	Now      func() time.Time
	Detector *brand.Detector
}

// New returns an engine over the built-in catalog. A nil src means
// crypto/rand.
func New(src cardgen.DigitSource) *Engine {
	if src == nil {
		src = cardgen.NewCryptoSource()
	}
	return &Engine{
		Rand:     src,
		Now:      time.Now,
		Detector: brand.Default(),
	}
}

// settings is a Config with every fixed value checked and normalised.
type settings struct {
	prefix string
	month  string
	year   string
	cvv    string
}

func (c Config) resolve() (settings, error) {
	var s settings
	if c.Quantity < 1 {
		return s, fmt.Errorf("%d: %w", c.Quantity, ErrInvalidQuantity)
	}

	s.prefix = cardgen.StripNonDigits(c.BINPrefix)
	if s.prefix == "" {
		s.prefix = DefaultBIN
	}

	var err error
	if !isRandom(c.ExpMonth) {
		if s.month, err = expiry.NormalizeMonth(c.ExpMonth); err != nil {
			return s, err
		}
	}
	if !isRandom(c.ExpYear) {
		if s.year, err = expiry.NormalizeYear(c.ExpYear); err != nil {
			return s, err
		}
	}
	if !isRandom(c.CVV) {
		s.cvv = strings.TrimSpace(c.CVV)
		if !cardgen.IsDigits(s.cvv) {
			return s, fmt.Errorf("%q: %w", c.CVV, ErrInvalidCVV)
		}
	}
	return s, nil
}

func isRandom(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, Random)
}

// Generate produces cfg.Quantity independent cards in generation order.
// It only fails on configuration errors.
func (e *Engine) Generate(cfg Config) ([]Card, error) {
	s, err := cfg.resolve()
	if err != nil {
		return nil, fmt.Errorf("resolving config: %w", err)
	}

	cards := make([]Card, 0, cfg.Quantity)
	for i := 0; i < cfg.Quantity; i++ {
		cards = append(cards, e.generateOne(s))
	}
	return cards, nil
}

func (e *Engine) generateOne(s settings) Card {
	totalLen := brand.DefaultLength
	if b, ok := e.detector().Detect(s.prefix); ok {
		totalLen = b.TargetLength()
	}

	src := e.source()
	number := cardgen.GeneratePAN(s.prefix, totalLen, src)

	card := Card{
		Number:          number,
		FormattedNumber: cardgen.FormatNumber(number),
		ExpMonth:        s.month,
		ExpYear:         s.year,
	}
	cvvLen := 3
	if b, ok := e.detector().Detect(number); ok {
		card.Brand = b.Name
		if b.CVVLength > 0 {
			cvvLen = b.CVVLength
		}
	}

	if card.ExpMonth == "" {
		card.ExpMonth = expiry.RandomMonth(src)
	}
	if card.ExpYear == "" {
		card.ExpYear = expiry.RandomYear(e.now(), src)
	}
	if s.cvv != "" {
		card.CVV = fitCVV(s.cvv, cvvLen)
	} else {
		card.CVV = cardgen.RandomDigits(src, cvvLen)
	}

	card.IsValid = cardgen.LuhnValid(number)
	if !card.IsValid {
		panic(fmt.Sprintf("engine: generated number %s fails its own checksum", cardgen.MaskPAN(number)))
	}
	return card
}

// fitCVV left-pads with zeros, then keeps the first n digits.
func fitCVV(cvv string, n int) string {
	if len(cvv) < n {
		cvv = strings.Repeat("0", n-len(cvv)) + cvv
	}
	return cvv[:n]
}

func (e *Engine) detector() *brand.Detector {
	if e.Detector == nil {
		return brand.Default()
	}
	return e.Detector
}

func (e *Engine) source() cardgen.DigitSource {
	if e.Rand == nil {
		e.Rand = cardgen.NewCryptoSource()
	}
	return e.Rand
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
