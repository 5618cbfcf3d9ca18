package engine

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alovak/cardforge/internal/brand"
	"github.com/alovak/cardforge/internal/cardgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func newTestEngine(seed int64) *Engine {
	e := New(rand.New(rand.NewSource(seed)))
	e.Now = func() time.Time { return fixedNow }
	return e
}

func TestGenerate_Quantity(t *testing.T) {
	cards, err := newTestEngine(1).Generate(Config{Quantity: 10})
	require.NoError(t, err)
	require.Len(t, cards, 10)
	for _, c := range cards {
		require.True(t, cardgen.LuhnValid(c.Number), c.Number)
		require.True(t, c.IsValid)
	}
}

func TestGenerate_DefaultsToVisa(t *testing.T) {
	cards, err := newTestEngine(2).Generate(Config{Quantity: 25})
	require.NoError(t, err)
	for _, c := range cards {
		assert.Equal(t, brand.Visa, c.Brand)
		assert.Len(t, c.Number, 16)
		assert.True(t, strings.HasPrefix(c.Number, "4"))
		assert.Len(t, c.CVV, 3)
	}
}

func TestGenerate_Visa(t *testing.T) {
	cards, err := newTestEngine(3).Generate(Config{BINPrefix: "4", Quantity: 20})
	require.NoError(t, err)
	for _, c := range cards {
		assert.Equal(t, brand.Visa, c.Brand)
		assert.Len(t, c.Number, 16)
	}
}

func TestGenerate_Amex(t *testing.T) {
	cards, err := newTestEngine(4).Generate(Config{BINPrefix: "37", Quantity: 20})
	require.NoError(t, err)
	for _, c := range cards {
		assert.Equal(t, brand.AmericanExpress, c.Brand)
		assert.Len(t, c.Number, 15)
		assert.Len(t, c.CVV, 4)
		assert.True(t, cardgen.LuhnValid(c.Number))
	}
}

func TestGenerate_EveryCatalogBrand(t *testing.T) {
	e := newTestEngine(5)
	for _, b := range brand.Catalog() {
		for _, p := range b.Prefixes {
			cards, err := e.Generate(Config{BINPrefix: p, Quantity: 3})
			require.NoError(t, err)
			for _, c := range cards {
				require.Equal(t, b.Name, c.Brand, "prefix %s", p)
				require.Len(t, c.Number, b.TargetLength(), "prefix %s", p)
				require.True(t, strings.HasPrefix(c.Number, p))
			}
		}
	}
}

func TestGenerate_UnknownBrandUsesDefaultLength(t *testing.T) {
	cards, err := newTestEngine(6).Generate(Config{BINPrefix: "999", Quantity: 5})
	require.NoError(t, err)
	for _, c := range cards {
		assert.Empty(t, c.Brand)
		assert.Equal(t, "Unknown", c.BrandName())
		assert.Len(t, c.Number, brand.DefaultLength)
		assert.Len(t, c.CVV, 3)
		assert.True(t, c.IsValid)
	}
}

func TestGenerate_PrefixLongerThanBrandLength(t *testing.T) {
	cards, err := newTestEngine(7).Generate(Config{BINPrefix: "3782822463100059999", Quantity: 3})
	require.NoError(t, err)
	for _, c := range cards {
		assert.Len(t, c.Number, 15)
		assert.Equal(t, "37828224631000", c.Number[:14])
		assert.Equal(t, brand.AmericanExpress, c.Brand)
		assert.True(t, c.IsValid)
	}
}

func TestGenerate_BINWithSeparators(t *testing.T) {
	cards, err := newTestEngine(8).Generate(Config{BINPrefix: " 5555-55 ", Quantity: 2})
	require.NoError(t, err)
	for _, c := range cards {
		assert.True(t, strings.HasPrefix(c.Number, "555555"))
		assert.Equal(t, brand.Mastercard, c.Brand)
	}

	cards, err = newTestEngine(8).Generate(Config{BINPrefix: "abc", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, brand.Visa, cards[0].Brand)
}

func TestGenerate_RandomExpiry(t *testing.T) {
	cards, err := newTestEngine(9).Generate(Config{Quantity: 200, ExpMonth: Random, ExpYear: Random})
	require.NoError(t, err)
	for _, c := range cards {
		require.Len(t, c.ExpMonth, 2)
		m, err := strconv.Atoi(c.ExpMonth)
		require.NoError(t, err)
		require.True(t, m >= 1 && m <= 12, c.ExpMonth)

		y, err := strconv.Atoi(c.ExpYear)
		require.NoError(t, err)
		require.True(t, y >= 27 && y <= 31, c.ExpYear)
	}
}

func TestGenerate_FixedValues(t *testing.T) {
	cards, err := newTestEngine(10).Generate(Config{
		BINPrefix: "4",
		Quantity:  3,
		ExpMonth:  "3",
		ExpYear:   "2029",
		CVV:       "7",
	})
	require.NoError(t, err)
	for _, c := range cards {
		assert.Equal(t, "03", c.ExpMonth)
		assert.Equal(t, "29", c.ExpYear)
		assert.Equal(t, "03/29", c.Exp())
		assert.Equal(t, "007", c.CVV)
	}
}

func TestGenerate_FixedCVVFitsBrand(t *testing.T) {
	e := newTestEngine(11)

	cards, err := e.Generate(Config{BINPrefix: "34", Quantity: 1, CVV: "12"})
	require.NoError(t, err)
	assert.Equal(t, "0012", cards[0].CVV)

	cards, err = e.Generate(Config{BINPrefix: "4", Quantity: 1, CVV: "98765"})
	require.NoError(t, err)
	assert.Equal(t, "987", cards[0].CVV)
}

func TestGenerate_ConfigErrors(t *testing.T) {
	e := newTestEngine(12)
	cases := []struct {
		name string
		cfg  Config
		err  error
	}{
		{"zero quantity", Config{}, ErrInvalidQuantity},
		{"negative quantity", Config{Quantity: -1}, ErrInvalidQuantity},
		{"bad month", Config{Quantity: 1, ExpMonth: "13"}, ErrInvalidMonth},
		{"bad year", Config{Quantity: 1, ExpYear: "202"}, ErrInvalidYear},
		{"bad cvv", Config{Quantity: 1, CVV: "12a"}, ErrInvalidCVV},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cards, err := e.Generate(c.cfg)
			require.ErrorIs(t, err, c.err)
			require.Nil(t, cards)
		})
	}
}

func TestGenerate_SeededIsReproducible(t *testing.T) {
	a, err := newTestEngine(99).Generate(Config{Quantity: 5})
	require.NoError(t, err)
	b, err := newTestEngine(99).Generate(Config{Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestGenerate_FormattedNumber(t *testing.T) {
	cards, err := newTestEngine(13).Generate(Config{Quantity: 1})
	require.NoError(t, err)
	c := cards[0]
	require.Equal(t, c.Number, strings.ReplaceAll(c.FormattedNumber, " ", ""))
	require.Len(t, strings.Fields(c.FormattedNumber), 4)
}

func TestNew_DefaultsToCryptoSource(t *testing.T) {
	e := New(nil)
	cards, err := e.Generate(Config{Quantity: 3, BINPrefix: "6011"})
	require.NoError(t, err)
	for _, c := range cards {
		require.Equal(t, brand.Discover, c.Brand)
		require.True(t, c.IsValid)
	}
}

func TestGenerate_ZeroValueEngine(t *testing.T) {
	cards, err := (&Engine{}).Generate(Config{BINPrefix: "37", Quantity: 3})
	require.NoError(t, err)
	require.Len(t, cards, 3)
	for _, c := range cards {
		require.True(t, cardgen.LuhnValid(c.Number))
		require.Len(t, c.CVV, 4)
	}
}
