package generator

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"github.com/alovak/cardforge/generator/models"
	"github.com/alovak/cardforge/internal/brand"
	"github.com/alovak/cardforge/internal/engine"
	"github.com/alovak/cardforge/internal/export"
	"github.com/alovak/cardforge/internal/metrics"
	"github.com/alovak/cardforge/internal/validation"
)

func newTestService(t *testing.T, cfg *Config) (*Service, *metrics.Metrics) {
	t.Helper()
	eng := engine.New(rand.New(rand.NewSource(11)))
	eng.Now = func() time.Time { return time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC) }
	m := metrics.New(prometheus.NewRegistry())
	return NewService(NewBatchStore(), cfg).WithEngine(eng).WithMetrics(m), m
}

func TestService_GenerateUsesDefaultBIN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultBIN = "5555"
	svc, m := newTestService(t, cfg)

	batch, err := svc.Generate(models.GenerateRequest{Quantity: 4})
	require.NoError(t, err)
	require.Equal(t, "5555", batch.Config.BINPrefix)
	for _, c := range batch.Cards {
		require.Equal(t, brand.Mastercard, c.Brand)
	}
	require.Equal(t, 4.0, testutil.ToFloat64(m.CardsGenerated.WithLabelValues(brand.Mastercard)))
}

func TestService_GenerateLimits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxQuantity = 5
	svc, _ := newTestService(t, cfg)

	_, err := svc.Generate(models.GenerateRequest{Quantity: 6})
	require.ErrorIs(t, err, ErrQuantityTooLarge)

	_, err = svc.Generate(models.GenerateRequest{Quantity: 0})
	require.ErrorIs(t, err, validation.ErrInvalid)

	_, err = svc.Generate(models.GenerateRequest{Quantity: 1, ExpMonth: "00"})
	require.ErrorIs(t, err, engine.ErrInvalidMonth)

	_, err = svc.CurrentBatch()
	require.ErrorIs(t, err, ErrNoBatch)
}

func TestService_ValidateOutcomes(t *testing.T) {
	svc, m := newTestService(t, nil)

	require.True(t, svc.Validate("4532015112830366").IsValid)
	require.False(t, svc.Validate("1234567890123").IsValid)
	require.False(t, svc.Validate("123").IsValid)
	require.False(t, svc.Validate("123").IsValid)

	require.Equal(t, 1.0, testutil.ToFloat64(m.Validations.WithLabelValues("valid")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Validations.WithLabelValues("checksum")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.Validations.WithLabelValues("length")))
}

func TestService_ExportAndReset(t *testing.T) {
	svc, m := newTestService(t, nil)

	_, _, err := svc.Export("pipe")
	require.ErrorIs(t, err, ErrNoBatch)

	batch, err := svc.Generate(models.GenerateRequest{Quantity: 3, BINPrefix: "6011"})
	require.NoError(t, err)

	out, f, err := svc.Export("")
	require.NoError(t, err)
	require.Equal(t, export.FormatPipe, f)
	require.Equal(t, export.Pipe(batch.Cards), out)

	out, f, err = svc.Export("newline")
	require.NoError(t, err)
	require.Equal(t, export.FormatNewline, f)
	require.Equal(t, export.Newline(batch.Cards), out)

	_, _, err = svc.Export("yaml")
	require.ErrorIs(t, err, export.ErrUnknownFormat)

	require.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues("pipe")))

	svc.Reset()
	_, err = svc.CurrentBatch()
	require.ErrorIs(t, err, ErrNoBatch)
	svc.Reset()
}

func TestService_WithoutMetrics(t *testing.T) {
	svc := NewService(NewBatchStore(), nil)
	batch, err := svc.Generate(models.GenerateRequest{Quantity: 2})
	require.NoError(t, err)
	require.Len(t, batch.Cards, 2)
	require.True(t, svc.Validate(batch.Cards[0].Number).IsValid)
}

func TestService_RandomYearFollowsClock(t *testing.T) {
	svc, _ := newTestService(t, nil)
	batch, err := svc.Generate(models.GenerateRequest{Quantity: 50})
	require.NoError(t, err)
	for _, c := range batch.Cards {
		require.GreaterOrEqual(t, c.ExpYear, "27")
		require.LessOrEqual(t, c.ExpYear, "31")
	}
}

func TestService_GenerateMasksBINInLogs(t *testing.T) {
	var buf bytes.Buffer
	svc, _ := newTestService(t, DefaultConfig())
	svc.WithLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	_, err := svc.Generate(models.GenerateRequest{BINPrefix: "4532015112830366", Quantity: 1})
	require.NoError(t, err)

	require.Contains(t, buf.String(), `"bin":"453201******0366"`)
	require.False(t, strings.Contains(buf.String(), "4532015112830366"))
}

func TestService_GenerateDefaultBINWhenNoDigits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultBIN = "34"
	svc, _ := newTestService(t, cfg)

	batch, err := svc.Generate(models.GenerateRequest{BINPrefix: " - ", Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, "34", batch.Config.BINPrefix)
	for _, c := range batch.Cards {
		require.Equal(t, brand.AmericanExpress, c.Brand)
		require.Len(t, c.Number, 15)
	}
}

func TestService_Brand(t *testing.T) {
	svc, _ := newTestService(t, nil)

	b, err := svc.Brand("mastercard")
	require.NoError(t, err)
	require.Equal(t, brand.Mastercard, b.Name)

	_, err = svc.Brand("nope")
	require.ErrorIs(t, err, ErrUnknownBrand)
}
