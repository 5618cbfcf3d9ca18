package generator

import (
    "errors"
    "fmt"
    "time"

    "github.com/google/uuid"
    "golang.org/x/exp/slog"

    "github.com/alovak/cardforge/generator/models"
    "github.com/alovak/cardforge/internal/brand"
    "github.com/alovak/cardforge/internal/cardgen"
    "github.com/alovak/cardforge/internal/engine"
    "github.com/alovak/cardforge/internal/export"
    "github.com/alovak/cardforge/internal/metrics"
    "github.com/alovak/cardforge/internal/validation"
)

var (
    ErrQuantityTooLarge = errors.New("quantity exceeds the configured maximum")
    ErrUnknownBrand     = errors.New("unknown brand")
)

type Service struct {
    store   *BatchStore
    cfg     *Config
    engine  *engine.Engine
    metrics *metrics.Metrics
    logger  *slog.Logger
}

// NewService wires a service with a crypto-backed engine whose clock runs
// in cfg's expiry timezone.
func NewService(store *BatchStore, cfg *Config) *Service {
    if cfg == nil {
        cfg = DefaultConfig()
    }
    loc, err := cfg.Location()
    if err != nil {
        loc = time.UTC
    }
    eng := engine.New(nil)
    eng.Now = func() time.Time { return time.Now().In(loc) }

    return &Service{
        store:  store,
        cfg:    cfg,
        engine: eng,
        logger: slog.Default(),
    }
}

// WithEngine swaps the engine, mostly to seed randomness in tests.
func (s *Service) WithEngine(e *engine.Engine) *Service {
    s.engine = e
    return s
}

func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
    s.metrics = m
    return s
}

func (s *Service) WithLogger(l *slog.Logger) *Service {
    s.logger = l
    return s
}

// Generate builds a new batch and makes it the current one.
func (s *Service) Generate(req models.GenerateRequest) (*models.Batch, error) {
    start := time.Now()
    if err := validation.Validate(req); err != nil {
        return nil, err
    }
    if req.Quantity > s.cfg.MaxQuantity {
        return nil, fmt.Errorf("%d > %d: %w", req.Quantity, s.cfg.MaxQuantity, ErrQuantityTooLarge)
    }
    cfg := req.Config()
    cfg.BINPrefix = cardgen.StripNonDigits(cfg.BINPrefix)
    if cfg.BINPrefix == "" {
        cfg.BINPrefix = s.cfg.DefaultBIN
    }

    cards, err := s.engine.Generate(cfg)
    if err != nil {
        return nil, fmt.Errorf("generating cards: %w", err)
    }

    batch := &models.Batch{
        ID:        uuid.New().String(),
        CreatedAt: time.Now().UTC(),
        Config:    cfg,
        Cards:     cards,
    }
    if prev := s.store.Replace(batch); prev != nil {
        s.logger.Debug("batch replaced", slog.String("previous", prev.ID))
    }

    if s.metrics != nil {
        for _, c := range cards {
            s.metrics.IncrementGenerated(c.Brand)
        }
        s.metrics.ObserveGenerate(start)
    }
    s.logger.Info("batch generated",
        slog.String("batch", batch.ID),
        slog.Int("quantity", len(cards)),
        slog.String("bin", cardgen.MaskPAN(cfg.BINPrefix)),
    )
    return batch, nil
}

// Validate never fails; bad input is described by the result.
func (s *Service) Validate(input string) engine.ValidationResult {
    res := s.engine.Validate(input)
    if s.metrics != nil {
        s.metrics.IncrementValidation(outcome(res))
    }
    s.logger.Debug("card validated",
        slog.String("pan", cardgen.MaskPAN(res.Number)),
        slog.Bool("valid", res.IsValid),
    )
    return res
}

func outcome(res engine.ValidationResult) string {
    switch {
    case res.IsValid:
        return "valid"
    case len(res.Number) < engine.MinLength || len(res.Number) > engine.MaxLength:
        return "length"
    default:
        return "checksum"
    }
}

func (s *Service) CurrentBatch() (*models.Batch, error) {
    return s.store.Current()
}

// Reset drops the current batch.
func (s *Service) Reset() {
    if s.store.Reset() {
        s.logger.Info("batch reset")
    }
}

// Export renders the current batch in the named format.
func (s *Service) Export(format string) (string, export.Format, error) {
    f, err := export.ParseFormat(format)
    if err != nil {
        return "", "", err
    }
    batch, err := s.store.Current()
    if err != nil {
        return "", "", err
    }
    out, err := export.Render(batch.Cards, f)
    if err != nil {
        return "", "", fmt.Errorf("exporting batch %s: %w", batch.ID, err)
    }
    if s.metrics != nil {
        s.metrics.IncrementExport(string(f))
    }
    return out, f, nil
}

// Brands lists the catalog in detection order.
func (s *Service) Brands() []brand.Brand {
    return brand.Catalog()
}

// Brand looks up one catalog entry by name, ignoring case.
func (s *Service) Brand(name string) (brand.Brand, error) {
    b, ok := brand.Lookup(name)
    if !ok {
        return brand.Brand{}, fmt.Errorf("%q: %w", name, ErrUnknownBrand)
    }
    return b, nil
}
