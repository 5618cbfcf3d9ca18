package models

import (
    "time"

    "github.com/alovak/cardforge/internal/engine"
)

// GenerateRequest is the body of POST /cards/generate. Quantity is also
// capped by Config.MaxQuantity in the service.
type GenerateRequest struct {
    BINPrefix string `json:"bin_prefix" validate:"bin"`
    Quantity  int    `json:"quantity" validate:"min=1"`
    ExpMonth  string `json:"exp_month" validate:"randomordigits"`
    ExpYear   string `json:"exp_year" validate:"randomordigits"`
    CVV       string `json:"cvv" validate:"randomordigits"`
}

func (r GenerateRequest) Config() engine.Config {
    return engine.Config{
        BINPrefix: r.BINPrefix,
        Quantity:  r.Quantity,
        ExpMonth:  r.ExpMonth,
        ExpYear:   r.ExpYear,
        CVV:       r.CVV,
    }
}

type ValidateRequest struct {
    Input string `json:"input"`
}

// Batch is the result of one generate request; the next generate or a
// reset replaces it.
type Batch struct {
    ID        string        `json:"id"`
    CreatedAt time.Time     `json:"created_at"`
    Config    engine.Config `json:"config"`
    Cards     []engine.Card `json:"cards"`
}
