// Package apiclient talks to a running cardforge HTTP service.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alovak/cardforge/generator/models"
	"github.com/alovak/cardforge/internal/engine"
)

type Client struct {
	Base string
	HTTP *http.Client
}

func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: hc}
}

// Generate asks the service for a new batch.
func (c *Client) Generate(ctx context.Context, req models.GenerateRequest) (*models.Batch, error) {
	var batch models.Batch
	if err := c.do(ctx, http.MethodPost, "/cards/generate", req, http.StatusCreated, &batch); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return &batch, nil
}

func (c *Client) Validate(ctx context.Context, input string) (engine.ValidationResult, error) {
	var res engine.ValidationResult
	if err := c.do(ctx, http.MethodPost, "/cards/validate", models.ValidateRequest{Input: input}, http.StatusOK, &res); err != nil {
		return engine.ValidationResult{}, fmt.Errorf("validate: %w", err)
	}
	return res, nil
}

// Export returns the current batch rendered by the service.
func (c *Client) Export(ctx context.Context, format string) (string, error) {
	u, err := url.Parse(c.Base + "/cards/batch/export")
	if err != nil {
		return "", fmt.Errorf("parse base: %w", err)
	}
	q := u.Query()
	q.Set("format", format)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading export: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("export status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return string(b), nil
}

// Reset drops the batch held by the service.
func (c *Client) Reset(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.Base+"/cards/batch/", nil)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("reset status=%d", resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
