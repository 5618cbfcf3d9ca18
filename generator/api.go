package generator

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alovak/cardforge/generator/models"
	"github.com/alovak/cardforge/internal/engine"
	"github.com/alovak/cardforge/internal/export"
	"github.com/alovak/cardforge/internal/validation"
	"github.com/go-chi/chi/v5"
)

// API is a HTTP API for the generator service
type API struct {
	generator *Service
}

func NewAPI(generator *Service) *API {
	return &API{
		generator: generator,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Route("/cards", func(r chi.Router) {
		r.Post("/generate", a.generate)
		r.Post("/validate", a.validate)
		r.Route("/batch", func(r chi.Router) {
			r.Get("/", a.getBatch)
			r.Delete("/", a.resetBatch)
			r.Get("/export", a.exportBatch)
		})
	})
	r.Get("/brands", a.listBrands)
	r.Get("/brands/{name}", a.getBrand)
}

func (a *API) generate(w http.ResponseWriter, r *http.Request) {
	req := models.GenerateRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	batch, err := a.generator.Generate(req)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, http.StatusCreated, batch)
}

func (a *API) validate(w http.ResponseWriter, r *http.Request) {
	req := models.ValidateRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// an invalid card is still a successful validation
	writeJSON(w, http.StatusOK, a.generator.Validate(req.Input))
}

func (a *API) getBatch(w http.ResponseWriter, r *http.Request) {
	batch, err := a.generator.CurrentBatch()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (a *API) resetBatch(w http.ResponseWriter, r *http.Request) {
	a.generator.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) exportBatch(w http.ResponseWriter, r *http.Request) {
	out, f, err := a.generator.Export(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	if f == export.FormatJSON {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}

func (a *API) listBrands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.generator.Brands())
}

func (a *API) getBrand(w http.ResponseWriter, r *http.Request) {
	b, err := a.generator.Brand(chi.URLParam(r, "name"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNoBatch), errors.Is(err, ErrUnknownBrand):
		return http.StatusNotFound
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, ErrQuantityTooLarge),
		errors.Is(err, export.ErrUnknownFormat),
		errors.Is(err, engine.ErrInvalidQuantity),
		errors.Is(err, engine.ErrInvalidMonth),
		errors.Is(err, engine.ErrInvalidYear),
		errors.Is(err, engine.ErrInvalidCVV):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
