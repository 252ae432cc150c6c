package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/serp-visibility/internal/delivery/http/request"
	"github.com/user/serp-visibility/internal/delivery/http/response"
	"github.com/user/serp-visibility/internal/entity"
	"github.com/user/serp-visibility/internal/export"
	"github.com/user/serp-visibility/internal/serp"
	"github.com/user/serp-visibility/internal/usecase"
)

const (
	maxBodyBytes = 1 << 20
	maxKeywords  = 500
)

// Pinger is a dependency whose health is reported by /api/health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	scanner usecase.Scanner
	checks  map[string]Pinger
	logger  *zap.Logger
}

func NewHandler(scanner usecase.Scanner, checks map[string]Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		scanner: scanner,
		checks:  checks,
		logger:  logger,
	}
}

// HandleScan runs a scan synchronously. ?format=csv returns the records as CSV,
// otherwise the full result is returned as JSON.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	var req request.ScanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Keywords) > maxKeywords {
		h.writeJSONError(w, "Too many keywords", http.StatusBadRequest)
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil || format == export.FormatTable {
		format = export.FormatJSON
	}

	result, err := h.scanner.Run(r.Context(), usecase.RunRequest{
		Brand:    req.Brand,
		Keywords: req.Keywords,
		Features: req.Features,
		Mode:     entity.Mode(req.Mode),
	})
	if err != nil {
		if errors.Is(err, serp.ErrEmptyBrand) || errors.Is(err, usecase.ErrNoKeywords) || errors.Is(err, usecase.ErrInvalidMode) {
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("scan failed", zap.String("brand", req.Brand), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if format == export.FormatCSV {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := export.WriteCSV(w, export.TableOf(result)); err != nil {
			h.logger.Error("failed to write CSV response", zap.Error(err))
		}
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := response.HealthResponse{Status: "ok"}
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			resp.Checks[name] = "unhealthy"
			resp.Status = "degraded"
			h.logger.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			continue
		}
		resp.Checks[name] = "healthy"
	}

	if resp.Status != "ok" {
		h.writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Error: message})
}
