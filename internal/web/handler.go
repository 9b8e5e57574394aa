package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"marketboard/internal/cache"
	"marketboard/internal/export"
	"marketboard/internal/store"
	"marketboard/internal/ticker"
)

// Handler serves read-only views over the ticker store
type Handler struct {
	store  store.Store
	cache  *cache.Snapshot
	logger *slog.Logger
}

// NewHandler creates a Handler; cache may be nil
func NewHandler(s store.Store, c *cache.Snapshot, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  s,
		cache:  c,
		logger: logger,
	}
}

// records returns the full listing, preferring the snapshot cache.
// Cache errors degrade to a store read; the listing must stay available
// when Redis is down.
func (h *Handler) records(r *http.Request) ([]ticker.Record, error) {
	ctx := r.Context()

	if h.cache != nil {
		cached, ok, err := h.cache.Get(ctx)
		if err != nil {
			h.logger.Warn("listing cache read failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}

	records, err := h.store.All(ctx)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, records); err != nil {
			h.logger.Warn("listing cache write failed", "error", err)
		}
	}

	return records, nil
}

// Index renders the full ticker table
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	records, err := h.records(r)
	if err != nil {
		h.logger.Error("failed to load ticker listing", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := export.WritePage(w, records); err != nil {
		h.logger.Error("failed to render ticker table", "error", err)
	}
}

// ListTickers returns the listing as JSON
func (h *Handler) ListTickers(w http.ResponseWriter, r *http.Request) {
	records, err := h.records(r)
	if err != nil {
		h.logger.Error("failed to load ticker listing", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"total":   len(records),
		"tickers": records,
	})
}

// Health reports store and cache connectivity
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := map[string]string{"store": "ok"}
	healthy := true

	if err := h.store.Ping(ctx); err != nil {
		status["store"] = err.Error()
		healthy = false
	}

	if h.cache != nil {
		status["cache"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			status["cache"] = err.Error()
			healthy = false
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(status)
}
