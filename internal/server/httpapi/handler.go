// Package httpapi is the HTTP surface of the gateway daemon: the download
// proxy that fronts the content-addressed store (letting browser clients
// sidestep cross-origin restrictions) plus health.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/photovault/photovault/internal/cidx"
	"github.com/photovault/photovault/internal/logging"
	"github.com/photovault/photovault/internal/ratelimit"
	"github.com/photovault/photovault/internal/storage"
)

// BlobStore is the slice of the storage engine the handler needs.
type BlobStore interface {
	Download(ctx context.Context, cid string) ([]byte, error)
}

type Handler struct {
	store BlobStore
	log   logging.Logger
}

func NewHandler(store BlobStore, log logging.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// RouterParams wires the middleware chain.
type RouterParams struct {
	RateLimiter *ratelimit.Limiter // nil disables rate limiting
	RateLimit   int
	RateWindow  time.Duration
	Logger      logging.Logger
}

// NewRouter builds the mux router with logging and optional rate limiting.
func NewRouter(h *Handler, p RouterParams) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware(p.Logger))
	if p.RateLimiter != nil {
		r.Use(RateLimitMiddleware(p.RateLimiter, p.RateLimit, p.RateWindow))
	}

	r.HandleFunc("/api/ipfs/download", h.Download).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	return r
}

// Download serves the raw blob bytes for ?cid=. The response is opaque
// ciphertext; the daemon cannot decrypt anything it proxies.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	cid := r.URL.Query().Get("cid")
	if !cidx.IsValid(cid) {
		http.Error(w, "invalid cid", http.StatusBadRequest)
		return
	}

	data, err := h.store.Download(r.Context(), cid)
	if err != nil {
		var unavailable *storage.StorageUnavailableError
		if errors.As(err, &unavailable) {
			http.Error(w, "content temporarily unavailable", http.StatusBadGateway)
			return
		}
		h.log.Error(r.Context(), "proxy download failed", "cid", cid, "error", err)
		http.Error(w, "download failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = w.Write(data)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
