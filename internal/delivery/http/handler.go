// Package http exposes the dispatcher as a webhook the dialog platform calls
// once per turn.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-fulfillment/internal/dialog"
	"github.com/aliskhannn/quiz-fulfillment/internal/service"
)

// maxBodyBytes bounds one turn payload.
const maxBodyBytes = 1 << 20

// Dispatcher fulfills one turn.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev dialog.Event) (dialog.Response, error)
}

// Handler serves the fulfillment webhook.
type Handler struct {
	dispatcher Dispatcher
	logger     *zap.Logger
}

func NewHandler(d Dispatcher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{dispatcher: d, logger: logger}
}

// Routes mounts the handler's endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.health)
	r.Post("/fulfillment", h.fulfill)
}

// NewRouter returns the full middleware stack around h.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	h.Routes(r)
	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) fulfill(w http.ResponseWriter, r *http.Request) {
	var ev dialog.Event
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	resp, err := h.dispatcher.Dispatch(r.Context(), ev)
	switch {
	case errors.Is(err, service.ErrUnknownIntent):
		h.logger.Warn("unsupported intent",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("intent", ev.IntentName()),
		)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("dispatch failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("session_id", ev.SessionID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "fulfillment failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
