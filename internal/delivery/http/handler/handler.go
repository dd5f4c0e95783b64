package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/user/search-engine/internal/delivery/http/request"
	"github.com/user/search-engine/internal/delivery/http/response"
	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/usecase"
	"go.uber.org/zap"
)

const (
	stopTimeout   = 30 * time.Second
	healthTimeout = 2 * time.Second
)

// Pinger is a backing service checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	indexing   usecase.Indexing
	pages      usecase.PageIndexer
	search     usecase.Search
	statistics usecase.Statistics
	health     map[string]Pinger
	logger     *zap.Logger
}

func NewHandler(
	indexing usecase.Indexing,
	pages usecase.PageIndexer,
	search usecase.Search,
	statistics usecase.Statistics,
	health map[string]Pinger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		indexing:   indexing,
		pages:      pages,
		search:     search,
		statistics: statistics,
		health:     health,
		logger:     logger,
	}
}

func (h *Handler) HandleStartIndexing(w http.ResponseWriter, r *http.Request) {
	session, err := h.indexing.Start(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Info("indexing requested", zap.String("session", session.ID))
	h.writeJSON(w, http.StatusOK, response.OK())
}

func (h *Handler) HandleStopIndexing(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), stopTimeout)
	defer cancel()

	if err := h.indexing.Stop(ctx); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.OK())
}

func (h *Handler) HandleIndexPage(w http.ResponseWriter, r *http.Request) {
	req, err := request.ParseIndexPage(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.pages.IndexPage(r.Context(), req.URL); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.OK())
}

func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q, err := request.ParseSearch(r)
	if err == nil {
		var res *entity.SearchResult
		if res, err = h.search.Search(r.Context(), q); err == nil {
			h.writeJSON(w, http.StatusOK, response.SearchResponse{Result: true, Count: res.Count, Data: res.Items})
			return
		}
	}

	status, msg := h.classify(err)
	h.writeJSON(w, status, response.SearchResponse{Error: msg, Data: []entity.SearchItem{}})
}

func (h *Handler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statistics.Get(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.StatisticsResponse{Result: true, Statistics: *stats})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := response.HealthResponse{Status: "ok", Dependencies: make(map[string]string, len(h.health))}
	code := http.StatusOK
	for name, p := range h.health {
		if err := p.Ping(ctx); err != nil {
			h.logger.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Dependencies[name] = "unhealthy"
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[name] = "healthy"
	}
	h.writeJSON(w, code, resp)
}

// classify maps an error to its HTTP status and the message shown to the client.
func (h *Handler) classify(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrIndexingAlreadyRunning),
		errors.Is(err, usecase.ErrIndexingNotRunning):
		return http.StatusConflict, err.Error()
	case errors.Is(err, request.ErrInvalidParam),
		errors.Is(err, usecase.ErrPageOutsideSites),
		errors.Is(err, usecase.ErrEmptyQuery):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, usecase.ErrPageUnavailable):
		return http.StatusBadGateway, err.Error()
	default:
		h.logger.Error("request failed", zap.Error(err))
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, msg := h.classify(err)
	h.writeJSON(w, status, response.Fail(msg))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
