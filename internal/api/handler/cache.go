package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/youchat/ytanalyzer/internal/service"
)

// CacheStarter schedules background cache tasks.
type CacheStarter interface {
	Start(ctx context.Context, videoURL string) (*service.StartResult, error)
}

// CacheHandler handles cache requests.
type CacheHandler struct {
	starter CacheStarter
	logger  *slog.Logger
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(starter CacheStarter, logger *slog.Logger) *CacheHandler {
	return &CacheHandler{
		starter: starter,
		logger:  logger,
	}
}

// CacheRequest is the JSON request body for POST /cache.
type CacheRequest struct {
	URL *string `json:"url"`
}

// CacheResponse acknowledges a scheduled cache task.
type CacheResponse struct {
	Status string `json:"status"`
}

// Cache handles POST /cache. It responds as soon as the task is scheduled;
// the task's outcome is never reported back.
func (h *CacheHandler) Cache(w http.ResponseWriter, r *http.Request) {
	var req CacheRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	if err := requireFields(map[string]*string{"url": req.URL}); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := h.starter.Start(r.Context(), *req.URL)
	if err != nil {
		h.logger.Error("failed to start cache task", "url", *req.URL, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CacheResponse{Status: result.Message})
}
