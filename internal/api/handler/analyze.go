package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/youchat/ytanalyzer/internal/service"
)

// Analyzer runs a single synchronous video analysis.
type Analyzer interface {
	Analyze(ctx context.Context, videoURL, command string) (*service.AnalyzeResult, error)
}

// AnalyzeHandler handles video analysis requests.
type AnalyzeHandler struct {
	analyzer Analyzer
	logger   *slog.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(analyzer Analyzer, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// VideoRequest is the JSON request body for POST /analyze. Both fields are
// required but their contents are passed through as-is.
type VideoRequest struct {
	URL     *string `json:"url"`
	Command *string `json:"command"`
}

// AnalyzeResponse is the JSON response for POST /analyze.
type AnalyzeResponse struct {
	Text     string `json:"text"`
	Metadata string `json:"metadata"`
}

// Analyze handles POST /analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req VideoRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	if err := requireFields(map[string]*string{"url": req.URL, "command": req.Command}); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), *req.URL, *req.Command)
	if err != nil {
		// Any failure, including a URL the provider rejects, is relayed verbatim.
		h.logger.Warn("analyze request failed", "url", *req.URL, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Text:     result.Text,
		Metadata: result.Metadata,
	})
}
