package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/youchat/ytanalyzer/internal/config"
	"github.com/youchat/ytanalyzer/pkg/gemini"
)

// AnalysisService forwards a video URL and an instruction to the provider
// in a single synchronous call. The video is passed by reference and never
// downloaded here.
type AnalysisService struct {
	client gemini.Client
	model  string
	logger *slog.Logger
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(client gemini.Client, cfg config.GeminiConfig, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{
		client: client,
		model:  cfg.Model,
		logger: logger,
	}
}

// AnalyzeResult is the provider's answer, relayed unchanged.
type AnalyzeResult struct {
	Text     string
	Metadata string
}

// Analyze issues exactly one generation call. The URL and command are
// forwarded untouched; judging them is left to the provider, whose errors
// are returned as-is so their message reaches the caller verbatim.
func (s *AnalysisService) Analyze(ctx context.Context, videoURL, command string) (*AnalyzeResult, error) {
	start := time.Now()
	resp, err := s.client.Analyze(ctx, gemini.AnalyzeRequest{
		Model:    s.model,
		Command:  command,
		VideoURL: videoURL,
	})
	if err != nil {
		s.logger.Error("analysis failed",
			"url", videoURL,
			"model", s.model,
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("analysis completed",
		"url", videoURL,
		"model", s.model,
		"duration", time.Since(start),
	)

	return &AnalyzeResult{
		Text:     resp.Text,
		Metadata: resp.UsageMetadata,
	}, nil
}
