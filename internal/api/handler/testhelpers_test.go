package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/youchat/ytanalyzer/internal/repository"
	"github.com/youchat/ytanalyzer/internal/service"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type analyzeCall struct {
	url     string
	command string
}

// mockAnalyzer is a test implementation of Analyzer.
type mockAnalyzer struct {
	result *service.AnalyzeResult
	err    error
	calls  []analyzeCall
}

func (m *mockAnalyzer) Analyze(ctx context.Context, videoURL, command string) (*service.AnalyzeResult, error) {
	m.calls = append(m.calls, analyzeCall{url: videoURL, command: command})
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockStarter is a test implementation of CacheStarter.
type mockStarter struct {
	err  error
	urls []string
}

func (m *mockStarter) Start(ctx context.Context, videoURL string) (*service.StartResult, error) {
	m.urls = append(m.urls, videoURL)
	if m.err != nil {
		return nil, m.err
	}
	return &service.StartResult{
		TaskID:   "task_test",
		TempPath: "/tmp/ytcache-test.mp4",
		Message:  service.CacheStartedMessage,
	}, nil
}

// mockTaskRepository is a test implementation of repository.TaskRepository.
type mockTaskRepository struct {
	repository.TaskRepository
	stats    *repository.TaskStats
	statsErr error
}

func (m *mockTaskRepository) Stats(ctx context.Context) (*repository.TaskStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	if m.stats == nil {
		return &repository.TaskStats{}, nil
	}
	return m.stats, nil
}
