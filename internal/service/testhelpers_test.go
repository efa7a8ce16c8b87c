package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/youchat/ytanalyzer/internal/worker"
	"github.com/youchat/ytanalyzer/pkg/gemini"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockClient implements gemini.Client for testing.
type mockClient struct {
	mu sync.Mutex

	analyzeResp *gemini.AnalyzeResponse
	analyzeErr  error
	uploadErr   error
	cacheErr    error
	cacheName   string

	analyzeCalls []gemini.AnalyzeRequest
	uploadPaths  []string
	cacheCalls   []gemini.CacheRequest
	// existsAtUpload records whether the file was on disk during UploadFile.
	existsAtUpload bool
}

func (m *mockClient) Analyze(ctx context.Context, req gemini.AnalyzeRequest) (*gemini.AnalyzeResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyzeCalls = append(m.analyzeCalls, req)
	if m.analyzeErr != nil {
		return nil, m.analyzeErr
	}
	return m.analyzeResp, nil
}

func (m *mockClient) UploadFile(ctx context.Context, path string) (*gemini.UploadedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadPaths = append(m.uploadPaths, path)
	_, err := os.Stat(path)
	m.existsAtUpload = err == nil
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return &gemini.UploadedFile{Name: "files/abc", URI: "https://files/abc", MIMEType: "video/mp4"}, nil
}

func (m *mockClient) CreateCache(ctx context.Context, req gemini.CacheRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheCalls = append(m.cacheCalls, req)
	if m.cacheErr != nil {
		return "", m.cacheErr
	}
	if m.cacheName == "" {
		return "cachedContents/xyz", nil
	}
	return m.cacheName, nil
}

// mockDownloader implements downloader.Downloader for testing.
type mockDownloader struct {
	mu      sync.Mutex
	err     error
	panics  string
	block   chan struct{}
	started chan string
	calls   []string
	formats []string
}

func (m *mockDownloader) Download(ctx context.Context, url, outputPath, format string) error {
	m.mu.Lock()
	m.calls = append(m.calls, url)
	m.formats = append(m.formats, format)
	block, started := m.block, m.started
	m.mu.Unlock()

	if started != nil {
		started <- outputPath
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if m.panics != "" {
		panic(m.panics)
	}
	if m.err != nil {
		return m.err
	}
	return os.WriteFile(outputPath, []byte("video-bytes"), 0600)
}

// inlineRunner runs tasks synchronously, capturing their errors.
type inlineRunner struct {
	errs []error
	fail error
}

func (r *inlineRunner) Go(name string, task worker.Task) error {
	if r.fail != nil {
		return r.fail
	}
	r.errs = append(r.errs, task(context.Background()))
	return nil
}
