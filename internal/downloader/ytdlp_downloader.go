package downloader

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/youchat/ytanalyzer/internal/config"
	"github.com/youchat/ytanalyzer/internal/domain"
)

// maxStderrTail bounds how much tool output is carried into errors.
const maxStderrTail = 800

// YTDLPDownloader implements Downloader by running the yt-dlp executable.
type YTDLPDownloader struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewYTDLPDownloader creates a downloader backed by the configured yt-dlp binary.
func NewYTDLPDownloader(cfg config.DownloadConfig) *YTDLPDownloader {
	binary := cfg.Binary
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YTDLPDownloader{
		binary:  binary,
		timeout: cfg.Timeout,
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger for download reporting.
func (d *YTDLPDownloader) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

// Download runs yt-dlp for a single video and waits for it to exit.
func (d *YTDLPDownloader) Download(ctx context.Context, url, outputPath, format string) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	args := buildArgs(url, outputPath, format)
	cmd := exec.CommandContext(ctx, d.binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	d.logger.Debug("running downloader", "binary", d.binary, "args", args)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", domain.ErrDownloadFailed, ctx.Err())
		}
		return fmt.Errorf("%w: %v: %s", domain.ErrDownloadFailed, err, tail(stderr.String(), maxStderrTail))
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("%w: output missing: %v", domain.ErrDownloadFailed, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: output file is empty", domain.ErrDownloadFailed)
	}

	d.logger.Info("download finished",
		"url", url,
		"bytes", info.Size(),
		"elapsed", time.Since(start),
	)
	return nil
}

// buildArgs assembles the yt-dlp command line. The output path is passed as
// an output template, so literal percent signs are escaped.
func buildArgs(url, outputPath, format string) []string {
	return []string{
		"--no-warnings",
		"--no-playlist",
		"--no-part",
		"--force-overwrites",
		"-f", format,
		"-o", strings.ReplaceAll(outputPath, "%", "%%"),
		"--",
		url,
	}
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
