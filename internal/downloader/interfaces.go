package downloader

import (
	"context"
)

// Downloader fetches a remote video into a local file.
type Downloader interface {
	// Download writes the video at url to outputPath, choosing the stream
	// with the given format selector. outputPath may already exist and is
	// overwritten.
	Download(ctx context.Context, url, outputPath, format string) error
}
