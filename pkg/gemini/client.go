// Package gemini wraps the Google generative AI SDK behind the narrow
// interface the analyzer needs: one-shot multimodal generation, file upload,
// and provider-side context caches.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/youchat/ytanalyzer/internal/config"
	"github.com/youchat/ytanalyzer/internal/domain"
)

// Client is the provider surface used by the services.
type Client interface {
	// Analyze sends a text instruction plus a by-reference video URL and
	// returns the generated text.
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error)
	// UploadFile stores a local file with the provider and waits until it
	// can be referenced by other calls.
	UploadFile(ctx context.Context, path string) (*UploadedFile, error)
	// CreateCache creates a server-side cached context over an uploaded file
	// and returns the provider's cache name.
	CreateCache(ctx context.Context, req CacheRequest) (string, error)
}

// AnalyzeRequest is a single multimodal generation request.
type AnalyzeRequest struct {
	Model    string
	Command  string
	VideoURL string
}

// AnalyzeResponse carries generated text and stringified usage metadata.
type AnalyzeResponse struct {
	Text          string
	UsageMetadata string
}

// UploadedFile identifies a file in the provider's file store.
type UploadedFile struct {
	Name     string
	URI      string
	MIMEType string
}

// CacheRequest describes a provider-side cached context.
type CacheRequest struct {
	Model             string
	File              UploadedFile
	SystemInstruction string
	TTL               time.Duration
}

// SDKClient implements Client using google.golang.org/genai.
type SDKClient struct {
	client        *genai.Client
	pollInterval  time.Duration
	activeTimeout time.Duration
}

// NewClient creates the provider client. It is meant to be built once at
// startup and shared; genai.Client is safe for concurrent use.
func NewClient(ctx context.Context, cfg config.GeminiConfig) (*SDKClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	pollInterval := cfg.FilePollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	return &SDKClient{
		client:        client,
		pollInterval:  pollInterval,
		activeTimeout: cfg.FileActiveTimeout,
	}, nil
}

// Analyze implements Client. Provider errors are returned unwrapped so
// callers can surface the provider's message as-is.
func (c *SDKClient) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	resp, err := c.client.Models.GenerateContent(ctx, req.Model, AnalyzeContents(req.Command, req.VideoURL), nil)
	if err != nil {
		return nil, err
	}

	return &AnalyzeResponse{
		Text:          resp.Text(),
		UsageMetadata: FormatUsage(resp.UsageMetadata),
	}, nil
}

// UploadFile implements Client.
func (c *SDKClient) UploadFile(ctx context.Context, path string) (*UploadedFile, error) {
	file, err := c.client.Files.UploadFromPath(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}

	file, err = c.waitActive(ctx, file)
	if err != nil {
		return nil, err
	}

	return &UploadedFile{
		Name:     file.Name,
		URI:      file.URI,
		MIMEType: file.MIMEType,
	}, nil
}

// CreateCache implements Client.
func (c *SDKClient) CreateCache(ctx context.Context, req CacheRequest) (string, error) {
	cached, err := c.client.Caches.Create(ctx, req.Model, CacheConfig(req))
	if err != nil {
		return "", fmt.Errorf("create cache: %w", err)
	}
	return cached.Name, nil
}

// waitActive polls until the provider finishes processing an upload.
// Video files are not referenceable while PROCESSING.
func (c *SDKClient) waitActive(ctx context.Context, file *genai.File) (*genai.File, error) {
	if c.activeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.activeTimeout)
		defer cancel()
	}

	for file.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrFileNotActive, file.Name, ctx.Err())
		case <-time.After(c.pollInterval):
		}

		var err error
		file, err = c.client.Files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("get file state: %w", err)
		}
	}

	if file.State == genai.FileStateFailed {
		return nil, fmt.Errorf("%w: %s: provider reported FAILED", domain.ErrFileNotActive, file.Name)
	}
	return file, nil
}

// AnalyzeContents builds the single user turn for an analysis call: the
// command as a text part followed by the video URL as a file reference.
func AnalyzeContents(command, videoURL string) []*genai.Content {
	return []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(command),
			{FileData: &genai.FileData{FileURI: videoURL}},
		}, genai.RoleUser),
	}
}

// CacheConfig builds the cached-content config for an uploaded file.
func CacheConfig(req CacheRequest) *genai.CreateCachedContentConfig {
	return &genai.CreateCachedContentConfig{
		Contents: []*genai.Content{
			genai.NewContentFromURI(req.File.URI, req.File.MIMEType, genai.RoleUser),
		},
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		TTL:               req.TTL,
	}
}

// FormatUsage renders usage metadata as a JSON string; nil yields "".
func FormatUsage(usage *genai.GenerateContentResponseUsageMetadata) string {
	if usage == nil {
		return ""
	}
	b, err := json.Marshal(usage)
	if err != nil {
		return fmt.Sprintf("%+v", *usage)
	}
	return string(b)
}
