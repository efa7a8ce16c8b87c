package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/youchat/ytanalyzer/internal/config"
	"github.com/youchat/ytanalyzer/internal/domain"
	"github.com/youchat/ytanalyzer/internal/downloader"
	"github.com/youchat/ytanalyzer/internal/repository"
	"github.com/youchat/ytanalyzer/internal/worker"
	"github.com/youchat/ytanalyzer/pkg/gemini"
)

// CacheStartedMessage is the acknowledgment returned once a task is scheduled.
const CacheStartedMessage = "Video caching started in the background"

// TaskRunner schedules detached background work.
type TaskRunner interface {
	Go(name string, task worker.Task) error
}

// CacheService pre-downloads videos and turns them into provider-side
// cached contexts. Tasks are fire-and-forget: their outcome goes to the
// log only.
type CacheService struct {
	client      gemini.Client
	downloader  downloader.Downloader
	taskRepo    repository.TaskRepository
	runner      TaskRunner
	geminiCfg   config.GeminiConfig
	downloadCfg config.DownloadConfig
	tempDir     string
	logger      *slog.Logger
}

// NewCacheService creates a new cache service.
func NewCacheService(
	client gemini.Client,
	dl downloader.Downloader,
	taskRepo repository.TaskRepository,
	runner TaskRunner,
	geminiCfg config.GeminiConfig,
	downloadCfg config.DownloadConfig,
	storageCfg config.StorageConfig,
	logger *slog.Logger,
) *CacheService {
	return &CacheService{
		client:      client,
		downloader:  dl,
		taskRepo:    taskRepo,
		runner:      runner,
		geminiCfg:   geminiCfg,
		downloadCfg: downloadCfg,
		tempDir:     storageCfg.TempDir(),
		logger:      logger,
	}
}

// StartResult is returned after a cache task has been scheduled.
type StartResult struct {
	TaskID   domain.TaskID
	TempPath string
	Message  string
}

// Start allocates a temporary file and schedules the cache pipeline for url.
// It returns as soon as the task is scheduled; a URL the downloader cannot
// handle only fails the task. Repeated calls for the same URL each get their
// own file and task.
func (s *CacheService) Start(ctx context.Context, videoURL string) (*StartResult, error) {
	tempPath, err := s.allocateTempFile()
	if err != nil {
		return nil, err
	}

	taskID := domain.TaskID("task_" + uuid.New().String()[:8])
	task := domain.NewCacheTask(taskID, videoURL, tempPath)

	if err := s.taskRepo.Register(ctx, task); err != nil {
		s.removeTemp(s.logger, tempPath)
		return nil, fmt.Errorf("register task: %w", err)
	}

	err = s.runner.Go(taskID.String(), func(ctx context.Context) error {
		_, err := s.Process(ctx, task)
		return err
	})
	if err != nil {
		task.MarkFailed(err.Error())
		s.removeTemp(s.logger, tempPath)
		s.save(s.logger, task)
		return nil, fmt.Errorf("schedule task: %w", err)
	}

	s.logger.Info("cache task scheduled",
		"task_id", taskID,
		"url", videoURL,
		"temp_path", tempPath,
	)

	return &StartResult{
		TaskID:   taskID,
		TempPath: tempPath,
		Message:  CacheStartedMessage,
	}, nil
}

// Process runs download -> upload -> cache creation for task and always
// removes the temp file before the task reaches a terminal state. The
// provider cache name is returned for callers that want it; the scheduled
// path discards it. A panic in any step fails the task like an error does.
func (s *CacheService) Process(ctx context.Context, task *domain.CacheTask) (cacheName string, err error) {
	logger := s.logger.With(
		"task_id", task.ID,
		"url", task.URL,
		"temp_path", task.TempPath,
	)

	defer func() {
		if r := recover(); r != nil {
			cacheName = ""
			err = domain.NewTaskError(task.ID, string(task.Status), fmt.Errorf("panic: %v", r))
			s.finish(logger, task, "", err)
		}
	}()

	cacheName, err = func() (string, error) {
		defer s.removeTemp(logger, task.TempPath)
		return s.runPipeline(ctx, task, logger)
	}()

	s.finish(logger, task, cacheName, err)
	if err != nil {
		return "", err
	}
	return cacheName, nil
}

// finish records the task's terminal state.
func (s *CacheService) finish(logger *slog.Logger, task *domain.CacheTask, cacheName string, err error) {
	if err != nil {
		task.MarkFailed(err.Error())
		s.save(logger, task)
		logger.Error("cache task failed", "state", task.Status, "error", err)
		return
	}

	task.MarkDone()
	s.save(logger, task)
	logger.Info("provider cache created", "cache", cacheName)
}

func (s *CacheService) runPipeline(ctx context.Context, task *domain.CacheTask, logger *slog.Logger) (string, error) {
	// Step 1: Download into the pre-allocated file
	s.advance(logger, task, domain.TaskStatusDownloading)
	if err := s.downloader.Download(ctx, task.URL, task.TempPath, s.downloadCfg.Format); err != nil {
		return "", domain.NewTaskError(task.ID, "download", err)
	}

	// Step 2: Upload to the provider's file store
	s.advance(logger, task, domain.TaskStatusUploading)
	file, err := s.client.UploadFile(ctx, task.TempPath)
	if err != nil {
		return "", domain.NewTaskError(task.ID, "upload", err)
	}

	// Step 3: Create the provider-side cache on the frozen model
	s.advance(logger, task, domain.TaskStatusCaching)
	cacheName, err := s.client.CreateCache(ctx, gemini.CacheRequest{
		Model:             s.geminiCfg.CacheModel,
		File:              *file,
		SystemInstruction: s.geminiCfg.SystemInstruction,
		TTL:               s.geminiCfg.CacheTTL,
	})
	if err != nil {
		return "", domain.NewTaskError(task.ID, "cache", err)
	}

	return cacheName, nil
}

func (s *CacheService) allocateTempFile() (string, error) {
	f, err := os.CreateTemp(s.tempDir, "ytcache-*.mp4")
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTempFileAllocation, err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: %v", domain.ErrTempFileAllocation, err)
	}
	return path, nil
}

func (s *CacheService) advance(logger *slog.Logger, task *domain.CacheTask, status domain.TaskStatus) {
	task.Advance(status)
	logger.Info("cache task state", "state", status)
	s.save(logger, task)
}

// save records task state. Tracking is best-effort and never fails a task.
func (s *CacheService) save(logger *slog.Logger, task *domain.CacheTask) {
	if err := s.taskRepo.Update(context.Background(), task); err != nil {
		logger.Warn("failed to record task state", "state", task.Status, "error", err)
	}
}

// removeTemp deletes path if present. Deletion failures are logged only.
func (s *CacheService) removeTemp(logger *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to remove temp file", "path", path, "error", err)
	}
}
