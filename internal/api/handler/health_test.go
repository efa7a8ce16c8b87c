package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/youchat/ytanalyzer/internal/repository"
)

func TestHealthHandler_Live(t *testing.T) {
	handler := NewHealthHandler(&mockTaskRepository{statsErr: errors.New("down")}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.Live(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	contentType := w.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q, want %q", contentType, "application/json")
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp["status"] != "healthy" {
		t.Errorf("body = %v, want {status: healthy}", resp)
	}
}

func TestHealthHandler_Ready_Success(t *testing.T) {
	repo := &mockTaskRepository{stats: &repository.TaskStats{
		Pending:   1,
		Running:   2,
		Completed: 10,
		Failed:    3,
	}}
	handler := NewHealthHandler(repo, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()

	handler.Ready(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp ReadyResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != "ok" {
		t.Errorf("status = %q, want %q", resp.Status, "ok")
	}
	if resp.Timestamp == "" {
		t.Error("timestamp should not be empty")
	}
	if resp.Tasks == nil {
		t.Fatal("task stats should not be nil")
	}
	want := TaskStats{Pending: 1, Running: 2, Completed: 10, Failed: 3}
	if *resp.Tasks != want {
		t.Errorf("tasks = %+v, want %+v", *resp.Tasks, want)
	}
	if resp.TempFreeBytes < 0 {
		t.Errorf("temp_free_bytes = %d", resp.TempFreeBytes)
	}
}

func TestHealthHandler_Ready_RepoError(t *testing.T) {
	handler := NewHealthHandler(&mockTaskRepository{statsErr: errors.New("unavailable")}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()

	handler.Ready(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	var resp ReadyResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "error" {
		t.Errorf("status = %q, want %q", resp.Status, "error")
	}
	if resp.Tasks != nil {
		t.Error("tasks should be omitted on error")
	}
}

func TestFreeDiskSpace_MissingPath(t *testing.T) {
	if got := freeDiskSpace("/definitely/not/here"); got != 0 {
		t.Errorf("freeDiskSpace = %d, want 0", got)
	}
}
