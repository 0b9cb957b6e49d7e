package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recordingStore struct {
	mu    sync.Mutex
	saved map[string]string
}

func (s *recordingStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.saved == nil {
		s.saved = make(map[string]string)
	}
	s.saved[name] = string(data)
	s.mu.Unlock()

	return "s3://test-bucket/" + name, nil
}

type recordingMarker struct {
	mu        sync.Mutex
	locations map[string]string
	done      chan struct{}
}

func newRecordingMarker(expected int) *recordingMarker {
	m := &recordingMarker{locations: make(map[string]string), done: make(chan struct{})}
	if expected == 0 {
		close(m.done)
	}
	return m
}

func (m *recordingMarker) MarkArchived(_ context.Context, jobID, location string) error {
	m.mu.Lock()
	m.locations[jobID] = location
	remaining := len(m.locations)
	m.mu.Unlock()

	if remaining == 1 {
		close(m.done)
	}
	return nil
}

func TestArchiverStoresAndRemovesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "upload-1.mp4")
	if err := os.WriteFile(path, []byte("spooled video"), 0o644); err != nil {
		t.Fatalf("write spool file: %v", err)
	}

	store := &recordingStore{}
	marker := newRecordingMarker(1)
	archiver := NewArchiver(store, marker, ArchiverConfig{QueueSize: 4, Workers: 1}, nil)

	if err := archiver.Enqueue(context.Background(), "job-1", path, "job-1/clip.mp4"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case <-marker.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for archive")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := archiver.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	store.mu.Lock()
	if store.saved["job-1/clip.mp4"] != "spooled video" {
		t.Fatalf("expected archived content, got %q", store.saved["job-1/clip.mp4"])
	}
	store.mu.Unlock()

	marker.mu.Lock()
	if marker.locations["job-1"] != "s3://test-bucket/job-1/clip.mp4" {
		t.Fatalf("expected archive location recorded, got %q", marker.locations["job-1"])
	}
	marker.mu.Unlock()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected spool file removed, stat err %v", err)
	}
}

type slowStore struct {
	recordingStore
	delay time.Duration
}

func (s *slowStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	time.Sleep(s.delay)
	return s.recordingStore.Save(ctx, name, r)
}

func TestArchiverShutdownDrainsQueue(t *testing.T) {
	dir := t.TempDir()
	const jobCount = 16

	store := &slowStore{delay: 10 * time.Millisecond}
	marker := newRecordingMarker(jobCount)
	archiver := NewArchiver(store, marker, ArchiverConfig{QueueSize: jobCount, Workers: 1}, nil)

	for i := 0; i < jobCount; i++ {
		name := fmt.Sprintf("job-%d", i)
		path := filepath.Join(dir, name+".mp4")
		if err := os.WriteFile(path, []byte("spooled "+name), 0o644); err != nil {
			t.Fatalf("write spool file: %v", err)
		}
		if err := archiver.Enqueue(context.Background(), name, path, name+"/clip.mp4"); err != nil {
			t.Fatalf("enqueue %s: %v", name, err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archiver.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	store.mu.Lock()
	archived := len(store.saved)
	store.mu.Unlock()
	if archived != jobCount {
		t.Fatalf("expected %d jobs archived, got %d", jobCount, archived)
	}

	marker.mu.Lock()
	marked := len(marker.locations)
	marker.mu.Unlock()
	if marked != jobCount {
		t.Fatalf("expected %d jobs marked, got %d", jobCount, marked)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read spool dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected spool files removed, found %d", len(entries))
	}
}

func TestArchiverEnqueueAfterShutdown(t *testing.T) {
	archiver := NewArchiver(&recordingStore{}, newRecordingMarker(0), ArchiverConfig{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := archiver.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if err := archiver.Enqueue(context.Background(), "job-x", "/nonexistent", "key"); err == nil {
		t.Fatal("expected error after shutdown")
	}
}
