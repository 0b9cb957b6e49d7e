package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ObjectStore persists a named blob and returns its location.
type ObjectStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// JobMarker records where a job's source file was retained.
type JobMarker interface {
	MarkArchived(ctx context.Context, jobID, location string) error
}

// ArchiverConfig controls the concurrency characteristics of the archiver.
type ArchiverConfig struct {
	QueueSize int
	Workers   int
}

// Archiver asynchronously copies spooled source files to the object
// store after an upload finishes, so the upload response never waits on
// the archive write. It owns the spooled files it is handed and removes
// them when done, archived or not.
type Archiver struct {
	store  ObjectStore
	marker JobMarker
	logger *slog.Logger

	jobs    chan archiveJob
	closing chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	once    sync.Once
}

type archiveJob struct {
	jobID string
	path  string
	key   string
}

var errArchiverClosed = errors.New("archiver closed")

// NewArchiver starts a worker pool that drains the archive queue.
func NewArchiver(store ObjectStore, marker JobMarker, cfg ArchiverConfig, logger *slog.Logger) *Archiver {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &Archiver{
		store:   store,
		marker:  marker,
		logger:  logger,
		jobs:    make(chan archiveJob, cfg.QueueSize),
		closing: make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}

	a.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go a.worker()
	}

	return a
}

// Enqueue schedules the file at path for archival under the given key.
// The caller must not touch the file afterwards; the archiver removes it.
func (a *Archiver) Enqueue(ctx context.Context, jobID, path, key string) error {
	select {
	case <-a.closing:
		return errArchiverClosed
	default:
	}

	job := archiveJob{jobID: jobID, path: path, key: key}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-a.closing:
		return errArchiverClosed
	case a.jobs <- job:
		return nil
	}
}

// Shutdown stops intake and waits for the workers to finish every job
// already queued. Only when ctx expires first is remaining work
// abandoned: in-flight saves are cancelled and leftover spool files are
// removed without being archived.
func (a *Archiver) Shutdown(ctx context.Context) error {
	a.once.Do(func() {
		close(a.closing)
	})

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		a.cancel()
		return ctx.Err()
	case <-done:
		a.cancel()
		return nil
	}
}

func (a *Archiver) worker() {
	defer a.wg.Done()

	for {
		select {
		case job := <-a.jobs:
			a.handleJob(job)
		case <-a.closing:
			// Intake has stopped. Finish whatever is still queued
			// before exiting so queued jobs are never dropped.
			for {
				select {
				case job := <-a.jobs:
					a.handleJob(job)
				default:
					return
				}
			}
		}
	}
}

func (a *Archiver) handleJob(job archiveJob) {
	defer func() {
		if err := os.Remove(job.path); err != nil {
			a.logger.Warn("remove spooled file", "jobId", job.jobID, "path", job.path, "error", err)
		}
	}()

	if a.store == nil || a.marker == nil {
		a.logger.Error("archiver missing dependencies", "hasStore", a.store != nil, "hasMarker", a.marker != nil)
		return
	}

	file, err := os.Open(job.path)
	if err != nil {
		a.logger.Error("open spooled file", "jobId", job.jobID, "path", job.path, "error", err)
		return
	}
	defer file.Close()

	saveCtx, cancelSave := context.WithTimeout(a.ctx, 10*time.Minute)
	defer cancelSave()

	location, err := a.store.Save(saveCtx, job.key, file)
	if err != nil {
		a.logger.Error("archive source file", "jobId", job.jobID, "key", job.key, "error", err)
		return
	}

	markCtx, cancelMark := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelMark()

	if err := a.marker.MarkArchived(markCtx, job.jobID, location); err != nil {
		a.logger.Error("record archive location", "jobId", job.jobID, "location", location, "error", err)
	}
}
