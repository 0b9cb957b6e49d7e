package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tubestudio/backend/internal/models"
)

// ErrNotFound indicates no upload job exists for the requested ID.
var ErrNotFound = errors.New("upload job not found")

const schema = `CREATE TABLE IF NOT EXISTS upload_jobs (
        id          TEXT PRIMARY KEY,
        filename    TEXT NOT NULL,
        title       TEXT NOT NULL,
        status      TEXT NOT NULL,
        bytes_sent  INTEGER NOT NULL DEFAULT 0,
        total_bytes INTEGER NOT NULL DEFAULT 0,
        video_id    TEXT NOT NULL DEFAULT '',
        archive_url TEXT NOT NULL DEFAULT '',
        error       TEXT NOT NULL DEFAULT '',
        created_at  TEXT NOT NULL,
        updated_at  TEXT NOT NULL
)`

// Store persists upload jobs in a SQLite database so progress can be
// polled out of band while an upload request is still running.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the job database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open job database: %w", err)
	}

	// Serialize writers: progress updates from an in-flight upload and
	// reads from the progress endpoint share one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure upload_jobs table: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new job row in status pending.
func (s *Store) Create(ctx context.Context, job models.UploadJob) error {
	now := s.now().UTC()
	if job.Status == "" {
		job.Status = models.JobStatusPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO upload_jobs (id, filename, title, status, bytes_sent, total_bytes, video_id, archive_url, error, created_at, updated_at)
                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Filename, job.Title, job.Status,
		job.BytesSent, job.TotalBytes, job.VideoID, job.ArchiveURL, job.Error,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert upload job %s: %w", job.ID, err)
	}
	return nil
}

// UpdateProgress records transferred bytes and moves the job to uploading.
func (s *Store) UpdateProgress(ctx context.Context, id string, sent, total int64) error {
	return s.update(ctx, id,
		`UPDATE upload_jobs SET status = ?, bytes_sent = ?, total_bytes = ?, updated_at = ? WHERE id = ?`,
		models.JobStatusUploading, sent, total, s.now().UTC().Format(time.RFC3339Nano), id,
	)
}

// MarkCompleted records the terminal success state and the remote video ID.
func (s *Store) MarkCompleted(ctx context.Context, id, videoID string) error {
	return s.update(ctx, id,
		`UPDATE upload_jobs SET status = ?, video_id = ?, bytes_sent = total_bytes, updated_at = ? WHERE id = ?`,
		models.JobStatusCompleted, videoID, s.now().UTC().Format(time.RFC3339Nano), id,
	)
}

// MarkFailed records the terminal failure state with a diagnostic message.
func (s *Store) MarkFailed(ctx context.Context, id, message string) error {
	return s.update(ctx, id,
		`UPDATE upload_jobs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		models.JobStatusFailed, message, s.now().UTC().Format(time.RFC3339Nano), id,
	)
}

// MarkArchived records where the source file was retained.
func (s *Store) MarkArchived(ctx context.Context, id, location string) error {
	return s.update(ctx, id,
		`UPDATE upload_jobs SET archive_url = ?, updated_at = ? WHERE id = ?`,
		location, s.now().UTC().Format(time.RFC3339Nano), id,
	)
}

// Get returns the job row for the given ID.
func (s *Store) Get(ctx context.Context, id string) (models.UploadJob, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, title, status, bytes_sent, total_bytes, video_id, archive_url, error, created_at, updated_at
                 FROM upload_jobs WHERE id = ?`, id)

	var job models.UploadJob
	var createdAt, updatedAt string
	err := row.Scan(&job.ID, &job.Filename, &job.Title, &job.Status,
		&job.BytesSent, &job.TotalBytes, &job.VideoID, &job.ArchiveURL, &job.Error,
		&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UploadJob{}, ErrNotFound
	}
	if err != nil {
		return models.UploadJob{}, fmt.Errorf("fetch upload job %s: %w", id, err)
	}

	job.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	job.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return job, nil
}

func (s *Store) update(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update upload job %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
