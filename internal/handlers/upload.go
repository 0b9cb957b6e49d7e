package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tubestudio/backend/internal/logging"
	"github.com/tubestudio/backend/internal/metadata"
	"github.com/tubestudio/backend/internal/models"
)

// DefaultMaxUploadBytes caps video uploads at 500 MiB when no explicit
// limit is configured.
const DefaultMaxUploadBytes = 500 << 20

// formOverheadBytes leaves headroom for the non-file multipart fields
// when bounding the request body.
const formOverheadBytes = 10 << 20

var allowedVideoExtensions = map[string]struct{}{
	".mp4":  {},
	".avi":  {},
	".mov":  {},
	".wmv":  {},
	".flv":  {},
	".webm": {},
	".mkv":  {},
}

var allowedThumbnailExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// UploadHandler implements the video upload endpoints.
type UploadHandler struct {
	Clients        ClientFactory
	Uploader       VideoUploader
	Playlists      PlaylistAPI
	Jobs           UploadJobStore
	Archiver       SourceArchiver
	UploadDir      string
	MaxUploadBytes int64
}

// Video handles POST /api/upload/video. The file is spooled to local
// disk first so the resumable transfer can re-read chunks, then pushed
// to the host while progress lands in the job store.
func (h UploadHandler) Video(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Clients == nil || h.Uploader == nil || h.Jobs == nil {
		logger.Error("upload dependencies unavailable", "hasClients", h.Clients != nil, "hasUploader", h.Uploader != nil, "hasJobs", h.Jobs != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "upload service unavailable"})
		return
	}

	maxBytes := h.maxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+formOverheadBytes)

	file, header, err := r.FormFile("video")
	if err != nil {
		logger.Warn("upload missing video part", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "a video file is required"})
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if reason, ok := checkVideoFilename(filename); !ok {
		logger.Warn("upload rejected", "filename", filename, "reason", reason)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": reason})
		return
	}

	spoolPath, size, err := h.spool(file, filename, maxBytes)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			logger.Warn("upload exceeds size limit", "filename", filename, "limit", maxBytes)
			respondJSON(ctx, w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": fmt.Sprintf("file exceeds the %d MB limit", maxBytes>>20),
			})
			return
		}
		logger.Error("spool upload", "error", err, "filename", filename)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to store upload"})
		return
	}
	handedOff := false
	defer func() {
		if !handedOff {
			if err := os.Remove(spoolPath); err != nil {
				logger.Warn("remove spooled upload", "error", err, "path", spoolPath)
			}
		}
	}()

	meta := models.VideoUpload{
		Title:         strings.TrimSpace(r.FormValue("title")),
		Description:   r.FormValue("description"),
		Tags:          metadata.SplitTags(r.FormValue("tags")),
		CategoryID:    metadata.NormalizeCategory(r.FormValue("category_id")),
		PrivacyStatus: r.FormValue("privacy_status"),
		PlaylistID:    strings.TrimSpace(r.FormValue("playlist_id")),
	}
	if meta.Title == "" {
		meta.Title = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	job := models.UploadJob{
		ID:         uuid.NewString(),
		Filename:   filename,
		Title:      meta.Title,
		Status:     models.JobStatusPending,
		TotalBytes: size,
	}
	if err := h.Jobs.Create(ctx, job); err != nil {
		logger.Error("create upload job", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to record upload"})
		return
	}

	ctx, span := logging.StartSpan(ctx, "upload.video")
	defer span.End()
	logger = logging.FromContext(ctx)

	svc, err := h.Clients.NewService(ctx)
	if err != nil {
		h.failJob(ctx, job.ID, "authorization required")
		logger.Warn("upload rejected without credentials", "error", err, "jobId", job.ID)
		writeError(ctx, w, err)
		return
	}

	source, err := os.Open(spoolPath)
	if err != nil {
		h.failJob(ctx, job.ID, "spooled file unreadable")
		logger.Error("reopen spooled upload", "error", err, "path", spoolPath)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to read upload"})
		return
	}
	defer source.Close()

	// Progress fires per chunk, which for small chunk sizes is far more
	// often than anyone polls. Intermediate updates are capped at one
	// write per second; the final update always lands.
	var lastProgress time.Time
	result, err := h.Uploader.Upload(ctx, svc, source, meta, func(sent, total int64) {
		if total <= 0 {
			total = size
		}
		if sent < total && time.Since(lastProgress) < time.Second {
			return
		}
		lastProgress = time.Now()
		if err := h.Jobs.UpdateProgress(ctx, job.ID, sent, total); err != nil {
			logger.Warn("record upload progress", "error", err, "jobId", job.ID)
		}
	})
	if err != nil {
		h.failJob(ctx, job.ID, err.Error())
		logger.Error("video upload failed", "error", err, "jobId", job.ID)
		writeError(ctx, w, err)
		return
	}

	if err := h.Jobs.MarkCompleted(ctx, job.ID, result.VideoID); err != nil {
		logger.Warn("mark upload completed", "error", err, "jobId", job.ID)
	}
	logger.Info("video uploaded", "jobId", job.ID, "videoId", result.VideoID, "bytes", size)

	// Playlist attachment is best effort. The video is already live, so a
	// failure here must not fail the upload.
	if meta.PlaylistID != "" && h.Playlists != nil {
		if _, err := h.Playlists.AddVideo(ctx, svc, meta.PlaylistID, result.VideoID); err != nil {
			logger.Warn("attach video to playlist", "error", err, "playlistId", meta.PlaylistID, "videoId", result.VideoID)
		}
	}

	if h.Archiver != nil {
		key := job.ID + "/" + filename
		if err := h.Archiver.Enqueue(ctx, job.ID, spoolPath, key); err != nil {
			logger.Warn("schedule source archive", "error", err, "jobId", job.ID)
		} else {
			handedOff = true
		}
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]string{
		"job_id":    job.ID,
		"video_id":  result.VideoID,
		"video_url": result.URL,
		"title":     meta.Title,
	})
}

// Validate handles POST /api/upload/validate. The file part is streamed
// and discarded, so validation never touches disk.
func (h UploadHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	maxBytes := h.maxUploadBytes()

	reader, err := r.MultipartReader()
	if err != nil {
		logger.Warn("validate expects multipart", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "multipart form data is required"})
		return
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Warn("read multipart", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "malformed multipart body"})
			return
		}
		if part.FormName() != "video" {
			_, _ = io.Copy(io.Discard, part)
			continue
		}

		filename := filepath.Base(part.FileName())
		if reason, ok := checkVideoFilename(filename); !ok {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]any{"valid": false, "error": reason})
			return
		}

		size, err := io.Copy(io.Discard, io.LimitReader(part, maxBytes+1))
		if err != nil {
			logger.Warn("drain file part", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "malformed multipart body"})
			return
		}
		if size > maxBytes {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]any{
				"valid": false,
				"error": fmt.Sprintf("file exceeds the %d MB limit", maxBytes>>20),
			})
			return
		}

		respondJSON(ctx, w, http.StatusOK, map[string]any{
			"valid":    true,
			"filename": filename,
			"size":     size,
			"size_mb":  float64(size) / (1 << 20),
		})
		return
	}

	respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "a video file is required"})
}

// Thumbnail handles POST /api/upload/thumbnail.
func (h UploadHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Clients == nil || h.Uploader == nil {
		logger.Error("upload dependencies unavailable", "hasClients", h.Clients != nil, "hasUploader", h.Uploader != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "upload service unavailable"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, formOverheadBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		logger.Warn("thumbnail missing image part", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "an image file is required"})
		return
	}
	defer file.Close()

	videoID := strings.TrimSpace(r.FormValue("video_id"))
	if videoID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "video_id is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedThumbnailExtensions[ext]; !ok {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "thumbnail must be a jpg or png image"})
		return
	}

	svc, err := h.Clients.NewService(ctx)
	if err != nil {
		logger.Warn("thumbnail rejected without credentials", "error", err)
		writeError(ctx, w, err)
		return
	}

	if err := h.Uploader.SetThumbnail(ctx, svc, videoID, file); err != nil {
		logger.Error("set thumbnail", "error", err, "videoId", videoID)
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{
		"status":   "thumbnail updated",
		"video_id": videoID,
	})
}

// Progress handles GET /api/upload/progress/{jobID}.
func (h UploadHandler) Progress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Jobs == nil {
		logger.Error("job store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "upload service unavailable"})
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/api/upload/progress/")
	if jobID == "" || strings.Contains(jobID, "/") {
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "job not found"})
		return
	}

	job, err := h.Jobs.Get(ctx, jobID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, progressResponse{
		UploadJob: job,
		Progress:  job.Fraction(),
	})
}

type progressResponse struct {
	models.UploadJob
	Progress float64 `json:"progress"`
}

var errFileTooLarge = errors.New("file too large")

// spool copies the incoming file into the upload directory so the
// resumable transfer can seek over it.
func (h UploadHandler) spool(file multipart.File, filename string, maxBytes int64) (string, int64, error) {
	dir := h.UploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create upload dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "upload-*"+strings.ToLower(filepath.Ext(filename)))
	if err != nil {
		return "", 0, fmt.Errorf("create spool file: %w", err)
	}

	size, err := io.Copy(tmp, io.LimitReader(file, maxBytes+1))
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("write spool file: %w", err)
	}
	if size > maxBytes {
		_ = os.Remove(tmp.Name())
		return "", 0, errFileTooLarge
	}

	return tmp.Name(), size, nil
}

func (h UploadHandler) maxUploadBytes() int64 {
	if h.MaxUploadBytes > 0 {
		return h.MaxUploadBytes
	}
	return DefaultMaxUploadBytes
}

func (h UploadHandler) failJob(ctx context.Context, jobID, message string) {
	if err := h.Jobs.MarkFailed(ctx, jobID, message); err != nil {
		logging.FromContext(ctx).Warn("mark upload failed", "error", err, "jobId", jobID)
	}
}

func checkVideoFilename(filename string) (string, bool) {
	if filename == "" || filename == "." {
		return "a video file is required", false
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedVideoExtensions[ext]; !ok {
		return "unsupported file type: allowed extensions are mp4, avi, mov, wmv, flv, webm, mkv", false
	}
	return "", true
}
