package videohost

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"

	"github.com/tubestudio/backend/internal/models"
)

// DefaultPrivacyStatus is applied when the caller supplies an empty or
// unrecognised privacy status.
const DefaultPrivacyStatus = "private"

var validPrivacyStatuses = map[string]struct{}{
	"private":  {},
	"public":   {},
	"unlisted": {},
}

// NormalizePrivacy coerces unknown privacy values to the default rather
// than letting the host reject the whole upload over a cosmetic field.
func NormalizePrivacy(status string) string {
	if _, ok := validPrivacyStatuses[status]; ok {
		return status
	}
	return DefaultPrivacyStatus
}

// VideoResult identifies a successfully uploaded video.
type VideoResult struct {
	VideoID string
	URL     string
}

// ProgressFunc receives resumable-upload progress after each chunk.
type ProgressFunc func(sent, total int64)

// Uploader drives resumable uploads against the video host. The zero
// value uses the client library's default chunk size.
type Uploader struct {
	// ChunkSize is the size in bytes of each upload chunk. Values <= 0
	// fall back to googleapi.DefaultUploadChunkSize.
	ChunkSize int
}

// Upload streams the video in chunks until the host returns a terminal
// response. The googleapi error from a host rejection is returned intact
// so callers can surface the host's own diagnostics.
func (u *Uploader) Upload(ctx context.Context, svc *youtube.Service, r io.Reader, meta models.VideoUpload, onProgress ProgressFunc) (VideoResult, error) {
	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       meta.Title,
			Description: meta.Description,
			CategoryId:  meta.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: NormalizePrivacy(meta.PrivacyStatus),
		},
	}
	// The API returns 400 Bad Request when tags is an empty list.
	if len(meta.Tags) > 0 {
		video.Snippet.Tags = meta.Tags
	}

	chunkSize := u.ChunkSize
	if chunkSize <= 0 {
		chunkSize = googleapi.DefaultUploadChunkSize
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, video).
		Context(ctx).
		Media(r, googleapi.ChunkSize(chunkSize))
	if onProgress != nil {
		call.ProgressUpdater(googleapi.ProgressUpdater(onProgress))
	}

	uploaded, err := call.Do()
	if err != nil {
		return VideoResult{}, fmt.Errorf("insert video: %w", err)
	}

	return VideoResult{
		VideoID: uploaded.Id,
		URL:     WatchURL(uploaded.Id),
	}, nil
}

// SetThumbnail replaces the custom thumbnail of an existing video.
func (u *Uploader) SetThumbnail(ctx context.Context, svc *youtube.Service, videoID string, r io.Reader) error {
	if _, err := svc.Thumbnails.Set(videoID).Context(ctx).Media(r).Do(); err != nil {
		return fmt.Errorf("set thumbnail for %s: %w", videoID, err)
	}
	return nil
}

// WatchURL returns the public watch page for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
