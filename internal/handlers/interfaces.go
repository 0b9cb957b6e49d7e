package handlers

import (
	"context"
	"io"

	"google.golang.org/api/youtube/v3"

	"github.com/tubestudio/backend/internal/auth"
	"github.com/tubestudio/backend/internal/metadata"
	"github.com/tubestudio/backend/internal/models"
	"github.com/tubestudio/backend/internal/videohost"
)

// Authenticator captures the credential lifecycle operations required by
// the auth handlers.
type Authenticator interface {
	Status(ctx context.Context) auth.Status
	AuthCodeURL(ctx context.Context) (url, state string, err error)
	HandleCallback(ctx context.Context, state, code string) error
	Logout(ctx context.Context) error
}

// ClientFactory builds authenticated video-host client handles. A missing
// or unrefreshable credential surfaces as auth.ErrReauthorizationRequired.
type ClientFactory interface {
	NewService(ctx context.Context) (*youtube.Service, error)
}

// VideoUploader drives resumable uploads and thumbnail updates.
type VideoUploader interface {
	Upload(ctx context.Context, svc *youtube.Service, r io.Reader, meta models.VideoUpload, onProgress videohost.ProgressFunc) (videohost.VideoResult, error)
	SetThumbnail(ctx context.Context, svc *youtube.Service, videoID string, r io.Reader) error
}

// PlaylistAPI captures playlist operations against the video host.
type PlaylistAPI interface {
	List(ctx context.Context, svc *youtube.Service) ([]models.Playlist, error)
	Create(ctx context.Context, svc *youtube.Service, title, description, privacy string) (models.Playlist, error)
	Items(ctx context.Context, svc *youtube.Service, playlistID string) ([]models.PlaylistItem, error)
	AddVideo(ctx context.Context, svc *youtube.Service, playlistID, videoID string) (string, error)
	Delete(ctx context.Context, svc *youtube.Service, playlistID string) error
}

// ChannelAPI reads the authenticated user's channel details.
type ChannelAPI interface {
	Info(ctx context.Context, svc *youtube.Service) (models.Channel, error)
}

// MetadataSynthesizer generates video metadata from free-text context.
type MetadataSynthesizer interface {
	Generate(ctx context.Context, in metadata.Input) (models.MetadataDraft, error)
	Title(ctx context.Context, text string) (string, error)
	Description(ctx context.Context, text string) (string, error)
	Keywords(ctx context.Context, text string) ([]string, error)
}

// UploadJobStore persists upload jobs so progress survives the request
// that started the transfer.
type UploadJobStore interface {
	Create(ctx context.Context, job models.UploadJob) error
	UpdateProgress(ctx context.Context, id string, sent, total int64) error
	MarkCompleted(ctx context.Context, id, videoID string) error
	MarkFailed(ctx context.Context, id, message string) error
	Get(ctx context.Context, id string) (models.UploadJob, error)
}

// SourceArchiver schedules retention of uploaded source files.
type SourceArchiver interface {
	Enqueue(ctx context.Context, jobID, path, key string) error
}
