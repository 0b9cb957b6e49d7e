package models

import "time"

// VideoUpload carries the caller-supplied metadata for a single upload
// request. It is transient: built from the multipart form, handed to the
// upload driver, and discarded when the request completes.
type VideoUpload struct {
	Title         string
	Description   string
	Tags          []string
	CategoryID    string
	PrivacyStatus string
	PlaylistID    string
}

// UploadJob is the durable record tracking one upload from spool to
// terminal state, keyed by a generated job ID so progress can be polled
// out of band.
type UploadJob struct {
	ID         string    `json:"job_id"`
	Filename   string    `json:"filename"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	BytesSent  int64     `json:"bytes_sent"`
	TotalBytes int64     `json:"total_bytes"`
	VideoID    string    `json:"video_id,omitempty"`
	ArchiveURL string    `json:"archive_url,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const (
	JobStatusPending   = "pending"
	JobStatusUploading = "uploading"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Fraction reports how much of the job has been transferred, in [0, 1].
func (j UploadJob) Fraction() float64 {
	if j.TotalBytes <= 0 {
		return 0
	}
	return float64(j.BytesSent) / float64(j.TotalBytes)
}

// Playlist mirrors the host's playlist resource for the current
// request/response cycle. No local copy outlives the request.
type Playlist struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Thumbnail     string `json:"thumbnail,omitempty"`
	PrivacyStatus string `json:"privacy_status"`
	ItemCount     int64  `json:"video_count"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// PlaylistItem mirrors one entry of a host playlist.
type PlaylistItem struct {
	VideoID     string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Position    int64  `json:"position"`
	AddedAt     string `json:"added_at,omitempty"`
}

// MetadataDraft is the synthesized metadata for a video. Pure output
// value, never persisted.
type MetadataDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CategoryID  string   `json:"category_id"`
}

// Channel summarizes the authenticated user's channel.
type Channel struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Thumbnail       string `json:"thumbnail,omitempty"`
	SubscriberCount uint64 `json:"subscriber_count"`
	VideoCount      uint64 `json:"video_count"`
	ViewCount       uint64 `json:"view_count"`
}
