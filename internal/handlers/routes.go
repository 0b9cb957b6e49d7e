package handlers

import (
	"net/http"

	"github.com/tubestudio/backend/internal/metadata"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	auth := AuthHandler{Auth: deps.Auth}
	channel := ChannelHandler{Clients: deps.Clients, Channels: deps.Channels}
	upload := UploadHandler{
		Clients:        deps.Clients,
		Uploader:       deps.Uploader,
		Playlists:      deps.Playlists,
		Jobs:           deps.Jobs,
		Archiver:       deps.Archiver,
		UploadDir:      deps.UploadDir,
		MaxUploadBytes: deps.MaxUploadBytes,
	}
	meta := MetadataHandler{Metadata: deps.Metadata, Transcriber: deps.Transcriber}
	playlists := PlaylistHandler{Clients: deps.Clients, Playlists: deps.Playlists}

	mux.HandleFunc("/api/health", health.Handle)
	mux.HandleFunc("/api/auth/status", auth.Status)
	mux.HandleFunc("/api/auth/login", auth.Login)
	mux.HandleFunc("/api/auth/callback", auth.Callback)
	mux.HandleFunc("/api/auth/logout", auth.Logout)
	mux.HandleFunc("/api/channel", channel.Info)
	mux.HandleFunc("/api/upload/video", upload.Video)
	mux.HandleFunc("/api/upload/validate", upload.Validate)
	mux.HandleFunc("/api/upload/thumbnail", upload.Thumbnail)
	mux.HandleFunc("/api/upload/progress/", upload.Progress)
	mux.HandleFunc("/api/metadata/generate", meta.Generate)
	mux.HandleFunc("/api/metadata/title", meta.Title)
	mux.HandleFunc("/api/metadata/description", meta.Description)
	mux.HandleFunc("/api/metadata/keywords", meta.Keywords)
	mux.HandleFunc("/api/metadata/transcribe", meta.Transcribe)
	mux.HandleFunc("/api/playlists", playlists.Collection)
	mux.HandleFunc("/api/playlists/", playlists.Item)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Auth           Authenticator
	Clients        ClientFactory
	Uploader       VideoUploader
	Playlists      PlaylistAPI
	Channels       ChannelAPI
	Metadata       MetadataSynthesizer
	Jobs           UploadJobStore
	Archiver       SourceArchiver
	Transcriber    metadata.Transcriber
	UploadDir      string
	MaxUploadBytes int64
}
