package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"google.golang.org/api/youtube/v3"

	"github.com/tubestudio/backend/internal/logging"
	"github.com/tubestudio/backend/internal/models"
)

// PlaylistHandler implements playlist management endpoints.
type PlaylistHandler struct {
	Clients   ClientFactory
	Playlists PlaylistAPI
}

// Collection handles GET and POST /api/playlists.
func (h PlaylistHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Item handles requests under /api/playlists/{id}:
//
//	GET    /api/playlists/{id}         playlist contents
//	DELETE /api/playlists/{id}         remove the playlist
//	POST   /api/playlists/{id}/videos  add a video
func (h PlaylistHandler) Item(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rest := strings.TrimPrefix(r.URL.Path, "/api/playlists/")
	playlistID, sub, _ := strings.Cut(rest, "/")
	if playlistID == "" {
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "playlist not found"})
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		h.items(w, r, playlistID)
	case sub == "" && r.Method == http.MethodDelete:
		h.delete(w, r, playlistID)
	case sub == "videos" && r.Method == http.MethodPost:
		h.addVideo(w, r, playlistID)
	case sub == "" || sub == "videos":
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (h PlaylistHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	playlists, err := h.Playlists.List(ctx, svc)
	if err != nil {
		logger.Error("list playlists", "error", err)
		writeError(ctx, w, err)
		return
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"playlists":   playlists,
		"total_count": len(playlists),
	})
}

func (h PlaylistHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	var req struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		PrivacyStatus string `json:"privacy_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid playlist payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	playlist, err := h.Playlists.Create(ctx, svc, req.Title, req.Description, req.PrivacyStatus)
	if err != nil {
		logger.Error("create playlist", "error", err, "title", req.Title)
		writeError(ctx, w, err)
		return
	}

	logger.Info("playlist created", "playlistId", playlist.ID, "title", playlist.Title)
	respondJSON(ctx, w, http.StatusCreated, playlist)
}

func (h PlaylistHandler) items(w http.ResponseWriter, r *http.Request, playlistID string) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	items, err := h.Playlists.Items(ctx, svc, playlistID)
	if err != nil {
		logger.Error("list playlist items", "error", err, "playlistId", playlistID)
		writeError(ctx, w, err)
		return
	}
	if items == nil {
		items = []models.PlaylistItem{}
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"playlist_id": playlistID,
		"videos":      items,
		"total_count": len(items),
	})
}

func (h PlaylistHandler) addVideo(w http.ResponseWriter, r *http.Request, playlistID string) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	var req struct {
		VideoID string `json:"video_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid playlist video payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.VideoID = strings.TrimSpace(req.VideoID)
	if req.VideoID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "video_id is required"})
		return
	}

	itemID, err := h.Playlists.AddVideo(ctx, svc, playlistID, req.VideoID)
	if err != nil {
		logger.Error("add video to playlist", "error", err, "playlistId", playlistID, "videoId", req.VideoID)
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]string{
		"playlist_item_id": itemID,
		"playlist_id":      playlistID,
		"video_id":         req.VideoID,
	})
}

func (h PlaylistHandler) delete(w http.ResponseWriter, r *http.Request, playlistID string) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	if err := h.Playlists.Delete(ctx, svc, playlistID); err != nil {
		logger.Error("delete playlist", "error", err, "playlistId", playlistID)
		writeError(ctx, w, err)
		return
	}

	logger.Info("playlist deleted", "playlistId", playlistID)
	respondJSON(ctx, w, http.StatusOK, map[string]string{
		"status":      "deleted",
		"playlist_id": playlistID,
	})
}

func (h PlaylistHandler) service(w http.ResponseWriter, r *http.Request) (*youtube.Service, bool) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Clients == nil || h.Playlists == nil {
		logger.Error("playlist dependencies unavailable", "hasClients", h.Clients != nil, "hasPlaylists", h.Playlists != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "playlist service unavailable"})
		return nil, false
	}

	svc, err := h.Clients.NewService(ctx)
	if err != nil {
		logger.Warn("playlist request rejected", "error", err)
		writeError(ctx, w, err)
		return nil, false
	}
	return svc, true
}
