package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tubestudio/backend/internal/logging"
	"github.com/tubestudio/backend/internal/metadata"
)

// MetadataHandler implements the metadata synthesis endpoints.
type MetadataHandler struct {
	Metadata    MetadataSynthesizer
	Transcriber metadata.Transcriber
}

type generateRequest struct {
	Text     string `json:"text"`
	Topic    string `json:"topic"`
	Audience string `json:"audience"`
	Style    string `json:"style"`
}

// Generate handles POST /api/metadata/generate. It produces a title,
// description, tags and category in one pass.
func (h MetadataHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Metadata == nil {
		logger.Error("metadata synthesizer unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "metadata service unavailable"})
		return
	}

	req, ok := h.decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	draft, err := h.Metadata.Generate(ctx, metadata.Input{
		Text:     req.Text,
		Topic:    req.Topic,
		Audience: req.Audience,
		Style:    req.Style,
	})
	if err != nil {
		logger.Error("generate metadata", "error", err)
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, draft)
}

// Title handles POST /api/metadata/title.
func (h MetadataHandler) Title(w http.ResponseWriter, r *http.Request) {
	h.single(w, r, "title", func(r *http.Request, req generateRequest) (any, error) {
		title, err := h.Metadata.Title(r.Context(), req.Text)
		if err != nil {
			return nil, err
		}
		return map[string]string{"title": title}, nil
	})
}

// Description handles POST /api/metadata/description.
func (h MetadataHandler) Description(w http.ResponseWriter, r *http.Request) {
	h.single(w, r, "description", func(r *http.Request, req generateRequest) (any, error) {
		description, err := h.Metadata.Description(r.Context(), req.Text)
		if err != nil {
			return nil, err
		}
		return map[string]string{"description": description}, nil
	})
}

// Keywords handles POST /api/metadata/keywords.
func (h MetadataHandler) Keywords(w http.ResponseWriter, r *http.Request) {
	h.single(w, r, "keywords", func(r *http.Request, req generateRequest) (any, error) {
		keywords, err := h.Metadata.Keywords(r.Context(), req.Text)
		if err != nil {
			return nil, err
		}
		return map[string]any{"keywords": keywords}, nil
	})
}

// Transcribe handles POST /api/metadata/transcribe. Until a speech
// backend is wired in, it reports the capability as unimplemented.
func (h MetadataHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Transcriber == nil {
		respondJSON(ctx, w, http.StatusNotImplemented, map[string]string{
			"error": "transcription is not available on this deployment",
		})
		return
	}

	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid transcribe payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	req.Path = strings.TrimSpace(req.Path)
	if req.Path == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "path is required"})
		return
	}

	text, err := h.Transcriber.Transcribe(ctx, req.Path)
	if err != nil {
		logger.Error("transcribe audio", "error", err)
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"text": text})
}

func (h MetadataHandler) single(w http.ResponseWriter, r *http.Request, field string, run func(*http.Request, generateRequest) (any, error)) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Metadata == nil {
		logger.Error("metadata synthesizer unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "metadata service unavailable"})
		return
	}

	req, ok := h.decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	payload, err := run(r, req)
	if err != nil {
		logger.Error("generate "+field, "error", err)
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, payload)
}

func (h MetadataHandler) decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (generateRequest, bool) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid metadata payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return generateRequest{}, false
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		logger.Warn("metadata request missing text")
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return generateRequest{}, false
	}

	return req, true
}
