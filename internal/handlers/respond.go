package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"

	"github.com/tubestudio/backend/internal/auth"
	"github.com/tubestudio/backend/internal/jobs"
	"github.com/tubestudio/backend/internal/logging"
	"github.com/tubestudio/backend/internal/videohost"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// writeError translates service-layer failures into HTTP statuses. Anything
// unrecognized becomes an opaque 500 with the detail kept to the server log.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := logging.FromContext(ctx)

	switch {
	case errors.Is(err, auth.ErrReauthorizationRequired), errors.Is(err, auth.ErrNoToken):
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authorization required"})
	case errors.Is(err, auth.ErrStateMismatch):
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "state mismatch"})
	case errors.Is(err, jobs.ErrNotFound):
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "job not found"})
	case errors.Is(err, videohost.ErrNoChannel):
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "no channel for account"})
	default:
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			status := http.StatusBadRequest
			if gerr.Code >= http.StatusInternalServerError {
				status = http.StatusBadGateway
			}
			logger.Warn("video host request rejected", "code", gerr.Code, "error", err)
			respondJSON(ctx, w, status, map[string]string{"error": hostErrorMessage(gerr)})
			return
		}
		var apiErr *openai.APIError
		var reqErr *openai.RequestError
		if errors.As(err, &apiErr) || errors.As(err, &reqErr) {
			logger.Warn("language model request failed", "error", err)
			respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "metadata service unavailable"})
			return
		}
		logger.Error("unhandled request error", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func hostErrorMessage(gerr *googleapi.Error) string {
	if gerr.Message != "" {
		return gerr.Message
	}
	if body := strings.TrimSpace(gerr.Body); body != "" && len(body) < 512 {
		return body
	}
	return http.StatusText(gerr.Code)
}
