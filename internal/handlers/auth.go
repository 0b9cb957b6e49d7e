package handlers

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/tubestudio/backend/internal/auth"
	"github.com/tubestudio/backend/internal/logging"
)

// AuthHandler implements the account authorization endpoints.
type AuthHandler struct {
	Auth Authenticator
}

// Status handles GET /api/auth/status.
func (h AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Auth == nil {
		logger.Error("authenticator unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "authorization service unavailable"})
		return
	}

	status := h.Auth.Status(ctx)
	respondJSON(ctx, w, http.StatusOK, status)
}

// Login handles GET /api/auth/login. It returns the consent URL the
// client should redirect the browser to.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Auth == nil {
		logger.Error("authenticator unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "authorization service unavailable"})
		return
	}

	url, state, err := h.Auth.AuthCodeURL(ctx)
	if err != nil {
		logger.Error("build consent url", "error", err)
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{
		"auth_url": url,
		"state":    state,
	})
}

// Callback handles GET /api/auth/callback, the redirect target of the
// consent flow. The response is an HTML page because it renders in the
// browser tab the consent screen redirected, not in the client app.
func (h AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Auth == nil {
		logger.Error("authenticator unavailable")
		writeCallbackPage(w, http.StatusInternalServerError, "authorization service unavailable")
		return
	}

	query := r.URL.Query()
	if errCode := query.Get("error"); errCode != "" {
		logger.Warn("consent denied", "error", errCode)
		writeCallbackPage(w, http.StatusBadRequest, "Authorization was denied. Close this window and try again.")
		return
	}

	state := strings.TrimSpace(query.Get("state"))
	code := strings.TrimSpace(query.Get("code"))
	if state == "" || code == "" {
		logger.Warn("callback missing parameters", "hasState", state != "", "hasCode", code != "")
		writeCallbackPage(w, http.StatusBadRequest, "The callback request is missing its state or code parameter.")
		return
	}

	if err := h.Auth.HandleCallback(ctx, state, code); err != nil {
		logger.Error("complete authorization", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, auth.ErrStateMismatch) {
			status = http.StatusBadRequest
		}
		writeCallbackPage(w, status, "Authorization could not be completed. Close this window and try again.")
		return
	}

	writeCallbackPage(w, http.StatusOK, "Authorization complete. You can close this window.")
}

func writeCallbackPage(w http.ResponseWriter, status int, message string) {
	heading := "Authorization failed"
	if status == http.StatusOK {
		heading = "Authorization successful"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
<h1>%s</h1>
<p>%s</p>
</body>
</html>
`, heading, heading, html.EscapeString(message))
}

// Logout handles POST /api/auth/logout.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Auth == nil {
		logger.Error("authenticator unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "authorization service unavailable"})
		return
	}

	if err := h.Auth.Logout(ctx); err != nil {
		logger.Error("discard credentials", "error", err)
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "logged out"})
}
