package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func newTokenServer(t *testing.T, accessToken string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("token endpoint called with method %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  accessToken,
			"token_type":    "Bearer",
			"refresh_token": "refresh-new",
			"expires_in":    3600,
		})
	}))
}

func newTestManager(t *testing.T, tokenURL string) (*Manager, *FileTokenStore) {
	t.Helper()
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	cfg := &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/api/auth/callback",
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/auth",
			TokenURL: tokenURL,
		},
	}
	return NewManagerWithConfig(cfg, store), store
}

func TestAuthCodeURLCarriesState(t *testing.T) {
	manager, _ := newTestManager(t, "https://oauth.example.com/token")

	consentURL, state, err := manager.AuthCodeURL(context.Background())
	if err != nil {
		t.Fatalf("auth code url: %v", err)
	}
	if state == "" {
		t.Fatal("expected non-empty state")
	}

	parsed, err := url.Parse(consentURL)
	if err != nil {
		t.Fatalf("parse consent url: %v", err)
	}
	query := parsed.Query()
	if got := query.Get("state"); got != state {
		t.Fatalf("expected state %q in url, got %q", state, got)
	}
	if got := query.Get("access_type"); got != "offline" {
		t.Fatalf("expected offline access type, got %q", got)
	}
	if got := query.Get("include_granted_scopes"); got != "true" {
		t.Fatalf("expected include_granted_scopes=true, got %q", got)
	}
}

func TestHandleCallbackPersistsToken(t *testing.T) {
	server := newTokenServer(t, "access-exchanged")
	defer server.Close()

	manager, store := newTestManager(t, server.URL)
	ctx := context.Background()

	_, state, err := manager.AuthCodeURL(ctx)
	if err != nil {
		t.Fatalf("auth code url: %v", err)
	}

	if err := manager.HandleCallback(ctx, state, "auth-code"); err != nil {
		t.Fatalf("handle callback: %v", err)
	}

	token, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load persisted token: %v", err)
	}
	if token.AccessToken != "access-exchanged" {
		t.Fatalf("expected exchanged token persisted, got %q", token.AccessToken)
	}
}

func TestHandleCallbackRejectsUnknownState(t *testing.T) {
	manager, _ := newTestManager(t, "https://oauth.example.com/token")

	err := manager.HandleCallback(context.Background(), "forged-state", "code")
	if !errors.Is(err, ErrStateMismatch) {
		t.Fatalf("expected ErrStateMismatch got %v", err)
	}
}

func TestStatusWithoutToken(t *testing.T) {
	manager, _ := newTestManager(t, "https://oauth.example.com/token")

	status := manager.Status(context.Background())
	if status.Authenticated {
		t.Fatal("expected unauthenticated status")
	}
	if status.ExpiresAt != nil {
		t.Fatalf("expected no expiry, got %v", status.ExpiresAt)
	}
}

func TestStatusWithCorruptTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	manager := NewManagerWithConfig(&oauth2.Config{}, NewFileTokenStore(path))
	if manager.Status(context.Background()).Authenticated {
		t.Fatal("expected corrupt token file to read as unauthenticated")
	}
}

func TestTokenRefreshPersistsNewCredential(t *testing.T) {
	server := newTokenServer(t, "access-refreshed")
	defer server.Close()

	manager, store := newTestManager(t, server.URL)
	ctx := context.Background()

	expired := &oauth2.Token{
		AccessToken:  "access-old",
		RefreshToken: "refresh-old",
		Expiry:       time.Now().Add(-time.Hour),
	}
	if err := store.Save(ctx, expired); err != nil {
		t.Fatalf("seed expired token: %v", err)
	}

	token, err := manager.Token(ctx)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token.AccessToken != "access-refreshed" {
		t.Fatalf("expected refreshed token, got %q", token.AccessToken)
	}

	persisted, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load persisted token: %v", err)
	}
	if persisted.AccessToken != "access-refreshed" {
		t.Fatalf("expected refreshed token persisted, got %q", persisted.AccessToken)
	}
}

func TestTokenWithoutRefreshTokenRequiresReauthorization(t *testing.T) {
	manager, store := newTestManager(t, "https://oauth.example.com/token")
	ctx := context.Background()

	expired := &oauth2.Token{
		AccessToken: "access-old",
		Expiry:      time.Now().Add(-time.Hour),
	}
	if err := store.Save(ctx, expired); err != nil {
		t.Fatalf("seed expired token: %v", err)
	}

	if _, err := manager.Token(ctx); !errors.Is(err, ErrReauthorizationRequired) {
		t.Fatalf("expected ErrReauthorizationRequired got %v", err)
	}
}

func TestTokenFailedRefreshRequiresReauthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	manager, store := newTestManager(t, server.URL)
	ctx := context.Background()

	expired := &oauth2.Token{
		AccessToken:  "access-old",
		RefreshToken: "refresh-revoked",
		Expiry:       time.Now().Add(-time.Hour),
	}
	if err := store.Save(ctx, expired); err != nil {
		t.Fatalf("seed expired token: %v", err)
	}

	_, err := manager.Token(ctx)
	if !errors.Is(err, ErrReauthorizationRequired) {
		t.Fatalf("expected ErrReauthorizationRequired got %v", err)
	}
	if !strings.Contains(err.Error(), "refresh exchange failed") {
		t.Fatalf("expected refresh detail in error, got %v", err)
	}
}

func TestManagerLoadsClientSecretsLazily(t *testing.T) {
	dir := t.TempDir()
	secretsPath := filepath.Join(dir, "credentials.json")
	secrets := map[string]any{
		"web": map[string]any{
			"client_id":     "web-client",
			"client_secret": "web-secret",
			"auth_uri":      "https://accounts.example.com/auth",
			"token_uri":     "https://oauth.example.com/token",
		},
	}
	data, err := json.Marshal(secrets)
	if err != nil {
		t.Fatalf("marshal secrets: %v", err)
	}
	if err := os.WriteFile(secretsPath, data, 0o600); err != nil {
		t.Fatalf("write secrets: %v", err)
	}

	manager := NewManager(secretsPath, "http://localhost:8080/api/auth/callback", NewFileTokenStore(filepath.Join(dir, "token.json")))

	consentURL, _, err := manager.AuthCodeURL(context.Background())
	if err != nil {
		t.Fatalf("auth code url: %v", err)
	}
	if !strings.HasPrefix(consentURL, "https://accounts.example.com/auth") {
		t.Fatalf("expected consent url from secrets file, got %q", consentURL)
	}
}

func TestManagerMissingSecretsFile(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "absent.json"), "", NewFileTokenStore(filepath.Join(t.TempDir(), "token.json")))

	if _, _, err := manager.AuthCodeURL(context.Background()); err == nil {
		t.Fatal("expected error for missing secrets file")
	}
}
