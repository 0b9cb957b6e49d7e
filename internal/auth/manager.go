package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/youtube/v3"
)

var (
	// ErrReauthorizationRequired indicates no usable credential exists: the
	// stored token is absent, unrefreshable, or the refresh exchange failed.
	// Callers must surface this as "authentication required", never as a
	// generic server error.
	ErrReauthorizationRequired = errors.New("reauthorization required")
	// ErrStateMismatch indicates the OAuth callback carried a state nonce
	// this process never issued or that has expired.
	ErrStateMismatch = errors.New("oauth state mismatch")
)

// Scopes are the YouTube API scopes requested during authorization.
var Scopes = []string{
	youtube.YoutubeUploadScope,
	youtube.YoutubeReadonlyScope,
	youtube.YoutubeForceSslScope,
	youtube.YoutubeScope,
}

// Status reports whether a usable credential is on file.
type Status struct {
	Authenticated bool       `json:"authenticated"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// clientSecrets is the on-disk shape of the OAuth application identity
// file issued by the Google Cloud console.
type clientSecrets struct {
	Web       clientIdentity `json:"web"`
	Installed clientIdentity `json:"installed"`
}

type clientIdentity struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURI      string   `json:"auth_uri"`
	TokenURI     string   `json:"token_uri"`
	RedirectURIs []string `json:"redirect_uris"`
}

// Manager owns the credential lifecycle: initiating the authorization-code
// flow, exchanging and persisting tokens, and refreshing expired
// credentials on demand.
type Manager struct {
	store  TokenStore
	states *stateStore

	secretsPath string
	redirectURL string

	mu  sync.Mutex
	cfg *oauth2.Config
}

// NewManager constructs a Manager that lazily loads the client-secrets
// file on first use, so the server can boot before the operator has
// provisioned an OAuth application identity.
func NewManager(secretsPath, redirectURL string, store TokenStore) *Manager {
	if store == nil {
		panic("auth: token store must not be nil")
	}
	return &Manager{
		store:       store,
		states:      newStateStore(10 * time.Minute),
		secretsPath: secretsPath,
		redirectURL: redirectURL,
	}
}

// NewManagerWithConfig constructs a Manager around an explicit OAuth
// configuration. Used by tests and callers that manage secrets themselves.
func NewManagerWithConfig(cfg *oauth2.Config, store TokenStore) *Manager {
	if store == nil {
		panic("auth: token store must not be nil")
	}
	return &Manager{
		store:  store,
		states: newStateStore(10 * time.Minute),
		cfg:    cfg,
	}
}

func (m *Manager) config() (*oauth2.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg != nil {
		return m.cfg, nil
	}

	data, err := os.ReadFile(m.secretsPath)
	if err != nil {
		return nil, fmt.Errorf("read client secrets %q: %w", m.secretsPath, err)
	}

	var secrets clientSecrets
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("parse client secrets %q: %w", m.secretsPath, err)
	}

	identity := secrets.Web
	if identity.ClientID == "" {
		identity = secrets.Installed
	}
	if identity.ClientID == "" {
		return nil, fmt.Errorf("client secrets %q: no web or installed identity", m.secretsPath)
	}

	m.cfg = &oauth2.Config{
		ClientID:     identity.ClientID,
		ClientSecret: identity.ClientSecret,
		Scopes:       Scopes,
		RedirectURL:  m.redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  identity.AuthURI,
			TokenURL: identity.TokenURI,
		},
	}
	return m.cfg, nil
}

// AuthCodeURL starts a new authorization flow, returning the consent page
// URL and the state nonce the callback must echo.
func (m *Manager) AuthCodeURL(_ context.Context) (string, string, error) {
	cfg, err := m.config()
	if err != nil {
		return "", "", err
	}

	state := m.states.Issue()
	url := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
	return url, state, nil
}

// HandleCallback completes the authorization flow: it verifies the state
// nonce, exchanges the authorization code, and persists the credential.
func (m *Manager) HandleCallback(ctx context.Context, state, code string) error {
	if !m.states.Consume(state) {
		return ErrStateMismatch
	}

	cfg, err := m.config()
	if err != nil {
		return err
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	return m.store.Save(ctx, token)
}

// Logout removes the stored credential. A missing credential is not an error.
func (m *Manager) Logout(ctx context.Context) error {
	return m.store.Clear(ctx)
}

// Status reports the credential state without ever failing: a missing,
// corrupt, or expired token file simply reads as unauthenticated.
func (m *Manager) Status(ctx context.Context) Status {
	token, err := m.store.Load(ctx)
	if err != nil || !token.Valid() {
		return Status{Authenticated: false}
	}

	status := Status{Authenticated: true}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		status.ExpiresAt = &expiry
	}
	return status
}

// Token returns a usable credential, refreshing and persisting it when
// expired. Absent or unrefreshable credentials map to
// ErrReauthorizationRequired.
func (m *Manager) Token(ctx context.Context) (*oauth2.Token, error) {
	token, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			return nil, ErrReauthorizationRequired
		}
		return nil, err
	}

	if token.Valid() {
		return token, nil
	}
	if token.RefreshToken == "" {
		return nil, ErrReauthorizationRequired
	}

	cfg, err := m.config()
	if err != nil {
		return nil, err
	}

	refreshed, err := cfg.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: refresh exchange failed: %v", ErrReauthorizationRequired, err)
	}

	if refreshed.AccessToken != token.AccessToken {
		if err := m.store.Save(ctx, refreshed); err != nil {
			return nil, err
		}
	}
	return refreshed, nil
}

// HTTPClient returns an http.Client that authenticates requests with the
// stored credential, refreshing it transparently.
func (m *Manager) HTTPClient(ctx context.Context) (*http.Client, error) {
	token, err := m.Token(ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := m.config()
	if err != nil {
		return nil, err
	}
	return cfg.Client(ctx, token), nil
}
