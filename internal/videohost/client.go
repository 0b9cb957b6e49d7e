package videohost

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// CredentialSource supplies an HTTP client that authenticates requests
// against the video host, refreshing the underlying credential as needed.
type CredentialSource interface {
	HTTPClient(ctx context.Context) (*http.Client, error)
}

// Factory builds authenticated YouTube service handles. Credential
// failures pass through unchanged so callers can map them to
// "authentication required" responses.
type Factory struct {
	Credentials CredentialSource

	// Endpoint overrides the API base URL. Tests point this at a fake.
	Endpoint string
}

// NewService returns a client handle bound to the current credential.
func (f *Factory) NewService(ctx context.Context) (*youtube.Service, error) {
	client, err := f.Credentials.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if f.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(f.Endpoint))
	}

	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return svc, nil
}
