package config

import (
	"os"
	"strconv"
	"strings"
)

// Config captures the runtime configuration for the TubeStudio backend service.
type Config struct {
	AppPort           int
	ClientSecretsFile string
	TokenFile         string
	OAuthRedirectURL  string
	OpenAIKey         string
	OpenAIModel       string
	UploadDir         string
	MaxUploadBytes    int64
	UploadChunkSize   int
	JobDatabasePath   string
	AllowedOrigins    []string
	LogLevel          string
	Archive           ObjectStoreConfig
}

// ObjectStoreConfig describes the optional S3-compatible bucket used to
// retain uploaded source files. An empty bucket disables archiving.
type ObjectStoreConfig struct {
	Bucket   string
	Region   string
	Endpoint string
	Prefix   string
}

// Enabled reports whether source archiving is configured.
func (c ObjectStoreConfig) Enabled() bool {
	return strings.TrimSpace(c.Bucket) != ""
}

// Load reads configuration from environment variables, applying sensible defaults
// for local development while allowing overrides through environment variables.
func Load() (Config, error) {
	cfg := Config{
		AppPort:           getInt("TUBESTUDIO_PORT", 8080),
		ClientSecretsFile: getString("TUBESTUDIO_CLIENT_SECRETS", "credentials.json"),
		TokenFile:         getString("TUBESTUDIO_TOKEN_FILE", "token.json"),
		OAuthRedirectURL:  getString("TUBESTUDIO_OAUTH_REDIRECT_URL", "http://localhost:8080/api/auth/callback"),
		OpenAIKey:         getString("OPENAI_API_KEY", ""),
		OpenAIModel:       getString("TUBESTUDIO_OPENAI_MODEL", "gpt-4o-mini"),
		UploadDir:         getString("TUBESTUDIO_UPLOAD_DIR", ""),
		MaxUploadBytes:    getInt64("TUBESTUDIO_MAX_UPLOAD_BYTES", 500*1024*1024),
		UploadChunkSize:   getInt("TUBESTUDIO_UPLOAD_CHUNK_SIZE", 0),
		JobDatabasePath:   getString("TUBESTUDIO_JOB_DB", "jobs.db"),
		AllowedOrigins:    getList("TUBESTUDIO_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		LogLevel:          getString("TUBESTUDIO_LOG_LEVEL", "info"),
		Archive: ObjectStoreConfig{
			Bucket:   getString("TUBESTUDIO_ARCHIVE_BUCKET", ""),
			Region:   getString("TUBESTUDIO_ARCHIVE_REGION", "us-east-1"),
			Endpoint: getString("TUBESTUDIO_ARCHIVE_ENDPOINT", ""),
			Prefix:   getString("TUBESTUDIO_ARCHIVE_PREFIX", "sources"),
		},
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}

func getList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
