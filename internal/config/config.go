// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"bbpr/internal/domain/model"
)

// Config holds the invocation configuration loaded from environment
// variables. Credentials here are the environment override; stored
// credentials are resolved separately and lose to these.
type Config struct {
	Credentials model.Credentials // From BBPR_USERNAME / BBPR_APP_PASSWORD; may be empty.
	BaseURL     string
	DBPath      string
	SecretKey   []byte // 32-byte AES key from BBPR_SECRET_KEY; nil disables stored credentials.
	LogLevel    string
}

// Load reads configuration from environment variables and returns a
// validated Config. All variables are optional: BBPR_USERNAME and
// BBPR_APP_PASSWORD override stored credentials, BBPR_API_BASE overrides the
// production API origin, BBPR_DB_PATH overrides the credential database
// location, BBPR_SECRET_KEY (64 hex chars) enables credential storage, and
// BBPR_LOG_LEVEL selects the slog level.
func Load() (*Config, error) {
	cfg := &Config{
		Credentials: model.Credentials{
			Username:    os.Getenv("BBPR_USERNAME"),
			AppPassword: os.Getenv("BBPR_APP_PASSWORD"),
		},
		LogLevel: os.Getenv("BBPR_LOG_LEVEL"),
	}

	if v, ok := os.LookupEnv("BBPR_API_BASE"); ok && v != "" {
		cfg.BaseURL = v
	}

	cfg.DBPath = defaultDBPath()
	if v, ok := os.LookupEnv("BBPR_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}

	if v, ok := os.LookupEnv("BBPR_SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("BBPR_SECRET_KEY is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("BBPR_SECRET_KEY must decode to 32 bytes, got %d", len(key))
		}
		cfg.SecretKey = key
	}

	return cfg, nil
}

// defaultDBPath places the credential database under the user config
// directory, falling back to the working directory when that cannot be
// determined.
func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "bbpr.db"
	}
	return filepath.Join(dir, "bbpr", "bbpr.db")
}
