package config

import (
	"os"
	"time"

	dErrors "keygate/pkg/domain-errors"
)

// Config captures everything the service needs at startup. It is built once
// from the environment and injected; core logic never reads ambient state.
type Config struct {
	Addr        string
	Environment string

	// Remote key store access.
	StoreToken   string
	StoreID      string
	StoreFile    string
	StoreBaseURL string
	StoreTimeout time.Duration

	// Signing scheme selection: exactly one of the two must be set.
	SigningSeed  string // base64 ed25519 seed (asymmetric scheme)
	SharedSecret string // shared secret (keyed-hash scheme)

	// Optional bcrypt hash guarding the issue endpoint. Empty disables auth.
	IssueKeyHash string

	TokenTTL time.Duration
}

const (
	defaultAddr         = ":8080"
	defaultStoreBaseURL = "https://api.github.com"
	defaultStoreFile    = "keys.txt"
	defaultStoreTimeout = 5 * time.Second
	defaultTokenTTL     = 15 * time.Minute
)

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:         getEnv("KEYGATE_ADDR", defaultAddr),
		Environment:  getEnv("KEYGATE_ENV", "dev"),
		StoreToken:   os.Getenv("KEYGATE_STORE_TOKEN"),
		StoreID:      os.Getenv("KEYGATE_STORE_ID"),
		StoreFile:    getEnv("KEYGATE_STORE_FILE", defaultStoreFile),
		StoreBaseURL: getEnv("KEYGATE_STORE_URL", defaultStoreBaseURL),
		StoreTimeout: getEnvDuration("KEYGATE_STORE_TIMEOUT", defaultStoreTimeout),
		SigningSeed:  os.Getenv("KEYGATE_SIGNING_SEED"),
		SharedSecret: os.Getenv("KEYGATE_SHARED_SECRET"),
		IssueKeyHash: os.Getenv("KEYGATE_ISSUE_KEY_HASH"),
		TokenTTL:     getEnvDuration("KEYGATE_TOKEN_TTL", defaultTokenTTL),
	}
	return cfg
}

// Validate checks the required-secret matrix. A missing store credential or
// an ambiguous scheme selection is fatal and reported distinctly from any
// runtime lookup failure.
func (c Config) Validate() error {
	if c.StoreToken == "" {
		return dErrors.New(dErrors.CodeConfig, "store access token is required")
	}
	if c.StoreID == "" {
		return dErrors.New(dErrors.CodeConfig, "store identifier is required")
	}
	if c.SigningSeed == "" && c.SharedSecret == "" {
		return dErrors.New(dErrors.CodeConfig, "a signing seed or shared secret is required")
	}
	if c.SigningSeed != "" && c.SharedSecret != "" {
		return dErrors.New(dErrors.CodeConfig, "signing seed and shared secret are mutually exclusive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
