package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backend selectors. The bill store is a capability interface with
// one implementation per backend, chosen here at startup.
const (
	StoreBackendRest     = "rest"
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// Bill store selection
	StoreBackend     string
	DatabaseURL      string
	RemoteStoreURL   string
	RemoteStoreToken string

	// PublicBaseURL is the externally reachable base of this service; the
	// postgres store derives receipt fileUrl values from it.
	PublicBaseURL string

	JWTSecret       string
	FrontendBaseURL string
	RateLimit       string // ulule/limiter formatted rate, e.g. "100-M"
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORE_BACKEND", StoreBackendPostgres)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("REMOTE_STORE_URL", "")
	viper.SetDefault("REMOTE_STORE_TOKEN", "")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:             viper.GetString("PORT"),
		IsProduction:     viper.GetBool("IS_PRODUCTION"),
		StoreBackend:     viper.GetString("STORE_BACKEND"),
		DatabaseURL:      viper.GetString("PGSQL_URL"),
		RemoteStoreURL:   viper.GetString("REMOTE_STORE_URL"),
		RemoteStoreToken: viper.GetString("REMOTE_STORE_TOKEN"),
		PublicBaseURL:    viper.GetString("PUBLIC_BASE_URL"),
		JWTSecret:        viper.GetString("JWT_SECRET"),
		FrontendBaseURL:  viper.GetString("FRONTEND_BASE_URL"),
		RateLimit:        viper.GetString("RATE_LIMIT"),
	}

	switch cfg.StoreBackend {
	case StoreBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_BACKEND=%s", StoreBackendPostgres)
		}
	case StoreBackendRest:
		if cfg.RemoteStoreURL == "" {
			return nil, fmt.Errorf("REMOTE_STORE_URL is required when STORE_BACKEND=%s", StoreBackendRest)
		}
	case StoreBackendMemory:
		// Demo backend, nothing to configure.
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	return cfg, nil
}
