package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	NodeURL       string
	NodeTimeout   time.Duration
	AdminKeySalt  string
	EnvFile       string
	PrintAdminKey bool
}

// Defaults
const (
	DefaultPort         = 3318
	DefaultDatabaseType = "sqlite"
	DefaultNodeURL      = "http://localhost:27876"
	DefaultNodeTimeout  = 10 * time.Second
	DefaultEnvFile      = ".env"
)

// ParseFlags parses CLI flags, falling back to environment variables and
// then to values from the env file
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("approval-models", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.NodeURL, "node", "", "Node API base URL")
	fs.DurationVar(&cfg.NodeTimeout, "node-timeout", 0, "Timeout of a single node API call")
	fs.StringVar(&cfg.EnvFile, "env-file", DefaultEnvFile, "Optional file with environment variables")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.BoolVar(&cfg.PrintAdminKey, "print-admin-key", false, "Print the admin key and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Values already in the environment win over the env file
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", cfg.EnvFile, err)
		}
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DefaultDatabaseType
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("invalid database type %q (want sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.NodeURL == "" {
		cfg.NodeURL = os.Getenv("NODE_URL")
		if cfg.NodeURL == "" {
			cfg.NodeURL = DefaultNodeURL
		}
	}

	if cfg.NodeTimeout == 0 {
		if timeoutStr := os.Getenv("NODE_TIMEOUT"); timeoutStr != "" {
			timeout, err := time.ParseDuration(timeoutStr)
			if err != nil || timeout <= 0 {
				return Config{}, errors.New("invalid NODE_TIMEOUT env variable")
			}
			cfg.NodeTimeout = timeout
		} else {
			cfg.NodeTimeout = DefaultNodeTimeout
		}
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	return cfg, nil
}
