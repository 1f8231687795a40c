package cliparse

import (
	"encoding/hex"
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string
	TokenKey     []byte
	BatchSize    int
	MaxBatchSize int
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var tokenKeyHex string

	fs := flag.NewFlagSet("pairvote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.IntVar(&cfg.BatchSize, "b", 0, "Battles per batch")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&tokenKeyHex, "token-key", "", "Battle token key, hex encoded (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
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
			cfg.Port = 3319 // default
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
			cfg.DatabaseType = "sqlite"
		}
	}

	if cfg.BatchSize == 0 {
		if batchStr := os.Getenv("BATCH_SIZE"); batchStr != "" {
			batch, err := strconv.Atoi(batchStr)
			if err != nil || batch < 1 {
				return Config{}, errors.New("invalid BATCH_SIZE env variable")
			}
			cfg.BatchSize = batch
		} else {
			cfg.BatchSize = 3 // default
		}
	}
	cfg.MaxBatchSize = 10
	if cfg.BatchSize > cfg.MaxBatchSize {
		cfg.BatchSize = cfg.MaxBatchSize
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if tokenKeyHex == "" {
		tokenKeyHex = os.Getenv("TOKEN_KEY")
	}
	if tokenKeyHex == "" {
		return Config{}, errors.New("TOKEN_KEY required")
	}
	key, err := hex.DecodeString(tokenKeyHex)
	if err != nil {
		return Config{}, errors.New("TOKEN_KEY must be hex encoded")
	}
	switch len(key) {
	case 16, 24, 32:
	default:
		return Config{}, errors.New("TOKEN_KEY must decode to 16, 24 or 32 bytes")
	}
	cfg.TokenKey = key

	return cfg, nil
}
