package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	ListenHost string

	// SQLite config
	DatabaseName string
	SQLitePath   string

	// Album storage
	UploadDir         string
	AllowedExtensions []string
	ThumbnailSize     int
	MaxUploadBytes    int64

	// Sessions
	SessionDir    string
	SessionSecret []byte
	SessionMaxAge int

	// Word game
	WordList    []string
	MaxAttempts int

	LogLevel  string
	LogFormat string
}

const (
	defaultPort           = "8080"
	defaultListenHost     = "0.0.0.0"
	defaultDatabaseName   = "picfolio"
	defaultUploadDir      = "static/uploads"
	defaultSessionDir     = "data/sessions"
	defaultSessionMaxAge  = 86400 * 30
	defaultThumbnailSize  = 200
	defaultMaxAttempts    = 6
	defaultMaxUploadBytes = 32 << 20
	minSessionSecretLen   = 16
)

var (
	DefaultAllowedExtensions = []string{"png", "jpg", "jpeg", "gif"}
	DefaultWordList          = []string{"apple", "berry", "chery", "grape", "mango"}
)

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	databaseName := getEnv("DATABASE_NAME", defaultDatabaseName)

	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		// Default to a data directory in the current directory
		sqlitePath = filepath.Join("data", fmt.Sprintf("%s.db", databaseName))
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is not set in .env file")
	}

	thumbnailSize, err := getEnvInt("THUMBNAIL_SIZE", defaultThumbnailSize)
	if err != nil {
		return nil, err
	}
	maxAttempts, err := getEnvInt("MAX_ATTEMPTS", defaultMaxAttempts)
	if err != nil {
		return nil, err
	}
	sessionMaxAge, err := getEnvInt("SESSION_MAX_AGE", defaultSessionMaxAge)
	if err != nil {
		return nil, err
	}
	maxUploadBytes, err := getEnvInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Port:              getEnv("PORT", defaultPort),
		ListenHost:        getEnv("LISTEN_HOST", defaultListenHost),
		DatabaseName:      databaseName,
		SQLitePath:        sqlitePath,
		UploadDir:         getEnv("UPLOAD_DIR", defaultUploadDir),
		AllowedExtensions: getEnvList("ALLOWED_EXTENSIONS", DefaultAllowedExtensions),
		ThumbnailSize:     thumbnailSize,
		MaxUploadBytes:    int64(maxUploadBytes),
		SessionDir:        getEnv("SESSION_DIR", defaultSessionDir),
		SessionSecret:     []byte(sessionSecret),
		SessionMaxAge:     sessionMaxAge,
		WordList:          getEnvList("WORD_LIST", DefaultWordList),
		MaxAttempts:       maxAttempts,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the invariants every component relies on.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < minSessionSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLen)
	}
	if c.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	if len(c.AllowedExtensions) == 0 {
		return fmt.Errorf("ALLOWED_EXTENSIONS must list at least one extension")
	}
	if c.ThumbnailSize <= 0 {
		return fmt.Errorf("THUMBNAIL_SIZE must be positive, got %d", c.ThumbnailSize)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if len(c.WordList) == 0 {
		return fmt.Errorf("WORD_LIST must contain at least one word")
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("MAX_ATTEMPTS must be positive, got %d", c.MaxAttempts)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
