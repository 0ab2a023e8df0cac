package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const defaultAPIBaseURL = "https://getpocket.com"

// Config holds runtime settings for the CLI app.
type Config struct {
	ConsumerKey string
	APIBaseURL  string
	DataDir     string
	DBPath      string
	TokenPath   string
	DownloadDir string
	FeedsPath   string
	SearchMode  string
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		ConsumerKey: os.Getenv("POCKET_CONSUMER_KEY"),
		APIBaseURL:  os.Getenv("POCKET_API_BASE_URL"),
		DataDir:     os.Getenv("POCKET_DATA_DIR"),
		DBPath:      os.Getenv("POCKET_DB_PATH"),
		DownloadDir: os.Getenv("POCKET_DOWNLOAD_DIR"),
		SearchMode:  os.Getenv("POCKET_SEARCH_MODE"),
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".pocket-cli")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "pocket.db")
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = filepath.Join(cfg.DataDir, "articles")
	}
	cfg.TokenPath = filepath.Join(cfg.DataDir, "token.json")
	cfg.FeedsPath = filepath.Join(cfg.DataDir, "feeds.txt")
	if cfg.SearchMode == "" {
		cfg.SearchMode = "like"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ConsumerKey, validation.Required.Error("POCKET_CONSUMER_KEY is required")),
		validation.Field(&c.APIBaseURL, validation.Required, validation.By(noTrailingSlash)),
		validation.Field(&c.DataDir, validation.Required),
		validation.Field(&c.DBPath, validation.Required),
		validation.Field(&c.SearchMode, validation.Required, validation.In("like", "fts").Error("must be like or fts")),
	)
}

func noTrailingSlash(value any) error {
	s, _ := value.(string)
	if strings.HasSuffix(s, "/") {
		return fmt.Errorf("must not end with '/'")
	}
	return nil
}
