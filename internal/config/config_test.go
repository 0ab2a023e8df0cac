package config

import (
	"path/filepath"
	"testing"
)

func TestLoadFromEnv_UsesDefaults(t *testing.T) {
	t.Setenv("POCKET_CONSUMER_KEY", "12345-abcdef")
	t.Setenv("POCKET_API_BASE_URL", "")
	t.Setenv("POCKET_DATA_DIR", "/tmp/pocket-test")
	t.Setenv("POCKET_DB_PATH", "")
	t.Setenv("POCKET_DOWNLOAD_DIR", "")
	t.Setenv("POCKET_SEARCH_MODE", "")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}

	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("unexpected API base URL: %s", cfg.APIBaseURL)
	}
	if cfg.DBPath != filepath.Join("/tmp/pocket-test", "pocket.db") {
		t.Fatalf("unexpected DB path: %s", cfg.DBPath)
	}
	if cfg.TokenPath != filepath.Join("/tmp/pocket-test", "token.json") {
		t.Fatalf("unexpected token path: %s", cfg.TokenPath)
	}
	if cfg.DownloadDir != filepath.Join("/tmp/pocket-test", "articles") {
		t.Fatalf("unexpected download dir: %s", cfg.DownloadDir)
	}
	if cfg.SearchMode != "like" {
		t.Fatalf("unexpected search mode: %s", cfg.SearchMode)
	}
}

func TestLoadFromEnv_MissingConsumerKey(t *testing.T) {
	t.Setenv("POCKET_CONSUMER_KEY", "")
	t.Setenv("POCKET_DATA_DIR", "/tmp/pocket-test")

	_, err := LoadFromEnv()
	if err == nil {
		t.Fatal("expected error for missing consumer key")
	}
}

func TestValidate_APIBaseURLTrailingSlash(t *testing.T) {
	cfg := Config{
		ConsumerKey: "12345-abcdef",
		APIBaseURL:  "https://getpocket.com/",
		DataDir:     "/tmp/pocket-test",
		DBPath:      "/tmp/pocket-test/pocket.db",
		SearchMode:  "like",
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidate_SearchMode(t *testing.T) {
	cfg := Config{
		ConsumerKey: "12345-abcdef",
		APIBaseURL:  "https://getpocket.com",
		DataDir:     "/tmp/pocket-test",
		DBPath:      "/tmp/pocket-test/pocket.db",
		SearchMode:  "fuzzy",
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for bad search mode")
	}

	cfg.SearchMode = "fts"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("fts should be accepted: %v", err)
	}
}
