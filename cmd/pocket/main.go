package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/readlater/pocket-cli/internal/app"
	"github.com/readlater/pocket-cli/internal/auth"
	"github.com/readlater/pocket-cli/internal/config"
	"github.com/readlater/pocket-cli/internal/download"
	"github.com/readlater/pocket-cli/internal/pocket"
	"github.com/readlater/pocket-cli/internal/storage"
	"github.com/readlater/pocket-cli/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "pocket-cli",
	Short: "Terminal client for your Pocket reading list",
	Long: `pocket-cli keeps a local sqlite cache of your Pocket saves and lets you
browse, tag, search and download them from the terminal.

Run it without arguments for the interactive list. Log in once with
"pocket-cli auth" before the first sync.`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	RunE:              runTUI,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, repo, service, err := openService()
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cacheLoadStart := time.Now()
	items, err := service.ListCached(ctx, storage.Filter{}, 500)
	if err != nil {
		return fmt.Errorf("cannot load cached items: %w", err)
	}
	cacheLoadDuration := time.Since(cacheLoadStart)

	model := tui.NewModel(service, items, cfg.DownloadDir)
	model.SetStartupCacheStats(cacheLoadDuration, len(items))

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
	return nil
}

// openService wires config, cache, API client and downloader the way every
// subcommand needs them.
func openService() (config.Config, *storage.Repository, *app.Service, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("config error: %w", err)
	}

	repo, err := storage.NewRepositoryWithSearch(cfg.DBPath, cfg.SearchMode)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("storage init error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		repo.Close()
		return config.Config{}, nil, nil, fmt.Errorf("storage schema error: %w", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		repo.Close()
		return config.Config{}, nil, nil, fmt.Errorf("storage write check failed (%w); verify POCKET_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	tok, err := auth.LoadToken(cfg.TokenPath)
	if err != nil {
		repo.Close()
		return config.Config{}, nil, nil, fmt.Errorf("not logged in (%w); run: pocket-cli auth", err)
	}

	client := pocket.NewClient(cfg.APIBaseURL, cfg.ConsumerKey, tok.AccessToken, nil)
	downloader := download.New(cfg.DownloadDir, nil)
	return cfg, repo, app.NewService(client, repo, downloader), nil
}
