package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/readlater/pocket-cli/internal/download"
	"github.com/readlater/pocket-cli/internal/pocket"
	"github.com/readlater/pocket-cli/internal/storage"
)

func integrationService(t *testing.T) *Service {
	t.Helper()

	if os.Getenv("POCKET_INTEGRATION") != "1" {
		t.Skip("set POCKET_INTEGRATION=1 to run integration tests")
	}

	consumerKey := os.Getenv("POCKET_CONSUMER_KEY")
	accessToken := os.Getenv("POCKET_ACCESS_TOKEN")
	if consumerKey == "" || accessToken == "" {
		t.Skip("POCKET_CONSUMER_KEY and POCKET_ACCESS_TOKEN are required")
	}

	baseURL := os.Getenv("POCKET_API_BASE_URL")
	if baseURL == "" {
		baseURL = "https://getpocket.com"
	}

	repo, err := storage.NewRepositoryWithSearch(filepath.Join(t.TempDir(), "pocket-integration.db"), "like")
	if err != nil {
		t.Fatalf("NewRepositoryWithSearch returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := repo.Init(ctx); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	client := pocket.NewClient(baseURL, consumerKey, accessToken, nil)
	return NewService(client, repo, download.New(t.TempDir(), nil))
}

func TestIntegration_SyncToggleAndFilter(t *testing.T) {
	svc := integrationService(t)

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	changed, err := svc.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if changed == 0 {
		t.Skip("empty reading list, nothing to exercise")
	}

	items, err := svc.ListCached(ctx, storage.Filter{}, 50)
	if err != nil {
		t.Fatalf("ListCached returned error: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected cached items after sync")
	}

	item := items[0]

	// Keep the account state stable by restoring the flag before the test exits.
	wasFavorite := item.IsFavorite()
	defer func() {
		restoreCtx, restoreCancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer restoreCancel()
		current, err := svc.ListCached(restoreCtx, storage.Filter{}, 50)
		if err != nil {
			return
		}
		for _, c := range current {
			if c.ItemID == item.ItemID && c.IsFavorite() != wasFavorite {
				_, _ = svc.ToggleFavorite(restoreCtx, c)
			}
		}
	}()

	toggled, err := svc.ToggleFavorite(ctx, item)
	if err != nil {
		t.Fatalf("ToggleFavorite returned error: %v", err)
	}
	if toggled.IsFavorite() == wasFavorite {
		t.Fatalf("expected favorite state to change from %v", wasFavorite)
	}

	favorites, err := svc.ListCached(ctx, storage.Filter{FavoriteOnly: true}, 50)
	if err != nil {
		t.Fatalf("ListCached favorites returned error: %v", err)
	}
	for _, f := range favorites {
		if !f.IsFavorite() {
			t.Fatalf("found non-favorite item in favorites filter: %+v", f)
		}
	}
}

func TestIntegration_SearchCached(t *testing.T) {
	svc := integrationService(t)

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	if _, err := svc.Sync(ctx); err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}

	items, err := svc.ListCached(ctx, storage.Filter{}, 300)
	if err != nil {
		t.Fatalf("ListCached returned error: %v", err)
	}
	if len(items) == 0 {
		t.Skip("empty reading list, nothing to search")
	}

	token := searchTokenFromTitle(items[0].Title())
	if token == "" {
		t.Skip("could not derive a stable search token from title")
	}

	matched, err := svc.Search(ctx, token, 300)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(matched) == 0 {
		t.Fatalf("expected at least one search match for token %q", token)
	}
}

func searchTokenFromTitle(title string) string {
	for _, part := range strings.Fields(strings.ToLower(title)) {
		var b strings.Builder
		for _, r := range part {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
		token := b.String()
		if len(token) >= 4 {
			return token
		}
	}
	return ""
}
