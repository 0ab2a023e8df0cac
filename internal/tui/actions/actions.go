package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/readlater/pocket-cli/internal/pocket"
	"github.com/readlater/pocket-cli/internal/stats"
	"github.com/readlater/pocket-cli/internal/storage"
)

type Service interface {
	Sync(ctx context.Context) (int, error)
	ListCached(ctx context.Context, filter storage.Filter, limit int) ([]pocket.Item, error)
	Search(ctx context.Context, term string, limit int) ([]pocket.Item, error)
	Archive(ctx context.Context, itemID string) error
	Delete(ctx context.Context, itemID string) error
	ToggleFavorite(ctx context.Context, item pocket.Item) (pocket.Item, error)
	MarkRead(ctx context.Context, item pocket.Item) (pocket.Item, error)
	MarkUnread(ctx context.Context, item pocket.Item) (pocket.Item, error)
	AddTag(ctx context.Context, item pocket.Item, tag string) (pocket.Item, error)
	Download(ctx context.Context, item pocket.Item) (string, error)
	Stats(ctx context.Context) (stats.TotalStats, error)
}

// FilterFromName maps the UI filter names to a cache query.
func FilterFromName(name string) storage.Filter {
	switch name {
	case "unread":
		return storage.Filter{UnreadOnly: true}
	case "favorites":
		return storage.Filter{FavoriteOnly: true}
	case "articles":
		return storage.Filter{Type: pocket.ItemTypeArticle}
	case "videos":
		return storage.Filter{Type: pocket.ItemTypeVideo}
	case "pdfs":
		return storage.Filter{Type: pocket.ItemTypePDF}
	default:
		return storage.Filter{}
	}
}

type SyncSuccessMsg struct {
	Changed  int
	Duration time.Duration
	Source   string
}

type SyncErrorMsg struct {
	Err      error
	Duration time.Duration
	Source   string
}

type FilterLoadSuccessMsg struct {
	Filter string
	Items  []pocket.Item
}

type FilterLoadErrorMsg struct {
	Err error
}

type SearchLoadSuccessMsg struct {
	Query string
	Items []pocket.Item
}

type SearchLoadErrorMsg struct {
	Err error
}

type ItemUpdatedMsg struct {
	Item   pocket.Item
	Status string
}

type ItemRemovedMsg struct {
	ItemID string
	Status string
}

type ItemActionErrorMsg struct {
	Err error
}

type DownloadSuccessMsg struct {
	ItemID string
	Path   string
}

type DownloadErrorMsg struct {
	Err error
}

type StatsSuccessMsg struct {
	Stats stats.TotalStats
}

type StatsErrorMsg struct {
	Err error
}

type OpenURLSuccessMsg struct {
	Status string
	ItemID string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

func SyncCmd(service Service, source string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		start := time.Now()

		changed, err := service.Sync(ctx)
		if err != nil {
			return SyncErrorMsg{Err: err, Duration: time.Since(start), Source: source}
		}
		return SyncSuccessMsg{Changed: changed, Duration: time.Since(start), Source: source}
	}
}

func LoadFilterCmd(service Service, filter string, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		items, err := service.ListCached(ctx, FilterFromName(filter), limit)
		if err != nil {
			return FilterLoadErrorMsg{Err: err}
		}
		return FilterLoadSuccessMsg{Filter: filter, Items: items}
	}
}

func LoadSearchCmd(service Service, query string, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		items, err := service.Search(ctx, query, limit)
		if err != nil {
			return SearchLoadErrorMsg{Err: err}
		}
		return SearchLoadSuccessMsg{Query: query, Items: items}
	}
}

func ArchiveCmd(service Service, itemID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := service.Archive(ctx, itemID); err != nil {
			return ItemActionErrorMsg{Err: err}
		}
		return ItemRemovedMsg{ItemID: itemID, Status: "Archived item"}
	}
}

func DeleteCmd(service Service, itemID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := service.Delete(ctx, itemID); err != nil {
			return ItemActionErrorMsg{Err: err}
		}
		return ItemRemovedMsg{ItemID: itemID, Status: "Deleted item"}
	}
}

func ToggleFavoriteCmd(service Service, item pocket.Item) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		updated, err := service.ToggleFavorite(ctx, item)
		if err != nil {
			return ItemActionErrorMsg{Err: err}
		}
		status := "Removed favorite"
		if updated.IsFavorite() {
			status = "Marked as favorite"
		}
		return ItemUpdatedMsg{Item: updated, Status: status}
	}
}

func ToggleReadCmd(service Service, item pocket.Item) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var (
			updated pocket.Item
			err     error
		)
		if item.IsRead() {
			updated, err = service.MarkUnread(ctx, item)
		} else {
			updated, err = service.MarkRead(ctx, item)
		}
		if err != nil {
			return ItemActionErrorMsg{Err: err}
		}
		status := "Marked as unread"
		if updated.IsRead() {
			status = "Marked as read"
		}
		return ItemUpdatedMsg{Item: updated, Status: status}
	}
}

func AddTagCmd(service Service, item pocket.Item, tag string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		updated, err := service.AddTag(ctx, item, tag)
		if err != nil {
			return ItemActionErrorMsg{Err: err}
		}
		return ItemUpdatedMsg{Item: updated, Status: fmt.Sprintf("Tagged with %q", tag)}
	}
}

func DownloadCmd(service Service, item pocket.Item) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		path, err := service.Download(ctx, item)
		if err != nil {
			return DownloadErrorMsg{Err: err}
		}
		return DownloadSuccessMsg{ItemID: item.ItemID, Path: path}
	}
}

func StatsCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		total, err := service.Stats(ctx)
		if err != nil {
			return StatsErrorMsg{Err: err}
		}
		return StatsSuccessMsg{Stats: total}
	}
}

func OpenURLCmd(itemID, url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened URL in browser", ItemID: itemID, Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard", ItemID: itemID, Opened: false}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}
