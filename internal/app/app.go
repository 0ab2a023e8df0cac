package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/readlater/pocket-cli/internal/pocket"
	"github.com/readlater/pocket-cli/internal/stats"
	"github.com/readlater/pocket-cli/internal/storage"
)

type PocketClient interface {
	Retrieve(ctx context.Context, opts pocket.RetrieveOptions) (pocket.ItemList, error)
	RetrieveAll(ctx context.Context) (pocket.ItemList, error)
	Add(ctx context.Context, url, title string) (pocket.SendResponse, error)
	Delete(ctx context.Context, itemID string) (pocket.SendResponse, error)
	Favorite(ctx context.Context, itemID string) (pocket.SendResponse, error)
	Unfavorite(ctx context.Context, itemID string) (pocket.SendResponse, error)
	FavoriteAndArchive(ctx context.Context, itemID string) (pocket.SendResponse, error)
	AddTag(ctx context.Context, itemID, tag string) (pocket.SendResponse, error)
	RemoveTag(ctx context.Context, itemID, tag string) (pocket.SendResponse, error)
}

type Repository interface {
	SaveItems(ctx context.Context, items []pocket.Item) error
	DeleteItem(ctx context.Context, itemID string) error
	ListItems(ctx context.Context, filter storage.Filter, limit int) ([]pocket.Item, error)
	SearchItems(ctx context.Context, term string, limit int) ([]pocket.Item, error)
	LastSince(ctx context.Context) (string, error)
	SetLastSince(ctx context.Context, since string) error
}

type Downloader interface {
	Download(ctx context.Context, item pocket.Item) (string, error)
}

type Service struct {
	client     PocketClient
	repo       Repository
	downloader Downloader
	now        func() time.Time
}

func NewService(client PocketClient, repo Repository, downloader Downloader) *Service {
	return &Service{
		client:     client,
		repo:       repo,
		downloader: downloader,
		now:        time.Now,
	}
}

// Sync pulls remote changes into the local cache. The first run fetches the
// whole list; later runs fetch only the delta since the last sync. It
// returns how many items changed.
func (s *Service) Sync(ctx context.Context) (int, error) {
	since, err := s.repo.LastSince(ctx)
	if err != nil {
		return 0, fmt.Errorf("load sync state: %w", err)
	}

	if since == "" {
		return s.fullSync(ctx)
	}
	return s.deltaSync(ctx, since)
}

func (s *Service) fullSync(ctx context.Context) (int, error) {
	all, err := s.client.RetrieveAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch items from pocket: %w", err)
	}
	items := all.Items()
	if err := s.repo.SaveItems(ctx, items); err != nil {
		return 0, fmt.Errorf("save items to cache: %w", err)
	}
	if err := s.repo.SetLastSince(ctx, s.sinceValue(all.Since)); err != nil {
		return 0, fmt.Errorf("save sync state: %w", err)
	}
	return len(items), nil
}

func (s *Service) deltaSync(ctx context.Context, since string) (int, error) {
	changed := 0
	offset := 0
	var latest int64
	for {
		batch, err := s.client.Retrieve(ctx, pocket.RetrieveOptions{
			Since:       since,
			Offset:      offset,
			OldestFirst: true,
		})
		if err != nil {
			return changed, fmt.Errorf("fetch delta from pocket: %w", err)
		}
		if len(batch.List) == 0 {
			break
		}

		var upserts []pocket.Item
		for _, item := range batch.Items() {
			if item.IsDeleted() {
				if err := s.repo.DeleteItem(ctx, item.ItemID); err != nil {
					return changed, fmt.Errorf("apply deletion: %w", err)
				}
				changed++
				continue
			}
			upserts = append(upserts, item)
		}
		if len(upserts) > 0 {
			if err := s.repo.SaveItems(ctx, upserts); err != nil {
				return changed, fmt.Errorf("save items to cache: %w", err)
			}
			changed += len(upserts)
		}
		if batch.Since > latest {
			latest = batch.Since
		}
		offset += len(batch.List)
	}

	if err := s.repo.SetLastSince(ctx, s.sinceValue(latest)); err != nil {
		return changed, fmt.Errorf("save sync state: %w", err)
	}
	return changed, nil
}

func (s *Service) sinceValue(reported int64) string {
	if reported > 0 {
		return strconv.FormatInt(reported, 10)
	}
	return strconv.FormatInt(s.now().Unix(), 10)
}

func (s *Service) ListCached(ctx context.Context, filter storage.Filter, limit int) ([]pocket.Item, error) {
	items, err := s.repo.ListItems(ctx, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("load items from cache: %w", err)
	}
	return items, nil
}

func (s *Service) Search(ctx context.Context, term string, limit int) ([]pocket.Item, error) {
	items, err := s.repo.SearchItems(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search cache: %w", err)
	}
	return items, nil
}

// Delete removes the item remotely and from the cache.
func (s *Service) Delete(ctx context.Context, itemID string) error {
	if _, err := s.client.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("delete cached item: %w", err)
	}
	return nil
}

// Archive marks the item done: favorited and archived remotely, removed
// from the cached reading list.
func (s *Service) Archive(ctx context.Context, itemID string) error {
	if _, err := s.client.FavoriteAndArchive(ctx, itemID); err != nil {
		return fmt.Errorf("archive item: %w", err)
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("delete cached item: %w", err)
	}
	return nil
}

func (s *Service) ToggleFavorite(ctx context.Context, item pocket.Item) (pocket.Item, error) {
	if item.IsFavorite() {
		if _, err := s.client.Unfavorite(ctx, item.ItemID); err != nil {
			return item, fmt.Errorf("unfavorite item: %w", err)
		}
		item.Favorite = "0"
	} else {
		if _, err := s.client.Favorite(ctx, item.ItemID); err != nil {
			return item, fmt.Errorf("favorite item: %w", err)
		}
		item.Favorite = "1"
	}
	if err := s.repo.SaveItems(ctx, []pocket.Item{item}); err != nil {
		return item, fmt.Errorf("save cached item: %w", err)
	}
	return item, nil
}

func (s *Service) AddTag(ctx context.Context, item pocket.Item, tag string) (pocket.Item, error) {
	if _, err := s.client.AddTag(ctx, item.ItemID, tag); err != nil {
		return item, fmt.Errorf("add tag: %w", err)
	}
	if item.Tags == nil {
		item.Tags = pocket.TagSet{}
	}
	item.Tags[tag] = struct{}{}
	if err := s.repo.SaveItems(ctx, []pocket.Item{item}); err != nil {
		return item, fmt.Errorf("save cached item: %w", err)
	}
	return item, nil
}

func (s *Service) RemoveTag(ctx context.Context, item pocket.Item, tag string) (pocket.Item, error) {
	if _, err := s.client.RemoveTag(ctx, item.ItemID, tag); err != nil {
		return item, fmt.Errorf("remove tag: %w", err)
	}
	delete(item.Tags, tag)
	if err := s.repo.SaveItems(ctx, []pocket.Item{item}); err != nil {
		return item, fmt.Errorf("save cached item: %w", err)
	}
	return item, nil
}

func (s *Service) MarkRead(ctx context.Context, item pocket.Item) (pocket.Item, error) {
	return s.AddTag(ctx, item, pocket.ReadTag)
}

func (s *Service) MarkUnread(ctx context.Context, item pocket.Item) (pocket.Item, error) {
	return s.RemoveTag(ctx, item, pocket.ReadTag)
}

// SaveURL adds a new page to the reading list.
func (s *Service) SaveURL(ctx context.Context, url, title string) error {
	if _, err := s.client.Add(ctx, url, title); err != nil {
		return fmt.Errorf("save url: %w", err)
	}
	return nil
}

func (s *Service) Download(ctx context.Context, item pocket.Item) (string, error) {
	path, err := s.downloader.Download(ctx, item)
	if err != nil {
		return "", fmt.Errorf("download item: %w", err)
	}
	return path, nil
}

// Stats aggregates reading activity over the cached list.
func (s *Service) Stats(ctx context.Context) (stats.TotalStats, error) {
	items, err := s.repo.ListItems(ctx, storage.Filter{}, 100000)
	if err != nil {
		return stats.TotalStats{}, fmt.Errorf("load items from cache: %w", err)
	}
	return stats.Collect(items, s.now()), nil
}
