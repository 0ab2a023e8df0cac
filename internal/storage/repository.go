package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/readlater/pocket-cli/internal/pocket"
)

type Repository struct {
	db         *sql.DB
	searchMode string
}

func NewRepository(path string) (*Repository, error) {
	return NewRepositoryWithSearch(path, "like")
}

func NewRepositoryWithSearch(path, searchMode string) (*Repository, error) {
	if searchMode != "like" && searchMode != "fts" {
		return nil, fmt.Errorf("unsupported search mode: %s", searchMode)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db, searchMode: searchMode}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS items (
  item_id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  url TEXT NOT NULL,
  item_type TEXT NOT NULL,
  favorite INTEGER NOT NULL,
  read INTEGER NOT NULL,
  tags TEXT NOT NULL,
  time_added INTEGER NOT NULL,
  raw TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sync_state (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  last_since TEXT NOT NULL
);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if r.searchMode == "fts" {
		const fts = `
CREATE VIRTUAL TABLE IF NOT EXISTS items_fts
USING fts5(item_id UNINDEXED, title, url, tags);
`
		if _, err := r.db.ExecContext(ctx, fts); err != nil {
			return fmt.Errorf("create fts schema: %w", err)
		}
	}
	return nil
}

// CheckWritable verifies the database accepts writes before the app starts
// queueing sync work against it.
func (r *Repository) CheckWritable(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin probe tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS writable_probe (id INTEGER)`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("database is not writable: %w", err)
	}
	return tx.Rollback()
}

func (r *Repository) SaveItems(ctx context.Context, items []pocket.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO items (item_id, title, url, item_type, favorite, read, tags, time_added, raw)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(item_id) DO UPDATE SET
  title=excluded.title,
  url=excluded.url,
  item_type=excluded.item_type,
  favorite=excluded.favorite,
  read=excluded.read,
  tags=excluded.tags,
  time_added=excluded.time_added,
  raw=excluded.raw
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encode item %s: %w", item.ItemID, err)
		}
		timeAdded, _ := strconv.ParseInt(item.TimeAdded, 10, 64)
		_, err = stmt.ExecContext(
			ctx,
			item.ItemID,
			item.Title(),
			item.URL(),
			item.ItemType(),
			boolToInt(item.IsFavorite()),
			boolToInt(item.IsRead()),
			strings.Join(item.Tags.Names(), " "),
			timeAdded,
			string(raw),
		)
		if err != nil {
			return fmt.Errorf("save item %s: %w", item.ItemID, err)
		}
		if r.searchMode == "fts" {
			if err := r.updateFTS(ctx, tx, item); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repository) updateFTS(ctx context.Context, tx *sql.Tx, item pocket.Item) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM items_fts WHERE item_id = ?`, item.ItemID); err != nil {
		return fmt.Errorf("refresh index for %s: %w", item.ItemID, err)
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO items_fts (item_id, title, url, tags) VALUES (?, ?, ?, ?)`,
		item.ItemID, item.Title(), item.URL(), strings.Join(item.Tags.Names(), " "))
	if err != nil {
		return fmt.Errorf("index item %s: %w", item.ItemID, err)
	}
	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, itemID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("delete item %s: %w", itemID, err)
	}
	if r.searchMode == "fts" {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM items_fts WHERE item_id = ?`, itemID); err != nil {
			return fmt.Errorf("delete item %s from index: %w", itemID, err)
		}
	}
	return nil
}

// Filter narrows ListItems. The zero value matches everything.
type Filter struct {
	Type         string
	FavoriteOnly bool
	UnreadOnly   bool
	Tag          string
}

func (r *Repository) ListItems(ctx context.Context, filter Filter, limit int) ([]pocket.Item, error) {
	if limit < 1 {
		limit = 500
	}

	query := `SELECT raw FROM items`
	var conds []string
	var args []any
	if filter.Type != "" {
		conds = append(conds, "item_type = ?")
		args = append(args, filter.Type)
	}
	if filter.FavoriteOnly {
		conds = append(conds, "favorite = 1")
	}
	if filter.UnreadOnly {
		conds = append(conds, "read = 0")
	}
	if filter.Tag != "" {
		conds = append(conds, "(' ' || tags || ' ') LIKE ?")
		args = append(args, "% "+filter.Tag+" %")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY time_added DESC LIMIT ?"
	args = append(args, limit)

	return r.queryItems(ctx, query, args...)
}

func (r *Repository) SearchItems(ctx context.Context, term string, limit int) ([]pocket.Item, error) {
	if limit < 1 {
		limit = 500
	}
	if r.searchMode == "fts" {
		return r.queryItems(ctx, `
SELECT items.raw FROM items_fts
JOIN items ON items.item_id = items_fts.item_id
WHERE items_fts MATCH ?
ORDER BY items.time_added DESC LIMIT ?
`, term, limit)
	}

	pattern := "%" + term + "%"
	return r.queryItems(ctx, `
SELECT raw FROM items
WHERE title LIKE ? OR url LIKE ? OR tags LIKE ?
ORDER BY time_added DESC LIMIT ?
`, pattern, pattern, pattern, limit)
}

func (r *Repository) queryItems(ctx context.Context, query string, args ...any) ([]pocket.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []pocket.Item
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		var item pocket.Item
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("decode stored item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return items, nil
}

// LastSince returns the unix timestamp of the last completed sync, or ""
// when the database has never synced.
func (r *Repository) LastSince(ctx context.Context) (string, error) {
	var since string
	err := r.db.QueryRowContext(ctx, `SELECT last_since FROM sync_state WHERE id = 1`).Scan(&since)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query sync state: %w", err)
	}
	return since, nil
}

func (r *Repository) SetLastSince(ctx context.Context, since string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO sync_state (id, last_since) VALUES (1, ?)
ON CONFLICT(id) DO UPDATE SET last_since=excluded.last_since
`, since)
	if err != nil {
		return fmt.Errorf("save sync state: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
