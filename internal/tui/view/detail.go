package view

import (
	"strings"
	"time"

	"github.com/readlater/pocket-cli/internal/pocket"
)

type WrapFunc func(string, int) []string

func DetailMetaLines(item pocket.Item, width int, wrap WrapFunc) []string {
	title := item.Title()
	lines := make([]string, 0, 16)
	lines = append(lines, wrap(title, width)...)
	lines = append(lines, strings.Repeat("=", max(1, min(width, len(title)))))
	lines = append(lines, "")

	lines = append(lines, "Type: "+item.ItemType())
	if added := item.AddedAt(); !added.IsZero() {
		lines = append(lines, "Added: "+added.UTC().Format(time.RFC3339))
	}
	if item.IsRead() {
		lines = append(lines, "Read: yes")
	} else {
		lines = append(lines, "Read: no")
	}
	if item.IsFavorite() {
		lines = append(lines, "Favorite: yes")
	} else {
		lines = append(lines, "Favorite: no")
	}
	if tags := item.Tags.Names(); len(tags) > 0 {
		lines = append(lines, wrap("Tags: "+strings.Join(tags, ", "), width)...)
	}
	if len(item.Authors) > 0 {
		lines = append(lines, wrap("Authors: "+strings.Join(item.Authors, ", "), width)...)
	}
	if url := item.URL(); url != "" {
		lines = append(lines, wrap("URL: "+url, width)...)
	}

	return lines
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
