// Package stats aggregates reading activity over trailing windows for the
// stats view.
package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/readlater/pocket-cli/internal/pocket"
)

// Counts tracks how many items of each type were added and read inside one
// window. An item counts as read or added, never both.
type Counts struct {
	ArticlesAdded int
	ArticlesRead  int
	PDFsAdded     int
	PDFsRead      int
	VideosAdded   int
	VideosRead    int
}

func (c *Counts) increment(itemType string, isRead bool) {
	switch itemType {
	case pocket.ItemTypePDF:
		if isRead {
			c.PDFsRead++
		} else {
			c.PDFsAdded++
		}
	case pocket.ItemTypeVideo:
		if isRead {
			c.VideosRead++
		} else {
			c.VideosAdded++
		}
	default:
		if isRead {
			c.ArticlesRead++
		} else {
			c.ArticlesAdded++
		}
	}
}

type TotalStats struct {
	Today Counts
	Week  Counts
	Month Counts
}

// Track buckets one item into the windows its added-time falls into.
func (t *TotalStats) Track(item pocket.Item, now time.Time) {
	added := item.AddedAt()
	if added.IsZero() {
		return
	}
	age := now.Sub(added)

	switch {
	case sameDay(now, added):
		t.Today.increment(item.ItemType(), item.IsRead())
		t.Week.increment(item.ItemType(), item.IsRead())
		t.Month.increment(item.ItemType(), item.IsRead())
	case age <= 7*24*time.Hour:
		t.Week.increment(item.ItemType(), item.IsRead())
		t.Month.increment(item.ItemType(), item.IsRead())
	case age <= 30*24*time.Hour:
		t.Month.increment(item.ItemType(), item.IsRead())
	}
}

func Collect(items []pocket.Item, now time.Time) TotalStats {
	var total TotalStats
	for _, item := range items {
		total.Track(item, now)
	}
	return total
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

const barWidth = 30

// Render draws the weekly counts as horizontal bars.
func Render(week Counts) string {
	var b strings.Builder
	bar := func(label string, added, read int) {
		b.WriteString(fmt.Sprintf("%s: %s │ %3d added\n", label, fill(added), added))
		b.WriteString(fmt.Sprintf("      %s │ %3d  read\n", fill(read), read))
	}
	bar("Text", week.ArticlesAdded, week.ArticlesRead)
	bar("Vids", week.VideosAdded, week.VideosRead)
	bar("PDFs", week.PDFsAdded, week.PDFsRead)
	return b.String()
}

func fill(n int) string {
	filled := n
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("■", filled) + strings.Repeat(" ", barWidth-filled)
}
