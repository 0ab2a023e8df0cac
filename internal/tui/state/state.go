package state

import (
	"github.com/readlater/pocket-cli/internal/pocket"
	tuitree "github.com/readlater/pocket-cli/internal/tui/tree"
)

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

func ItemRowsBefore(rows []tuitree.Row, end int) int {
	if end <= 0 || len(rows) == 0 {
		return 0
	}
	if end > len(rows) {
		end = len(rows)
	}
	count := 0
	for i := 0; i < end; i++ {
		if rows[i].Kind == tuitree.RowItem {
			count++
		}
	}
	return count
}

func VisibleItemIndices(rows []tuitree.Row) []int {
	out := make([]int, 0, len(rows))
	for _, row := range rows {
		if row.Kind == tuitree.RowItem {
			out = append(out, row.ItemIndex)
		}
	}
	return out
}

func ItemIndexByID(items []pocket.Item, itemID string) int {
	for i, item := range items {
		if item.ItemID == itemID {
			return i
		}
	}
	return -1
}

func TreeCursorForItem(rows []tuitree.Row, itemIndex int) int {
	for i, row := range rows {
		if row.Kind == tuitree.RowItem && row.ItemIndex == itemIndex {
			return i
		}
	}
	return -1
}

// SyncedItemCursor maps a tree cursor to the index of the item it points at,
// falling back to the nearest item row when the cursor sits on a section.
func SyncedItemCursor(rows []tuitree.Row, treeCursor int) int {
	if len(rows) == 0 {
		return 0
	}
	treeCursor = ClampCursor(treeCursor, len(rows))
	if rows[treeCursor].Kind == tuitree.RowItem {
		return rows[treeCursor].ItemIndex
	}
	for i := treeCursor + 1; i < len(rows); i++ {
		if rows[i].Kind == tuitree.RowItem {
			return rows[i].ItemIndex
		}
	}
	for i := treeCursor - 1; i >= 0; i-- {
		if rows[i].Kind == tuitree.RowItem {
			return rows[i].ItemIndex
		}
	}
	return 0
}
