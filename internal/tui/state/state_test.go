package state

import (
	"reflect"
	"testing"

	"github.com/readlater/pocket-cli/internal/pocket"
	tuitree "github.com/readlater/pocket-cli/internal/tui/tree"
)

func TestClampCursor(t *testing.T) {
	if got := ClampCursor(-1, 3); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := ClampCursor(3, 3); got != 2 {
		t.Fatalf("expected clamp to 2, got %d", got)
	}
	if got := ClampCursor(1, 3); got != 1 {
		t.Fatalf("expected keep 1, got %d", got)
	}
}

func TestPageStep(t *testing.T) {
	if got := PageStep(0, false); got != 10 {
		t.Fatalf("expected default step 10, got %d", got)
	}
	if got := PageStep(12, false); got != 6 {
		t.Fatalf("expected step 6, got %d", got)
	}
	if got := PageStep(12, true); got != 4 {
		t.Fatalf("expected step 4 with status, got %d", got)
	}
}

func TestCenteredWindowAndVisibleCounts(t *testing.T) {
	rows := []tuitree.Row{
		{Kind: tuitree.RowSection},
		{Kind: tuitree.RowItem, ItemIndex: 0},
		{Kind: tuitree.RowItem, ItemIndex: 1},
		{Kind: tuitree.RowSection},
		{Kind: tuitree.RowItem, ItemIndex: 2},
	}
	start, end := CenteredWindow(len(rows), 3, 3)
	if start != 2 || end != 5 {
		t.Fatalf("unexpected window: start=%d end=%d", start, end)
	}
	if got := ItemRowsBefore(rows, start); got != 1 {
		t.Fatalf("expected 1 item row before start, got %d", got)
	}
	visible := VisibleItemIndices(rows)
	if !reflect.DeepEqual(visible, []int{0, 1, 2}) {
		t.Fatalf("unexpected visible item indices: %v", visible)
	}
}

func TestSelectionHelpers(t *testing.T) {
	items := []pocket.Item{
		{ItemID: "10"},
		{ItemID: "20"},
	}
	if got := ItemIndexByID(items, "20"); got != 1 {
		t.Fatalf("expected item index 1, got %d", got)
	}
	if got := ItemIndexByID(items, "30"); got != -1 {
		t.Fatalf("expected -1 for unknown id, got %d", got)
	}

	rows := []tuitree.Row{
		{Kind: tuitree.RowSection, Label: "Articles"},
		{Kind: tuitree.RowItem, ItemIndex: 1},
	}
	if got := TreeCursorForItem(rows, 1); got != 1 {
		t.Fatalf("expected tree cursor 1, got %d", got)
	}
	if got := SyncedItemCursor(rows, 0); got != 1 {
		t.Fatalf("expected synced item cursor 1, got %d", got)
	}
}
