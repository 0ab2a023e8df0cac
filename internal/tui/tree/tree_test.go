package tree

import (
	"reflect"
	"testing"

	"github.com/readlater/pocket-cli/internal/pocket"
)

func testItem(id, url, added string) pocket.Item {
	return pocket.Item{ItemID: id, ResolvedTitle: "Item " + id, ResolvedURL: url, TimeAdded: added}
}

func TestSortItems_GroupsBySectionNewestFirst(t *testing.T) {
	items := []pocket.Item{
		testItem("1", "https://www.youtube.com/watch?v=a", "1700000300"),
		testItem("2", "https://example.com/a", "1700000100"),
		testItem("3", "https://example.com/b", "1700000200"),
		testItem("4", "https://arxiv.org/pdf/x.pdf", "1700000400"),
	}
	SortItems(items)
	got := []string{items[0].ItemID, items[1].ItemID, items[2].ItemID, items[3].ItemID}
	want := []string{"3", "2", "1", "4"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: got=%v want=%v", got, want)
	}
}

func TestBuildRows_SectionsAndCollapsedState(t *testing.T) {
	items := []pocket.Item{
		testItem("1", "https://example.com/a", "1700000100"),
		testItem("2", "https://www.youtube.com/watch?v=a", "1700000200"),
	}
	rows := BuildRows(items, BuildOptions{
		CollapsedSections: map[string]bool{pocket.ItemTypeArticle: true},
	})
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %+v", rows)
	}
	if rows[0].Kind != RowSection || rows[0].Label != "Articles" {
		t.Fatalf("expected Articles section at top, got %+v", rows[0])
	}
	if rows[1].Kind != RowSection || rows[1].Label != "Videos" {
		t.Fatalf("expected collapsed Articles followed by Videos section, got %+v", rows[1])
	}
	if rows[2].Kind != RowItem || rows[2].ItemIndex != 1 {
		t.Fatalf("expected video item row, got %+v", rows[2])
	}
}

func TestBuildRows_EmptySectionsOmitted(t *testing.T) {
	items := []pocket.Item{testItem("1", "https://example.com/a", "1700000100")}
	rows := BuildRows(items, BuildOptions{})
	if len(rows) != 2 {
		t.Fatalf("expected section + item, got %+v", rows)
	}
	for _, row := range rows {
		if row.Kind == RowSection && row.Label != "Articles" {
			t.Fatalf("empty section rendered: %+v", row)
		}
	}
}

func TestBuildRows_FlatModeSortedByDateThenID(t *testing.T) {
	items := []pocket.Item{
		testItem("1", "https://example.com/a", "1700000200"),
		testItem("2", "https://www.youtube.com/watch?v=a", "1700000200"),
		testItem("3", "https://example.com/b", "1700000300"),
	}
	rows := BuildRows(items, BuildOptions{Flat: true})
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	got := []int{rows[0].ItemIndex, rows[1].ItemIndex, rows[2].ItemIndex}
	want := []int{2, 0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected flat order: got=%v want=%v", got, want)
	}
}

func TestFirstItemRow(t *testing.T) {
	rows := []Row{
		{Kind: RowSection, Label: "Articles"},
		{Kind: RowItem, ItemIndex: 7},
	}
	if got := FirstItemRow(rows); got != 1 {
		t.Fatalf("expected first item row at index 1, got %d", got)
	}
}
