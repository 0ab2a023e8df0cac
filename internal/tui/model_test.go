package tui

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/readlater/pocket-cli/internal/pocket"
	"github.com/readlater/pocket-cli/internal/stats"
	"github.com/readlater/pocket-cli/internal/storage"
)

type fakeService struct {
	syncChanged int
	syncErr     error
	items       []pocket.Item
	listErr     error
	searchItems []pocket.Item
	actionErr   error
	stats       stats.TotalStats
}

func (f fakeService) Sync(context.Context) (int, error) {
	return f.syncChanged, f.syncErr
}

func (f fakeService) ListCached(context.Context, storage.Filter, int) ([]pocket.Item, error) {
	return f.items, f.listErr
}

func (f fakeService) Search(context.Context, string, int) ([]pocket.Item, error) {
	return f.searchItems, f.listErr
}

func (f fakeService) Archive(context.Context, string) error { return f.actionErr }
func (f fakeService) Delete(context.Context, string) error  { return f.actionErr }

func (f fakeService) ToggleFavorite(_ context.Context, item pocket.Item) (pocket.Item, error) {
	if item.IsFavorite() {
		item.Favorite = "0"
	} else {
		item.Favorite = "1"
	}
	return item, f.actionErr
}

func (f fakeService) MarkRead(_ context.Context, item pocket.Item) (pocket.Item, error) {
	if item.Tags == nil {
		item.Tags = pocket.TagSet{}
	}
	item.Tags[pocket.ReadTag] = struct{}{}
	return item, f.actionErr
}

func (f fakeService) MarkUnread(_ context.Context, item pocket.Item) (pocket.Item, error) {
	delete(item.Tags, pocket.ReadTag)
	return item, f.actionErr
}

func (f fakeService) AddTag(_ context.Context, item pocket.Item, tag string) (pocket.Item, error) {
	if item.Tags == nil {
		item.Tags = pocket.TagSet{}
	}
	item.Tags[tag] = struct{}{}
	return item, f.actionErr
}

func (f fakeService) Download(context.Context, pocket.Item) (string, error) {
	return "/tmp/article.md", f.actionErr
}

func (f fakeService) Stats(context.Context) (stats.TotalStats, error) {
	return f.stats, f.actionErr
}

func testItems() []pocket.Item {
	return []pocket.Item{
		{
			ItemID:        "1",
			ResolvedTitle: "First Article",
			ResolvedURL:   "https://example.com/1",
			TimeAdded:     "1754733600",
			Favorite:      "1",
		},
		{
			ItemID:        "2",
			ResolvedTitle: "Second Article",
			ResolvedURL:   "https://example.com/2",
			TimeAdded:     "1754647200",
		},
		{
			ItemID:        "3",
			ResolvedTitle: "A Talk",
			ResolvedURL:   "https://www.youtube.com/watch?v=z",
			TimeAdded:     "1754560800",
		},
	}
}

func TestModelView_ShowsItemsGroupedBySection(t *testing.T) {
	m := NewModel(nil, testItems(), "")

	view := m.View()
	if !strings.Contains(view, "Articles") {
		t.Fatalf("expected Articles section in view, got: %s", view)
	}
	if !strings.Contains(view, "Videos") {
		t.Fatalf("expected Videos section in view, got: %s", view)
	}
	if !strings.Contains(view, "First Article") {
		t.Fatalf("expected item title in view, got: %s", view)
	}
	if !strings.Contains(view, "> ") {
		t.Fatalf("expected cursor marker in view, got: %s", view)
	}
}

func TestModelUpdate_SyncError(t *testing.T) {
	m := NewModel(fakeService{syncErr: errors.New("network")}, nil, "")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if cmd == nil {
		t.Fatal("expected sync command")
	}

	msg := cmd()
	updated, _ = updated.Update(msg)
	final := updated.(Model)
	if final.err == nil {
		t.Fatal("expected sync error")
	}
}

func TestModelUpdate_NavigateAndSelect(t *testing.T) {
	m := NewModel(nil, testItems(), "")
	// cursor starts on the first item row, below the Articles header

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	model := updated.(Model)
	if model.items[model.cursor].ItemID != "2" {
		t.Fatalf("expected cursor on item 2, got %s", model.items[model.cursor].ItemID)
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	if !model.inDetail {
		t.Fatal("expected detail mode after enter")
	}
	if model.selectedID != "2" {
		t.Fatalf("expected selected id 2, got %s", model.selectedID)
	}
}

func TestModelUpdate_SectionCollapseOnEnter(t *testing.T) {
	m := NewModel(nil, testItems(), "")
	m.treeCursor = 0 // Articles header

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model := updated.(Model)
	if !model.collapsed[pocket.ItemTypeArticle] {
		t.Fatal("expected articles section collapsed")
	}
	view := model.View()
	if strings.Contains(view, "First Article") {
		t.Fatalf("expected article rows hidden when collapsed, got: %s", view)
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	if model.collapsed[pocket.ItemTypeArticle] {
		t.Fatal("expected articles section expanded again")
	}
}

func TestModelUpdate_DeleteNeedsConfirmation(t *testing.T) {
	m := NewModel(fakeService{}, testItems(), "")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	model := updated.(Model)
	if model.pendingDeleteID != "1" {
		t.Fatalf("expected pending delete for item 1, got %q", model.pendingDeleteID)
	}
	if !strings.Contains(model.status, "again to delete") {
		t.Fatalf("expected confirmation prompt, got %q", model.status)
	}

	// any other key cancels the pending delete
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	model = updated.(Model)
	if model.pendingDeleteID != "" {
		t.Fatal("expected pending delete cleared after navigation")
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	model = updated.(Model)
	updated, cmd = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	model = updated.(Model)
	if cmd == nil {
		t.Fatal("expected delete command on second press")
	}
	if model.pendingDeleteID != "" {
		t.Fatal("expected pending delete consumed")
	}
}

func TestModelUpdate_RemovedItemLeavesList(t *testing.T) {
	m := NewModel(fakeService{}, testItems(), "")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	model := updated.(Model)
	if !model.loading {
		t.Fatal("expected loading while archive runs")
	}

	updated, _ = model.Update(cmdMsg(model, 'e'))
	model = updated.(Model)
	if len(model.items) != 2 {
		t.Fatalf("expected 2 items after archive, got %d", len(model.items))
	}
	if model.status == "" {
		t.Fatal("expected archive status message")
	}
}

// cmdMsg runs the command a keypress produced and returns its message.
func cmdMsg(m Model, key rune) tea.Msg {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{key}})
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestModelUpdate_DetailShowsDownloadHint(t *testing.T) {
	m := NewModel(nil, testItems(), t.TempDir())
	m.readFileFn = func(string) ([]byte, error) { return nil, errors.New("missing") }

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model := updated.(Model)
	view := model.View()
	if !strings.Contains(view, "Not downloaded yet") {
		t.Fatalf("expected download hint in detail view, got: %s", view)
	}
}

func TestModelUpdate_DetailShowsSavedArticle(t *testing.T) {
	m := NewModel(nil, testItems(), "/articles")
	m.readFileFn = func(path string) ([]byte, error) {
		if path != "/articles/first-article.md" {
			return nil, errors.New("unexpected path: " + path)
		}
		return []byte("# First Article\n\nSaved body text."), nil
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model := updated.(Model)
	view := stripANSIView(model.View())
	if !strings.Contains(view, "Saved body text") {
		t.Fatalf("expected saved article body in detail view, got: %s", view)
	}
}

func TestModelUpdate_StatsView(t *testing.T) {
	svc := fakeService{stats: stats.TotalStats{
		Week: stats.Counts{ArticlesAdded: 3, ArticlesRead: 1},
	}}
	m := NewModel(svc, testItems(), "")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'S'}})
	if cmd == nil {
		t.Fatal("expected stats command")
	}
	updated, _ = updated.Update(cmd())
	model := updated.(Model)
	if !model.showStats {
		t.Fatal("expected stats mode")
	}
	view := model.View()
	if !strings.Contains(view, "This week") {
		t.Fatalf("expected weekly window in stats view, got: %s", view)
	}
	if !strings.Contains(view, "Text:") {
		t.Fatalf("expected bar labels in stats view, got: %s", view)
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	model = updated.(Model)
	if model.showStats {
		t.Fatal("expected stats mode closed on esc")
	}
}

func TestModelUpdate_HelpToggle(t *testing.T) {
	m := NewModel(nil, nil, "")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	model := updated.(Model)
	if !model.showHelp {
		t.Fatal("expected help mode")
	}
	if !strings.Contains(model.View(), "Filters:") {
		t.Fatal("expected help content in view")
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	model = updated.(Model)
	if model.showHelp {
		t.Fatal("expected help mode closed")
	}
}

func TestModel_ClearStatusOnlyForLatestID(t *testing.T) {
	m := NewModel(nil, nil, "")
	m.status = "old"
	m.statusID = 2

	updated, _ := m.Update(clearStatusMsg{id: 1})
	model := updated.(Model)
	if model.status != "old" {
		t.Fatal("stale clear should not wipe a newer status")
	}

	updated, _ = model.Update(clearStatusMsg{id: 2})
	model = updated.(Model)
	if model.status != "" {
		t.Fatal("expected status cleared")
	}
}

var ansiView = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSIView(s string) string {
	return ansiView.ReplaceAllString(s, "")
}
