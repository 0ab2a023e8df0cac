package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/readlater/pocket-cli/internal/download"
	"github.com/readlater/pocket-cli/internal/pocket"
	"github.com/readlater/pocket-cli/internal/stats"
	tuiactions "github.com/readlater/pocket-cli/internal/tui/actions"
	"github.com/readlater/pocket-cli/internal/tui/platform"
	tuistate "github.com/readlater/pocket-cli/internal/tui/state"
	tuitheme "github.com/readlater/pocket-cli/internal/tui/theme"
	tuitree "github.com/readlater/pocket-cli/internal/tui/tree"
	tuiview "github.com/readlater/pocket-cli/internal/tui/view"
)

type clearStatusMsg struct {
	id int
}

type Model struct {
	service         tuiactions.Service
	items           []pocket.Item
	filter          string
	limit           int
	flat            bool
	collapsed       map[string]bool
	treeCursor      int
	cursor          int
	selectedID      string
	pendingDeleteID string

	searchActive bool
	searchQuery  string
	searchInput  textinput.Model
	tagActive    bool
	tagInput     textinput.Model

	showHelp  bool
	showStats bool
	statsText string
	inDetail  bool
	detailTop int

	compact      bool
	relativeTime bool
	showNumbers  bool

	width    int
	height   int
	loading  bool
	status   string
	statusID int
	err      error

	downloadDir string
	openURLFn   func(string) error
	copyURLFn   func(string) error
	readFileFn  func(string) ([]byte, error)
	nowFn       func() time.Time

	theme tuitheme.Theme

	initialSyncDone   bool
	initialSyncFailed bool
	initialSyncTime   time.Duration
	cacheLoadDuration time.Duration
	cacheLoadedItems  int
}

func NewModel(service tuiactions.Service, items []pocket.Item, downloadDir string) Model {
	seed := append([]pocket.Item(nil), items...)
	tuitree.SortItems(seed)

	search := textinput.New()
	search.Placeholder = "search saved items"
	search.CharLimit = 120

	tag := textinput.New()
	tag.Placeholder = "tag name"
	tag.CharLimit = 60

	m := Model{
		service:      service,
		items:        seed,
		filter:       "all",
		limit:        500,
		collapsed:    make(map[string]bool),
		searchInput:  search,
		tagInput:     tag,
		relativeTime: true,
		downloadDir:  downloadDir,
		openURLFn:    platform.OpenURLInBrowser,
		copyURLFn:    platform.CopyURLToClipboard,
		readFileFn:   os.ReadFile,
		nowFn:        time.Now,
		theme:        tuitheme.Default(),
	}
	rows := m.rows()
	m.treeCursor = tuitree.FirstItemRow(rows)
	m.cursor = tuistate.SyncedItemCursor(rows, m.treeCursor)
	return m
}

func (m Model) Init() tea.Cmd {
	if m.service == nil {
		return nil
	}
	return tuiactions.SyncCmd(m.service, "init")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tuiactions.SyncSuccessMsg:
		m.loading = false
		m.err = nil
		m.status = fmt.Sprintf("Synced %d items", msg.Changed)
		if msg.Source == "init" {
			m.initialSyncDone = true
			m.initialSyncFailed = false
			m.initialSyncTime = msg.Duration
		}
		if m.service == nil {
			return m, nil
		}
		return m, tuiactions.LoadFilterCmd(m.service, m.filter, m.limit)
	case tuiactions.SyncErrorMsg:
		m.loading = false
		m.status = ""
		m.err = msg.Err
		if msg.Source == "init" {
			m.initialSyncDone = true
			m.initialSyncFailed = true
			m.initialSyncTime = msg.Duration
		}
		return m, nil
	case tuiactions.FilterLoadSuccessMsg:
		anchor := m.anchorItemID()
		m.loading = false
		m.err = nil
		m.filter = msg.Filter
		m.searchQuery = ""
		m.items = msg.Items
		tuitree.SortItems(m.items)
		m.restoreSelection(anchor)
		m.status = "Filter: " + m.filter
		return m, nil
	case tuiactions.FilterLoadErrorMsg:
		m.loading = false
		m.status = ""
		m.err = msg.Err
		return m, nil
	case tuiactions.SearchLoadSuccessMsg:
		anchor := m.anchorItemID()
		m.loading = false
		m.err = nil
		m.searchQuery = msg.Query
		m.items = msg.Items
		tuitree.SortItems(m.items)
		m.restoreSelection(anchor)
		m.status = fmt.Sprintf("Search %q: %d items", msg.Query, len(msg.Items))
		return m, nil
	case tuiactions.SearchLoadErrorMsg:
		m.loading = false
		m.status = ""
		m.err = msg.Err
		return m, nil
	case tuiactions.ItemUpdatedMsg:
		m.loading = false
		m.err = nil
		m.status = msg.Status
		m.replaceItem(msg.Item)
		m.statusID++
		return m, clearStatusCmd(m.statusID, 3*time.Second)
	case tuiactions.ItemRemovedMsg:
		m.loading = false
		m.err = nil
		m.status = msg.Status
		m.removeItem(msg.ItemID)
		m.statusID++
		return m, clearStatusCmd(m.statusID, 3*time.Second)
	case tuiactions.ItemActionErrorMsg:
		m.loading = false
		m.status = ""
		m.err = msg.Err
		return m, nil
	case tuiactions.DownloadSuccessMsg:
		m.loading = false
		m.err = nil
		m.status = "Saved to " + msg.Path
		m.statusID++
		return m, clearStatusCmd(m.statusID, 4*time.Second)
	case tuiactions.DownloadErrorMsg:
		m.loading = false
		m.status = ""
		m.err = msg.Err
		return m, nil
	case tuiactions.StatsSuccessMsg:
		m.loading = false
		m.err = nil
		m.statsText = renderStats(msg.Stats)
		m.showStats = true
		return m, nil
	case tuiactions.StatsErrorMsg:
		m.loading = false
		m.status = ""
		m.err = msg.Err
		return m, nil
	case tuiactions.OpenURLSuccessMsg:
		m.err = nil
		m.status = msg.Status
		m.statusID++
		return m, clearStatusCmd(m.statusID, 3*time.Second)
	case tuiactions.OpenURLErrorMsg:
		m.err = nil
		m.status = msg.Err.Error()
		m.statusID++
		return m, clearStatusCmd(m.statusID, 4*time.Second)
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchActive {
		return m.updateSearchInput(msg)
	}
	if m.tagActive {
		return m.updateTagInput(msg)
	}

	if msg.String() == "?" {
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.showHelp {
		switch msg.String() {
		case "esc", "?":
			m.showHelp = false
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		return m, nil
	}

	if m.showStats {
		switch msg.String() {
		case "esc", "S":
			m.showStats = false
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		return m, nil
	}

	if m.inDetail {
		return m.updateDetailKey(msg)
	}
	return m.updateListKey(msg)
}

func (m Model) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		return m, nil
	case "enter":
		query := strings.TrimSpace(m.searchInput.Value())
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		if query == "" || m.service == nil {
			return m, nil
		}
		m.loading = true
		m.status = ""
		m.err = nil
		return m, tuiactions.LoadSearchCmd(m.service, query, m.limit)
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) updateTagInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.tagActive = false
		m.tagInput.Blur()
		m.tagInput.SetValue("")
		return m, nil
	case "enter":
		tag := strings.TrimSpace(m.tagInput.Value())
		m.tagActive = false
		m.tagInput.Blur()
		m.tagInput.SetValue("")
		if tag == "" || m.service == nil || len(m.items) == 0 {
			return m, nil
		}
		m.loading = true
		m.status = ""
		m.err = nil
		return m, tuiactions.AddTagCmd(m.service, m.items[m.cursor], tag)
	}
	var cmd tea.Cmd
	m.tagInput, cmd = m.tagInput.Update(msg)
	return m, cmd
}

func (m Model) updateDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.inDetail = false
		m.detailTop = 0
		return m, nil
	case "ctrl+c", "q":
		return m, tea.Quit
	case "o":
		return m.openCurrentURL()
	case "y":
		return m.copyCurrentURL()
	case "m":
		return m.toggleReadCurrent()
	case "s":
		return m.toggleFavoriteCurrent()
	case "D":
		return m.downloadCurrent()
	case "up", "k":
		if m.detailTop > 0 {
			m.detailTop--
		}
		return m, nil
	case "down", "j":
		lines := m.detailLines()
		if m.detailTop < tuiview.DetailMaxTop(len(lines), m.detailBodyHeight()) {
			m.detailTop++
		}
		return m, nil
	case "[":
		return m.stepDetail(-1), nil
	case "]":
		return m.stepDetail(1), nil
	}
	return m, nil
}

func (m Model) updateListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "d" {
		m.pendingDeleteID = ""
	}
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.moveCursorBy(-1)
		return m, nil
	case "down", "j":
		m.moveCursorBy(1)
		return m, nil
	case "pgup", "ctrl+b":
		m.moveCursorBy(-tuistate.PageStep(m.height, m.status != ""))
		return m, nil
	case "pgdown", "ctrl+f":
		m.moveCursorBy(tuistate.PageStep(m.height, m.status != ""))
		return m, nil
	case "g":
		m.treeCursor = 0
		m.syncCursor()
		return m, nil
	case "G":
		m.treeCursor = len(m.rows()) - 1
		m.syncCursor()
		return m, nil
	case "enter":
		rows := m.rows()
		if len(rows) == 0 {
			return m, nil
		}
		row := rows[tuistate.ClampCursor(m.treeCursor, len(rows))]
		if row.Kind == tuitree.RowSection {
			m.collapsed[row.Section] = !m.collapsed[row.Section]
			if m.collapsed[row.Section] {
				m.status = "Collapsed " + row.Label
			} else {
				m.status = "Expanded " + row.Label
			}
			m.syncCursor()
			return m, nil
		}
		m.selectedID = m.items[m.cursor].ItemID
		m.inDetail = true
		m.detailTop = 0
		return m, nil
	case "left", "h":
		return m.setSectionCollapsed(true), nil
	case "right", "l":
		return m.setSectionCollapsed(false), nil
	case "r":
		if m.service == nil {
			return m, nil
		}
		m.loading = true
		m.status = ""
		m.err = nil
		return m, tuiactions.SyncCmd(m.service, "manual")
	case "/":
		m.searchActive = true
		m.searchInput.Focus()
		return m, textinput.Blink
	case "ctrl+l":
		if m.searchQuery == "" || m.service == nil {
			return m, nil
		}
		m.loading = true
		m.status = ""
		m.err = nil
		return m, tuiactions.LoadFilterCmd(m.service, m.filter, m.limit)
	case "a":
		return m.switchFilter("all")
	case "u":
		if m.filter == "unread" {
			return m.switchFilter("all")
		}
		return m.switchFilter("unread")
	case "f":
		if m.filter == "favorites" {
			return m.switchFilter("all")
		}
		return m.switchFilter("favorites")
	case "1":
		return m.switchFilter("articles")
	case "2":
		return m.switchFilter("videos")
	case "3":
		return m.switchFilter("pdfs")
	case "e":
		if m.service == nil || !m.currentRowIsItem() {
			return m, nil
		}
		m.loading = true
		m.status = ""
		m.err = nil
		return m, tuiactions.ArchiveCmd(m.service, m.items[m.cursor].ItemID)
	case "d":
		if m.service == nil || !m.currentRowIsItem() {
			return m, nil
		}
		itemID := m.items[m.cursor].ItemID
		if m.pendingDeleteID != itemID {
			m.pendingDeleteID = itemID
			m.status = "Press d again to delete"
			m.statusID++
			return m, clearStatusCmd(m.statusID, 4*time.Second)
		}
		m.pendingDeleteID = ""
		m.loading = true
		m.status = ""
		m.err = nil
		return m, tuiactions.DeleteCmd(m.service, itemID)
	case "s":
		if !m.currentRowIsItem() {
			return m, nil
		}
		return m.toggleFavoriteCurrent()
	case "m":
		if !m.currentRowIsItem() {
			return m, nil
		}
		return m.toggleReadCurrent()
	case "t":
		if !m.currentRowIsItem() {
			return m, nil
		}
		m.tagActive = true
		m.tagInput.Focus()
		return m, textinput.Blink
	case "D":
		if !m.currentRowIsItem() {
			return m, nil
		}
		return m.downloadCurrent()
	case "o":
		if !m.currentRowIsItem() {
			return m, nil
		}
		return m.openCurrentURL()
	case "y":
		if !m.currentRowIsItem() {
			return m, nil
		}
		return m.copyCurrentURL()
	case "S":
		if m.service == nil {
			return m, nil
		}
		m.loading = true
		m.err = nil
		return m, tuiactions.StatsCmd(m.service)
	case "F":
		m.flat = !m.flat
		if m.flat {
			m.status = "Flat list: on"
		} else {
			m.status = "Flat list: off"
		}
		m.syncCursor()
		return m, nil
	case "c":
		m.compact = !m.compact
		if m.compact {
			m.status = "Compact mode: on"
		} else {
			m.status = "Compact mode: off"
		}
		return m, nil
	case "N":
		m.showNumbers = !m.showNumbers
		if m.showNumbers {
			m.status = "Numbering: on"
		} else {
			m.status = "Numbering: off"
		}
		return m, nil
	case "z":
		m.relativeTime = !m.relativeTime
		if m.relativeTime {
			m.status = "Time format: relative"
		} else {
			m.status = "Time format: absolute"
		}
		return m, nil
	}
	return m, nil
}

func (m Model) switchFilter(filter string) (tea.Model, tea.Cmd) {
	if m.service == nil {
		return m, nil
	}
	m.loading = true
	m.status = ""
	m.err = nil
	return m, tuiactions.LoadFilterCmd(m.service, filter, m.limit)
}

func (m Model) toggleFavoriteCurrent() (tea.Model, tea.Cmd) {
	if m.service == nil || len(m.items) == 0 {
		return m, nil
	}
	m.loading = true
	m.status = ""
	m.err = nil
	return m, tuiactions.ToggleFavoriteCmd(m.service, m.items[m.cursor])
}

func (m Model) toggleReadCurrent() (tea.Model, tea.Cmd) {
	if m.service == nil || len(m.items) == 0 {
		return m, nil
	}
	m.loading = true
	m.status = ""
	m.err = nil
	return m, tuiactions.ToggleReadCmd(m.service, m.items[m.cursor])
}

func (m Model) downloadCurrent() (tea.Model, tea.Cmd) {
	if m.service == nil || len(m.items) == 0 {
		return m, nil
	}
	m.loading = true
	m.status = ""
	m.err = nil
	return m, tuiactions.DownloadCmd(m.service, m.items[m.cursor])
}

func (m Model) openCurrentURL() (tea.Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	item := m.items[m.cursor]
	validURL, err := platform.ValidateEntryURL(item.URL())
	if err != nil {
		m.err = nil
		m.status = err.Error()
		m.statusID++
		return m, clearStatusCmd(m.statusID, 4*time.Second)
	}
	return m, tuiactions.OpenURLCmd(item.ItemID, validURL, m.openURLFn, m.copyURLFn)
}

func (m Model) copyCurrentURL() (tea.Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	validURL, err := platform.ValidateEntryURL(m.items[m.cursor].URL())
	if err != nil {
		m.err = nil
		m.status = err.Error()
		m.statusID++
		return m, clearStatusCmd(m.statusID, 4*time.Second)
	}
	return m, tuiactions.CopyURLCmd(validURL, m.copyURLFn)
}

func (m Model) stepDetail(delta int) Model {
	if len(m.items) == 0 {
		return m
	}
	next := m.cursor + delta
	if next < 0 || next >= len(m.items) {
		return m
	}
	m.cursor = next
	m.selectedID = m.items[m.cursor].ItemID
	m.detailTop = 0
	rows := m.rows()
	if tc := tuistate.TreeCursorForItem(rows, m.cursor); tc >= 0 {
		m.treeCursor = tc
	}
	return m
}

func (m *Model) setSectionCollapsed(collapsed bool) Model {
	rows := m.rows()
	if len(rows) == 0 || m.flat {
		return *m
	}
	row := rows[tuistate.ClampCursor(m.treeCursor, len(rows))]
	if m.collapsed[row.Section] != collapsed {
		m.collapsed[row.Section] = collapsed
		label := tuitree.SectionLabel(row.Section)
		if collapsed {
			m.status = "Collapsed " + label
		} else {
			m.status = "Expanded " + label
		}
	}
	m.syncCursor()
	return *m
}

func (m Model) rows() []tuitree.Row {
	return tuitree.BuildRows(m.items, tuitree.BuildOptions{
		Flat:              m.flat,
		CollapsedSections: m.collapsed,
	})
}

func (m *Model) moveCursorBy(delta int) {
	rows := m.rows()
	if len(rows) == 0 {
		return
	}
	m.treeCursor = tuistate.ClampCursor(m.treeCursor+delta, len(rows))
	m.syncCursor()
}

func (m *Model) syncCursor() {
	rows := m.rows()
	if len(rows) == 0 {
		m.treeCursor = 0
		m.cursor = 0
		return
	}
	m.treeCursor = tuistate.ClampCursor(m.treeCursor, len(rows))
	m.cursor = tuistate.SyncedItemCursor(rows, m.treeCursor)
}

func (m Model) anchorItemID() string {
	if m.selectedID != "" {
		return m.selectedID
	}
	if len(m.items) == 0 || m.cursor < 0 || m.cursor >= len(m.items) {
		return ""
	}
	return m.items[m.cursor].ItemID
}

func (m *Model) restoreSelection(anchorID string) {
	if len(m.items) == 0 {
		m.cursor = 0
		m.treeCursor = 0
		m.selectedID = ""
		m.inDetail = false
		m.detailTop = 0
		return
	}
	if anchorID != "" {
		if idx := tuistate.ItemIndexByID(m.items, anchorID); idx >= 0 {
			m.cursor = idx
			if tc := tuistate.TreeCursorForItem(m.rows(), idx); tc >= 0 {
				m.treeCursor = tc
			}
			return
		}
	}
	if m.selectedID != "" {
		m.selectedID = ""
		m.inDetail = false
		m.detailTop = 0
	}
	m.cursor = tuistate.ClampCursor(m.cursor, len(m.items))
	if tc := tuistate.TreeCursorForItem(m.rows(), m.cursor); tc >= 0 {
		m.treeCursor = tc
	} else {
		m.syncCursor()
	}
}

func (m *Model) replaceItem(item pocket.Item) {
	for i := range m.items {
		if m.items[i].ItemID == item.ItemID {
			m.items[i] = item
			return
		}
	}
}

func (m *Model) removeItem(itemID string) {
	anchor := ""
	idx := tuistate.ItemIndexByID(m.items, itemID)
	if idx < 0 {
		return
	}
	if idx+1 < len(m.items) {
		anchor = m.items[idx+1].ItemID
	} else if idx > 0 {
		anchor = m.items[idx-1].ItemID
	}
	m.items = append(m.items[:idx], m.items[idx+1:]...)
	if m.selectedID == itemID {
		m.selectedID = ""
		m.inDetail = false
		m.detailTop = 0
	}
	m.restoreSelection(anchor)
}

func (m Model) currentRowIsItem() bool {
	rows := m.rows()
	if len(rows) == 0 {
		return false
	}
	return rows[tuistate.ClampCursor(m.treeCursor, len(rows))].Kind == tuitree.RowItem
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString("Pocket CLI\n")
	if m.showHelp {
		b.WriteString("Help (? to close)\n\n")
		b.WriteString(m.helpView())
		b.WriteString("\n\n")
		b.WriteString(m.messagePanel())
		b.WriteString("\n")
		b.WriteString(m.footer())
		b.WriteString("\n")
		return b.String()
	}
	if m.showStats {
		b.WriteString("Reading stats (esc to close)\n\n")
		b.WriteString(m.statsText)
		b.WriteString("\n")
		b.WriteString(m.messagePanel())
		b.WriteString("\n")
		b.WriteString(m.footer())
		b.WriteString("\n")
		return b.String()
	}
	if m.inDetail {
		b.WriteString(tuiview.Toolbar(!m.compact, true))
		b.WriteString("\n\n")
		b.WriteString(m.detailView())
		b.WriteString("\n")
		b.WriteString(m.messagePanel())
		b.WriteString("\n")
		b.WriteString(m.footer())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(tuiview.Toolbar(!m.compact, false))
	b.WriteString("\n\n")
	if m.searchActive {
		b.WriteString("Search: " + m.searchInput.View())
		b.WriteString("\n\n")
	}
	if m.tagActive {
		b.WriteString("Tag: " + m.tagInput.View())
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString("Loading items...\n")
	} else if len(m.items) == 0 {
		b.WriteString("No items available. Press r to sync.\n")
	} else {
		b.WriteString(m.listBody())
	}
	b.WriteString("\n")
	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	return b.String()
}

func (m Model) listBody() string {
	rows := m.rows()
	if len(rows) == 0 {
		return "No items match the current filter.\n"
	}
	treeCursor := tuistate.ClampCursor(m.treeCursor, len(rows))
	start, end := tuistate.CenteredWindow(len(rows), treeCursor, m.listHeight())

	counts := make(map[string]int, 3)
	for _, item := range m.items {
		counts[item.ItemType()]++
	}

	return tuiview.RenderListBody(tuiview.ListRenderInput{
		Rows:              rows,
		Start:             start,
		End:               end,
		VisiblePos:        tuistate.ItemRowsBefore(rows, start),
		TreeCursor:        treeCursor,
		SectionItemCounts: counts,
		CollapsedSections: m.collapsed,
		RenderSectionLine: func(label, section string, itemCount int, active bool) string {
			return tuiview.RenderSectionLine(label, m.collapsed[section], itemCount, m.contentWidth(), active, false, m.theme)
		},
		RenderItemLine: func(itemIndex, visiblePos int, active bool) string {
			return tuiview.RenderItemLine(tuiview.ItemLineParams{
				Item:         m.items[itemIndex],
				Now:          m.nowFn(),
				RelativeTime: m.relativeTime,
				Compact:      m.compact,
				ShowNumbers:  m.showNumbers,
				VisiblePos:   visiblePos,
				Active:       active,
				Selected:     m.items[itemIndex].ItemID == m.selectedID,
				Width:        m.contentWidth(),
			}, m.theme)
		},
	})
}

func (m Model) detailView() string {
	if len(m.items) == 0 {
		return "No item selected.\n"
	}
	lines := m.detailLines()
	return tuiview.RenderDetailLines(lines, m.detailTop, m.detailBodyHeight())
}

func (m Model) detailLines() []string {
	item := m.items[tuistate.ClampCursor(m.cursor, len(m.items))]
	return tuiview.DetailLines(item, m.detailBody(item), m.contentWidth()-2, 1, wrapText)
}

// detailBody loads the article saved by a previous download, if any.
func (m Model) detailBody(item pocket.Item) string {
	if m.downloadDir == "" || m.readFileFn == nil {
		return ""
	}
	if item.ItemType() == pocket.ItemTypePDF {
		return "PDF item. Press D to save it to disk and open externally."
	}
	path := filepath.Join(m.downloadDir, download.Slugify(item.Title())+".md")
	data, err := m.readFileFn(path)
	if err != nil {
		return "Not downloaded yet. Press D to fetch the article."
	}
	return string(data)
}

func (m Model) helpView() string {
	lines := []string{
		"Navigation:",
		"  j/k or arrows move, g/G jump top/bottom, pgup/pgdown jump page",
		"Sections:",
		"  the list is grouped into Articles, Videos and PDFs",
		"  left/h collapses the current section, right/l expands, F flattens",
		"Modes:",
		"  enter opens detail, esc/backspace returns to list",
		"Filters:",
		"  a all, u unread, f favorites, 1/2/3 articles/videos/pdfs",
		"  / search, ctrl+l clear search",
		"Actions:",
		"  e archive, d twice delete, s favorite, m read, t tag",
		"  D download article, o open URL, y copy URL, r sync",
		"Views:",
		"  S reading stats, c compact, N numbering, z time format",
	}
	return strings.Join(lines, "\n")
}

func (m Model) footer() string {
	mode := "list"
	if m.inDetail {
		mode = "detail"
	}
	if m.compact {
		return tuiview.CompactFooter(mode, m.filter, len(m.items), m.searchQuery, len(m.items), m.theme)
	}
	layout := "sections"
	if m.flat {
		layout = "flat"
	}
	timeFormat := "absolute"
	if m.relativeTime {
		timeFormat = "relative"
	}
	numbering := "off"
	if m.showNumbers {
		numbering = "on"
	}
	return tuiview.NerdFooter(mode, m.filter, len(m.items), m.cacheLoadedItems, timeFormat, numbering, layout, m.searchQuery, len(m.items))
}

func (m Model) messagePanel() string {
	if m.compact {
		return tuiview.CompactMessage(m.loading, m.err != nil, m.status, errText(m.err), m.theme)
	}
	status := "-"
	if m.status != "" {
		status = m.status
	}
	warning := "-"
	if m.err != nil {
		warning = m.err.Error()
	}
	state := "idle"
	if m.loading {
		state = "loading"
	}
	return tuiview.NerdMessage(status, warning, state, m.startupMetrics())
}

func (m Model) startupMetrics() string {
	cachePart := "cache n/a"
	if m.cacheLoadDuration > 0 || m.cacheLoadedItems > 0 {
		cachePart = fmt.Sprintf("cache %dms (%d items)", m.cacheLoadDuration.Milliseconds(), m.cacheLoadedItems)
	}
	syncPart := "initial sync pending"
	if m.initialSyncDone {
		if m.initialSyncFailed {
			syncPart = fmt.Sprintf("initial sync failed in %dms", m.initialSyncTime.Milliseconds())
		} else {
			syncPart = fmt.Sprintf("initial sync %dms", m.initialSyncTime.Milliseconds())
		}
	}
	return cachePart + ", " + syncPart
}

func (m *Model) SetStartupCacheStats(duration time.Duration, items int) {
	m.cacheLoadDuration = duration
	m.cacheLoadedItems = items
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return m.width - 1
	}
	return 100
}

func (m Model) listHeight() int {
	if m.height <= 0 {
		return 0
	}
	used := 6
	if m.status != "" {
		used += 2
	}
	if h := m.height - used; h > 3 {
		return h
	}
	return 3
}

func (m Model) detailBodyHeight() int {
	if m.height > 0 {
		used := 4
		if m.status != "" {
			used += 2
		}
		if h := m.height - used; h > 3 {
			return h
		}
	}
	return 16
}

func renderStats(total stats.TotalStats) string {
	var b strings.Builder
	b.WriteString("Today\n")
	b.WriteString(stats.Render(total.Today))
	b.WriteString("\nThis week\n")
	b.WriteString(stats.Render(total.Week))
	b.WriteString("\nThis month\n")
	b.WriteString(stats.Render(total.Month))
	return b.String()
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func wrapText(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))

	for _, p := range paragraphs {
		if p == "" {
			out = append(out, "")
			continue
		}
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range words {
			for len(word) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				out = append(out, word[:width])
				word = word[width:]
			}

			if line == "" {
				line = word
				continue
			}
			if len(line)+1+len(word) <= width {
				line += " " + word
				continue
			}
			out = append(out, line)
			line = word
		}
		if line != "" {
			out = append(out, line)
		}
	}

	return out
}
