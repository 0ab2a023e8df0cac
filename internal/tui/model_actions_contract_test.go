package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/readlater/pocket-cli/internal/stats"
	tuiactions "github.com/readlater/pocket-cli/internal/tui/actions"
)

func TestModelUpdate_HandlesAllActionMessageTypes(t *testing.T) {
	baseItems := testItems()
	m := NewModel(fakeService{items: baseItems}, baseItems, "")

	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{
			name: "sync success",
			msg: tuiactions.SyncSuccessMsg{
				Changed:  3,
				Duration: 120 * time.Millisecond,
				Source:   "manual",
			},
		},
		{
			name: "sync error",
			msg: tuiactions.SyncErrorMsg{
				Err:      assertErr("sync failed"),
				Duration: 120 * time.Millisecond,
				Source:   "manual",
			},
		},
		{
			name: "filter load success",
			msg: tuiactions.FilterLoadSuccessMsg{
				Filter: "unread",
				Items:  baseItems,
			},
		},
		{
			name: "filter load error",
			msg:  tuiactions.FilterLoadErrorMsg{Err: assertErr("filter failed")},
		},
		{
			name: "search load success",
			msg: tuiactions.SearchLoadSuccessMsg{
				Query: "article",
				Items: baseItems,
			},
		},
		{
			name: "search load error",
			msg:  tuiactions.SearchLoadErrorMsg{Err: assertErr("search failed")},
		},
		{
			name: "item updated",
			msg: tuiactions.ItemUpdatedMsg{
				Item:   baseItems[0],
				Status: "Marked as favorite",
			},
		},
		{
			name: "item removed",
			msg: tuiactions.ItemRemovedMsg{
				ItemID: "2",
				Status: "Archived item",
			},
		},
		{
			name: "item action error",
			msg:  tuiactions.ItemActionErrorMsg{Err: assertErr("action failed")},
		},
		{
			name: "download success",
			msg: tuiactions.DownloadSuccessMsg{
				ItemID: "1",
				Path:   "/tmp/article.md",
			},
		},
		{
			name: "download error",
			msg:  tuiactions.DownloadErrorMsg{Err: assertErr("download failed")},
		},
		{
			name: "stats success",
			msg:  tuiactions.StatsSuccessMsg{Stats: stats.TotalStats{}},
		},
		{
			name: "stats error",
			msg:  tuiactions.StatsErrorMsg{Err: assertErr("stats failed")},
		},
		{
			name: "open url success",
			msg: tuiactions.OpenURLSuccessMsg{
				Status: "Opened URL in browser",
				ItemID: "1",
				Opened: true,
			},
		},
		{
			name: "open url error",
			msg:  tuiactions.OpenURLErrorMsg{Err: assertErr("open failed")},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			updated, _ := m.Update(tc.msg)
			next, ok := updated.(Model)
			if !ok {
				t.Fatalf("expected Model after update, got %T", updated)
			}
			m = next
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }

func assertErr(s string) error { return errString(s) }
