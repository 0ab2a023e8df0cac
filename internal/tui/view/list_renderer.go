package view

import (
	"strings"

	tuitree "github.com/readlater/pocket-cli/internal/tui/tree"
)

type ListRenderInput struct {
	Rows              []tuitree.Row
	Start             int
	End               int
	VisiblePos        int
	TreeCursor        int
	SectionItemCounts map[string]int
	CollapsedSections map[string]bool

	RenderSectionLine func(label, section string, itemCount int, active bool) string
	RenderItemLine    func(itemIndex, visiblePos int, active bool) string
}

func RenderListBody(in ListRenderInput) string {
	if len(in.Rows) == 0 || in.Start >= in.End || in.Start < 0 {
		return ""
	}
	var b strings.Builder
	visiblePos := in.VisiblePos
	for i := in.Start; i < in.End; i++ {
		row := in.Rows[i]
		switch row.Kind {
		case tuitree.RowSection:
			b.WriteString(in.RenderSectionLine(row.Label, row.Section, in.SectionItemCounts[row.Section], i == in.TreeCursor))
			b.WriteString("\n")
		case tuitree.RowItem:
			b.WriteString(in.RenderItemLine(row.ItemIndex, visiblePos, i == in.TreeCursor))
			b.WriteString("\n")
			visiblePos++
		}
	}
	return b.String()
}
