// Package tree flattens the reading list into display rows grouped by item
// type, with collapsible section headers.
package tree

import (
	"sort"
	"strings"

	"github.com/readlater/pocket-cli/internal/pocket"
)

type RowKind string

const (
	RowSection RowKind = "section"
	RowItem    RowKind = "item"
)

type Row struct {
	Kind      RowKind
	Label     string
	Section   string
	ItemIndex int
}

type BuildOptions struct {
	Flat              bool
	CollapsedSections map[string]bool
}

var sectionOrder = []string{
	pocket.ItemTypeArticle,
	pocket.ItemTypeVideo,
	pocket.ItemTypePDF,
}

// SectionLabel is the display name for an item type section.
func SectionLabel(itemType string) string {
	switch itemType {
	case pocket.ItemTypeVideo:
		return "Videos"
	case pocket.ItemTypePDF:
		return "PDFs"
	default:
		return "Articles"
	}
}

// SortItems orders the list the way rows are built: by section, then newest
// first within each section.
func SortItems(items []pocket.Item) {
	sectionRank := make(map[string]int, len(sectionOrder))
	for i, s := range sectionOrder {
		sectionRank[s] = i
	}
	sort.SliceStable(items, func(i, j int) bool {
		ri := sectionRank[items[i].ItemType()]
		rj := sectionRank[items[j].ItemType()]
		if ri != rj {
			return ri < rj
		}
		ai := items[i].AddedAt()
		aj := items[j].AddedAt()
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return strings.ToLower(items[i].Title()) < strings.ToLower(items[j].Title())
	})
}

// BuildRows produces the visible rows for an item list. Flat mode skips
// section headers and shows one row per item, newest first across all
// types.
func BuildRows(items []pocket.Item, opts BuildOptions) []Row {
	if opts.Flat {
		indices := make([]int, 0, len(items))
		for i := range items {
			indices = append(indices, i)
		}
		sort.SliceStable(indices, func(i, j int) bool {
			ai := items[indices[i]].AddedAt()
			aj := items[indices[j]].AddedAt()
			if !ai.Equal(aj) {
				return ai.After(aj)
			}
			return items[indices[i]].ItemID < items[indices[j]].ItemID
		})
		rows := make([]Row, 0, len(indices))
		for _, idx := range indices {
			rows = append(rows, Row{
				Kind:      RowItem,
				Section:   items[idx].ItemType(),
				ItemIndex: idx,
			})
		}
		return rows
	}

	bySection := make(map[string][]int, len(sectionOrder))
	for i, item := range items {
		t := item.ItemType()
		bySection[t] = append(bySection[t], i)
	}

	rows := make([]Row, 0, len(items)+len(sectionOrder))
	for _, section := range sectionOrder {
		indices := bySection[section]
		if len(indices) == 0 {
			continue
		}
		rows = append(rows, Row{Kind: RowSection, Label: SectionLabel(section), Section: section})
		if opts.CollapsedSections[section] {
			continue
		}
		sort.SliceStable(indices, func(a, b int) bool {
			ia := items[indices[a]]
			ib := items[indices[b]]
			if !ia.AddedAt().Equal(ib.AddedAt()) {
				return ia.AddedAt().After(ib.AddedAt())
			}
			return strings.ToLower(ia.Title()) < strings.ToLower(ib.Title())
		})
		for _, idx := range indices {
			rows = append(rows, Row{
				Kind:      RowItem,
				Section:   section,
				ItemIndex: idx,
			})
		}
	}
	return rows
}

func FirstItemRow(rows []Row) int {
	for i, row := range rows {
		if row.Kind == RowItem {
			return i
		}
	}
	return 0
}
