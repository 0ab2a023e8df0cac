package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/readlater/pocket-cli/internal/tui/theme"
)

func Toolbar(nerdMode, inDetail bool) string {
	if nerdMode {
		if inDetail {
			return "j/k: scroll | [ ]: prev/next | o: open URL | y: copy URL | m: toggle read | s: toggle favorite | D: download | esc/backspace: back | ?: help | q: quit"
		}
		return "j/k/arrows: move | g/G: top/bottom | pgup/pgdown: jump | c: compact | N: numbering | F: flat | /: search | ctrl+l: clear search | enter: details | a/u/f/1/2/3: filter | e: archive | d: delete | s: favorite | m: read | t: tag | D: download | o: open | y: copy URL | S: stats | r: sync | ?: help | q: quit"
	}
	if inDetail {
		return "j/k scroll | [ ] prev/next | o open | y copy | m/s toggle | esc back | ? help"
	}
	return "j/k move | enter details | / search | a/u/f filter | e archive | r sync | ? help"
}

func CompactFooter(mode, filter string, shown int, searchQuery string, searchMatchCount int, th tuitheme.Theme) string {
	parts := []string{
		th.MetaLabel.Render("mode") + " " + th.MetaValue.Render(mode),
		th.MetaLabel.Render("filter") + " " + th.MetaValue.Render(filter),
		th.MetaValue.Render(fmt.Sprintf("%d shown", shown)),
	}
	if searchQuery != "" {
		parts = append(parts, th.MetaLabel.Render("search")+" "+th.MetaValue.Render(fmt.Sprintf("%q (%d)", searchQuery, searchMatchCount)))
	}
	return strings.Join(parts, " • ")
}

func NerdFooter(mode, filter string, shown, cached int, timeFormat, numbering, layout, searchQuery string, searchMatchCount int) string {
	footer := fmt.Sprintf("Mode: %s | Filter: %s | Showing: %d | Cached: %d | Time: %s | Nums: %s | Layout: %s", mode, filter, shown, cached, timeFormat, numbering, layout)
	if searchQuery != "" {
		return fmt.Sprintf("%s | Search: %s (%d)", footer, searchQuery, searchMatchCount)
	}
	return footer
}

func CompactMessage(loading bool, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

func NerdMessage(status, warning, state, startup string) string {
	return fmt.Sprintf("Status: %s | Warning: %s | State: %s | Startup: %s", status, warning, state, startup)
}
