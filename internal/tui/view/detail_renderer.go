package view

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/readlater/pocket-cli/internal/pocket"
)

func DetailLines(
	item pocket.Item,
	body string,
	contentWidth int,
	horizontalMargin int,
	wrap WrapFunc,
) []string {
	lines := DetailMetaLines(item, contentWidth, wrap)
	bodyLines := renderBody(body, contentWidth, wrap)
	if len(bodyLines) > 0 {
		lines = append(lines, "")
		lines = append(lines, bodyLines...)
	}
	return leftPadLines(lines, horizontalMargin)
}

func DetailMaxTop(linesLen, bodyHeight int) int {
	maxTop := linesLen - bodyHeight
	if maxTop < 0 {
		return 0
	}
	return maxTop
}

func RenderDetailLines(lines []string, top, maxLines int) string {
	if len(lines) == 0 {
		return ""
	}
	if top < 0 {
		top = 0
	}
	if top > len(lines)-1 {
		top = len(lines) - 1
	}
	end := len(lines)
	if maxLines > 0 && top+maxLines < end {
		end = top + maxLines
	}
	return strings.Join(lines[top:end], "\n") + "\n"
}

// renderBody runs the saved markdown through glamour. When rendering
// fails the raw text is wrapped and shown instead.
func renderBody(body string, width int, wrap WrapFunc) []string {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if rendered, renderErr := renderer.Render(body); renderErr == nil {
			return strings.Split(strings.Trim(rendered, "\n"), "\n")
		}
	}
	out := make([]string, 0, 32)
	for _, paragraph := range strings.Split(body, "\n") {
		out = append(out, wrap(paragraph, width)...)
	}
	return out
}

func leftPadLines(lines []string, padding int) []string {
	if padding <= 0 || len(lines) == 0 {
		return lines
	}
	prefix := strings.Repeat(" ", padding)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = prefix + line
	}
	return out
}
