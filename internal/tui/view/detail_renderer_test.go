package view

import (
	"strings"
	"testing"

	"github.com/readlater/pocket-cli/internal/pocket"
)

func passthroughWrap(s string, _ int) []string { return []string{s} }

func TestDetailLines_MetaWithMargin(t *testing.T) {
	item := pocket.Item{
		ItemID:        "1",
		ResolvedTitle: "Saved Item",
		ResolvedURL:   "https://example.com/a",
		TimeAdded:     "1754733600",
		Favorite:      "1",
	}
	lines := DetailLines(item, "", 60, 4, passthroughWrap)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "    Saved Item") {
		t.Fatalf("expected title with margin, got %q", joined)
	}
	if !strings.Contains(joined, "Favorite: yes") {
		t.Fatalf("expected favorite flag, got %q", joined)
	}
	if !strings.Contains(joined, "URL: https://example.com/a") {
		t.Fatalf("expected url line, got %q", joined)
	}
}

func TestDetailLines_RendersBody(t *testing.T) {
	item := pocket.Item{ItemID: "1", ResolvedTitle: "Saved Item"}
	lines := DetailLines(item, "Some saved words here.", 60, 0, passthroughWrap)
	joined := stripANSI(strings.Join(lines, "\n"))
	if !strings.Contains(joined, "saved words") {
		t.Fatalf("expected body content, got %q", joined)
	}
}

func TestDetailMaxTop(t *testing.T) {
	if got := DetailMaxTop(10, 4); got != 6 {
		t.Fatalf("DetailMaxTop(10, 4) = %d, want 6", got)
	}
	if got := DetailMaxTop(3, 10); got != 0 {
		t.Fatalf("DetailMaxTop(3, 10) = %d, want 0", got)
	}
}

func TestRenderDetailLines_Clamps(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	if got := RenderDetailLines(lines, -5, 2); got != "a\nb\n" {
		t.Fatalf("unexpected clamped render: %q", got)
	}
	if got := RenderDetailLines(lines, 10, 2); got != "d\n" {
		t.Fatalf("unexpected tail render: %q", got)
	}
	if got := RenderDetailLines(nil, 0, 2); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
}
