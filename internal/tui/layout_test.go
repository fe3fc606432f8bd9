package tui

import (
	"strings"
	"testing"
)

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name         string
		width        int
		height       int
		paneWidth    int
		paneHeight   int
		pickerHeight int
	}{
		{name: "narrow", width: 80, height: 24, paneWidth: 39, paneHeight: 16, pickerHeight: 12},
		{name: "wide", width: 200, height: 48, paneWidth: 99, paneHeight: 40, pickerHeight: 36},
		{name: "tiny clamps to minimums", width: 20, height: 10, paneWidth: 30, paneHeight: 8, pickerHeight: 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.paneWidth != tc.paneWidth {
				t.Fatalf("pane width mismatch: got %d want %d", layout.paneWidth, tc.paneWidth)
			}
			if layout.paneHeight != tc.paneHeight {
				t.Fatalf("pane height mismatch: got %d want %d", layout.paneHeight, tc.paneHeight)
			}
			if layout.pickerHeight != tc.pickerHeight {
				t.Fatalf("picker height mismatch: got %d want %d", layout.pickerHeight, tc.pickerHeight)
			}
		})
	}
}

func TestPanePairsSharePadding(t *testing.T) {
	blockCell := []string{"▌ Experience", "one", "two", "three"}
	suggestionCell := []string{"short"}

	padded := padTo(suggestionCell, len(blockCell))
	if len(padded) != 4 {
		t.Fatalf("padTo did not extend cell: %d", len(padded))
	}
	for _, line := range padded[1:] {
		if line != "" {
			t.Fatalf("padding lines must be blank, got %q", line)
		}
	}
}

func TestRenderBlockCellWrapsContent(t *testing.T) {
	content := strings.Repeat("delivered measurable outcomes ", 6)
	cell := renderBlockCell("Experience", "Acme", content, 24)
	for i, line := range splitLinesPreserve(cell) {
		if i == 0 {
			continue
		}
		if len([]rune(line)) > 24 {
			t.Fatalf("line %d exceeds wrap width: %q", i, line)
		}
	}
}
