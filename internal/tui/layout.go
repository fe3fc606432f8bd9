package tui

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/resumelens/internal/resumeapi"
)

// pageLayout derives every pane dimension from the terminal size. The two
// review panes always share one width so their line offsets stay comparable.
type pageLayout struct {
	width  int
	height int

	paneWidth     int
	paneHeight    int
	pickerHeight  int
	composerWidth int
}

func newPageLayout() pageLayout {
	l := pageLayout{}
	l.Update(100, 32)
	return l
}

func (l *pageLayout) Update(width, height int) {
	if width < 2*minPaneWidth+paneGutter {
		width = 2*minPaneWidth + paneGutter
	}
	if height < 16 {
		height = 16
	}
	l.width = width
	l.height = height

	l.paneWidth = (width - paneGutter) / 2
	// Header, pane titles, status line, key legend.
	l.paneHeight = height - 8
	if l.paneHeight < 5 {
		l.paneHeight = 5
	}
	l.pickerHeight = height - 12
	if l.pickerHeight < 6 {
		l.pickerHeight = 6
	}
	l.composerWidth = width - 6
	if l.composerWidth < 20 {
		l.composerWidth = 20
	}
}

func (l pageLayout) paneContentWidth() int {
	w := l.paneWidth - 2
	if w < 10 {
		w = 10
	}
	return w
}

// buildPaneContent renders one cell per block in each pane and pads the
// shorter cell of every pair, so that row N of the left pane always faces
// row N of the right pane at equal scroll offsets.
func (m *model) buildPaneContent() (string, string) {
	width := m.layout.paneContentWidth()
	var left, right []string
	for _, block := range m.blocks {
		blockCell := splitLinesPreserve(renderBlockCell(block.Section, block.Title, block.Content, width))
		suggestionCell := splitLinesPreserve(m.renderSuggestionCell(block, width))
		rows := len(blockCell)
		if len(suggestionCell) > rows {
			rows = len(suggestionCell)
		}
		left = append(left, padTo(blockCell, rows)...)
		right = append(right, padTo(suggestionCell, rows)...)
		left = append(left, "")
		right = append(right, "")
	}
	return strings.Join(left, "\n"), strings.Join(right, "\n")
}

func renderBlockCell(section, title, content string, width int) string {
	header := blockHeaderPrefix + section
	if title != "" {
		header += " · " + title
	}
	body := wordwrap.String(content, width)
	return blockHeaderStyle.Render(header) + "\n" + body
}

func (m *model) renderSuggestionCell(block resumeapi.Block, width int) string {
	suggestion, ok := m.suggestions[block.ID()]
	if !ok {
		// The placeholder never changes, even after a failed request.
		return placeholderStyle.Render(suggestionPlaceholder)
	}
	cell := wordwrap.String(suggestion.Suggestion, width)
	if suggestion.ImprovementFocus != "" {
		cell += "\n" + focusTagStyle.Render("Focus: "+suggestion.ImprovementFocus)
	}
	return cell
}

func splitLinesPreserve(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func padTo(lines []string, n int) []string {
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines
}
