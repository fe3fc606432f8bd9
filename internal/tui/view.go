package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(m.viewHero())
	b.WriteString("\n")

	switch m.stage {
	case stageFormat:
		b.WriteString(m.viewFormat())
	case stagePick:
		b.WriteString(m.viewPick())
	case stageUploading:
		b.WriteString(m.viewUploading())
	case stageReview:
		b.WriteString(m.viewReview())
	}

	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(m.viewLegend())
	if m.helpVisible {
		b.WriteString("\n")
		b.WriteString(m.viewHelp())
	}
	return b.String()
}

func (m *model) viewHero() string {
	title := heroStyle.Render("ResumeLens")
	tagline := taglineStyle.Render(heroTagline)
	return title + "  " + tagline + "\n"
}

func (m *model) viewFormat() string {
	var b strings.Builder
	b.WriteString(sectionTitleStyle.Render("What format is your resume in?"))
	b.WriteString("\n\n")
	for i, choice := range formatChoices {
		cursor := "  "
		label := choice.Label()
		if i == m.formatCursor {
			cursor = cursorStyle.Render("> ")
			label = selectedChoiceStyle.Render(label)
		}
		b.WriteString(fmt.Sprintf("%s%s\n", cursor, label))
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("The choice only narrows the file picker; any file you name is sent as-is."))
	b.WriteString("\n")
	return b.String()
}

func (m *model) viewPick() string {
	var b strings.Builder
	b.WriteString(sectionTitleStyle.Render(fmt.Sprintf("Pick a %s resume", m.format.Label())))
	b.WriteString("\n\n")
	if m.errorMessage != "" {
		b.WriteString(errorStyle.Render("✗ " + m.errorMessage))
		b.WriteString("\n\n")
	}
	if m.composer.Focused() {
		b.WriteString(composerLabel(m.composerMode))
		b.WriteString("\n")
		b.WriteString(m.composer.View())
		b.WriteString("\n")
	} else {
		b.WriteString(m.picker.View())
		b.WriteString("\n")
		b.WriteString(m.viewContextSummary())
	}
	return b.String()
}

func (m *model) viewUploading() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" Uploading and parsing your resume…\n\n")
	b.WriteString(hintStyle.Render("  Large PDFs can take a little while to section."))
	b.WriteString("\n")
	return b.String()
}

func (m *model) viewReview() string {
	m.refreshPanesIfDirty()

	leftTitle := paneTitleStyle.Render("Resume blocks")
	rightTitle := paneTitleStyle.Render("Suggestions")
	if m.suggesting {
		rightTitle += " " + m.spinner.View()
	}
	if m.focus == paneBlocks {
		leftTitle = focusedPaneTitleStyle.Render("Resume blocks")
	} else {
		rightTitle = focusedPaneTitleStyle.Render("Suggestions")
		if m.suggesting {
			rightTitle += " " + m.spinner.View()
		}
	}

	gutter := strings.Repeat(" ", paneGutter)
	titles := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.layout.paneWidth).Render(leftTitle),
		gutter,
		rightTitle,
	)
	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.leftPane.View(), gutter, m.rightPane.View())

	var b strings.Builder
	if m.errorMessage != "" {
		b.WriteString(errorStyle.Render("✗ " + m.errorMessage))
		b.WriteString("\n")
	}
	b.WriteString(m.viewSessionMeter())
	b.WriteString("\n")
	b.WriteString(titles)
	b.WriteString("\n")
	b.WriteString(panes)
	b.WriteString("\n")
	if m.composer.Focused() {
		b.WriteString(composerLabel(m.composerMode))
		b.WriteString(" ")
		b.WriteString(m.composer.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (m *model) viewSessionMeter() string {
	got := len(m.suggestions)
	meter := fmt.Sprintf("%s · %d blocks · %d sections · %d/%d suggestions",
		strings.ToUpper(m.fileType), len(m.blocks), len(m.sections), got, len(m.blocks))
	if badge, ok := m.jobBadges[jobKindSuggest]; ok && badge.Status != jobStatusRunning {
		meter += fmt.Sprintf(" · last run %s", badge.Duration.Round(time.Millisecond))
	}
	return meterStyle.Render(meter)
}

func (m *model) viewContextSummary() string {
	var parts []string
	if m.jobDescription != "" {
		parts = append(parts, "job description set")
	}
	if m.instructions != "" {
		parts = append(parts, "custom instructions set")
	}
	if len(parts) == 0 {
		return hintStyle.Render("No tailoring context yet. Press d or c to add some.") + "\n"
	}
	return hintStyle.Render("Context: "+strings.Join(parts, ", ")) + "\n"
}

func (m *model) viewStatus() string {
	if m.uploading || m.suggesting {
		return statusStyle.Render(m.spinner.View() + " " + m.infoMessage)
	}
	return statusStyle.Render(m.infoMessage)
}

func (m *model) viewLegend() string {
	var keys string
	switch m.stage {
	case stageFormat:
		keys = "↑/↓ choose · enter confirm · q quit"
	case stagePick:
		keys = "↑/↓ browse · enter select · p path · d job desc · c instructions · esc start over"
	case stageUploading:
		keys = "ctrl+c quit"
	case stageReview:
		keys = "↑/↓ scroll · tab pane · s regenerate · d/c context · r start over · ? help"
	}
	return legendStyle.Render(keys)
}

func (m *model) viewHelp() string {
	lines := []string{
		"g/G        jump to top / bottom",
		"h/l        focus blocks / suggestions pane",
		"pgup/pgdn  page through the panes",
		"x          dismiss the error banner",
		"esc        blur an input, or start over",
	}
	var b strings.Builder
	b.WriteString(sectionTitleStyle.Render("Keys"))
	b.WriteString("\n")
	for _, line := range lines {
		b.WriteString(hintStyle.Render("  " + line))
		b.WriteString("\n")
	}
	if len(m.transcript) > 0 {
		b.WriteString(sectionTitleStyle.Render("Recent activity"))
		b.WriteString("\n")
		start := len(m.transcript) - 5
		if start < 0 {
			start = 0
		}
		for _, entry := range m.transcript[start:] {
			b.WriteString(hintStyle.Render(fmt.Sprintf("  [%s] %s", entry.Kind, entry.Content)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func composerLabel(mode composerMode) string {
	switch mode {
	case composerModeJobDesc:
		return sectionTitleStyle.Render("Job description")
	case composerModeInstructions:
		return sectionTitleStyle.Render("Custom instructions")
	default:
		return sectionTitleStyle.Render("Resume path")
	}
}

var (
	heroStyle             = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	taglineStyle          = lipgloss.NewStyle().Faint(true)
	sectionTitleStyle     = lipgloss.NewStyle().Bold(true)
	cursorStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	selectedChoiceStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	hintStyle             = lipgloss.NewStyle().Faint(true)
	errorStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	statusStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	legendStyle           = lipgloss.NewStyle().Faint(true)
	meterStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	paneTitleStyle        = lipgloss.NewStyle().Faint(true).Bold(true)
	focusedPaneTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	blockHeaderStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("110"))
	placeholderStyle      = lipgloss.NewStyle().Faint(true).Italic(true)
	focusTagStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
)
