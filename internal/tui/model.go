package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/csheth/resumelens/internal/resumeapi"
)

// Config wires runtime options into the TUI program.
type Config struct {
	API      resumeapi.Service
	Logger   zerolog.Logger
	StartDir string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	composer := textinput.New()
	composer.Placeholder = composerPathPlaceholder
	composer.CharLimit = 0
	composer.Width = 70

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	picker := filepicker.New()
	picker.FileAllowed = true
	picker.DirAllowed = false
	picker.ShowHidden = false
	picker.AutoHeight = false
	picker.Height = 12
	if config.StartDir != "" {
		picker.CurrentDirectory = config.StartDir
	}

	layout := newPageLayout()
	left := viewport.New(layout.paneWidth, layout.paneHeight)
	left.MouseWheelEnabled = true
	right := viewport.New(layout.paneWidth, layout.paneHeight)
	right.MouseWheelEnabled = true

	return &model{
		config:       config,
		stage:        stageFormat,
		session:      uuid.New(),
		composer:     composer,
		composerMode: composerModePath,
		spinner:      spin,
		picker:       picker,
		leftPane:     left,
		rightPane:    right,
		layout:       layout,
		suggestions:  map[string]resumeapi.Suggestion{},
		jobBadges:    map[jobKind]jobSnapshot{},
		jobs:         newJobBus(config.Logger),
		infoMessage:  "Select a resume format to begin.",
	}
}

type model struct {
	config Config
	stage  stage

	composer     textinput.Model
	composerMode composerMode
	spinner      spinner.Model
	picker       filepicker.Model
	leftPane     viewport.Model
	rightPane    viewport.Model
	layout       pageLayout

	// session identifies one upload cycle. In-flight requests are never
	// cancelled; results carrying a stale session are dropped on arrival.
	session uuid.UUID

	format       format
	formatCursor int

	blocks      []resumeapi.Block
	fileType    string
	sections    []string
	suggestions map[string]resumeapi.Suggestion

	jobDescription string
	instructions   string

	uploading  bool
	suggesting bool
	focus      focusPane
	panesDirty bool

	errorMessage string
	infoMessage  string
	helpVisible  bool

	transcript []transcriptEntry
	jobBadges  map[jobKind]jobSnapshot
	jobs       *jobBus
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.uploading || m.suggesting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.stage != stageReview {
			return m, nil
		}
		var cmd tea.Cmd
		if m.focus == paneSuggestions {
			m.rightPane, cmd = m.rightPane.Update(msg)
			return m, cmd
		}
		m.leftPane, cmd = m.leftPane.Update(msg)
		m.syncPanes()
		return m, cmd
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.applyLayout()
		return m, nil
	case jobSignalMsg:
		m.jobBadges[msg.Snapshot.Kind] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		m.jobBadges[msg.Snapshot.Kind] = msg.Snapshot
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case uploadResultMsg:
		return m.handleUploadResult(msg)
	case suggestResultMsg:
		return m.handleSuggestResult(msg)
	}
	if m.stage == stagePick {
		// Directory reads and other picker-internal messages.
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleUploadResult(msg uploadResultMsg) (tea.Model, tea.Cmd) {
	if msg.session != m.session {
		return m, nil
	}
	m.uploading = false
	for _, warning := range msg.report.Warnings {
		m.appendTranscript("preflight", warning)
	}
	if msg.err != nil {
		m.stage = stagePick
		m.errorMessage = msg.err.Error()
		m.infoMessage = "Choose a file to retry. Press x to dismiss the error."
		m.appendTranscript("error", msg.err.Error())
		return m, nil
	}

	m.blocks = msg.result.Blocks
	m.fileType = msg.result.FileType
	m.sections = msg.result.SectionsFound
	m.suggestions = map[string]resumeapi.Suggestion{}
	m.stage = stageReview
	m.focus = paneBlocks
	m.errorMessage = ""
	m.leftPane.SetYOffset(0)
	m.rightPane.SetYOffset(0)
	m.markPanesDirty()
	m.infoMessage = fmt.Sprintf("Parsed %d block(s) across %d section(s).", len(m.blocks), len(m.sections))
	m.appendTranscript("upload", fmt.Sprintf("Parsed %s resume into %d blocks.", m.fileType, len(m.blocks)))
	return m, m.startSuggestions()
}

func (m *model) handleSuggestResult(msg suggestResultMsg) (tea.Model, tea.Cmd) {
	if msg.session != m.session {
		return m, nil
	}
	m.suggesting = false
	if msg.err != nil {
		// Logged only; blocks without a suggestion keep their placeholder.
		m.config.Logger.Error().Err(msg.err).Msg("suggestion generation failed")
		m.appendTranscript("error", "Suggestion generation failed; see the log file.")
		m.markPanesDirty()
		return m, nil
	}
	for _, suggestion := range msg.suggestions {
		m.suggestions[suggestion.BlockID] = suggestion
	}
	m.markPanesDirty()
	m.infoMessage = fmt.Sprintf("Received %d suggestion(s). Press s to regenerate with updated context.", len(msg.suggestions))
	m.appendTranscript("suggest", m.infoMessage)
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.composer.Focused() {
		return m.handleComposerKey(key)
	}
	switch m.stage {
	case stageFormat:
		return m.handleFormatKey(key)
	case stagePick:
		return m.handlePickKey(key)
	case stageUploading:
		// Busy: only quit is honored, and that is handled upstream.
		return m, nil
	case stageReview:
		return m.handleReviewKey(key)
	default:
		return m, nil
	}
}

func (m *model) handleFormatKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if m.formatCursor > 0 {
			m.formatCursor--
		}
	case "down", "j":
		if m.formatCursor < len(formatChoices)-1 {
			m.formatCursor++
		}
	case "enter":
		return m, m.selectFormat(formatChoices[m.formatCursor])
	case "?":
		m.helpVisible = !m.helpVisible
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

// selectFormat fixes the picker's extension filter and moves to file intake.
// No other state changes here.
func (m *model) selectFormat(f format) tea.Cmd {
	m.format = f
	m.picker.AllowedTypes = f.Extensions()
	m.picker.Height = m.layout.pickerHeight
	m.stage = stagePick
	m.infoMessage = fmt.Sprintf("%s selected. Pick a file below, or press p to type a path.", f.Label())
	return m.picker.Init()
}

func (m *model) handlePickKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "p":
		m.focusComposer(composerModePath, "")
		return m, textinput.Blink
	case "d":
		m.focusComposer(composerModeJobDesc, m.jobDescription)
		return m, textinput.Blink
	case "c":
		m.focusComposer(composerModeInstructions, m.instructions)
		return m, textinput.Blink
	case "x":
		m.errorMessage = ""
		return m, nil
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "esc":
		m.reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(key)
	if ok, path := m.picker.DidSelectFile(key); ok {
		return m, tea.Batch(cmd, m.startUpload(path))
	}
	return m, cmd
}

func (m *model) handleComposerKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.blurComposer()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.composer.Value())
		mode := m.composerMode
		m.blurComposer()
		switch mode {
		case composerModePath:
			if value == "" {
				m.infoMessage = "Type a path or press Esc to go back to the picker."
				return m, nil
			}
			return m, m.startUpload(value)
		case composerModeJobDesc:
			m.jobDescription = value
			m.infoMessage = "Job description stored. It is sent with the next suggestion request."
		case composerModeInstructions:
			m.instructions = value
			m.infoMessage = "Custom instructions stored. They are sent with the next suggestion request."
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(key)
	return m, cmd
}

func (m *model) handleReviewKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		m.scrollPanes(-1)
	case "down", "j":
		m.scrollPanes(1)
	case "pgup":
		m.scrollPanes(-m.leftPane.Height)
	case "pgdown":
		m.scrollPanes(m.leftPane.Height)
	case "g":
		m.scrollTo(0)
	case "G":
		m.scrollTo(m.leftPane.TotalLineCount())
	case "tab":
		if m.focus == paneBlocks {
			m.focus = paneSuggestions
		} else {
			m.focus = paneBlocks
		}
	case "h":
		m.focus = paneBlocks
	case "l":
		m.focus = paneSuggestions
	case "d":
		m.focusComposer(composerModeJobDesc, m.jobDescription)
		return m, textinput.Blink
	case "c":
		m.focusComposer(composerModeInstructions, m.instructions)
		return m, textinput.Blink
	case "s":
		if m.suggesting {
			m.infoMessage = "Suggestions already running."
			return m, nil
		}
		m.infoMessage = "Regenerating suggestions…"
		return m, m.startSuggestions()
	case "x":
		m.errorMessage = ""
	case "?":
		m.helpVisible = !m.helpVisible
	case "r", "esc":
		m.reset()
	}
	return m, nil
}

// startUpload kicks off one upload cycle under a fresh session ID. The busy
// flag stays set until the matching result message lands, success or not.
func (m *model) startUpload(path string) tea.Cmd {
	if m.config.API == nil {
		m.errorMessage = "No backend configured. Set base_url in the config file."
		return nil
	}
	m.session = uuid.New()
	m.uploading = true
	m.errorMessage = ""
	m.stage = stageUploading
	m.infoMessage = fmt.Sprintf("Uploading %s…", filepath.Base(path))
	m.appendTranscript("upload", fmt.Sprintf("Uploading %s.", filepath.Base(path)))
	return tea.Batch(
		m.spinner.Tick,
		m.jobs.Start(jobKindUpload, uploadResumeJob(m.config.API, m.session, path, m.config.Logger)),
	)
}

func (m *model) startSuggestions() tea.Cmd {
	if m.config.API == nil || len(m.blocks) == 0 {
		return nil
	}
	m.suggesting = true
	m.markPanesDirty()
	return tea.Batch(
		m.spinner.Tick,
		m.jobs.Start(jobKindSuggest,
			generateSuggestionsJob(m.config.API, m.session, m.blocks, m.jobDescription, m.instructions)),
	)
}

// reset returns the view to its initial state and rotates the session ID so
// a late response from an outstanding request cannot touch the fresh state.
func (m *model) reset() {
	m.session = uuid.New()
	m.stage = stageFormat
	m.format = formatNone
	m.formatCursor = 0
	m.blocks = nil
	m.fileType = ""
	m.sections = nil
	m.suggestions = map[string]resumeapi.Suggestion{}
	m.jobDescription = ""
	m.instructions = ""
	m.uploading = false
	m.suggesting = false
	m.errorMessage = ""
	m.focus = paneBlocks
	m.blurComposer()
	m.leftPane.SetContent("")
	m.rightPane.SetContent("")
	m.leftPane.SetYOffset(0)
	m.rightPane.SetYOffset(0)
	m.markPanesDirty()
	m.infoMessage = "Select a resume format to begin."
}

func (m *model) focusComposer(mode composerMode, prefill string) {
	m.composerMode = mode
	switch mode {
	case composerModePath:
		m.composer.Placeholder = composerPathPlaceholder
	case composerModeJobDesc:
		m.composer.Placeholder = composerJobDescPlaceholder
	case composerModeInstructions:
		m.composer.Placeholder = composerInstructionsPlaceholder
	}
	m.composer.SetValue(prefill)
	m.composer.CursorEnd()
	m.composer.Focus()
}

func (m *model) blurComposer() {
	m.composer.SetValue("")
	m.composer.Blur()
	m.composerMode = composerModePath
	m.composer.Placeholder = composerPathPlaceholder
}

// scrollPanes moves the blocks pane and mirrors its offset onto the
// suggestions pane. With the right pane focused only that pane moves; the
// mirror is strictly one-directional.
func (m *model) scrollPanes(delta int) {
	if m.focus == paneSuggestions {
		m.rightPane.SetYOffset(m.rightPane.YOffset + delta)
		return
	}
	m.leftPane.SetYOffset(m.leftPane.YOffset + delta)
	m.syncPanes()
}

func (m *model) scrollTo(offset int) {
	if m.focus == paneSuggestions {
		m.rightPane.SetYOffset(offset)
		return
	}
	m.leftPane.SetYOffset(offset)
	m.syncPanes()
}

func (m *model) syncPanes() {
	m.rightPane.SetYOffset(m.leftPane.YOffset)
}

func (m *model) applyLayout() {
	m.leftPane.Width = m.layout.paneWidth
	m.leftPane.Height = m.layout.paneHeight
	m.rightPane.Width = m.layout.paneWidth
	m.rightPane.Height = m.layout.paneHeight
	m.picker.Height = m.layout.pickerHeight
	m.composer.Width = m.layout.composerWidth
	m.markPanesDirty()
}

func (m *model) markPanesDirty() {
	m.panesDirty = true
}

func (m *model) refreshPanesIfDirty() {
	if m.panesDirty {
		m.refreshPanes()
	}
}

func (m *model) refreshPanes() {
	m.panesDirty = false
	left, right := m.buildPaneContent()
	m.leftPane.SetContent(left)
	m.rightPane.SetContent(right)
	m.syncPanes()
}

func (m *model) appendTranscript(kind, content string) {
	m.transcript = append(m.transcript, transcriptEntry{Kind: kind, Content: content})
	if len(m.transcript) > transcriptCap {
		m.transcript = m.transcript[len(m.transcript)-transcriptCap:]
	}
}
