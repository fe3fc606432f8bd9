package tui

type stage int

const (
	stageFormat stage = iota
	stagePick
	stageUploading
	stageReview
)

// format is the resume's source encoding, chosen before upload. It only
// narrows the file picker; a mismatched path is still uploaded as-is.
type format int

const (
	formatNone format = iota
	formatPDF
	formatLaTeX
)

func (f format) Label() string {
	switch f {
	case formatPDF:
		return "PDF"
	case formatLaTeX:
		return "LaTeX"
	default:
		return "none"
	}
}

func (f format) Extensions() []string {
	switch f {
	case formatPDF:
		return []string{".pdf"}
	case formatLaTeX:
		return []string{".tex", ".latex"}
	default:
		return nil
	}
}

var formatChoices = []format{formatPDF, formatLaTeX}

type focusPane int

const (
	paneBlocks focusPane = iota
	paneSuggestions
)

type composerMode int

const (
	composerModePath composerMode = iota
	composerModeJobDesc
	composerModeInstructions
)

const (
	composerPathPlaceholder         = "Drop a file onto the terminal or type a path, then press Enter…"
	composerJobDescPlaceholder      = "Paste the target job description…"
	composerInstructionsPlaceholder = "Add custom instructions for the reviewer…"
)

const (
	heroTagline = "Block-by-block resume review with ResumeLens."

	blockHeaderPrefix     = "▌ "
	suggestionPlaceholder = "Generating suggestion…"

	minPaneWidth  = 30
	paneGutter    = 2
	transcriptCap = 50
)

type transcriptEntry struct {
	Kind    string
	Content string
}
