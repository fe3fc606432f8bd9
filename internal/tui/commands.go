package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/csheth/resumelens/internal/preflight"
	"github.com/csheth/resumelens/internal/resumeapi"
)

const (
	uploadTimeout  = 2 * time.Minute
	suggestTimeout = 3 * time.Minute
)

type uploadResultMsg struct {
	session uuid.UUID
	report  preflight.Report
	result  *resumeapi.ParseResult
	err     error
}

type suggestResultMsg struct {
	session     uuid.UUID
	suggestions []resumeapi.Suggestion
	err         error
}

func uploadResumeJob(api resumeapi.Service, session uuid.UUID, path string, log zerolog.Logger) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, uploadTimeout)
		defer cancel()

		// Preflight findings are advisory; the server owns validation.
		report, perr := preflight.Inspect(path)
		if perr != nil {
			log.Warn().Str("path", path).Err(perr).Msg("preflight skipped")
		}

		result, err := api.Upload(ctx, path)
		if err != nil {
			return uploadResultMsg{session: session, report: report, err: err}, err
		}
		return uploadResultMsg{session: session, report: report, result: result}, nil
	}
}

func generateSuggestionsJob(api resumeapi.Service, session uuid.UUID, blocks []resumeapi.Block, jobDescription, instructions string) jobRunner {
	toSend := append([]resumeapi.Block(nil), blocks...)
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, suggestTimeout)
		defer cancel()
		suggestions, err := api.Suggest(ctx, toSend, jobDescription, instructions)
		if err != nil {
			return suggestResultMsg{session: session, err: err}, err
		}
		return suggestResultMsg{session: session, suggestions: suggestions}, nil
	}
}
