package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/csheth/resumelens/internal/resumeapi"
)

type recordingService struct {
	fakeService
	gotBlocks       []resumeapi.Block
	gotJobDesc      string
	gotInstructions string
}

func (r *recordingService) Suggest(ctx context.Context, blocks []resumeapi.Block, jobDescription, customInstructions string) ([]resumeapi.Suggestion, error) {
	r.gotBlocks = blocks
	r.gotJobDesc = jobDescription
	r.gotInstructions = customInstructions
	return r.suggestResult, r.suggestErr
}

func TestUploadJobTagsResultWithSession(t *testing.T) {
	session := uuid.New()
	api := fakeService{uploadResult: &resumeapi.ParseResult{FileType: "pdf"}}
	runner := uploadResumeJob(api, session, "/nonexistent/resume.pdf", zerolog.Nop())

	payload, err := runner(context.Background())
	if err != nil {
		t.Fatalf("upload job failed: %v", err)
	}
	msg, ok := payload.(uploadResultMsg)
	if !ok {
		t.Fatalf("unexpected payload type %T", payload)
	}
	if msg.session != session {
		t.Fatal("result not tagged with the issuing session")
	}
	if msg.result == nil || msg.result.FileType != "pdf" {
		t.Fatalf("parse result not carried through: %+v", msg.result)
	}
}

func TestUploadJobCarriesErrorInMessage(t *testing.T) {
	session := uuid.New()
	api := fakeService{uploadErr: errors.New("Only PDF and LaTeX files are supported.")}
	runner := uploadResumeJob(api, session, "/tmp/resume.pdf", zerolog.Nop())

	payload, err := runner(context.Background())
	if err == nil {
		t.Fatal("expected error from upload job")
	}
	msg := payload.(uploadResultMsg)
	if msg.err == nil || msg.err.Error() != "Only PDF and LaTeX files are supported." {
		t.Fatalf("error not carried in message: %v", msg.err)
	}
}

func TestSuggestJobSendsContextAndCopiesBlocks(t *testing.T) {
	session := uuid.New()
	api := &recordingService{}
	blocks := sampleBlocks()
	runner := generateSuggestionsJob(api, session, blocks, "SRE role", "be blunt")

	// Mutating the caller's slice after dispatch must not leak into the
	// request.
	blocks[0].Content = "mutated"

	payload, err := runner(context.Background())
	if err != nil {
		t.Fatalf("suggest job failed: %v", err)
	}
	if _, ok := payload.(suggestResultMsg); !ok {
		t.Fatalf("unexpected payload type %T", payload)
	}
	if api.gotJobDesc != "SRE role" || api.gotInstructions != "be blunt" {
		t.Fatalf("context fields not forwarded: %q %q", api.gotJobDesc, api.gotInstructions)
	}
	if api.gotBlocks[0].Content == "mutated" {
		t.Fatal("suggest job must send a copy of the blocks")
	}
}

func TestJobBusIssuesUniqueIDs(t *testing.T) {
	bus := newJobBus(zerolog.Nop())
	firstID := bus.nextID(jobKindUpload)
	secondID := bus.nextID(jobKindSuggest)
	if firstID == secondID {
		t.Fatalf("job ids must be unique: %q %q", firstID, secondID)
	}
}
