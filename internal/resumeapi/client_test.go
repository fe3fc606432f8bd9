package resumeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := New(Config{
		BaseURL: srv.URL,
		Token:   "test-token",
		Logger:  zerolog.Nop(),
	})
	return client, srv
}

func TestUploadSendsMultipartFileWithBearer(t *testing.T) {
	var gotAuth, gotField, gotName string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/resume_beta/upload", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		for field, headers := range r.MultipartForm.File {
			gotField = field
			gotName = headers[0].Filename
		}

		json.NewEncoder(w).Encode(ParseResult{
			FileType:      "pdf",
			Blocks:        []Block{{Section: "Experience", Title: "Engineer", Content: "Built things", BlockIndex: 0}},
			TotalBlocks:   1,
			SectionsFound: []string{"Experience"},
		})
	}))

	path := writeFixture(t, "resume.pdf", "%PDF-1.4 fake")
	result, err := client.Upload(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "file", gotField)
	assert.Equal(t, "resume.pdf", gotName)
	require.Len(t, result.Blocks, 1)
	assert.Equal(t, "Experience_0", result.Blocks[0].ID())
	assert.Equal(t, "pdf", result.FileType)
}

func TestUploadSurfacesDetailVerbatim(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"detail": "Could not parse resume. Please check the file format.",
		})
	}))

	path := writeFixture(t, "resume.tex", `\documentclass{article}`)
	_, err := client.Upload(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, "Could not parse resume. Please check the file format.", err.Error())
}

func TestUploadFallsBackToDefaultMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("unexpected plain-text failure"))
	}))

	path := writeFixture(t, "resume.pdf", "%PDF-1.4 fake")
	_, err := client.Upload(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, defaultUploadError, err.Error())
}

func TestSuggestSendsBlocksAndContextFields(t *testing.T) {
	var got struct {
		Blocks             []Block `json:"blocks"`
		JobDescription     string  `json:"job_description"`
		CustomInstructions string  `json:"custom_instructions"`
	}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/resume_beta/suggestions", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(map[string][]Suggestion{
			"suggestions": {
				{BlockID: "Experience_0", Suggestion: "Add metrics", ImprovementFocus: "Impact"},
			},
		})
	}))

	blocks := []Block{{Section: "Experience", Title: "Engineer", Content: "Built things", BlockIndex: 0}}
	suggestions, err := client.Suggest(context.Background(), blocks, "Senior Go role", "be terse")
	require.NoError(t, err)

	assert.Equal(t, blocks, got.Blocks)
	assert.Equal(t, "Senior Go role", got.JobDescription)
	assert.Equal(t, "be terse", got.CustomInstructions)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Add metrics", suggestions[0].Suggestion)
	assert.Equal(t, "Impact", suggestions[0].ImprovementFocus)
}

func TestSuggestErrorUsesDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"detail": "LLM provider unavailable"})
	}))

	_, err := client.Suggest(context.Background(), nil, "", "")
	require.Error(t, err)
	assert.Equal(t, "LLM provider unavailable", err.Error())
}

func TestBlockIDPairsSectionAndIndex(t *testing.T) {
	b := Block{Section: "Education", BlockIndex: 2}
	assert.Equal(t, "Education_2", b.ID())
}
