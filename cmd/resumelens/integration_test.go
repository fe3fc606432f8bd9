package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/csheth/resumelens/internal/tuitest"
)

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/resume_beta/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			http.Error(w, `{"detail":"bad multipart"}`, http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"file_type": "latex",
			"blocks": []map[string]any{
				{"section": "Experience", "title": "Acme Corp", "content": "Led the platform team.", "block_index": 0},
				{"section": "Education", "title": "", "content": "BSc Computer Science.", "block_index": 0},
			},
			"total_blocks":   2,
			"sections_found": []string{"Experience", "Education"},
		})
	})
	mux.HandleFunc("/resume_beta/suggestions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"suggestions": []map[string]any{
				{"block_id": "Experience_0", "suggestion": "Add quantified impact to the platform bullet.", "improvement_focus": "Impact"},
			},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestResumeLensUploadToReviewFlow(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	fixture := filepath.Join(cmdDir, "testdata", "resume_fixture.tex")
	if _, err := os.Stat(fixture); err != nil {
		t.Fatalf("fixture missing: %v", err)
	}

	backend := fakeBackend(t)
	binary := buildBinary(t, cmdDir)
	tmp := t.TempDir()

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{
			binary,
			"-no-alt-screen",
			"-base-url", backend.URL,
			"-config", filepath.Join(tmp, "config.toml"),
			"-dir", cmdDir,
		},
		Dir: cmdDir,
		Env: []string{"RESUMELENS_LOG_FILE=" + filepath.Join(tmp, "resumelens.log")},
		Script: []tuitest.Keystroke{
			{After: time.Second, Send: tuitest.KeyDown}, // choose LaTeX
			{After: 200 * time.Millisecond, Send: tuitest.KeyEnter},
			{After: 500 * time.Millisecond, Send: []byte("p")},
			{After: 200 * time.Millisecond, Send: []byte(fixture)},
			{After: 200 * time.Millisecond, Send: tuitest.KeyEnter},
			{After: 2 * time.Second, Send: tuitest.KeyCtrlC},
		},
		Timeout:        15 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if !rec.AnyFrameContains("What format is your resume in?") {
		t.Fatal("format prompt never rendered")
	}
	if !rec.AnyFrameContains("Resume blocks") {
		t.Fatal("review panes never rendered")
	}
	if !rec.AnyFrameContains("Experience") {
		t.Fatal("parsed block headers never rendered")
	}
	if !rec.AnyFrameContains("Add quantified impact to the platform bullet.") {
		t.Fatal("suggestion text never rendered")
	}
}

func TestResumeLensSurfacesUploadError(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	fixture := filepath.Join(cmdDir, "testdata", "resume_fixture.tex")

	mux := http.NewServeMux()
	mux.HandleFunc("/resume_beta/upload", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Only PDF and LaTeX files are supported."}`))
	})
	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	binary := buildBinary(t, cmdDir)
	tmp := t.TempDir()

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{
			binary,
			"-no-alt-screen",
			"-base-url", backend.URL,
			"-config", filepath.Join(tmp, "config.toml"),
			"-dir", cmdDir,
		},
		Dir: cmdDir,
		Env: []string{"RESUMELENS_LOG_FILE=" + filepath.Join(tmp, "resumelens.log")},
		Script: []tuitest.Keystroke{
			{After: time.Second, Send: tuitest.KeyEnter}, // PDF is preselected
			{After: 500 * time.Millisecond, Send: []byte("p")},
			{After: 200 * time.Millisecond, Send: []byte(fixture)},
			{After: 200 * time.Millisecond, Send: tuitest.KeyEnter},
			{After: 2 * time.Second, Send: tuitest.KeyCtrlC},
		},
		Timeout:        15 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if !rec.AnyFrameContains("Only PDF and LaTeX files are supported.") {
		t.Fatal("server detail never surfaced")
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	tmp := t.TempDir()
	name := "resumelens-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(tmp, name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
