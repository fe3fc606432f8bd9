package resumeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	uploadPath      = "/resume_beta/upload"
	suggestionsPath = "/resume_beta/suggestions"

	defaultHTTPTimeout = 90 * time.Second

	// Shown when the backend omits the detail field from an error body.
	defaultUploadError     = "Resume upload failed. Please try again."
	defaultSuggestionError = "Suggestion generation failed."
)

// Block is one titled segment of the parsed resume within a named section.
type Block struct {
	Section    string `json:"section"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	BlockIndex int    `json:"block_index"`
}

// ID returns the block identity used to key suggestions. The backend builds
// the same "{section}_{block_index}" value on its side.
func (b Block) ID() string {
	return fmt.Sprintf("%s_%d", b.Section, b.BlockIndex)
}

// Suggestion is one AI-produced improvement note tied to a block.
type Suggestion struct {
	BlockID          string `json:"block_id"`
	Suggestion       string `json:"suggestion"`
	ImprovementFocus string `json:"improvement_focus"`
}

// ParseResult is the upload endpoint's success payload.
type ParseResult struct {
	FileType      string   `json:"file_type"`
	Blocks        []Block  `json:"blocks"`
	TotalBlocks   int      `json:"total_blocks"`
	SectionsFound []string `json:"sections_found"`
}

// Service is the surface the TUI depends on; Client is the HTTP implementation.
type Service interface {
	Upload(ctx context.Context, path string) (*ParseResult, error)
	Suggest(ctx context.Context, blocks []Block, jobDescription, customInstructions string) ([]Suggestion, error)
}

// Config describes how to reach the resume analysis backend.
type Config struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

type Client struct {
	base   string
	token  string
	client *http.Client
	log    zerolog.Logger
}

func New(cfg Config) *Client {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		token:  cfg.Token,
		client: client,
		log:    cfg.Logger,
	}
}

// Upload sends the file at path as a multipart form and returns the parsed
// block list. The format chosen in the UI never constrains this call; any
// readable file is submitted as-is.
func (c *Client) Upload(ctx context.Context, path string) (*ParseResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+uploadPath, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		err := decodeAPIError(resp.Body, defaultUploadError)
		c.log.Error().Str("path", path).Int("status", resp.StatusCode).Err(err).Msg("upload rejected")
		return nil, err
	}

	var result ParseResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	c.log.Info().Str("file_type", result.FileType).Int("blocks", len(result.Blocks)).Msg("resume parsed")
	return &result, nil
}

// Suggest submits the full block list plus the two optional free-text fields
// and returns one suggestion per block the backend chose to annotate.
func (c *Client) Suggest(ctx context.Context, blocks []Block, jobDescription, customInstructions string) ([]Suggestion, error) {
	payload := struct {
		Blocks             []Block `json:"blocks"`
		JobDescription     string  `json:"job_description"`
		CustomInstructions string  `json:"custom_instructions"`
	}{
		Blocks:             blocks,
		JobDescription:     jobDescription,
		CustomInstructions: customInstructions,
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+suggestionsPath, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		err := decodeAPIError(resp.Body, defaultSuggestionError)
		c.log.Error().Int("status", resp.StatusCode).Err(err).Msg("suggestions rejected")
		return nil, err
	}

	var parsed struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode suggestions response: %w", err)
	}
	c.log.Info().Int("suggestions", len(parsed.Suggestions)).Msg("suggestions generated")
	return parsed.Suggestions, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// apiError keeps the backend's detail text verbatim so the UI can surface it
// without decoration.
type apiError struct {
	Detail string
}

func (e *apiError) Error() string {
	return e.Detail
}

func decodeAPIError(body io.Reader, fallback string) error {
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && strings.TrimSpace(payload.Detail) != "" {
		return &apiError{Detail: payload.Detail}
	}
	return &apiError{Detail: fallback}
}
