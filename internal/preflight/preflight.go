// Package preflight inspects a resume file locally before upload. Findings are
// advisory: the server owns validation, so nothing reported here blocks the
// upload attempt.
package preflight

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// MaxUploadBytes mirrors the backend's request size cap.
const MaxUploadBytes = 10 * 1024 * 1024

const sniffLimit = 1 << 20

// Kind classifies what the file content looks like, independent of extension.
type Kind string

const (
	KindPDF     Kind = "pdf"
	KindLaTeX   Kind = "latex"
	KindUnknown Kind = "unknown"
)

// Report summarizes one local inspection.
type Report struct {
	Path     string
	Size     int64
	Kind     Kind
	Pages    int
	Warnings []string
}

// Inspect stats and sniffs the file at path. It returns an error only when the
// file cannot be read at all; content-level problems land in Warnings.
func Inspect(path string) (Report, error) {
	report := Report{Path: path, Kind: KindUnknown}

	info, err := os.Stat(path)
	if err != nil {
		return report, fmt.Errorf("stat resume: %w", err)
	}
	report.Size = info.Size()
	if report.Size == 0 {
		report.Warnings = append(report.Warnings, "file is empty")
		return report, nil
	}
	if report.Size > MaxUploadBytes {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("file is %d bytes; the server rejects uploads over %dMB", report.Size, MaxUploadBytes/1024/1024))
	}

	head, err := readHead(path)
	if err != nil {
		return report, err
	}

	switch {
	case bytes.HasPrefix(head, []byte("%PDF-")):
		report.Kind = KindPDF
		inspectPDF(path, &report)
	case looksLikeLaTeX(head):
		report.Kind = KindLaTeX
	default:
		report.Warnings = append(report.Warnings, "content looks like neither PDF nor LaTeX")
	}
	return report, nil
}

func readHead(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}
	defer file.Close()

	buf := make([]byte, sniffLimit)
	n, _ := file.Read(buf)
	return buf[:n], nil
}

func inspectPDF(path string, report *Report) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("pdf could not be parsed locally: %v", r))
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("pdf could not be parsed locally: %v", err))
		return
	}
	defer file.Close()
	report.Pages = reader.NumPage()
	if report.Pages == 0 {
		report.Warnings = append(report.Warnings, "pdf has no pages")
	}
}

func looksLikeLaTeX(head []byte) bool {
	return bytes.Contains(head, []byte(`\documentclass`)) ||
		bytes.Contains(head, []byte(`\begin{document}`))
}
