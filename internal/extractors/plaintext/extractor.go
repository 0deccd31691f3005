// Package plaintext extracts text from plain text files.
package plaintext

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Title guess bounds: a candidate line shorter than minTitleLen is likely a
// label, longer than maxTitleLen is likely body text.
const (
	minTitleLen    = 10
	maxTitleLen    = 200
	titleScanLines = 10
)

// Extractor handles plain text files. It is also the fallback for files with
// no recognised extension.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the extractor.
func (e *Extractor) Name() string {
	return "plaintext"
}

// CanExtract reports whether this extractor handles the given filename.
func (e *Extractor) CanExtract(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".text", "":
		return true
	default:
		return false
	}
}

// Extract returns a title guess and the full text.
func (e *Extractor) Extract(raw []byte) (string, string, error) {
	if !utf8.Valid(raw) {
		return "", "", fmt.Errorf("%w: content is not valid UTF-8 text", domain.ErrExtraction)
	}

	text := string(raw)
	return GuessTitle(text), text, nil
}

// GuessTitle returns the first line in the opening lines of the text that
// looks like a title, or empty when nothing qualifies.
func GuessTitle(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > titleScanLines {
		lines = lines[:titleScanLines]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) >= minTitleLen && len(line) <= maxTitleLen {
			return line
		}
	}
	return ""
}
