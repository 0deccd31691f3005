// Package chunker provides overlapping text-window chunking for ingestion.
package chunker

import (
	"fmt"
	"strings"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
)

// DefaultChunkSize is the default target chunk size in characters.
const DefaultChunkSize = 2000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// sentenceEndings mark preferred break points near a chunk boundary.
var sentenceEndings = []string{". ", ".\n", "! ", "!\n", "? ", "?\n"}

// Chunker splits extracted text into ordered, overlapping windows.
// Chunk boundaries prefer sentence endings so cross-boundary context survives
// downstream extraction.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave room for forward progress
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Chunk splits text into ordered overlapping windows. The last overlap
// characters of chunk i reappear at the start of chunk i+1. Text shorter than
// one chunk yields exactly one chunk; empty or whitespace-only text fails
// with domain.ErrEmptyInput.
func (c *Chunker) Chunk(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no extractable text", domain.ErrEmptyInput)
	}

	if len(text) <= c.chunkSize {
		return []string{strings.TrimSpace(text)}, nil
	}

	estimated := (len(text) / (c.chunkSize - c.overlap)) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < len(text) {
		end := start + c.chunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = breakAtSentence(text, start, end)
		}

		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(text) {
			break
		}

		next := end - c.overlap
		if next <= start {
			// Forward progress regardless of overlap vs boundary placement
			next = start + 1
		}
		start = next
	}

	return chunks, nil
}

// breakAtSentence moves end back to the nearest sentence ending inside the
// window, when one exists past the window midpoint.
func breakAtSentence(text string, start, end int) int {
	for _, punct := range sentenceEndings {
		last := strings.LastIndex(text[start:end], punct)
		if last == -1 {
			continue
		}
		candidate := start + last + len(punct)
		if candidate > start+(end-start)/2 {
			return candidate
		}
	}
	return end
}
