package markdown

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.Equal(t, "markdown", extractor.Name())
}

func TestCanExtract(t *testing.T) {
	extractor := New()

	assert.True(t, extractor.CanExtract("paper.md"))
	assert.True(t, extractor.CanExtract("paper.markdown"))
	assert.True(t, extractor.CanExtract("paper.mdown"))
	assert.True(t, extractor.CanExtract("PAPER.MD"))

	assert.False(t, extractor.CanExtract("paper.txt"))
	assert.False(t, extractor.CanExtract("paper.pdf"))
	assert.False(t, extractor.CanExtract("paper"))
}

func TestExtract_Success(t *testing.T) {
	extractor := New()

	title, text, err := extractor.Extract([]byte("# Population Cycles\n\nPredator and prey oscillate."))
	require.NoError(t, err)
	assert.Equal(t, "Population Cycles", title)
	assert.Contains(t, text, "Predator and prey oscillate.")
	assert.NotContains(t, text, "#")
}

func TestExtract_InvalidUTF8(t *testing.T) {
	extractor := New()

	_, _, err := extractor.Extract([]byte{0xff, 0xfe, 0xfd})
	assert.True(t, errors.Is(err, domain.ErrExtraction))
}

func TestExtract_TitleExtraction(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		expectedTitle string
	}{
		{
			name:          "H1 heading",
			content:       "# My Document\n\nContent here.",
			expectedTitle: "My Document",
		},
		{
			name:          "H1 with extra spaces",
			content:       "#   Spaced Title   \n\nContent",
			expectedTitle: "Spaced Title",
		},
		{
			name:          "H1 below other lines",
			content:       "Preamble\n\n# Late Heading\n\nContent",
			expectedTitle: "Late Heading",
		},
		{
			name:          "no heading - fallback to first title-like line",
			content:       "A sentence long enough to read as a title.\n\nBody follows.",
			expectedTitle: "A sentence long enough to read as a title.",
		},
		{
			name:          "H2 only - fallback to first title-like line",
			content:       "## Second Level\n\nNo top-level heading anywhere here.",
			expectedTitle: "Second Level",
		},
	}

	extractor := New()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			title, _, err := extractor.Extract([]byte(tc.content))
			require.NoError(t, err)
			assert.Equal(t, tc.expectedTitle, title)
		})
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "headings removed",
			input:    "# Title\n## Subtitle\n### Third",
			expected: "Title\nSubtitle\nThird",
		},
		{
			name:     "bold removed",
			input:    "This is **bold** text",
			expected: "This is bold text",
		},
		{
			name:     "links converted",
			input:    "Click [here](https://example.com)",
			expected: "Click here",
		},
		{
			name:     "images removed",
			input:    "See ![alt text](image.png) here",
			expected: "See  here",
		},
		{
			name:     "code blocks removed",
			input:    "Before\n```go\ncode here\n```\nAfter",
			expected: "Before\n\nAfter",
		},
		{
			name:     "inline code removed",
			input:    "Use `code` here",
			expected: "Use  here",
		},
		{
			name:     "blockquotes cleaned",
			input:    "> This is a quote",
			expected: "This is a quote",
		},
		{
			name:     "list markers removed",
			input:    "- Item 1\n- Item 2",
			expected: "Item 1\nItem 2",
		},
		{
			name:     "numbered list markers removed",
			input:    "1. First\n2. Second",
			expected: "First\nSecond",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := stripMarkdown(tc.input)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestExtract_ComplexMarkdown(t *testing.T) {
	extractor := New()

	complexMarkdown := `# Main Title

## Abstract

This is a paragraph with **bold** and emphasised text.

- Finding 1
- Finding 2

` + "```go" + `
func main() {
    fmt.Println("Hello, World!")
}
` + "```" + `

[Link](https://example.com)

![Figure](figure.png)
`

	title, text, err := extractor.Extract([]byte(complexMarkdown))
	require.NoError(t, err)

	assert.Equal(t, "Main Title", title)
	assert.NotContains(t, text, "**bold**")
	assert.Contains(t, text, "bold")
	assert.NotContains(t, text, "[Link]")
	assert.Contains(t, text, "Link")
	assert.NotContains(t, text, "```")
}
