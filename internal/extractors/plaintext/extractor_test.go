package plaintext

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.Equal(t, "plaintext", extractor.Name())
}

func TestCanExtract(t *testing.T) {
	extractor := New()

	assert.True(t, extractor.CanExtract("paper.txt"))
	assert.True(t, extractor.CanExtract("paper.text"))
	assert.True(t, extractor.CanExtract("PAPER.TXT"))
	assert.True(t, extractor.CanExtract("paper")) // no extension falls through here

	assert.False(t, extractor.CanExtract("paper.md"))
	assert.False(t, extractor.CanExtract("paper.pdf"))
}

func TestExtract_Success(t *testing.T) {
	extractor := New()

	input := "Predator-Prey Dynamics in Closed Systems\n\nThe full body text follows."
	title, text, err := extractor.Extract([]byte(input))

	require.NoError(t, err)
	assert.Equal(t, "Predator-Prey Dynamics in Closed Systems", title)
	assert.Equal(t, input, text)
}

func TestExtract_InvalidUTF8(t *testing.T) {
	extractor := New()

	_, _, err := extractor.Extract([]byte{0xff, 0xfe, 0xfd})
	assert.True(t, errors.Is(err, domain.ErrExtraction))
}

func TestGuessTitle(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "first qualifying line",
			text:     "A Study of Auction Mechanisms\n\nBody text.",
			expected: "A Study of Auction Mechanisms",
		},
		{
			name:     "skips short label lines",
			text:     "DRAFT\nv2\nMarket Clearing Under Constraints\nBody.",
			expected: "Market Clearing Under Constraints",
		},
		{
			name:     "skips overlong lines",
			text:     strings.Repeat("x", 201) + "\nA Reasonable Title Here\nBody.",
			expected: "A Reasonable Title Here",
		},
		{
			name:     "trims surrounding whitespace",
			text:     "   Whitespace Padded Title   \nBody.",
			expected: "Whitespace Padded Title",
		},
		{
			name:     "boundary lengths qualify",
			text:     strings.Repeat("a", 10),
			expected: strings.Repeat("a", 10),
		},
		{
			name:     "nothing qualifies",
			text:     "one\ntwo\nthree",
			expected: "",
		},
		{
			name:     "only scans the opening lines",
			text:     strings.Repeat("x\n", 10) + "A Title Past the Scan Window",
			expected: "",
		},
		{
			name:     "empty text",
			text:     "",
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GuessTitle(tc.text))
		})
	}
}
