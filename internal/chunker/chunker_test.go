package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
)

func TestChunker_Chunk(t *testing.T) {
	t.Run("rejects empty input", func(t *testing.T) {
		c := New()

		_, err := c.Chunk("")
		assert.True(t, errors.Is(err, domain.ErrEmptyInput))

		_, err = c.Chunk("   \n\t  ")
		assert.True(t, errors.Is(err, domain.ErrEmptyInput))
	})

	t.Run("short text yields a single trimmed chunk", func(t *testing.T) {
		c := New()

		chunks, err := c.Chunk("  A compact abstract about predator-prey cycles.  ")
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "A compact abstract about predator-prey cycles.", chunks[0])
	})

	t.Run("splits long text into multiple chunks", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(10))

		text := strings.Repeat("Lotka and Volterra studied population cycles. ", 20)
		chunks, err := c.Chunk(text)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		for _, chunk := range chunks {
			assert.NotEmpty(t, chunk)
			assert.LessOrEqual(t, len(chunk), 100)
		}
	})

	t.Run("consecutive chunks overlap", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(20))

		text := strings.Repeat("The predator population lags the prey population. ", 20)
		chunks, err := c.Chunk(text)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		// The tail of each chunk reappears near the head of the next one.
		for i := 0; i < len(chunks)-1; i++ {
			tail := chunks[i][len(chunks[i])-10:]
			assert.Contains(t, chunks[i+1][:min(40, len(chunks[i+1]))], strings.TrimSpace(tail))
		}
	})

	t.Run("prefers sentence boundaries", func(t *testing.T) {
		c := New(WithChunkSize(80), WithOverlap(0))

		text := "First sentence about auctions ends here. Second sentence about bidding strategies continues for a while longer. Third sentence closes."
		chunks, err := c.Chunk(text)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		// The first break lands on the sentence ending inside the window
		// rather than mid-word at the 80 character mark.
		assert.Equal(t, "First sentence about auctions ends here.", chunks[0])
	})

	t.Run("covers the full text", func(t *testing.T) {
		c := New(WithChunkSize(120), WithOverlap(15))

		text := strings.Repeat("Resource contention produces oscillation in shared queues. ", 15)
		chunks, err := c.Chunk(text)
		require.NoError(t, err)

		assert.Contains(t, chunks[0], "Resource contention")
		assert.Contains(t, chunks[len(chunks)-1], "shared queues.")
	})

	t.Run("makes forward progress when overlap meets the boundary", func(t *testing.T) {
		// Overlap equal to the chunk size gets clamped at construction so
		// chunking terminates.
		c := New(WithChunkSize(50), WithOverlap(50))

		text := strings.Repeat("abcdefghij", 30)
		chunks, err := c.Chunk(text)
		require.NoError(t, err)
		assert.Greater(t, len(chunks), 1)
	})
}

func TestNew(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		c := New()
		assert.Equal(t, DefaultChunkSize, c.chunkSize)
		assert.Equal(t, DefaultOverlap, c.overlap)
	})

	t.Run("ignores non-positive sizes", func(t *testing.T) {
		c := New(WithChunkSize(0), WithOverlap(-1))
		assert.Equal(t, DefaultChunkSize, c.chunkSize)
		assert.Equal(t, DefaultOverlap, c.overlap)
	})

	t.Run("clamps overlap below chunk size", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(100))
		assert.Equal(t, 25, c.overlap)
	})
}
