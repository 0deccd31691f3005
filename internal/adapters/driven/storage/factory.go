// Package storage selects a paper store backend from a DSN.
package storage

import (
	"context"
	"strings"

	"github.com/paralog-labs/paralog-cli/internal/adapters/driven/storage/memory"
	"github.com/paralog-labs/paralog-cli/internal/adapters/driven/storage/postgres"
	"github.com/paralog-labs/paralog-cli/internal/adapters/driven/storage/sqlite"
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driven"
)

// DSNMemory selects the in-memory backend. Nothing survives process exit.
const DSNMemory = "memory"

// NewPaperStore creates a paper store from a DSN.
//
//   - ""                  default SQLite database under ~/.paralog/data
//   - "postgres://..."    PostgreSQL with the pgvector extension
//   - "memory"            in-memory, for tests and experiments
//   - anything else       SQLite database at that file path
//
// dimensions is the embedding vector width; only the PostgreSQL backend
// needs it up front, to size the vector column.
func NewPaperStore(ctx context.Context, dsn string, dimensions int) (driven.PaperStore, error) {
	switch {
	case dsn == DSNMemory:
		return memory.NewPaperStore(), nil

	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.NewStore(ctx, dsn, dimensions)

	default:
		return sqlite.NewStore(dsn)
	}
}
