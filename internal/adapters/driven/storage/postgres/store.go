// Package postgres provides a PostgreSQL paper store backed by pgvector.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driven"
)

var _ driven.PaperStore = (*Store)(nil)

// Store is a PostgreSQL-backed paper store using the pgvector extension.
// The vector column gives index-backed similarity search a place to grow
// into, but retrieval currently reads the full corpus for an exact scan.
type Store struct {
	pool       *pgxpool.Pool
	dimensions int
}

// NewStore connects to PostgreSQL and prepares the schema.
// dimensions fixes the vector column width and must match the embedding
// provider's output.
func NewStore(ctx context.Context, dsn string, dimensions int) (*Store, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("postgres: embedding dimensions must be positive, got %d", dimensions)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{pool: pool, dimensions: dimensions}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			domain TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT 'upload',
			schema_json JSONB NOT NULL,
			embedding vector(%d) NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL,
			processed_at TIMESTAMPTZ NOT NULL
		)`, s.dimensions),
		`CREATE INDEX IF NOT EXISTS idx_papers_domain ON papers(domain)`,
		`CREATE TABLE IF NOT EXISTS paper_chunks (
			paper_id TEXT NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			chunk_index INTEGER NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (paper_id, chunk_index)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return nil
}

// Insert atomically persists a paper and its chunks in a single transaction.
func (s *Store) Insert(ctx context.Context, paper *domain.PaperRecord, chunks []domain.ChunkRecord) error {
	if paper == nil {
		return fmt.Errorf("%w: nil paper", domain.ErrInvalidInput)
	}
	if len(paper.Embedding) != s.dimensions {
		return fmt.Errorf("%w: corpus dimension is %d, record has %d",
			domain.ErrDimensionMismatch, s.dimensions, len(paper.Embedding))
	}

	schemaJSON, err := json.Marshal(paper.Schema)
	if err != nil {
		return fmt.Errorf("marshalling schema: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO papers (id, title, domain, source, schema_json, embedding, uploaded_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, paper.ID, paper.Title, paper.Domain, paper.Source, schemaJSON,
		pgvector.NewVector(paper.Embedding), paper.UploadedAt, paper.ProcessedAt)
	if err != nil {
		return fmt.Errorf("inserting paper: %w", err)
	}

	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		batch.Queue(`
			INSERT INTO paper_chunks (paper_id, chunk_index, content)
			VALUES ($1, $2, $3)
		`, paper.ID, chunk.Index, chunk.Text)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting chunks: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves a paper by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.PaperRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, title, domain, source, schema_json, embedding, uploaded_at, processed_at
		FROM papers WHERE id = $1
	`, id)

	var paper domain.PaperRecord
	var schemaJSON []byte
	var vec pgvector.Vector
	if err := row.Scan(&paper.ID, &paper.Title, &paper.Domain, &paper.Source,
		&schemaJSON, &vec, &paper.UploadedAt, &paper.ProcessedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning paper: %w", err)
	}

	if err := json.Unmarshal(schemaJSON, &paper.Schema); err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}
	paper.Embedding = vec.Slice()

	return &paper, nil
}

// GetChunks retrieves a paper's chunks in index order.
func (s *Store) GetChunks(ctx context.Context, paperID string) ([]domain.ChunkRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT paper_id, chunk_index, content
		FROM paper_chunks WHERE paper_id = $1
		ORDER BY chunk_index
	`, paperID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.ChunkRecord
	for rows.Next() {
		var chunk domain.ChunkRecord
		if err := rows.Scan(&chunk.PaperID, &chunk.Index, &chunk.Text); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// List returns paper summaries, optionally filtered by exact domain.
func (s *Store) List(ctx context.Context, domainFilter string) ([]domain.PaperSummary, error) {
	query := `
		SELECT id, title, domain, source, uploaded_at, processed_at
		FROM papers
	`
	var args []any
	if domainFilter != "" {
		query += " WHERE domain = $1"
		args = append(args, domainFilter)
	}
	query += " ORDER BY uploaded_at"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	summaries := []domain.PaperSummary{}
	for rows.Next() {
		var summary domain.PaperSummary
		if err := rows.Scan(&summary.ID, &summary.Title, &summary.Domain,
			&summary.Source, &summary.UploadedAt, &summary.ProcessedAt); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// AllEmbeddings returns the corpus-scan view of stored embeddings.
func (s *Store) AllEmbeddings(ctx context.Context) ([]domain.EmbeddingRef, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, domain, embedding, uploaded_at
		FROM papers
	`)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var refs []domain.EmbeddingRef
	for rows.Next() {
		var ref domain.EmbeddingRef
		var vec pgvector.Vector
		if err := rows.Scan(&ref.PaperID, &ref.Domain, &vec, &ref.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		ref.Embedding = vec.Slice()
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// Delete removes a paper; chunks cascade via the foreign key.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM papers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting paper: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
