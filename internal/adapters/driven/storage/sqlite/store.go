// Package sqlite provides a SQLite-backed paper store.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/paralog-labs/paralog-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/paralog-labs/paralog-cli/internal/core/domain"
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driven"
)

var _ driven.PaperStore = (*Store)(nil)

// Store is a SQLite-backed paper store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified path.
// If path is empty, defaults to ~/.paralog/data/papers.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".paralog", "data", "papers.db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fsys.ReadDir(".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fsys.ReadFile(name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Insert atomically persists a paper and its chunks in a single transaction.
// The embedding dimension is fixed by the first record in the corpus; a
// record with a different dimension is rejected before anything is written.
func (s *Store) Insert(ctx context.Context, paper *domain.PaperRecord, chunks []domain.ChunkRecord) error {
	if paper == nil {
		return fmt.Errorf("%w: nil paper", domain.ErrInvalidInput)
	}
	if len(paper.Embedding) == 0 {
		return fmt.Errorf("%w: paper has no embedding", domain.ErrInvalidInput)
	}

	if err := s.checkDimension(ctx, len(paper.Embedding)); err != nil {
		return err
	}

	schemaJSON, err := json.Marshal(paper.Schema)
	if err != nil {
		return fmt.Errorf("marshalling schema: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO papers (id, title, domain, source, schema_json, embedding, uploaded_at, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, paper.ID, paper.Title, paper.Domain, paper.Source, string(schemaJSON),
		encodeVector(paper.Embedding), paper.UploadedAt, paper.ProcessedAt)
	if err != nil {
		return fmt.Errorf("inserting paper: %w", err)
	}

	for _, chunk := range chunks {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO paper_chunks (paper_id, chunk_index, content)
			VALUES (?, ?, ?)
		`, paper.ID, chunk.Index, chunk.Text)
		if err != nil {
			return fmt.Errorf("inserting chunk %d: %w", chunk.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// checkDimension rejects inserts whose vector length differs from the corpus.
func (s *Store) checkDimension(ctx context.Context, dim int) error {
	var existing []byte
	row := s.db.QueryRowContext(ctx, "SELECT embedding FROM papers LIMIT 1")
	if err := row.Scan(&existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil // First record fixes the dimension.
		}
		return fmt.Errorf("checking corpus dimension: %w", err)
	}

	corpusDim := len(existing) / 4
	if corpusDim != dim {
		return fmt.Errorf("%w: corpus dimension is %d, record has %d",
			domain.ErrDimensionMismatch, corpusDim, dim)
	}
	return nil
}

// Get retrieves a paper by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.PaperRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, domain, source, schema_json, embedding, uploaded_at, processed_at
		FROM papers WHERE id = ?
	`, id)

	return scanPaper(row)
}

// scanner abstracts sql.Row and sql.Rows for scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanPaper(row scanner) (*domain.PaperRecord, error) {
	var paper domain.PaperRecord
	var schemaJSON string
	var blob []byte
	if err := row.Scan(&paper.ID, &paper.Title, &paper.Domain, &paper.Source,
		&schemaJSON, &blob, &paper.UploadedAt, &paper.ProcessedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning paper: %w", err)
	}

	if err := json.Unmarshal([]byte(schemaJSON), &paper.Schema); err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}
	paper.Embedding = decodeVector(blob)

	return &paper, nil
}

// GetChunks retrieves a paper's chunks in index order.
func (s *Store) GetChunks(ctx context.Context, paperID string) ([]domain.ChunkRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT paper_id, chunk_index, content
		FROM paper_chunks WHERE paper_id = ?
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
		query += " WHERE domain = ?"
		args = append(args, domainFilter)
	}
	query += " ORDER BY uploaded_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
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
	rows, err := s.db.QueryContext(ctx, `
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
		var blob []byte
		if err := rows.Scan(&ref.PaperID, &ref.Domain, &blob, &ref.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		ref.Embedding = decodeVector(blob)
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// Delete removes a paper; chunks cascade via the foreign key.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM papers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting paper: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// encodeVector serialises a float32 vector as little-endian bytes.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeVector deserialises little-endian bytes into a float32 vector.
func decodeVector(buf []byte) []float32 {
	vector := make([]float32, len(buf)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vector
}
