package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kaiseki/internal/models"
)

// sqliteDB is the persistence layer for corpus documents. The seq column is an
// autoincrement rowid alias recording insertion order for ranking tie-breaks.
type sqliteDB struct {
	db *sql.DB
}

// openSQLite opens or creates the database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func openSQLite(dbPath string) (*sqliteDB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &sqliteDB{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		code TEXT NOT NULL,
		language TEXT,
		category TEXT,
		subcategory TEXT,
		difficulty TEXT,
		explanation TEXT NOT NULL,
		embedding BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_documents_language ON documents(language);
	CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category);
	`
	_, err := db.Exec(schema)
	return err
}

// upsertDocuments inserts or replaces documents in one transaction. An upsert
// keeps the original seq so re-ingesting does not reorder tie-breaks.
func (s *sqliteDB) upsertDocuments(ctx context.Context, docs []*models.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (id, code, language, category, subcategory, difficulty, explanation, embedding, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   code = excluded.code,
		   language = excluded.language,
		   category = excluded.category,
		   subcategory = excluded.subcategory,
		   difficulty = excluded.difficulty,
		   explanation = excluded.explanation,
		   embedding = excluded.embedding`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, doc := range docs {
		doc.CreatedAt = now
		if _, err := stmt.ExecContext(ctx,
			doc.ID, doc.Code, doc.Language, doc.Category, doc.Subcategory,
			string(doc.Difficulty), doc.Explanation, float32SliceToBytes(doc.Embedding), doc.CreatedAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// listDocuments returns all documents ordered by insertion.
func (s *sqliteDB) listDocuments(ctx context.Context) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, id, code, language, category, subcategory, difficulty, explanation, embedding, created_at
		 FROM documents ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var doc models.Document
		var difficulty string
		var blob []byte
		if err := rows.Scan(&doc.Seq, &doc.ID, &doc.Code, &doc.Language, &doc.Category,
			&doc.Subcategory, &difficulty, &doc.Explanation, &blob, &doc.CreatedAt); err != nil {
			return nil, err
		}
		doc.Difficulty = models.Difficulty(difficulty)
		doc.Embedding = bytesToFloat32Slice(blob)
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// deleteAll removes every document.
func (s *sqliteDB) deleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents`)
	return err
}

func (s *sqliteDB) close() error {
	return s.db.Close()
}

// Embeddings are stored as little-endian float32 blobs.

func float32SliceToBytes(v []float32) []byte {
	const size = 4
	out := make([]byte, len(v)*size)
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(f))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
