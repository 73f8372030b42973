package tubetrends

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// EmbeddingCache wraps an Embedder with a SQLite-backed cache keyed by
// the hash of the embedded text. Repeated analysis runs over overlapping
// video sets skip already-paid embedding calls.
type EmbeddingCache struct {
	db       *sql.DB
	embedder Embedder
}

// NewEmbeddingCache opens (or creates) the cache database at path.
func NewEmbeddingCache(path string, embedder Embedder) (*EmbeddingCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create table if not exists
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS embeddings (
		text_hash TEXT PRIMARY KEY,
		embedding_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &EmbeddingCache{db: db, embedder: embedder}, nil
}

// Close closes the underlying database.
func (c *EmbeddingCache) Close() error {
	return c.db.Close()
}

// Embed returns the cached vector for text, generating and storing it on a miss.
func (c *EmbeddingCache) Embed(ctx context.Context, text string) ([]float64, error) {
	key := hashText(text)

	var embeddingJSON string
	err := c.db.QueryRowContext(ctx, "SELECT embedding_json FROM embeddings WHERE text_hash = ?", key).Scan(&embeddingJSON)
	switch {
	case err == nil:
		var vector []float64
		if err := json.Unmarshal([]byte(embeddingJSON), &vector); err == nil {
			return vector, nil
		}
		// Corrupt row, fall through and regenerate.
		log.Printf("Discarding unreadable cached embedding for %s", key)
	case err != sql.ErrNoRows:
		return nil, fmt.Errorf("failed to query embedding cache: %w", err)
	}

	vector, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(vector)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding: %w", err)
	}

	insertSQL := `
	INSERT INTO embeddings (text_hash, embedding_json)
	VALUES (?, ?)
	ON CONFLICT(text_hash) DO UPDATE SET embedding_json = excluded.embedding_json
	`
	if _, err := c.db.ExecContext(ctx, insertSQL, key, string(data)); err != nil {
		// A write failure only loses the cache benefit, not the vector.
		log.Printf("Failed to cache embedding: %v", err)
	}

	return vector, nil
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
