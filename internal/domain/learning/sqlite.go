package learning

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteStore keeps learned keywords in a local ocr_learning table so the CLI
// remembers them between runs. Timestamps are stored as Unix nanoseconds.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore creates a keyword store over an already migrated database
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Learn creates a keyword with weight 1 or increments the weight of an existing one
func (s *SQLiteStore) Learn(ctx context.Context, keyword string) (*KeywordWeight, error) {
	kw, err := normalizeKeyword(keyword)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO ocr_learning (keyword, weight, created_at, updated_at) VALUES (?, 1, ?, ?)
		ON CONFLICT (keyword) DO UPDATE SET
			weight = ocr_learning.weight + 1,
			updated_at = excluded.updated_at
		RETURNING keyword, weight, created_at, updated_at
	`

	now := s.now().UnixNano()
	var (
		result           KeywordWeight
		created, updated int64
	)
	err = s.db.QueryRowContext(ctx, query, kw, now, now).Scan(&result.Keyword, &result.Weight, &created, &updated)
	if err != nil {
		return nil, fmt.Errorf("learn keyword %q: %w", kw, err)
	}
	result.CreatedAt = time.Unix(0, created).UTC()
	result.UpdatedAt = time.Unix(0, updated).UTC()
	return &result, nil
}

// List returns all learned keywords, heaviest first
func (s *SQLiteStore) List(ctx context.Context) ([]KeywordWeight, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT keyword, weight, created_at, updated_at
		FROM ocr_learning
		ORDER BY weight DESC, keyword ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}
	defer rows.Close()

	var keywords []KeywordWeight
	for rows.Next() {
		var (
			kw               KeywordWeight
			created, updated int64
		)
		if err := rows.Scan(&kw.Keyword, &kw.Weight, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		kw.CreatedAt = time.Unix(0, created).UTC()
		kw.UpdatedAt = time.Unix(0, updated).UTC()
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

// Keywords returns the learned keyword strings, heaviest first
func (s *SQLiteStore) Keywords(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT keyword FROM ocr_learning ORDER BY weight DESC, keyword ASC`)
	if err != nil {
		return nil, fmt.Errorf("load keywords: %w", err)
	}
	defer rows.Close()

	var keywords []string
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

// Delete removes a learned keyword
func (s *SQLiteStore) Delete(ctx context.Context, keyword string) error {
	kw, err := normalizeKeyword(keyword)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM ocr_learning WHERE keyword = ?`, kw)
	if err != nil {
		return fmt.Errorf("delete keyword %q: %w", kw, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete keyword %q: %w", kw, err)
	}
	if n == 0 {
		return ErrKeywordNotFound
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
