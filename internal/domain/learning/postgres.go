package learning

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool used by the store, so pgxmock can stand in.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps learned keywords in the ocr_learning table.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore creates a new keyword store
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Learn creates a keyword with weight 1 or increments the weight of an existing one
func (s *PostgresStore) Learn(ctx context.Context, keyword string) (*KeywordWeight, error) {
	kw, err := normalizeKeyword(keyword)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO ocr_learning (keyword) VALUES ($1)
		ON CONFLICT (keyword) DO UPDATE SET
			weight = ocr_learning.weight + 1,
			updated_at = now()
		RETURNING keyword, weight, created_at, updated_at
	`

	var result KeywordWeight
	err = s.db.QueryRow(ctx, query, kw).Scan(
		&result.Keyword, &result.Weight, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("learn keyword %q: %w", kw, err)
	}
	return &result, nil
}

// List returns all learned keywords, heaviest first
func (s *PostgresStore) List(ctx context.Context) ([]KeywordWeight, error) {
	query := `
		SELECT keyword, weight, created_at, updated_at
		FROM ocr_learning
		ORDER BY weight DESC, keyword ASC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}
	defer rows.Close()

	var keywords []KeywordWeight
	for rows.Next() {
		var kw KeywordWeight
		if err := rows.Scan(&kw.Keyword, &kw.Weight, &kw.CreatedAt, &kw.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

// Keywords returns the learned keyword strings, heaviest first
func (s *PostgresStore) Keywords(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT keyword FROM ocr_learning ORDER BY weight DESC, keyword ASC`)
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
func (s *PostgresStore) Delete(ctx context.Context, keyword string) error {
	kw, err := normalizeKeyword(keyword)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx, `DELETE FROM ocr_learning WHERE keyword = $1`, kw)
	if err != nil {
		return fmt.Errorf("delete keyword %q: %w", kw, err)
	}
	if result.RowsAffected() == 0 {
		return ErrKeywordNotFound
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
