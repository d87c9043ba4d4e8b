// Package docstore provides a small document-store abstraction on top of
// PostgreSQL JSONB. Each collection is a two-column table (id TEXT PRIMARY KEY,
// doc JSONB) holding one aggregate per row, so writes are atomic single-row
// replacements with last-write-wins semantics.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no document exists for the given id.
var ErrNotFound = errors.New("document not found")

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Collection is a typed document collection backed by a JSONB table.
type Collection[T any] struct {
	pool  *pgxpool.Pool
	table string
}

// NewCollection creates a collection over the given table.
// The table name must be a valid SQL identifier.
func NewCollection[T any](pool *pgxpool.Pool, table string) (*Collection[T], error) {
	if !fieldPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid collection table name %q", table)
	}
	return &Collection[T]{pool: pool, table: table}, nil
}

// Get loads the document with the given id.
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	var raw []byte
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, c.table)
	if err := c.pool.QueryRow(ctx, query, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}

// Insert stores a new document. Fails if the id already exists.
func (c *Collection[T]) Insert(ctx context.Context, id string, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, c.table)
	if _, err := c.pool.Exec(ctx, query, id, raw); err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// Replace overwrites the document with the given id. The whole aggregate is
// written in one statement, so concurrent writers resolve last-write-wins.
func (c *Collection[T]) Replace(ctx context.Context, id string, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query := fmt.Sprintf(`UPDATE %s SET doc = $2 WHERE id = $1`, c.table)
	tag, err := c.pool.Exec(ctx, query, id, raw)
	if err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the document with the given id.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.table)
	tag, err := c.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the documents matching the query.
func (c *Collection[T]) List(ctx context.Context, q *Query) ([]T, error) {
	where, args := q.whereClause()
	sql := fmt.Sprintf(`SELECT doc FROM %s%s%s%s`, c.table, where, q.orderClause(), q.pageClause())

	rows, err := c.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	results := make([]T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		results = append(results, doc)
	}
	return results, rows.Err()
}

// Count returns the number of documents matching the query's filters.
func (c *Collection[T]) Count(ctx context.Context, q *Query) (int, error) {
	where, args := q.whereClause()
	sql := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, c.table, where)

	var total int
	if err := c.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return total, nil
}

// MaxInt returns the maximum integer value of a top-level document field.
// The second return value is false when the collection is empty.
func (c *Collection[T]) MaxInt(ctx context.Context, field string) (int, bool, error) {
	if !fieldPattern.MatchString(field) {
		return 0, false, fmt.Errorf("invalid field name %q", field)
	}

	sql := fmt.Sprintf(`SELECT MAX((doc->>'%s')::bigint) FROM %s`, field, c.table)
	var max *int
	if err := c.pool.QueryRow(ctx, sql).Scan(&max); err != nil {
		return 0, false, fmt.Errorf("failed to compute max: %w", err)
	}
	if max == nil {
		return 0, false, nil
	}
	return *max, true, nil
}
