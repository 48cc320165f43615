// Package repository holds the shared SQL execution contract and the
// sorting/pagination primitives used by the report and customer stores.
package repository

import (
	"context"
	"database/sql"
)

// SQLExecutor is the interface for executing SQL queries. Satisfied by
// *sql.DB and *sql.Tx, and by sqlmock in tests. Every user-supplied
// literal must travel through the args parameters, never interpolated.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// SortOrder defines the sort direction for queries.
type SortOrder string

const (
	// SortAsc sorts in ascending order.
	SortAsc SortOrder = "ASC"
	// SortDesc sorts in descending order.
	SortDesc SortOrder = "DESC"
)

// Sort specifies field and direction for ordering results.
type Sort struct {
	Field string
	Order SortOrder
}

// Pagination specifies page-based pagination parameters. Pages are
// numbered from 1.
type Pagination struct {
	Page    int
	PerPage int
}

// Offset calculates the row offset for the page.
func (p Pagination) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// Limit returns the page size.
func (p Pagination) Limit() int {
	return p.PerPage
}
