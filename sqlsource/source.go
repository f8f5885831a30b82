// Package sqlsource loads exception records from a SQLite table.
//
// The table uses the same column names as the pipe-delimited exception
// files: stem, alt_stems, gender, irregular, class, and one column per
// ending column (nominative, genitive, ...). Columns are matched by name,
// so their order and any extra ending columns are free.
package sqlsource

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cours-de-latin/grammaticus"
	_ "modernc.org/sqlite"
)

// DefaultTable is the table read when none is configured.
const DefaultTable = "exceptions"

// Source reads exception records from one table.
type Source struct {
	db    *sql.DB
	table string
	owned bool
}

// Open opens the SQLite database at path and reads from table.
func Open(path, table string) (*Source, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	s, err := New(db, table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// New reads from table in an already opened database. Close leaves db
// open.
func New(db *sql.DB, table string) (*Source, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if table == "" {
		table = DefaultTable
	}
	if !validIdent(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Source{db: db, table: table}, nil
}

// Close releases the connection opened by Open.
func (s *Source) Close() error {
	if s == nil || s.db == nil || !s.owned {
		return nil
	}
	return s.db.Close()
}

// LoadExceptions reads every row of the table in rowid order.
func (s *Source) LoadExceptions(ctx context.Context) ([]grammaticus.ExceptionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT * FROM "`+s.table+`" ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", s.table, err)
	}
	for i := range cols {
		cols[i] = strings.ToLower(cols[i])
	}
	if !slices.Contains(cols, grammaticus.ColStem) {
		return nil, fmt.Errorf("%w: table %s has no %q column", grammaticus.ErrMalformedData, s.table, grammaticus.ColStem)
	}

	var out []grammaticus.ExceptionRecord
	cells := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		values := make(map[string]string, len(cols))
		for i, col := range cols {
			values[col] = strings.TrimSpace(cells[i].String)
		}
		rec, err := grammaticus.RecordFromColumns(values)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", s.table, len(out)+1, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}
	return out, nil
}

func validIdent(name string) bool {
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return name != ""
}
