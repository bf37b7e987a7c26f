// Package sqlite gives scripts a small synchronous database handle over
// modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var ErrClosed = errors.New("database is closed")

// Options bound every statement.
type Options struct {
	BusyTimeout  time.Duration
	QueryTimeout time.Duration
}

// DB is one open database. It is used from a single script environment.
type DB struct {
	db   *sql.DB
	opts Options
}

// Open opens path (":memory:" for a private in-memory database).
func Open(path string, opts Options) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection keeps :memory: databases and pragmas consistent
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	d := &DB{db: db, opts: opts}
	if err := d.initPragmas(path); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) initPragmas(path string) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout=%d;", d.opts.BusyTimeout.Milliseconds()),
		"PRAGMA foreign_keys=ON;",
	}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL;", "PRAGMA synchronous=NORMAL;")
	}
	ctx, cancel := d.context()
	defer cancel()
	for _, p := range pragmas {
		if _, err := d.db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (d *DB) context() (context.Context, context.CancelFunc) {
	if d.opts.QueryTimeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d.opts.QueryTimeout)
}

// Row maps column names to values: int64, float64, string, []byte or nil.
type Row map[string]any

// Query runs a statement and returns all rows.
func (d *DB) Query(query string, args ...any) ([]Row, error) {
	if d.db == nil {
		return nil, ErrClosed
	}
	ctx, cancel := d.context()
	defer cancel()
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		r := make(Row, len(cols))
		for i, c := range cols {
			r[c] = normalize(vals[i])
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func normalize(v any) any {
	switch v := v.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float32:
		return float64(v)
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	}
	return v
}

// Exec runs a statement and returns the number of rows it changed.
func (d *DB) Exec(query string, args ...any) (int64, error) {
	if d.db == nil {
		return 0, ErrClosed
	}
	ctx, cancel := d.context()
	defer cancel()
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close is idempotent.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}
