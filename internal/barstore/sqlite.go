package barstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS bars (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    type     TEXT NOT NULL DEFAULT '',
    length   REAL NOT NULL DEFAULT 0,
    position TEXT NOT NULL DEFAULT 'null'
);`

// SQLite хранилище брусьев в файле.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite открывает базу по пути и создаёт таблицу.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Add(ctx context.Context, b Bar) ([]Bar, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO bars (type, length, position) VALUES (?, ?, ?)`,
		b.Type, b.Length, string(b.Position),
	); err != nil {
		return nil, fmt.Errorf("insert bar: %w", err)
	}
	out, err := list(ctx, tx)
	if err != nil {
		return nil, err
	}
	return out, tx.Commit()
}

func (s *SQLite) List(ctx context.Context) ([]Bar, error) {
	return list(ctx, s.db)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func list(ctx context.Context, q querier) ([]Bar, error) {
	rows, err := q.QueryContext(ctx, `SELECT type, length, position FROM bars ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select bars: %w", err)
	}
	defer rows.Close()

	out := []Bar{}
	for rows.Next() {
		var (
			b   Bar
			pos string
		)
		if err := rows.Scan(&b.Type, &b.Length, &pos); err != nil {
			return nil, err
		}
		b.Position = json.RawMessage(pos)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLite) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM bars`)
	return err
}

func (s *SQLite) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLite) Close() error { return s.db.Close() }
