package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/lanchat/internal/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS view_messages (
	position   INTEGER PRIMARY KEY,
	sender     TEXT NOT NULL,
	content    TEXT NOT NULL,
	cached_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore implements store.ViewStore for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and applies the schema.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup opens the database and runs setup instead of the default schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection keeps ":memory:" databases alive between calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveView replaces the cached view in a single transaction.
func (s *SQLiteStore) SaveView(ctx context.Context, view []core.ChatMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM view_messages`); err != nil {
		return fmt.Errorf("clear view: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO view_messages (position, sender, content)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, msg := range view {
		if _, err := stmt.ExecContext(ctx, msg.Position, msg.Sender, msg.Content); err != nil {
			return fmt.Errorf("insert message %d: %w", msg.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit view: %w", err)
	}
	return nil
}

// LoadView returns the cached view ordered by position.
func (s *SQLiteStore) LoadView(ctx context.Context) ([]core.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, sender, content
		FROM view_messages
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query view: %w", err)
	}
	defer rows.Close()

	view := []core.ChatMessage{}
	for rows.Next() {
		var msg core.ChatMessage
		if err := rows.Scan(&msg.Position, &msg.Sender, &msg.Content); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		view = append(view, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view: %w", err)
	}

	return view, nil
}
