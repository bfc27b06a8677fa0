package ticket

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"triage-ai/internal/domain"
)

// SQLiteStore implements domain.TicketStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and runs
// the schema migration. Opening is idempotent: an existing table is left
// untouched, and parent directories are created on demand.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("%w: create data dir: %s", domain.ErrStoreUnavailable, err)
		}
	}

	// busy_timeout in the DSN so every connection waits out writers from
	// other processes (the tickets CLI against a running agent) instead of
	// failing with SQLITE_BUSY; the driver sets no default busy handler.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: open ticket db: %s", domain.ErrStoreUnavailable, err)
	}
	// A single connection makes SQLite serialize in-process writers; two
	// pooled connections writing at once would contend instead.
	db.SetMaxOpenConns(1)
	// WAL mode for better concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: set WAL mode: %s", domain.ErrStoreUnavailable, err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate ticket db: %s", domain.ErrStoreUnavailable, err)
	}
	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	// AUTOINCREMENT keeps numbers monotonically non-decreasing even if
	// the highest-numbered ticket is ever deleted out-of-band.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS tickets (
			number      INTEGER PRIMARY KEY AUTOINCREMENT,
			status      TEXT NOT NULL,
			description TEXT NOT NULL,
			created_at  TEXT NOT NULL
		)
	`)
	return err
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateTicket inserts a new open ticket and returns its assigned number.
func (s *SQLiteStore) CreateTicket(ctx context.Context, description string) (int64, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tickets (status, description, created_at) VALUES (?, ?, ?)",
		domain.StatusOpen, description, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert ticket: %s", domain.ErrStoreUnavailable, err)
	}
	number, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: ticket number: %s", domain.ErrStoreUnavailable, err)
	}
	return number, nil
}

// GetTicketStatus returns the status for a ticket number.
func (s *SQLiteStore) GetTicketStatus(ctx context.Context, number int64) (string, error) {
	var status string
	err := s.db.QueryRowContext(ctx,
		"SELECT status FROM tickets WHERE number = ?", number,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return "", domain.ErrTicketNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: query ticket: %s", domain.ErrStoreUnavailable, err)
	}
	return status, nil
}

// UpdateStatus changes a ticket's status.
func (s *SQLiteStore) UpdateStatus(ctx context.Context, number int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tickets SET status = ? WHERE number = ?", status, number,
	)
	if err != nil {
		return fmt.Errorf("%w: update ticket: %s", domain.ErrStoreUnavailable, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

// List returns all tickets ordered by creation.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT number, status, description, created_at FROM tickets ORDER BY number",
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list tickets: %s", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		var createdStr string
		if err := rows.Scan(&t.Number, &t.Status, &t.Description, &createdStr); err != nil {
			return nil, fmt.Errorf("%w: scan ticket: %s", domain.ErrStoreUnavailable, err)
		}
		t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdStr)
		if err != nil {
			return nil, fmt.Errorf("%w: scan ticket: %s", domain.ErrStoreUnavailable, err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// Compile-time interface check.
var _ domain.TicketStore = (*SQLiteStore)(nil)
