// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	sqlitedriver "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
// Each Save replaces the stored snapshot of the ledger.
type SQLiteStore struct {
	db   *sql.DB
	opts []ledger.Option
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
// Ledgers it loads are configured with opts.
func New(dbPath string, opts ...ledger.Option) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, notADatabase(fmt.Errorf("failed to enable foreign keys: %w", err))
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, notADatabase(fmt.Errorf("failed to run migrations: %w", err))
	}

	return &SQLiteStore{db: db, opts: opts}, nil
}

// notADatabase marks err as storage.ErrMalformedDocument when SQLite reports
// that the file is not a database or is corrupt.
func notADatabase(err error) error {
	var sqliteErr *sqlitedriver.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
		return fmt.Errorf("%w: %w", storage.ErrMalformedDocument, err)
	}
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save replaces the stored ledger with l in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, l *ledger.Ledger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// PRAGMA foreign_keys is per connection, so shares are cleared explicitly
	for _, stmt := range []string{"DELETE FROM expense_shares", "DELETE FROM expenses", "DELETE FROM participants"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
	}

	for i, b := range l.Balances() {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO participants (position, name, balance) VALUES (?, ?, ?)",
			i, b.Name, b.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i, e := range l.Expenses() {
		id := uuid.New().String()
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expenses (id, position, description, amount, split_type) VALUES (?, ?, ?, ?, ?)",
			id, i, e.Description, e.Amount.String(), e.SplitType.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for j, sh := range e.Shares {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO expense_shares (expense_id, position, participant, amount) VALUES (?, ?, ?, ?)",
				id, j, sh.Participant, sh.Amount.String(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert expense share: %w", err)
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO ledger_meta (id, saved_at) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at",
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record save time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Load reads the stored ledger snapshot.
// Returns storage.ErrDocumentNotFound if no snapshot was ever saved.
func (s *SQLiteStore) Load(ctx context.Context) (*ledger.Ledger, error) {
	var savedAt int64
	err := s.db.QueryRowContext(ctx, "SELECT saved_at FROM ledger_meta WHERE id = 1").Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	balances, err := s.loadBalances(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return nil, err
	}

	l, err := ledger.Restore(balances, expenses, s.opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrMalformedDocument, err)
	}
	return l, nil
}

func (s *SQLiteStore) loadBalances(ctx context.Context) ([]models.Balance, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, balance FROM participants ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var balances []models.Balance
	for rows.Next() {
		var name, balance string
		if err := rows.Scan(&name, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		amount, err := decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("%w: balance of %q: %w", storage.ErrMalformedDocument, name, err)
		}
		balances = append(balances, models.Balance{Name: name, Amount: amount})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return balances, nil
}

func (s *SQLiteStore) loadExpenses(ctx context.Context) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount, split_type FROM expenses ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	var ids []string
	var expenses []models.Expense
	for rows.Next() {
		var id, description, amount, split string
		if err := rows.Scan(&id, &description, &amount, &split); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("%w: amount of expense %s: %w", storage.ErrMalformedDocument, id, err)
		}
		ids = append(ids, id)
		expenses = append(expenses, models.Expense{
			Description: description,
			Amount:      value,
			SplitType:   models.SplitType(split),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	// Get shares for each expense
	for i, id := range ids {
		shares, err := s.loadShares(ctx, id)
		if err != nil {
			return nil, err
		}
		expenses[i].Shares = shares
	}
	return expenses, nil
}

func (s *SQLiteStore) loadShares(ctx context.Context, expenseID string) (models.Shares, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT participant, amount FROM expense_shares WHERE expense_id = ? ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer rows.Close()

	var shares models.Shares
	for rows.Next() {
		var participant, amount string
		if err := rows.Scan(&participant, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense share: %w", err)
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("%w: share of %q: %w", storage.ErrMalformedDocument, participant, err)
		}
		shares = append(shares, models.Share{Participant: participant, Amount: value})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense shares: %w", err)
	}
	return shares, nil
}
