package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/jsonfile"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

// LedgerService owns the ledger instance used by a driver and exposes the
// operations a driver calls: participant and expense management, balances,
// summaries, and saving/loading by path.
type LedgerService struct {
	ledger  *ledger.Ledger
	opts    []ledger.Option
	metrics *metrics.Metrics
}

// NewLedgerService creates a service with an empty ledger configured with
// opts. The same options apply to ledgers loaded later.
func NewLedgerService(m *metrics.Metrics, opts ...ledger.Option) *LedgerService {
	if m == nil {
		m = metrics.New()
	}
	s := &LedgerService{
		ledger:  ledger.New(opts...),
		opts:    opts,
		metrics: m,
	}
	s.updateSize()
	return s
}

// Ledger returns the current ledger.
func (s *LedgerService) Ledger() *ledger.Ledger {
	return s.ledger
}

// Metrics returns the service's metrics.
func (s *LedgerService) Metrics() *metrics.Metrics {
	return s.metrics
}

// OpenStore returns the store for path: SQLite for .db, .sqlite and
// .sqlite3 files, a JSON document otherwise.
func OpenStore(path string, opts ...ledger.Option) (storage.Store, error) {
	if isSQLitePath(path) {
		return sqlite.New(path, opts...)
	}
	return jsonfile.New(path, opts...), nil
}

func isSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// AddParticipant adds a participant. A duplicate name is reported through
// the returned error and leaves the ledger unchanged.
func (s *LedgerService) AddParticipant(name string) error {
	err := s.ledger.AddParticipant(name)
	if err != nil {
		slog.Warn("AddParticipant rejected", "participant", name, "error", err)
		s.metrics.Observe("add_participant", metrics.ResultRejected)
		return err
	}
	slog.Info("Participant added", "participant", name)
	s.metrics.Observe("add_participant", metrics.ResultOK)
	s.updateSize()
	return nil
}

// RecordExpense records an expense. See ledger.Ledger.RecordExpense for the
// meaning of a non-nil expense returned together with an error.
func (s *LedgerService) RecordExpense(description string, amount decimal.Decimal, split models.SplitType, shares models.Shares) (*models.Expense, error) {
	slog.Debug("Recording expense",
		"description", description,
		"amount", amount.String(),
		"split", split,
		"shares", len(shares),
	)

	expense, err := s.ledger.RecordExpense(description, amount, split, shares)
	switch {
	case expense == nil:
		slog.Warn("RecordExpense rejected", "description", description, "error", err)
		s.metrics.Observe("record_expense", metrics.ResultRejected)
		return nil, err
	case err != nil:
		unknown := models.UnknownParticipants(err)
		slog.Warn("Expense recorded with unknown participants",
			"description", description,
			"unknown", unknown,
		)
		s.metrics.Observe("record_expense", metrics.ResultPartial)
		s.metrics.UnknownEntries.Add(float64(len(unknown)))
	default:
		slog.Info("Expense recorded", "description", description, "amount", amount.String(), "split", split)
		s.metrics.Observe("record_expense", metrics.ResultOK)
	}

	s.metrics.AddExpense(split.String(), amount)
	s.updateSize()
	return expense, err
}

// Balances returns participant balances in insertion order.
func (s *LedgerService) Balances() []models.Balance {
	return s.ledger.Balances()
}

// Summary yields the recorded expenses prepared for display.
func (s *LedgerService) Summary() iter.Seq[models.ExpenseSummary] {
	return s.ledger.Summary()
}

// Save writes the current ledger to path.
func (s *LedgerService) Save(ctx context.Context, path string) error {
	store, err := OpenStore(path, s.opts...)
	if err != nil {
		s.metrics.Observe("save", metrics.ResultError)
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	if err := store.Save(ctx, s.ledger); err != nil {
		slog.Error("Save failed", "path", path, "error", err)
		s.metrics.Observe("save", metrics.ResultError)
		return err
	}
	slog.Info("Ledger saved", "path", path)
	s.metrics.Observe("save", metrics.ResultOK)
	return nil
}

// Load replaces the current ledger with the one stored at path.
//
// If nothing is stored there, or the stored ledger cannot be decoded, the
// current ledger is replaced with an empty one and the error (matching
// storage.ErrDocumentNotFound or storage.ErrMalformedDocument) is returned
// so the driver can tell the user. Other errors leave the ledger unchanged.
func (s *LedgerService) Load(ctx context.Context, path string) error {
	l, err := s.loadFrom(ctx, path)
	switch {
	case errors.Is(err, storage.ErrDocumentNotFound), errors.Is(err, storage.ErrMalformedDocument):
		slog.Warn("Starting with an empty ledger", "path", path, "error", err)
		s.metrics.Observe("load", metrics.ResultRejected)
		s.ledger = ledger.New(s.opts...)
		s.updateSize()
		return err
	case err != nil:
		slog.Error("Load failed", "path", path, "error", err)
		s.metrics.Observe("load", metrics.ResultError)
		return err
	}

	s.ledger = l
	slog.Info("Ledger loaded",
		"path", path,
		"participants", len(l.Participants()),
		"expenses", len(l.Expenses()),
	)
	s.metrics.Observe("load", metrics.ResultOK)
	s.updateSize()
	return nil
}

// loadFrom reads the ledger at path without creating anything there.
func (s *LedgerService) loadFrom(ctx context.Context, path string) (*ledger.Ledger, error) {
	// Opening a SQLite store creates the database file.
	if isSQLitePath(path) {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", storage.ErrDocumentNotFound, path)
		}
	}

	store, err := OpenStore(path, s.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	return store.Load(ctx)
}

func (s *LedgerService) updateSize() {
	s.metrics.SetSize(len(s.ledger.Participants()), len(s.ledger.Expenses()))
}
