// Package ledger holds the in-memory expense ledger: participants with
// running balances and an append-only list of expenses.
package ledger

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// Ledger tracks participants and the expenses split among them.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	names    []string
	balances map[string]decimal.Decimal
	expenses []models.Expense

	tolerance decimal.Decimal
	strict    bool
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithShareTolerance allows custom shares to differ from the expense amount
// by at most tol. The default is zero: shares must add up exactly.
func WithShareTolerance(tol decimal.Decimal) Option {
	return func(l *Ledger) {
		l.tolerance = tol.Abs()
	}
}

// WithStrictParticipants makes RecordExpense reject a custom split naming
// unknown participants before any balance is changed.
func WithStrictParticipants() Option {
	return func(l *Ledger) {
		l.strict = true
	}
}

// New creates an empty Ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		balances: make(map[string]decimal.Decimal),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Restore rebuilds a Ledger from persisted balances and expenses. Balances
// are taken as-is; expenses are not replayed.
func Restore(balances []models.Balance, expenses []models.Expense, opts ...Option) (*Ledger, error) {
	l := New(opts...)
	for _, b := range balances {
		if _, exists := l.balances[b.Name]; exists {
			return nil, fmt.Errorf("participant %q: %w", b.Name, models.ErrDuplicateParticipant)
		}
		l.names = append(l.names, b.Name)
		l.balances[b.Name] = b.Amount
	}
	for i, e := range expenses {
		if !e.SplitType.Valid() {
			return nil, fmt.Errorf("expense %d: %w: %q", i, models.ErrInvalidSplitType, e.SplitType)
		}
		e.Shares = e.Shares.Clone()
		l.expenses = append(l.expenses, e)
	}
	return l, nil
}

// AddParticipant adds a participant with a zero balance. Adding a name that
// already exists changes nothing and returns an error wrapping
// models.ErrDuplicateParticipant.
func (l *Ledger) AddParticipant(name string) error {
	if strings.TrimSpace(name) == "" {
		return models.ErrEmptyName
	}
	if _, exists := l.balances[name]; exists {
		return fmt.Errorf("participant %q: %w", name, models.ErrDuplicateParticipant)
	}
	l.names = append(l.names, name)
	l.balances[name] = decimal.Zero
	return nil
}

// HasParticipant reports whether name is a participant.
func (l *Ledger) HasParticipant(name string) bool {
	_, ok := l.balances[name]
	return ok
}

// RecordExpense splits amount among participants and appends the expense.
//
// Equal splits charge amount / participant count to every participant.
// Custom splits charge each listed share; shares must add up to amount.
//
// A custom share naming an unknown participant does not stop the others
// from being applied, and the expense is still recorded. In that case the
// returned expense is non-nil and the error joins one
// *models.UnknownParticipantError per offending entry. With
// WithStrictParticipants the expense is rejected instead.
//
// Any other error means the ledger was not changed.
func (l *Ledger) RecordExpense(description string, amount decimal.Decimal, split models.SplitType, shares models.Shares) (*models.Expense, error) {
	if !split.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidSplitType, split)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidAmount, amount)
	}

	expense := models.Expense{
		Description: description,
		Amount:      amount,
		SplitType:   split,
	}

	if split == models.SplitCustom {
		if err := calculator.ValidateCustomShares(amount, shares, l.tolerance); err != nil {
			return nil, err
		}
		expense.Shares = shares.Clone()
		if l.strict {
			if err := l.unknownShares(expense.Shares); err != nil {
				return nil, err
			}
		}
	}

	deltas, err := calculator.SplitDeltas(expense, l.names)
	if err != nil {
		return nil, err
	}

	var unknown []error
	for _, delta := range deltas {
		balance, ok := l.balances[delta.Participant]
		if !ok {
			unknown = append(unknown, &models.UnknownParticipantError{Participant: delta.Participant})
			continue
		}
		l.balances[delta.Participant] = balance.Add(delta.Amount)
	}

	l.expenses = append(l.expenses, expense)
	recorded := l.expenses[len(l.expenses)-1]
	return &recorded, errors.Join(unknown...)
}

func (l *Ledger) unknownShares(shares models.Shares) error {
	var unknown []error
	for _, sh := range shares {
		if !l.HasParticipant(sh.Participant) {
			unknown = append(unknown, &models.UnknownParticipantError{Participant: sh.Participant})
		}
	}
	return errors.Join(unknown...)
}

// Balances returns every participant's balance in the order participants
// were added.
func (l *Ledger) Balances() []models.Balance {
	out := make([]models.Balance, len(l.names))
	for i, name := range l.names {
		out[i] = models.Balance{Name: name, Amount: l.balances[name]}
	}
	return out
}

// Balance returns the balance of one participant.
func (l *Ledger) Balance(name string) (decimal.Decimal, bool) {
	b, ok := l.balances[name]
	return b, ok
}

// Participants returns participant names in the order they were added.
func (l *Ledger) Participants() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Expenses returns a copy of the recorded expenses in recording order.
func (l *Ledger) Expenses() []models.Expense {
	out := make([]models.Expense, len(l.expenses))
	for i, e := range l.expenses {
		e.Shares = e.Shares.Clone()
		out[i] = e
	}
	return out
}

// Summary yields each recorded expense prepared for display, oldest first.
func (l *Ledger) Summary() iter.Seq[models.ExpenseSummary] {
	return func(yield func(models.ExpenseSummary) bool) {
		for _, e := range l.expenses {
			s := models.ExpenseSummary{
				Description: e.Description,
				Amount:      e.Amount,
				SplitType:   e.SplitType,
			}
			if e.SplitType == models.SplitCustom {
				s.Breakdown = e.Shares.Clone()
			}
			if !yield(s) {
				return
			}
		}
	}
}
