package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SplitType selects how an expense is divided among participants.
type SplitType string

const (
	// SplitEqual divides the amount evenly among every participant known at
	// recording time.
	SplitEqual SplitType = "equal"

	// SplitCustom assigns an explicit share to each listed participant.
	SplitCustom SplitType = "custom"
)

// ParseSplitType parses a split type, ignoring case and surrounding space.
func ParseSplitType(s string) (SplitType, error) {
	t := SplitType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSplitType, s)
	}
	return t, nil
}

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	return t == SplitEqual || t == SplitCustom
}

func (t SplitType) String() string {
	return string(t)
}

// Share is one participant's portion of a custom split.
type Share struct {
	Participant string
	Amount      decimal.Decimal
}

// Shares is an ordered participant to amount mapping. Order is the order in
// which shares were supplied and is kept for display and persistence.
type Shares []Share

// Sum returns the total of all share amounts.
func (s Shares) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, sh := range s {
		total = total.Add(sh.Amount)
	}
	return total
}

// Get returns the share for participant, if present.
func (s Shares) Get(participant string) (decimal.Decimal, bool) {
	for _, sh := range s {
		if sh.Participant == participant {
			return sh.Amount, true
		}
	}
	return decimal.Zero, false
}

// Duplicate returns the first participant listed more than once.
func (s Shares) Duplicate() (string, bool) {
	seen := make(map[string]bool, len(s))
	for _, sh := range s {
		if seen[sh.Participant] {
			return sh.Participant, true
		}
		seen[sh.Participant] = true
	}
	return "", false
}

// Clone returns a copy of s. A nil or empty input yields nil.
func (s Shares) Clone() Shares {
	if len(s) == 0 {
		return nil
	}
	out := make(Shares, len(s))
	copy(out, s)
	return out
}

// Expense represents a shared cost recorded in the ledger.
// Expenses are immutable once appended.
type Expense struct {
	// Description is free text supplied by the user (e.g., "Dinner").
	Description string

	// Amount is the total cost of the expense.
	Amount decimal.Decimal

	// SplitType records how Amount was divided.
	SplitType SplitType

	// Shares holds the per-participant amounts of a custom split.
	// It is nil for equal splits: the per-participant share was
	// Amount / participant count at recording time and is not stored.
	// For custom splits it may name participants that were unknown
	// when the expense was recorded.
	Shares Shares
}

// ExpenseSummary is an expense prepared for display.
type ExpenseSummary struct {
	Description string
	Amount      decimal.Decimal
	SplitType   SplitType

	// Breakdown lists each participant's share for custom splits, in the
	// order they were supplied. Empty for equal splits.
	Breakdown []Share
}
