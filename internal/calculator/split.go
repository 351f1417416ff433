package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// EqualShare computes the per-participant share of an equally split amount.
// Based on the algorithm: share = amount / participant_count
func EqualShare(amount decimal.Decimal, participants int) (decimal.Decimal, error) {
	if participants <= 0 {
		return decimal.Zero, models.ErrNoParticipants
	}
	return amount.Div(decimal.NewFromInt(int64(participants))), nil
}

// ValidateCustomShares checks that shares are present, name each participant
// once, and add up to amount. A zero tolerance requires exact equality;
// otherwise the sum may differ from amount by at most tolerance.
func ValidateCustomShares(amount decimal.Decimal, shares models.Shares, tolerance decimal.Decimal) error {
	if len(shares) == 0 {
		return fmt.Errorf("%w: no shares given", models.ErrShareMismatch)
	}
	if name, dup := shares.Duplicate(); dup {
		return fmt.Errorf("%w: %q", models.ErrDuplicateShare, name)
	}

	sum := shares.Sum()
	if sum.Sub(amount).Abs().GreaterThan(tolerance.Abs()) {
		return fmt.Errorf("%w: shares sum to %s, amount is %s", models.ErrShareMismatch, sum, amount)
	}
	return nil
}

// SplitDeltas returns the balance change for each participant produced by
// an expense. Equal splits charge every participant in participants; custom
// splits charge the listed shares, including names missing from
// participants.
func SplitDeltas(expense models.Expense, participants []string) ([]models.Share, error) {
	switch expense.SplitType {
	case models.SplitEqual:
		share, err := EqualShare(expense.Amount, len(participants))
		if err != nil {
			return nil, err
		}
		deltas := make([]models.Share, len(participants))
		for i, p := range participants {
			deltas[i] = models.Share{Participant: p, Amount: share.Neg()}
		}
		return deltas, nil
	case models.SplitCustom:
		deltas := make([]models.Share, len(expense.Shares))
		for i, sh := range expense.Shares {
			deltas[i] = models.Share{Participant: sh.Participant, Amount: sh.Amount.Neg()}
		}
		return deltas, nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidSplitType, expense.SplitType)
	}
}
