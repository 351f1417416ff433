// Package jsonfile persists a ledger as a single JSON document.
//
// The document has two top-level fields: users, an object of participant
// name to balance, and expenses, the list of recorded expenses. Key order in
// users and in each expense's shares follows ledger order.
package jsonfile

import (
	"encoding/json"
	"fmt"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Marshal encodes l as an indented JSON document.
func Marshal(l *ledger.Ledger) ([]byte, error) {
	doc := document{
		Users:    amounts{},
		Expenses: []expenseJSON{},
	}
	for _, b := range l.Balances() {
		doc.Users = append(doc.Users, models.Share{Participant: b.Name, Amount: b.Amount})
	}
	for _, e := range l.Expenses() {
		doc.Expenses = append(doc.Expenses, expenseJSON{
			Description: e.Description,
			Amount:      json.Number(e.Amount.String()),
			SplitType:   e.SplitType.String(),
			Shares:      amounts(e.Shares),
		})
	}
	return json.MarshalIndent(doc, "", "    ")
}

// Unmarshal decodes a JSON document into a new ledger configured with opts.
// Every decoding failure wraps storage.ErrMalformedDocument.
func Unmarshal(data []byte, opts ...ledger.Option) (*ledger.Ledger, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, malformed(err)
	}
	if isNull(raw.Users) {
		return nil, malformed(fmt.Errorf("missing users"))
	}
	if isNull(raw.Expenses) {
		return nil, malformed(fmt.Errorf("missing expenses"))
	}

	var users amounts
	if err := json.Unmarshal(raw.Users, &users); err != nil {
		return nil, malformed(fmt.Errorf("users: %w", err))
	}
	balances := make([]models.Balance, len(users))
	for i, u := range users {
		balances[i] = models.Balance{Name: u.Participant, Amount: u.Amount}
	}

	var rawExpenses []rawExpense
	if err := json.Unmarshal(raw.Expenses, &rawExpenses); err != nil {
		return nil, malformed(fmt.Errorf("expenses: %w", err))
	}
	expenses := make([]models.Expense, len(rawExpenses))
	for i, re := range rawExpenses {
		e, err := decodeExpense(re)
		if err != nil {
			return nil, malformed(fmt.Errorf("expense %d: %w", i, err))
		}
		expenses[i] = e
	}

	l, err := ledger.Restore(balances, expenses, opts...)
	if err != nil {
		return nil, malformed(err)
	}
	return l, nil
}

func decodeExpense(re rawExpense) (models.Expense, error) {
	amount, err := parseAmount(re.Amount)
	if err != nil {
		return models.Expense{}, fmt.Errorf("amount: %w", err)
	}

	splitName, rawShares := re.SplitType, re.Shares
	if splitName == "" {
		splitName = re.LegacySplit
	}
	if isNull(rawShares) {
		rawShares = re.LegacyShares
	}
	split, err := models.ParseSplitType(splitName)
	if err != nil {
		return models.Expense{}, err
	}

	var shares amounts
	if !isNull(rawShares) {
		if err := json.Unmarshal(rawShares, &shares); err != nil {
			return models.Expense{}, fmt.Errorf("shares: %w", err)
		}
	}

	return models.Expense{
		Description: re.Description,
		Amount:      amount,
		SplitType:   split,
		Shares:      models.Shares(shares).Clone(),
	}, nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %w", storage.ErrMalformedDocument, err)
}
