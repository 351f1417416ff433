package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// document is the on-disk shape of a ledger.
type document struct {
	Users    amounts       `json:"users"`
	Expenses []expenseJSON `json:"expenses"`
}

type expenseJSON struct {
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	SplitType   string      `json:"splitType"`
	Shares      amounts     `json:"shares"`
}

// rawDocument is used for decoding so that missing fields can be told apart
// from empty ones.
type rawDocument struct {
	Users    json.RawMessage `json:"users"`
	Expenses json.RawMessage `json:"expenses"`
}

// rawExpense also accepts the split_type and custom_shares keys written by
// earlier versions of the tool.
type rawExpense struct {
	Description  string          `json:"description"`
	Amount       json.Number     `json:"amount"`
	SplitType    string          `json:"splitType"`
	Shares       json.RawMessage `json:"shares"`
	LegacySplit  string          `json:"split_type"`
	LegacyShares json.RawMessage `json:"custom_shares"`
}

// amounts is a JSON object of name to number that keeps key order.
// encoding/json sorts map keys, which would lose participant order.
type amounts []models.Share

func (a amounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sh := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sh.Participant)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(sh.Amount.String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a *amounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	var out amounts
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string) // object keys are always strings
		if seen[key] {
			return fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = true

		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("value for %q: %w", key, err)
		}
		v, err := parseAmount(n)
		if err != nil {
			return fmt.Errorf("value for %q: %w", key, err)
		}
		out = append(out, models.Share{Participant: key, Amount: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

func parseAmount(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, fmt.Errorf("missing number")
	}
	return decimal.NewFromString(n.String())
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
