package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestObserve(t *testing.T) {
	m := New()
	m.Observe("add_participant", ResultOK)
	m.Observe("add_participant", ResultOK)
	m.Observe("add_participant", ResultRejected)

	if got := testutil.ToFloat64(m.Operations.WithLabelValues("add_participant", ResultOK)); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Operations.WithLabelValues("add_participant", ResultRejected)); got != 1 {
		t.Errorf("rejected count = %v, want 1", got)
	}
}

func TestAddExpenseAndSize(t *testing.T) {
	m := New()
	m.AddExpense("equal", decimal.RequireFromString("12.5"))
	m.AddExpense("equal", decimal.RequireFromString("7.5"))
	m.SetSize(3, 2)

	if got := testutil.ToFloat64(m.ExpenseAmount.WithLabelValues("equal")); got != 20 {
		t.Errorf("equal amount = %v, want 20", got)
	}
	if got := testutil.ToFloat64(m.Participants); got != 3 {
		t.Errorf("participants = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.Expenses); got != 2 {
		t.Errorf("expenses = %v, want 2", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Observe("record_expense", ResultPartial)
	m.UnknownEntries.Inc()

	path := filepath.Join(t.TempDir(), "splitledger.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read textfile: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		`splitledger_operations_total{operation="record_expense",result="partial"} 1`,
		`splitledger_unknown_share_entries_total 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("textfile missing %q:\n%s", want, text)
		}
	}
}
