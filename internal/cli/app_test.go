package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func TestMain(m *testing.M) {
	pterm.DisableColor()
	color.NoColor = true
	os.Exit(m.Run())
}

// run executes one CLI invocation and returns its output.
func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LEDGER_PATH", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("METRICS_TEXTFILE", "")

	var out bytes.Buffer
	app := NewCLIApp("test", strings.NewReader(input), &out)
	app.SetArgs(args)
	err := app.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, "", args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestOneShotCommands(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "ledger.json")

	out := mustRun(t, "participant", "add", "Alice", "Bob", "Alice", "--ledger", ledgerPath)
	assertContains(t, out, "User Alice added.", "User Bob added.", "User Alice already exists.")

	out = mustRun(t, "expense", "add", "Dinner", "90", "--ledger", ledgerPath)
	assertContains(t, out, `Expense "Dinner" of $90.00 recorded (equal split).`)

	out = mustRun(t, "expense", "add", "Taxi", "25", "--split", "custom", "--share", "Alice=15", "--share", "Carol=10", "--ledger", ledgerPath)
	assertContains(t, out, "User Carol not found.", `Expense "Taxi" of $25.00 recorded (custom split).`)

	out, err := run(t, "", "expense", "add", "Hotel", "100", "--split", "custom", "--share", "Alice=40", "--share", "Bob=50", "--ledger", ledgerPath)
	if !errors.Is(err, models.ErrShareMismatch) {
		t.Errorf("expected ErrShareMismatch, got %v", err)
	}
	assertContains(t, out, "Expense not recorded", "do not match")

	out = mustRun(t, "balances", "--ledger", ledgerPath)
	assertContains(t, out, "Current Balances:", "Alice", "$-60.00", "Bob", "$-45.00")

	out = mustRun(t, "summary", "--ledger", ledgerPath)
	assertContains(t, out, "Expense Summary:", "Dinner", "$90.00", "equal", "Taxi", "custom", "Alice paid $15.00", "Carol paid $10.00")
	if strings.Contains(out, "Hotel") {
		t.Errorf("rejected expense shows up in summary:\n%s", out)
	}
}

func TestExpenseAdd_RejectedFails(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "ledger.json")

	_, err := run(t, "", "expense", "add", "Dinner", "90", "--ledger", ledgerPath)
	if !errors.Is(err, models.ErrNoParticipants) {
		t.Errorf("expected ErrNoParticipants, got %v", err)
	}
	if _, err := os.Stat(ledgerPath); !os.IsNotExist(err) {
		t.Errorf("rejected expense should not save the ledger, stat err = %v", err)
	}

	mustRun(t, "participant", "add", "Alice", "--ledger", ledgerPath)
	_, err = run(t, "", "expense", "add", "Refund", "0", "--ledger", ledgerPath)
	if !errors.Is(err, models.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	// Unknown participants in a custom split still record the expense.
	if _, err := run(t, "", "expense", "add", "Taxi", "10", "--split", "custom", "--share", "Alice=4", "--share", "Zed=6", "--ledger", ledgerPath); err != nil {
		t.Errorf("partially applied expense should succeed, got %v", err)
	}
}

func TestExpenseAdd_InvalidInput(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "ledger.json")

	tests := []struct {
		name string
		args []string
	}{
		{name: "bad amount", args: []string{"expense", "add", "x", "ten"}},
		{name: "bad split", args: []string{"expense", "add", "x", "10", "--split", "thirds"}},
		{name: "bad share", args: []string{"expense", "add", "x", "10", "--split", "custom", "--share", "Alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, "", append(tt.args, "--ledger", ledgerPath)...); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
	if _, err := os.Stat(ledgerPath); !os.IsNotExist(err) {
		t.Errorf("invalid input should not create the ledger, stat err = %v", err)
	}
}

func TestMalformedLedgerIsNotOverwritten(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "ledger.json")
	if err := os.WriteFile(ledgerPath, []byte("{broken"), 0644); err != nil {
		t.Fatalf("failed to write ledger: %v", err)
	}

	_, err := run(t, "", "participant", "add", "Alice", "--ledger", ledgerPath)
	if !errors.Is(err, storage.ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}
	data, err := os.ReadFile(ledgerPath)
	if err != nil {
		t.Fatalf("failed to read ledger: %v", err)
	}
	if string(data) != "{broken" {
		t.Errorf("malformed ledger was overwritten: %s", data)
	}
}

func TestSQLiteLedger(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "ledger.db")

	mustRun(t, "participant", "add", "Alice", "Bob", "--ledger", ledgerPath)
	mustRun(t, "expense", "add", "Lunch", "30", "--ledger", ledgerPath)

	out := mustRun(t, "balances", "--ledger", ledgerPath)
	assertContains(t, out, "$-15.00")
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "ledger.json")
	exportDir := filepath.Join(dir, "reports")

	mustRun(t, "participant", "add", "Alice", "--ledger", ledgerPath)
	out := mustRun(t, "export", "--format", "json,csv", "--dir", exportDir, "--name", "trip", "--ledger", ledgerPath)
	assertContains(t, out, "Report written to")

	for _, pattern := range []string{"trip_*.json", "trip_*.csv"} {
		matches, err := filepath.Glob(filepath.Join(exportDir, pattern))
		if err != nil || len(matches) != 1 {
			t.Errorf("expected one %s, got %v (err %v)", pattern, matches, err)
		}
	}
}

func TestConfigFileAndMetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "ledger.json")
	promPath := filepath.Join(dir, "splitledger.prom")
	configPath := filepath.Join(dir, "config.yaml")
	config := "ledger_path: " + ledgerPath + "\nmetrics_textfile: " + promPath + "\ncurrency_symbol: \"EUR \"\n"
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	mustRun(t, "participant", "add", "Alice", "Bob", "--config-file", configPath)
	out := mustRun(t, "expense", "add", "Tickets", "20", "--config-file", configPath)
	assertContains(t, out, "EUR 20.00")

	data, err := os.ReadFile(promPath)
	if err != nil {
		t.Fatalf("metrics textfile missing: %v", err)
	}
	assertContains(t, string(data), `splitledger_operations_total{operation="record_expense",result="ok"} 1`)
}

func TestMenu(t *testing.T) {
	dir := t.TempDir()
	saved := filepath.Join(dir, "menu.json")
	missing := filepath.Join(dir, "missing.json")

	input := strings.Join([]string{
		"1", "Alice",
		"1", "Bob",
		"1", "Alice",
		"2", "Dinner", "100", "equal",
		"2", "Taxi", "ten", "10", "custom", "4", "6",
		"2", "Gift", "10", "thirds",
		"9",
		"3",
		"4",
		"5", saved,
		"6", missing,
		"3",
		"6", saved,
		"3",
		"7",
	}, "\n") + "\n"

	out, err := run(t, input, "menu")
	if err != nil {
		t.Fatalf("menu failed: %v\n%s", err, out)
	}

	assertContains(t, out,
		"User Alice added.",
		"User Alice already exists.",
		`"ten" is not a number.`,
		"Enter amount for Alice: ",
		"Enter amount for Bob: ",
		"Invalid split type.",
		"Invalid choice. Please try again.",
		"$-54.00",
		"$-56.00",
		"Alice paid $4.00",
		"Data saved to "+saved+".",
		"File not found. Starting with an empty ledger.",
		"No participants yet.",
		"Data loaded from "+saved+".",
		"Exiting the app.",
	)

	if _, err := os.Stat(saved); err != nil {
		t.Errorf("menu did not save: %v", err)
	}
}

func TestMenu_EndOfInput(t *testing.T) {
	out, err := run(t, "1\n", "menu")
	if err != nil {
		t.Fatalf("menu failed: %v", err)
	}
	assertContains(t, out, "Enter user name: ")
}
