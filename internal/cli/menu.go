package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func (app *CLIApp) menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu over an in-memory ledger",
		Long: `Starts with an empty ledger. Use the save and load options to
persist it; nothing is written unless you choose to save.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			newMenu(app).run(cmd.Context())
			return nil
		},
	}
}

type menu struct {
	app     *CLIApp
	console *Console
	scanner *bufio.Scanner
}

func newMenu(app *CLIApp) *menu {
	return &menu{
		app:     app,
		console: app.console,
		scanner: bufio.NewScanner(app.in),
	}
}

// prompt prints label and reads one line. ok is false once input ends.
func (m *menu) prompt(label string) (string, bool) {
	m.console.Printf("%s", label)
	if !m.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.scanner.Text()), true
}

func (m *menu) promptAmount(label string) (decimal.Decimal, bool) {
	for {
		text, ok := m.prompt(label)
		if !ok {
			return decimal.Zero, false
		}
		amount, err := decimal.NewFromString(text)
		if err == nil {
			return amount, true
		}
		m.console.LogError("%q is not a number.", text)
	}
}

func (m *menu) run(ctx context.Context) {
	for {
		m.console.Println()
		m.console.Println("Options:")
		m.console.Println("1. Add User")
		m.console.Println("2. Add Expense")
		m.console.Println("3. Show Balances")
		m.console.Println("4. Show Summary")
		m.console.Println("5. Save Data")
		m.console.Println("6. Load Data")
		m.console.Println("7. Exit")

		choice, ok := m.prompt("Enter choice: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			if name, ok := m.prompt("Enter user name: "); ok {
				m.app.addParticipant(name)
			}
		case "2":
			m.addExpense()
		case "3":
			m.console.Balances(m.app.svc.Balances())
		case "4":
			m.console.Summary(m.app.svc.Summary())
		case "5":
			m.save(ctx)
		case "6":
			m.load(ctx)
		case "7":
			m.console.Println("Exiting the app.")
			return
		default:
			m.console.LogWarning("Invalid choice. Please try again.")
		}
	}
}

func (m *menu) addExpense() {
	description, ok := m.prompt("Enter expense description: ")
	if !ok {
		return
	}
	amount, ok := m.promptAmount("Enter expense amount: ")
	if !ok {
		return
	}
	splitName, ok := m.prompt("Enter split type (equal/custom): ")
	if !ok {
		return
	}
	split, err := models.ParseSplitType(splitName)
	if err != nil {
		m.console.LogError("Invalid split type.")
		return
	}

	var shares models.Shares
	if split == models.SplitCustom {
		for _, name := range m.app.svc.Ledger().Participants() {
			share, ok := m.promptAmount("Enter amount for " + name + ": ")
			if !ok {
				return
			}
			shares = append(shares, models.Share{Participant: name, Amount: share})
		}
	}
	// Rejections are already shown; the menu keeps running.
	_ = m.app.recordExpense(description, amount, split, shares)
}

func (m *menu) save(ctx context.Context) {
	filename, ok := m.prompt("Enter filename to save data: ")
	if !ok || filename == "" {
		return
	}
	if err := m.app.svc.Save(ctx, filename); err != nil {
		m.console.LogError("Could not save data: %v", err)
		return
	}
	m.console.LogSuccess("Data saved to %s.", filename)
}

func (m *menu) load(ctx context.Context) {
	filename, ok := m.prompt("Enter filename to load data: ")
	if !ok || filename == "" {
		return
	}
	err := m.app.svc.Load(ctx, filename)
	switch {
	case errors.Is(err, storage.ErrDocumentNotFound):
		m.console.LogWarning("File not found. Starting with an empty ledger.")
	case errors.Is(err, storage.ErrMalformedDocument):
		m.console.LogWarning("Error decoding %s. Starting with an empty ledger.", filename)
	case err != nil:
		m.console.LogError("Could not load data: %v", err)
	default:
		m.console.LogSuccess("Data loaded from %s.", filename)
	}
}
