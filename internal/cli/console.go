package cli

import (
	"fmt"
	"io"
	"iter"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	owesColor  = color.New(color.FgRed, color.Bold).SprintFunc()
	owedColor  = color.New(color.FgGreen, color.Bold).SprintFunc()
	splitColor = color.New(color.FgCyan).SprintFunc()
)

// Console prints messages and ledger tables to a writer.
type Console struct {
	w        io.Writer
	currency string
}

// NewConsole creates a Console writing to w, formatting money with currency.
func NewConsole(w io.Writer, currency string) *Console {
	return &Console{w: w, currency: currency}
}

func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.w, format, a...)
}

func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.w, a...)
}

func (c *Console) LogInfo(format string, a ...interface{}) {
	fmt.Fprint(c.w, pterm.Info.Sprintfln(format, a...))
}

func (c *Console) LogSuccess(format string, a ...interface{}) {
	fmt.Fprint(c.w, pterm.Success.Sprintfln(format, a...))
}

func (c *Console) LogWarning(format string, a ...interface{}) {
	fmt.Fprint(c.w, pterm.Warning.Sprintfln(format, a...))
}

func (c *Console) LogError(format string, a ...interface{}) {
	fmt.Fprint(c.w, pterm.Error.Sprintfln(format, a...))
}

// Money formats an amount with two decimals and the currency symbol.
func (c *Console) Money(d decimal.Decimal) string {
	return c.currency + d.StringFixed(2)
}

// Balances renders the current balances as a table.
func (c *Console) Balances(balances []models.Balance) {
	c.Println()
	c.Println("Current Balances:")
	if len(balances) == 0 {
		c.LogInfo("No participants yet.")
		return
	}

	tableData := pterm.TableData{{"Participant", "Balance"}}
	for _, b := range balances {
		amount := c.Money(b.Amount)
		switch b.Amount.Sign() {
		case -1:
			amount = owesColor(amount)
		case 1:
			amount = owedColor(amount)
		}
		tableData = append(tableData, []string{b.Name, amount})
	}
	c.render(tableData)
}

// Summary renders every expense with its split and, for custom splits,
// each participant's share.
func (c *Console) Summary(summaries iter.Seq[models.ExpenseSummary]) {
	c.Println()
	c.Println("Expense Summary:")

	tableData := pterm.TableData{{"Description", "Amount", "Split", "Shares"}}
	for s := range summaries {
		tableData = append(tableData, []string{s.Description, c.Money(s.Amount), splitColor(s.SplitType.String()), ""})
		for _, sh := range s.Breakdown {
			tableData = append(tableData, []string{"", "", "", fmt.Sprintf("%s paid %s", sh.Participant, c.Money(sh.Amount))})
		}
	}
	if len(tableData) == 1 {
		c.LogInfo("No expenses recorded.")
		return
	}
	c.render(tableData)
}

func (c *Console) render(tableData pterm.TableData) {
	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	rendered, err := table.Srender()
	if err != nil {
		c.LogError("failed to render table: %v", err)
		return
	}
	c.Println(rendered)
}
