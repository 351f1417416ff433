package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/export"
	"github.com/mmynk/splitledger/internal/models"
)

func (app *CLIApp) participantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "participant",
		Aliases: []string{"user"},
		Short:   "Manage participants",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME...",
		Short: "Add participants with a zero balance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.loadLedger(ctx); err != nil {
				return err
			}
			for _, name := range args {
				app.addParticipant(name)
			}
			return app.saveLedger(ctx)
		},
	})
	return cmd
}

func (app *CLIApp) expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record expenses",
	}

	add := &cobra.Command{
		Use:   "add DESCRIPTION AMOUNT",
		Short: "Record an expense split equally or by custom shares",
		Example: `  splitledger expense add Dinner 90
  splitledger expense add Taxi 25 --split custom --share Alice=15 --share Bob=10`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			splitName, _ := cmd.Flags().GetString("split")
			shareArgs, _ := cmd.Flags().GetStringArray("share")
			split, err := models.ParseSplitType(splitName)
			if err != nil {
				return err
			}
			shares, err := parseShares(shareArgs)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := app.loadLedger(ctx); err != nil {
				return err
			}
			if err := app.recordExpense(args[0], amount, split, shares); err != nil {
				return err
			}
			return app.saveLedger(ctx)
		},
	}
	add.Flags().StringP("split", "s", string(models.SplitEqual), "Split type: equal or custom")
	add.Flags().StringArray("share", nil, "Custom share as NAME=AMOUNT (repeatable, order is kept)")

	cmd.AddCommand(add)
	return cmd
}

func (app *CLIApp) balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show current balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.loadLedger(cmd.Context()); err != nil {
				return err
			}
			app.console.Balances(app.svc.Balances())
			return nil
		},
	}
}

func (app *CLIApp) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show every recorded expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.loadLedger(cmd.Context()); err != nil {
				return err
			}
			app.console.Summary(app.svc.Summary())
			return nil
		},
	}
}

func (app *CLIApp) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export balances and the expense summary to a report file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			formats, _ := cmd.Flags().GetStringSlice("format")
			dir, _ := cmd.Flags().GetString("dir")
			name, _ := cmd.Flags().GetString("name")
			if dir == "" {
				dir = app.cfg.ExportDir
			}

			if err := app.loadLedger(cmd.Context()); err != nil {
				return err
			}
			report := export.NewReport(app.svc.Ledger(), time.Now())
			for _, format := range formats {
				path, err := export.Write(report, format, name, dir)
				if err != nil {
					return err
				}
				app.console.LogSuccess("Report written to %s", path)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceP("format", "f", []string{"csv"}, "Report formats: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	cmd.Flags().StringP("name", "n", "ledger", "Base name for the report file")
	return cmd
}

// addParticipant adds one participant and reports the outcome.
func (app *CLIApp) addParticipant(name string) {
	err := app.svc.AddParticipant(name)
	switch {
	case errors.Is(err, models.ErrDuplicateParticipant):
		app.console.LogWarning("User %s already exists.", name)
	case err != nil:
		app.console.LogError("%v", err)
	default:
		app.console.LogSuccess("User %s added.", name)
	}
}

// recordExpense records an expense and reports the outcome. It returns an
// error only when the expense was rejected; unknown participants in a
// recorded custom split are reported as warnings.
func (app *CLIApp) recordExpense(description string, amount decimal.Decimal, split models.SplitType, shares models.Shares) error {
	expense, err := app.svc.RecordExpense(description, amount, split, shares)
	if expense == nil {
		app.console.LogError("Expense not recorded: %v", err)
		return fmt.Errorf("expense %q rejected: %w", description, err)
	}
	for _, name := range models.UnknownParticipants(err) {
		app.console.LogWarning("User %s not found.", name)
	}
	app.console.LogSuccess("Expense %q of %s recorded (%s split).", description, app.console.Money(amount), split)
	return nil
}

// parseShares parses NAME=AMOUNT pairs. The last '=' separates the amount
// so names may contain '='.
func parseShares(args []string) (models.Shares, error) {
	var shares models.Shares
	for _, arg := range args {
		i := strings.LastIndex(arg, "=")
		if i <= 0 {
			return nil, fmt.Errorf("invalid share %q: want NAME=AMOUNT", arg)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(arg[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("invalid share %q: %w", arg, err)
		}
		shares = append(shares, models.Share{Participant: strings.TrimSpace(arg[:i]), Amount: amount})
	}
	return shares, nil
}
