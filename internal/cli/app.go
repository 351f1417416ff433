// Package cli implements the splitledger command-line driver.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/logging"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd *cobra.Command
	in      io.Reader
	out     io.Writer

	cfg     *config.Config
	svc     *service.LedgerService
	console *Console
}

// NewCLIApp creates the CLI reading prompts from in and printing to out.
func NewCLIApp(version string, in io.Reader, out io.Writer) *CLIApp {
	app := &CLIApp{in: in, out: out}

	rootCmd := &cobra.Command{
		Use:               "splitledger",
		Short:             "Track shared expenses and running balances",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.setup,
		PersistentPostRun: app.teardown,
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetVersionTemplate(`{{printf "splitledger version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("ledger", "l", "", "Ledger file (.json, or .db/.sqlite for SQLite)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		app.participantCmd(),
		app.expenseCmd(),
		app.balancesCmd(),
		app.summaryCmd(),
		app.exportCmd(),
		app.menuCmd(),
	)
	middleware.LoggingInterceptor(rootCmd)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// ExecuteContext runs the CLI application with ctx.
func (app *CLIApp) ExecuteContext(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides the command-line arguments.
func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

// Service returns the ledger service, available once a command has started.
func (app *CLIApp) Service() *service.LedgerService {
	return app.svc
}

func (app *CLIApp) setup(cmd *cobra.Command, _ []string) error {
	configFile, _ := cmd.Flags().GetString("config-file")
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if ledgerPath, _ := cmd.Flags().GetString("ledger"); ledgerPath != "" {
		cfg.LedgerPath = ledgerPath
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if err := logging.Setup(cfg.LogLevel); err != nil {
		slog.Warn("Falling back to info logging", "error", err)
	}

	app.cfg = cfg
	app.svc = service.NewLedgerService(metrics.New(), cfg.LedgerOptions()...)
	app.console = NewConsole(app.out, cfg.CurrencySymbol)
	slog.Debug("Configuration loaded", "ledger", cfg.LedgerPath, "config_file", configFile)
	return nil
}

func (app *CLIApp) teardown(*cobra.Command, []string) {
	if app.cfg == nil || app.cfg.MetricsTextfile == "" {
		return
	}
	if err := app.svc.Metrics().WriteTextfile(app.cfg.MetricsTextfile); err != nil {
		slog.Warn("Failed to write metrics textfile", "path", app.cfg.MetricsTextfile, "error", err)
	}
}

// loadLedger loads the configured ledger for a one-shot command. A missing
// file starts an empty ledger; a malformed one is an error so that it is
// not overwritten by the following save.
func (app *CLIApp) loadLedger(ctx context.Context) error {
	err := app.svc.Load(ctx, app.cfg.LedgerPath)
	switch {
	case errors.Is(err, storage.ErrDocumentNotFound):
		slog.Info("No ledger yet, starting empty", "path", app.cfg.LedgerPath)
		return nil
	case err != nil:
		return fmt.Errorf("cannot load %s: %w", app.cfg.LedgerPath, err)
	}
	return nil
}

func (app *CLIApp) saveLedger(ctx context.Context) error {
	if err := app.svc.Save(ctx, app.cfg.LedgerPath); err != nil {
		return fmt.Errorf("cannot save %s: %w", app.cfg.LedgerPath, err)
	}
	return nil
}
