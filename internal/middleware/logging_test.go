package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLoggingInterceptor(t *testing.T) {
	logs := captureLogs(t)

	root := &cobra.Command{Use: "splitledger"}
	okCmd := &cobra.Command{Use: "balances", RunE: func(*cobra.Command, []string) error { return nil }}
	failCmd := &cobra.Command{Use: "summary", RunE: func(*cobra.Command, []string) error { return errors.New("boom") }}
	root.AddCommand(okCmd, failCmd)
	LoggingInterceptor(root)

	root.SetArgs([]string{"balances"})
	if err := root.Execute(); err != nil {
		t.Fatalf("balances failed: %v", err)
	}
	root.SetArgs([]string{"summary"})
	root.SilenceErrors = true
	root.SilenceUsage = true
	if err := root.Execute(); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}

	out := logs.String()
	if !strings.Contains(out, `msg="Command ok" command="splitledger balances"`) {
		t.Errorf("missing ok log:\n%s", out)
	}
	if !strings.Contains(out, `msg="Command error" command="splitledger summary"`) || !strings.Contains(out, "error=boom") {
		t.Errorf("missing error log:\n%s", out)
	}
}
