// Package middleware wraps CLI commands with cross-cutting behavior.
package middleware

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

// LoggingInterceptor wraps the RunE of cmd and every subcommand so each
// invocation is logged with its command path, duration and any error.
func LoggingInterceptor(cmd *cobra.Command) {
	if next := cmd.RunE; next != nil {
		cmd.RunE = func(c *cobra.Command, args []string) error {
			start := time.Now()
			path := c.CommandPath()

			err := next(c, args)

			duration := time.Since(start).Milliseconds()
			if err != nil {
				slog.Error("Command error",
					"command", path,
					"args", len(args),
					"error", err,
					"duration_ms", duration,
				)
			} else {
				slog.Debug("Command ok",
					"command", path,
					"args", len(args),
					"duration_ms", duration,
				)
			}
			return err
		}
	}
	for _, sub := range cmd.Commands() {
		LoggingInterceptor(sub)
	}
}
