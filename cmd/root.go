/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/errs"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "lifestory",
	Short:        "Life-story ghostwriting pipeline",
	Long:         "Interviews in, a typeset autobiography PDF out. Cobra + Viper + GORM(SQLite no-cgo) + Claude.",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		logger := logging.New(cmd.ErrOrStderr(), logLevel, logFormat)
		cmdCtx := logging.WithLogger(cmd.Context(), logger)
		cmdCtx = logging.WithAttrs(cmdCtx, slog.String("app", "lifestory"))
		cmd.SetContext(cmdCtx)
	}

	ctx = logging.WithAttrs(ctx, slog.String("app", "lifestory"))
	rootCmd.SetContext(ctx)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error(ctx, "command execution failed", slog.Any("err", errs.Loggable(err)))
		return errs.Wrap(err, "execute root command")
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (default: ./configs/config.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text|json)")
}
