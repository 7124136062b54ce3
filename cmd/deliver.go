package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lifestory/internal/bootstrap"
	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/errs"
	"lifestory/internal/usecase/pipeline"
)

var deliverCmd = &cobra.Command{
	Use:   "deliver",
	Short: "Typeset checked chapters into a PDF and record the delivery",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *pipeline.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		customerID, _ := cmd.Flags().GetString("customer")
		title, _ := cmd.Flags().GetString("title")
		out, _ := cmd.Flags().GetString("out")

		result, err := svc.Deliver(ctx, pipeline.DeliverInput{
			CustomerID: customerID,
			Title:      title,
		})
		if err != nil {
			logging.Error(ctx, "deliver failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "deliver")
		}

		if out == "" {
			out = result.Filename
		}
		if dir := filepath.Dir(out); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errs.Wrapf(err, "create output directory %q", dir)
			}
		}
		if err := os.WriteFile(out, result.PDF, 0o644); err != nil {
			return errs.Wrapf(err, "write pdf %q", out)
		}

		logging.Info(ctx, "pdf written", slog.String("path", out), slog.Int("pages", result.Pages))
		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"delivered: %s pages=%d file=%s\n",
			result.Deliverable.ID, result.Pages, out,
		); err != nil {
			return errs.Wrap(err, "write deliver output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(deliverCmd)

	deliverCmd.Flags().String("customer", "", "Customer ID")
	deliverCmd.Flags().String("title", "", "Book title (default: <name>の自分史)")
	deliverCmd.Flags().String("out", "", "Output PDF path (default: <name>_jibunshi.pdf)")
	_ = deliverCmd.MarkFlagRequired("customer")
}
