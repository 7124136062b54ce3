package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lifestory/internal/bootstrap"
	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/errs"
	"lifestory/internal/ports"
	"lifestory/internal/usecase/pipeline"
)

var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "Write, check and approve chapters",
}

var chapterGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a chapter draft from interview transcripts",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *pipeline.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		customerID, _ := cmd.Flags().GetString("customer")
		chapter, _ := cmd.Flags().GetInt("chapter")
		files, _ := cmd.Flags().GetStringSlice("transcript-file")

		transcripts := make([]string, 0, len(files))
		for _, path := range files {
			raw, err := os.ReadFile(path)
			if err != nil {
				return errs.Wrapf(err, "read transcript file %q", path)
			}
			transcripts = append(transcripts, string(raw))
		}

		m, err := svc.GenerateChapter(ctx, pipeline.GenerateChapterInput{
			CustomerID:    customerID,
			ChapterNumber: chapter,
			Transcripts:   transcripts,
		})
		if err != nil {
			logging.Error(ctx, "generate chapter failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "generate chapter")
		}

		return printManuscript(cmd, "generated", m)
	}),
}

var chapterRiskCheckCmd = &cobra.Command{
	Use:   "risk-check <manuscript-id>",
	Short: "Revise a draft for third-party, discrimination and defamation risk",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *pipeline.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		m, err := svc.RiskCheck(ctx, cmd.Flags().Arg(0))
		if err != nil {
			logging.Error(ctx, "risk check failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "risk check")
		}

		if err := printManuscript(cmd, "checked", m); err != nil {
			return err
		}
		for i, entry := range m.RiskCheckLog {
			if _, err := fmt.Fprintf(
				cmd.OutOrStdout(),
				"  %d. [%s] %q -> %q (%s)\n",
				i+1, entry.Category, entry.Original, entry.Modified, entry.Reason,
			); err != nil {
				return errs.Wrap(err, "write risk-check output")
			}
		}
		return nil
	}),
}

var chapterApproveCmd = &cobra.Command{
	Use:   "approve <manuscript-id>",
	Short: "Approve a risk-checked chapter",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *pipeline.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		m, err := svc.ApproveManuscript(ctx, cmd.Flags().Arg(0))
		if err != nil {
			logging.Error(ctx, "approve manuscript failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "approve manuscript")
		}
		return printManuscript(cmd, "approved", m)
	}),
}

func printManuscript(cmd *cobra.Command, verb string, m ports.Manuscript) error {
	if _, err := fmt.Fprintf(
		cmd.OutOrStdout(),
		"%s manuscript: %s chapter=%d status=%s version=%d chars=%d findings=%d\n",
		verb,
		m.ID,
		m.ChapterNumber,
		m.Status,
		m.Version,
		len([]rune(m.DeliveryContent())),
		len(m.RiskCheckLog),
	); err != nil {
		return errs.Wrap(err, "write manuscript output")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(chapterCmd)
	chapterCmd.AddCommand(chapterGenerateCmd)
	chapterCmd.AddCommand(chapterRiskCheckCmd)
	chapterCmd.AddCommand(chapterApproveCmd)

	chapterGenerateCmd.Flags().String("customer", "", "Customer ID")
	chapterGenerateCmd.Flags().Int("chapter", 0, "Chapter number")
	chapterGenerateCmd.Flags().StringSlice("transcript-file", nil, "Transcript files to use instead of stored interviews (in order)")
	_ = chapterGenerateCmd.MarkFlagRequired("customer")
	_ = chapterGenerateCmd.MarkFlagRequired("chapter")
}
