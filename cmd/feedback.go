package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"lifestory/internal/bootstrap"
	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/errs"
	"lifestory/internal/usecase/pipeline"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Collect post-delivery feedback",
}

var feedbackSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Record a feedback survey",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *pipeline.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		customerID, _ := cmd.Flags().GetString("customer")
		fb, err := svc.SubmitFeedback(ctx, pipeline.SubmitFeedbackInput{
			CustomerID:          customerID,
			OverallSatisfaction: optionalInt(cmd, "overall"),
			Accuracy:            optionalInt(cmd, "accuracy"),
			Readability:         optionalInt(cmd, "readability"),
			InterviewExperience: optionalInt(cmd, "interview"),
			NPS:                 optionalInt(cmd, "nps"),
			Improvements:        optionalString(cmd, "improvements"),
			FairPrice:           optionalString(cmd, "fair-price"),
			DesiredFeatures:     optionalString(cmd, "desired-features"),
		})
		if err != nil {
			logging.Error(ctx, "submit feedback failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "submit feedback")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "recorded feedback: %s customer=%s\n", fb.ID, fb.CustomerID); err != nil {
			return errs.Wrap(err, "write feedback output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
	feedbackCmd.AddCommand(feedbackSubmitCmd)

	feedbackSubmitCmd.Flags().String("customer", "", "Customer ID")
	feedbackSubmitCmd.Flags().Int("overall", 0, "Overall satisfaction (1-5)")
	feedbackSubmitCmd.Flags().Int("accuracy", 0, "Accuracy rating (1-5)")
	feedbackSubmitCmd.Flags().Int("readability", 0, "Readability rating (1-5)")
	feedbackSubmitCmd.Flags().Int("interview", 0, "Interview experience rating (1-5)")
	feedbackSubmitCmd.Flags().Int("nps", 0, "Net promoter score (0-10)")
	feedbackSubmitCmd.Flags().String("improvements", "", "What could be better")
	feedbackSubmitCmd.Flags().String("fair-price", "", "Price the customer considers fair")
	feedbackSubmitCmd.Flags().String("desired-features", "", "Features the customer asked for")
	_ = feedbackSubmitCmd.MarkFlagRequired("customer")
}
