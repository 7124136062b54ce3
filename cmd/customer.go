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

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Manage customers",
}

var customerApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Register a new application",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *pipeline.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		phone, _ := cmd.Flags().GetString("phone")
		input := pipeline.ApplyCustomerInput{
			Name:              name,
			Email:             email,
			Phone:             phone,
			Age:               optionalInt(cmd, "age"),
			ParentSituation:   optionalString(cmd, "parent-situation"),
			ApplicationReason: optionalString(cmd, "reason"),
		}

		customer, err := svc.ApplyCustomer(ctx, input)
		if err != nil {
			logging.Error(ctx, "apply customer failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "apply customer")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "created customer: %s status=%s\n", customer.ID, customer.Status); err != nil {
			return errs.Wrap(err, "write apply output")
		}
		return nil
	}),
}

var customerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers, newest first",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *pipeline.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		items, err := svc.ListCustomers(ctx)
		if err != nil {
			logging.Error(ctx, "list customers failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list customers")
		}

		if len(items) == 0 {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "no customers"); err != nil {
				return errs.Wrap(err, "write list output")
			}
			return nil
		}

		for _, item := range items {
			if _, err := fmt.Fprintf(
				cmd.OutOrStdout(),
				"%s [%s] name=%s interviews=%d manuscripts=%d deliverables=%d\n",
				item.ID,
				item.Status,
				item.Name,
				len(item.Interviews),
				len(item.Manuscripts),
				len(item.Deliverables),
			); err != nil {
				return errs.Wrap(err, "write list output")
			}
		}
		return nil
	}),
}

var customerShowCmd = &cobra.Command{
	Use:   "show <customer-id>",
	Short: "Show a customer with interviews, chapters and deliverables",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *pipeline.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		detail, err := svc.GetCustomer(ctx, cmd.Flags().Arg(0))
		if err != nil {
			logging.Error(ctx, "show customer failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "show customer")
		}

		out := cmd.OutOrStdout()
		lines := []string{
			fmt.Sprintf("customer: %s [%s]", detail.ID, detail.Status),
			fmt.Sprintf("name: %s", detail.Name),
			fmt.Sprintf("email: %s", detail.Email),
			fmt.Sprintf("phone: %s", detail.Phone),
		}
		for _, iv := range detail.Interviews {
			chars := 0
			if iv.Transcription != nil {
				chars = len([]rune(*iv.Transcription))
			}
			lines = append(lines, fmt.Sprintf("interview: session=%d [%s] chars=%d", iv.SessionNumber, iv.Status, chars))
		}
		for _, m := range detail.Manuscripts {
			lines = append(lines, fmt.Sprintf(
				"manuscript: %s chapter=%d [%s] version=%d findings=%d",
				m.ID, m.ChapterNumber, m.Status, m.Version, len(m.RiskCheckLog),
			))
		}
		for _, d := range detail.Deliverables {
			lines = append(lines, fmt.Sprintf("deliverable: %s delivered_at=%s", d.ID, d.DeliveredAt.Format("2006-01-02 15:04")))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(out, line); err != nil {
				return errs.Wrap(err, "write show output")
			}
		}
		return nil
	}),
}

func optionalInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

func optionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func init() {
	rootCmd.AddCommand(customerCmd)
	customerCmd.AddCommand(customerApplyCmd)
	customerCmd.AddCommand(customerListCmd)
	customerCmd.AddCommand(customerShowCmd)

	customerApplyCmd.Flags().String("name", "", "Applicant name")
	customerApplyCmd.Flags().String("email", "", "Contact email")
	customerApplyCmd.Flags().String("phone", "", "Contact phone")
	customerApplyCmd.Flags().Int("age", 0, "Age of the person the book is about")
	customerApplyCmd.Flags().String("parent-situation", "", "Free-text note on the parent's situation")
	customerApplyCmd.Flags().String("reason", "", "Why the customer applied")
	_ = customerApplyCmd.MarkFlagRequired("name")
	_ = customerApplyCmd.MarkFlagRequired("email")
	_ = customerApplyCmd.MarkFlagRequired("phone")
}
