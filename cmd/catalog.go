package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lifestory/internal/bootstrap"
	"lifestory/internal/errs"
	"lifestory/internal/usecase/pipeline"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show interview sessions and chapter templates",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *pipeline.Service) error {
		asYAML, _ := cmd.Flags().GetBool("yaml")
		cat := svc.Catalog()
		out := cmd.OutOrStdout()

		if asYAML {
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(cat); err != nil {
				return errs.Wrap(err, "encode catalog")
			}
			return errs.Wrap(enc.Close(), "close catalog encoder")
		}

		for _, s := range cat.Sessions {
			if _, err := fmt.Fprintf(out, "session %d: %s (%d questions)\n", s.Number, s.Theme, len(s.Questions)); err != nil {
				return errs.Wrap(err, "write catalog output")
			}
		}
		for _, c := range cat.Chapters {
			if _, err := fmt.Fprintf(out, "chapter %d: %s\n", c.Number, c.Title); err != nil {
				return errs.Wrap(err, "write catalog output")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().Bool("yaml", false, "Print the catalog as YAML")
}
