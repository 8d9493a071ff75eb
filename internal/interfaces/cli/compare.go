package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mmundy42/cobrababel/internal/application/compare"
)

var errModelsDiffer = errors.New("models differ")

func newCompareCmd() *cobra.Command {
	var failOnDiff bool

	cmd := &cobra.Command{
		Use:   "compare <first.json> <second.json>",
		Short: "Compare two universal model files",
		Long:  "Compare reports the entities present in only one model and the attribute\ndifferences of entities present in both.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := readModelFile(args[0])
			if err != nil {
				return err
			}
			second, err := readModelFile(args[1])
			if err != nil {
				return err
			}

			report := compare.Models(first, second)
			if err := report.WriteText(cmd.OutOrStdout()); err != nil {
				return err
			}
			if failOnDiff && !report.Identical() {
				cmd.SilenceErrors = true
				return errModelsDiffer
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failOnDiff, "fail-on-diff", false, "exit non-zero when the models differ")
	return cmd
}
