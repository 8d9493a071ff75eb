package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmundy42/cobrababel/internal/application/build"
	"github.com/mmundy42/cobrababel/internal/domain/model"
)

func newMergeCmd() *cobra.Command {
	var output string
	var modelID, modelName string

	cmd := &cobra.Command{
		Use:   "merge <model.json>...",
		Short: "Merge universal model files into one model",
		Long:  "Merge replays the entities of each input model, in argument order, into a\nfresh universal model under the first-seen-wins policy.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			models := make([]*model.UniversalModel, 0, len(args))
			for _, path := range args {
				m, err := readModelFile(path)
				if err != nil {
					return err
				}
				models = append(models, m)
			}

			svc := build.NewService(build.Options{
				ModelID:   modelID,
				ModelName: modelName,
				Verbose:   cliCtx.Verbose,
				Logger:    cliCtx.Logger,
			})
			merged, report, err := svc.Merge(cmd.Context(), models...)
			if err != nil {
				return err
			}
			printBuildReport(cmd, report)
			return writeModelFile(cmd, output, merged)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the merged model JSON to this file (default: stdout)")
	cmd.Flags().StringVar(&modelID, "model-id", "merged", "identifier for the merged model")
	cmd.Flags().StringVar(&modelName, "model-name", "Merged model", "display name for the merged model")
	return cmd
}
