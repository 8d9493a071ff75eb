package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmundy42/cobrababel/internal/domain/model"
	"github.com/mmundy42/cobrababel/internal/infrastructure/database/postgres"
	"github.com/mmundy42/cobrababel/internal/infrastructure/database/postgres/repositories"
)

func newExportCmd() *cobra.Command {
	var output, storedID string

	cmd := &cobra.Command{
		Use:   "export [model.json]",
		Short: "Export a universal model as a COBRA JSON document",
		Long:  "Export renders a universal model in the COBRA JSON format, with one\nmetabolite entry per compartment.  The model is read from a file argument\nor, with --id, from the configured database.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			var m *model.UniversalModel
			switch {
			case storedID != "":
				if len(args) != 0 {
					return fmt.Errorf("--id and a file argument are mutually exclusive")
				}
				cfg := cliCtx.Config
				if !cfg.Database.Enabled {
					return fmt.Errorf("--id requires database.enabled")
				}
				pool, err := postgres.Connect(cmd.Context(), cfg.Database, cliCtx.Logger)
				if err != nil {
					return err
				}
				defer pool.Close()
				repo := repositories.NewModelRepository(pool, cliCtx.Logger)
				m, err = repo.Get(cmd.Context(), storedID)
				if err != nil {
					return err
				}
			case len(args) == 1:
				m, err = readModelFile(args[0])
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("a model file argument or --id is required")
			}

			return writeCobraFile(cmd, output, m)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the COBRA JSON document to this file (default: stdout)")
	cmd.Flags().StringVar(&storedID, "id", "", "export a model stored in the database instead of a file")
	return cmd
}
