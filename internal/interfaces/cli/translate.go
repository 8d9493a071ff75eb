package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmundy42/cobrababel/internal/application/translate"
	"github.com/mmundy42/cobrababel/internal/domain/model"
)

func newTranslateCmd() *cobra.Command {
	var xrefPath, from, to, output string

	cmd := &cobra.Command{
		Use:   "translate <model.json>",
		Short: "Translate model entity identifiers between namespaces",
		Long:  "Translate rewrites every metabolite and reaction identifier from one\nnamespace to another through a cross-reference table, carrying the original\nidentifier along as an alias.  Entities without a cross-reference keep their\nidentifier and are reported.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			m, err := readModelFile(args[0])
			if err != nil {
				return err
			}

			f, err := os.Open(xrefPath)
			if err != nil {
				return fmt.Errorf("open xref table %s: %w", xrefPath, err)
			}
			defer f.Close()
			table, err := translate.ParseTable(f)
			if err != nil {
				return err
			}

			reporter := model.Reporter(model.NewNopReporter())
			if cliCtx.Verbose {
				reporter = model.NewLogReporter(cliCtx.Logger)
			}
			tr := translate.NewTranslator(table, reporter, cliCtx.Logger)
			translated, err := tr.Model(m, from, to)
			if err != nil {
				return err
			}
			return writeModelFile(cmd, output, translated)
		},
	}

	cmd.Flags().StringVar(&xrefPath, "xref", "", "cross-reference TSV file (required)")
	cmd.Flags().StringVar(&from, "from", "", "source namespace of the model's identifiers (required)")
	cmd.Flags().StringVar(&to, "to", translate.NamespaceCanonical, "target namespace")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the translated model JSON to this file (default: stdout)")
	_ = cmd.MarkFlagRequired("xref")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
