package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mmundy42/cobrababel/internal/application/build"
	"github.com/mmundy42/cobrababel/internal/config"
	"github.com/mmundy42/cobrababel/internal/infrastructure/cache"
	"github.com/mmundy42/cobrababel/internal/infrastructure/database/postgres"
	"github.com/mmundy42/cobrababel/internal/infrastructure/database/postgres/repositories"
	"github.com/mmundy42/cobrababel/internal/infrastructure/export"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
	"github.com/mmundy42/cobrababel/internal/infrastructure/sources"
	"github.com/mmundy42/cobrababel/internal/infrastructure/storage/minio"
)

type buildOptions struct {
	output string
	save   bool
	upload bool
}

func newBuildCmd() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a universal model from the configured sources",
		Long:  "Build drains metabolite and reaction records from each configured source\nin order and folds them into one universal model under the first-seen-wins\nmerge policy.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the built model JSON to this file (default: stdout)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "persist the built model to the configured database")
	cmd.Flags().BoolVar(&opts.upload, "upload", false, "upload the COBRA JSON export to the configured object store")
	return cmd
}

func runBuild(cmd *cobra.Command, opts *buildOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg := cliCtx.Config
	logger := cliCtx.Logger
	ctx := cmd.Context()

	if len(cfg.Build.Sources) == 0 {
		return fmt.Errorf("no sources configured; set build.sources")
	}

	c, err := newCache(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	srcs := make([]build.Source, 0, len(cfg.Build.Sources))
	for _, name := range cfg.Build.Sources {
		src, err := newSource(name, cfg, c, logger)
		if err != nil {
			return err
		}
		srcs = append(srcs, src)
	}

	svc := build.NewService(build.Options{
		ModelID:   cfg.Build.ModelID,
		ModelName: cfg.Build.ModelName,
		Rules:     cfg.Normalize,
		Verbose:   cliCtx.Verbose || cfg.Build.Verbose,
		Logger:    logger,
	})

	m, report, err := svc.Build(ctx, srcs)
	if err != nil {
		return err
	}
	printBuildReport(cmd, report)

	if opts.save {
		if !cfg.Database.Enabled {
			return fmt.Errorf("--save requires database.enabled")
		}
		pool, err := postgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.RunMigrations(cfg.Database.DSN()); err != nil {
			return err
		}
		repo := repositories.NewModelRepository(pool, logger)
		if err := repo.Save(ctx, m, report.RunID); err != nil {
			return err
		}
		logger.Info("model saved", logging.String("model_id", m.ID))
	}

	if opts.upload {
		if !cfg.MinIO.Enabled {
			return fmt.Errorf("--upload requires minio.enabled")
		}
		uploader, err := minio.NewUploader(ctx, cfg.MinIO, logger)
		if err != nil {
			return err
		}
		document, err := export.Model(m)
		if err != nil {
			return err
		}
		if _, err := uploader.UploadModel(ctx, m.ID+".json", document); err != nil {
			return err
		}
		logger.Info("export uploaded", logging.String("object", m.ID+".json"))
	}

	if opts.output != "" || (!opts.save && !opts.upload) {
		return writeModelFile(cmd, opts.output, m)
	}
	return nil
}

// newCache picks the configured cache backend for source responses.
func newCache(cfg *config.Config, logger logging.Logger) (cache.Cache, error) {
	if cfg.Redis.Enabled {
		return cache.NewRedis(cfg.Redis, logger)
	}
	return cache.NewNop(), nil
}

// newSource maps a configured source tag to its retrieval client.
func newSource(name string, cfg *config.Config, c cache.Cache, logger logging.Logger) (build.Source, error) {
	switch name {
	case "bigg":
		return sources.NewBiGG(cfg.Sources.BiGG, c, logger), nil
	case "metanetx":
		return sources.NewMetaNetX(cfg.Sources.MetaNetX, c, logger), nil
	case "kegg":
		return sources.NewKEGG(cfg.Sources.KEGG, c, logger), nil
	default:
		return nil, fmt.Errorf("unknown source %q; known sources are bigg, metanetx, kegg", name)
	}
}

func printBuildReport(cmd *cobra.Command, report *build.Report) {
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "run %s finished in %s\n", report.RunID, report.Elapsed)
	for _, src := range sortedKeys(report.MetabolitesAdded, report.ReactionsAdded) {
		fmt.Fprintf(out, "  %s: %d metabolites, %d reactions\n",
			src, report.MetabolitesAdded[src], report.ReactionsAdded[src])
	}
	for _, kind := range sortedKeys(report.Rejected) {
		fmt.Fprintf(out, "  rejected (%s): %d\n", kind, report.Rejected[kind])
	}
	fmt.Fprintf(out, "model %s: %d metabolites, %d reactions\n",
		report.ModelID, report.MetaboliteCount, report.ReactionCount)
}

func sortedKeys(maps ...map[string]int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range maps {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}
