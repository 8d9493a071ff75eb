// Package cli wires the cobra command tree for the cobrababel tool.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmundy42/cobrababel/internal/config"
	"github.com/mmundy42/cobrababel/internal/domain/model"
	"github.com/mmundy42/cobrababel/internal/infrastructure/export"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global flags shared by every subcommand.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Verbose    bool
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config *config.Config
	// ConfigPath is the file the configuration was loaded from, empty when
	// only environment and defaults applied.
	ConfigPath string
	Logger     logging.Logger
	Verbose    bool
}

type cliContextKey struct{}

// NewRootCommand creates the root command with global flags and all
// subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "cobrababel",
		Short:   "Build, translate, and compare universal metabolic models",
		Long:    "cobrababel folds metabolite and reaction records from source databases\n(BiGG, MetaNetX, KEGG) into universal metabolic models, translates entity\nnamespaces through cross-reference tables, and serves built models over HTTP.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./cobrababel.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "surface merge conflicts and rejected records as warnings")

	cmd.AddCommand(
		newBuildCmd(),
		newMergeCmd(),
		newTranslateCmd(),
		newCompareCmd(),
		newExportCmd(),
		newServeCmd(),
		newMigrateCmd(),
	)
	return cmd
}

// persistentPreRun loads configuration and builds the logger, then stores the
// CLIContext on the command's context for subcommands to pick up.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	cfg, configPath, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logCfg := cfg.Log
	if opts.LogLevel != "" {
		logCfg.Level = opts.LogLevel
	}
	if opts.Verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	cliCtx := &CLIContext{Config: cfg, ConfigPath: configPath, Logger: logger, Verbose: opts.Verbose}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads configuration with priority: flag path > default search
// paths > built-in defaults.
func initConfig(opts *RootOptions) (*config.Config, string, error) {
	if opts.ConfigPath != "" {
		cfg, err := config.Load(opts.ConfigPath)
		return cfg, opts.ConfigPath, err
	}
	for _, p := range []string{"./cobrababel.yaml", "/etc/cobrababel/config.yaml"} {
		if _, err := os.Stat(p); err == nil {
			cfg, err := config.Load(p)
			return cfg, p, err
		}
	}
	cfg, err := config.LoadFromEnv()
	return cfg, "", err
}

// GetCLIContext extracts the CLIContext stored by persistentPreRun.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, fmt.Errorf("CLI context not initialized")
	}
	return cliCtx, nil
}

// Execute is the entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %s\n", err.Error())
		return err
	}
	return nil
}

// readModelFile loads a universal model from a JSON document on disk and
// rebuilds its lookup indexes.
func readModelFile(path string) (*model.UniversalModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	var m model.UniversalModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	m.Reindex()
	return &m, nil
}

// writeModelFile writes a universal model as indented JSON.  An empty path
// writes to stdout.
func writeModelFile(cmd *cobra.Command, path string, m *model.UniversalModel) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	data = append(data, '\n')
	return writeOutput(cmd, path, data)
}

// writeCobraFile writes a model as a COBRA JSON document.
func writeCobraFile(cmd *cobra.Command, path string, m *model.UniversalModel) error {
	data, err := export.Model(m)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return writeOutput(cmd, path, data)
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
