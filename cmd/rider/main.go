// Command rider inserts clauses, definitions and sentences into .docx
// contracts, either one edit at a time or from a YAML edit plan.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/rider/internal/config"
)

var version = "0.1.0"

// app carries the global flags and what PersistentPreRunE derives from them.
type app struct {
	// Global flags
	verbose    bool
	configPath string
	outputDir  string
	preview    bool

	cfg    config.ResolvedConfig
	logger *zap.Logger
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rider",
		Short: "Style-preserving clause insertion for Word contracts",
		Long: `Rider edits .docx contracts by inserting definitions, numbered clauses
and sentences that match the formatting already in the document:
  - heading emphasis and quoting are inferred from neighbouring clauses
  - fonts and native list numbering are copied from a template paragraph
  - top-level clause numbers are rewritten to run 1, 2, 3, ...

Settings come from flags, RIDER_* environment variables and
~/.rider/config.yaml, in that order of precedence.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.rider/config.yaml)")
	flags.StringVar(&a.outputDir, "output-dir", "", "directory for edited contracts (default updated_contracts)")
	flags.BoolVar(&a.preview, "preview", false, "also write an HTML preview next to each output")

	rootCmd.AddCommand(applyCmd(a))
	rootCmd.AddCommand(insertDefinitionCmd(a))
	rootCmd.AddCommand(insertClauseCmd(a))
	rootCmd.AddCommand(insertSentenceCmd(a))
	rootCmd.AddCommand(renumberCmd(a))
	rootCmd.AddCommand(outlineCmd(a))
	rootCmd.AddCommand(previewCmd(a))
	return rootCmd
}

// setup resolves configuration and builds the run's logger.
func (a *app) setup(cmd *cobra.Command) error {
	opts := config.ResolveOptions{
		ConfigPath:   a.configPath,
		CLIOutputDir: a.outputDir,
	}
	if a.verbose {
		opts.CLILogLevel = "debug"
	}
	if cmd.Flags().Changed("preview") {
		opts.CLIPreview = fmt.Sprint(a.preview)
	}

	cfg, err := config.ResolveConfig(opts)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger.With(zap.String("run_id", uuid.NewString()))
	a.logger.Debug("configuration resolved",
		zap.String("config", cfg.ConfigPath),
		zap.String("output_dir", cfg.OutputDir.Value),
		zap.String("output_dir_source", string(cfg.OutputDir.Source)),
		zap.String("log_level", cfg.LogLevel.Value))
	return nil
}
