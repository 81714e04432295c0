package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/ikrig/internal/config"
	"github.com/roach88/ikrig/internal/ir"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Database   string
	Strict     bool

	// Config is the merged configuration, set before any subcommand runs.
	Config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// DefaultConfigPath is read when --config is not given. A missing file is
// not an error.
const DefaultConfigPath = "ikrig.yaml"

// NewRootCommand creates the root command for the ikrig CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "ikrig",
		Short:   "ikrig - analytic IK chain rigging",
		Long:    "Classify joint chains, build IK handles on a persistent scene and solve 2-bone chains analytically.",
		Version: fmt.Sprintf("%s (schema %s)", ir.ToolVersion, ir.SchemaVersion),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.loadConfig(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", DefaultConfigPath, "config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "scene database path (overrides config)")
	cmd.PersistentFlags().BoolVar(&opts.Strict, "strict", false, "report non-joint endpoints as errors (overrides config)")

	cmd.AddCommand(NewSolveCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewClassifyCommand(opts))
	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewJournalCommand(opts))

	return cmd
}

// loadConfig merges the config file and environment, then applies flags
// the user set explicitly.
func (o *RootOptions) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database = o.Database
	}
	if flags.Changed("strict") {
		cfg.Strict = o.Strict
	}
	if o.Verbose {
		cfg.LogLevel = "debug"
	}
	o.Config = cfg
	return nil
}

// Logger returns a text logger on w at the configured level.
func (o *RootOptions) Logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.Config != nil {
		if l, err := o.Config.SlogLevel(); err == nil {
			level = l
		}
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
