package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ikrig/internal/scene"
)

// ImportResult is the result of `import`.
type ImportResult struct {
	Database string `json:"database"`
	Nodes    int    `json:"nodes"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <fixture.yaml>",
		Short: "Create fixture nodes in the scene database",
		Long: `Create the nodes of a YAML scene fixture in the scene database.

The database is created if it does not exist. Node names must not already
be taken.

Example:
  ikrig import arm.yaml --db scene.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], cmd)
		},
	}
}

func runImport(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	fixture, err := scene.LoadFixture(path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeBadInput, err.Error(), nil)
	}

	st, err := openScene(opts, true)
	if err != nil {
		return err
	}
	defer st.Close()

	ids, err := fixture.Populate(context.Background(), st)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeSceneFailed, err.Error(), nil)
	}

	f.VerboseLog("Imported %s into %s", path, opts.Config.Database)
	res := ImportResult{Database: opts.Config.Database, Nodes: len(ids)}
	return f.Success(res, fmt.Sprintf("Imported %d node(s) into %s", res.Nodes, res.Database))
}
