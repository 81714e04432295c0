package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/scene"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Op   string // optional - filter to one operation
	Node string // optional - filter to entries touching a node name
}

// JournalResult is the result of `journal`.
type JournalResult struct {
	Entries []scene.JournalEntry `json:"entries"`
	Total   int                  `json:"total"`

	// Digest covers the full journal, not just the filtered entries.
	Digest string `json:"digest"`
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show the scene mutation journal",
		Long: `List the recorded scene mutations in order.

Examples:
  ikrig journal --db scene.db
  ikrig journal --db scene.db --op connect
  ikrig journal --db scene.db --node wrist_ikHandle --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Op, "op", "", "only entries with this operation")
	cmd.Flags().StringVar(&opts.Node, "node", "", "only entries touching this node name")
	return cmd
}

func runJournal(opts *JournalOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	st, err := openScene(opts.RootOptions, false)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.Journal(context.Background())
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeSceneFailed, err.Error(), nil)
	}

	filtered := make([]scene.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if opts.Op != "" && e.Op != opts.Op {
			continue
		}
		if opts.Node != "" && !touches(e, opts.Node) {
			continue
		}
		filtered = append(filtered, e)
	}

	records := make([]ir.IRObject, len(entries))
	for i, e := range entries {
		records[i] = e.Canonical()
	}
	digest, err := ir.JournalDigest(records)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	res := JournalResult{Entries: filtered, Total: len(entries), Digest: digest}
	if f.IsJSON() {
		return f.Success(res, "")
	}

	w := f.Writer
	for _, e := range filtered {
		if e.Target != "" {
			fmt.Fprintf(w, "%4d  %-12s %s -> %s\n", e.Seq, e.Op, e.Node, e.Target)
		} else {
			fmt.Fprintf(w, "%4d  %-12s %s\n", e.Seq, e.Op, e.Node)
		}
	}
	fmt.Fprintf(w, "\n%d of %d entries, digest %s\n", len(filtered), len(entries), digest[:12])
	return nil
}

// touches reports whether the entry names node, either directly or as the
// node part of a plug.
func touches(e scene.JournalEntry, node string) bool {
	for _, s := range []string{e.Node, e.Target} {
		if s == node || strings.HasPrefix(s, node+".") {
			return true
		}
	}
	return false
}
