package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"weave/internal/pretty"
	"weave/internal/testkit"
	"weave/internal/trace"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file>...",
	Short: "Validate documents without rendering them",
	Long: `Check decodes and serializes each document, resolves its groups and
verifies the op stream invariants (balanced groups and indents, resolved
fits, monotone right edges)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	addLayoutFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	_, cleanup, err := setupTracing(cmd, s.cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	layout := s.layout()
	layout.Tracer = tracerOf(cmd)
	failed := false
	for _, path := range args {
		ops, err := checkFile(path, s, layout, cmd)
		if err != nil {
			failed = true
			fmt.Fprintf(cmd.ErrOrStderr(), "check: %v\n", err)
			continue
		}
		if !quiet(cmd) {
			fmt.Fprintf(cmd.OutOrStdout(), "ok %s (%d ops)\n", path, ops)
		}
	}
	if failed {
		return errReported
	}
	return nil
}

func checkFile(path string, s settings, layout pretty.Options, cmd *cobra.Command) (int, error) {
	n, err := loadDocument(path, s, cmd.InOrStdin())
	if err != nil {
		return 0, err
	}
	ops, err := pretty.Annotate(n, layout)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if err := testkit.CheckOps(ops); err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return len(ops), nil
}

func tracerOf(cmd *cobra.Command) trace.Tracer {
	return trace.FromContext(cmd.Context())
}
