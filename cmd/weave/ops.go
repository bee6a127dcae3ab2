package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"weave/internal/pretty"
)

var opsCmd = &cobra.Command{
	Use:   "ops [flags] <file>",
	Short: "Print the annotated op stream of a document",
	Long: `Ops serializes a document, stamps right edges and resolves every group,
then prints the ops the renderer would receive, one per line`,
	Args: cobra.ExactArgs(1),
	RunE: runOps,
}

func init() {
	addLayoutFlags(opsCmd)
	opsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type opRecord struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"`
	Text   string `json:"text,omitempty"`
	Offset int    `json:"offset,omitempty"`
	Right  int    `json:"right"`
	Fit    string `json:"fit,omitempty"`
}

func runOps(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	_, cleanup, err := setupTracing(cmd, s.cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	n, err := loadDocument(args[0], s, cmd.InOrStdin())
	if err != nil {
		return err
	}
	layout := s.layout()
	layout.Tracer = tracerOf(cmd)
	ops, err := pretty.Annotate(n, layout)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if format == "json" {
		return writeOpsJSON(cmd.OutOrStdout(), ops)
	}
	writeOpsPretty(cmd.OutOrStdout(), ops)
	return nil
}

var opKindColors = map[pretty.OpKind]*color.Color{
	pretty.OpText:    color.New(color.FgGreen),
	pretty.OpPass:    color.New(color.FgMagenta),
	pretty.OpEscaped: color.New(color.FgMagenta, color.Bold),
	pretty.OpLine:    color.New(color.FgCyan),
	pretty.OpBreak:   color.New(color.FgCyan, color.Bold),
	pretty.OpBegin:   color.New(color.FgYellow, color.Bold),
	pretty.OpEnd:     color.New(color.FgYellow),
	pretty.OpNest:    color.New(color.FgBlue),
	pretty.OpAlign:   color.New(color.FgBlue),
	pretty.OpOutdent: color.New(color.FgBlue, color.Faint),
}

// writeOpsPretty prints one op per line, indented by group depth.
func writeOpsPretty(w io.Writer, ops []pretty.Op) {
	depth := 0
	for i, op := range ops {
		if op.Kind == pretty.OpEnd && depth > 0 {
			depth--
		}
		kind := op.Kind.String()
		rest := strings.TrimPrefix(op.String(), kind)
		if c, ok := opKindColors[op.Kind]; ok {
			kind = c.Sprint(kind)
		}
		fmt.Fprintf(w, "%5d  %s%s%s\n", i, strings.Repeat("  ", depth), kind, rest)
		if op.Kind == pretty.OpBegin {
			depth++
		}
	}
}

func writeOpsJSON(w io.Writer, ops []pretty.Op) error {
	records := make([]opRecord, len(ops))
	for i, op := range ops {
		rec := opRecord{Index: i, Kind: op.Kind.String(), Right: op.Right}
		switch op.Kind {
		case pretty.OpText, pretty.OpPass, pretty.OpEscaped, pretty.OpLine:
			rec.Text = op.Text
		case pretty.OpNest, pretty.OpAlign:
			rec.Offset = op.Offset
		case pretty.OpBegin:
			rec.Fit = op.Fit.String()
		}
		records[i] = rec
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
