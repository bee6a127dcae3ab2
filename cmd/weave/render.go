package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"weave/internal/driver"
	"weave/internal/highlight"
	"weave/internal/observ"
	"weave/internal/pipeline"
	"weave/internal/trace"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] <file>...",
	Short: "Render documents to text",
	Long: `Render lays out each document at the page width and writes the text to
stdout, or under --out-dir. Inputs are decoded by extension (.json, .yaml,
.yml, .msgpack, .mp); "-" reads stdin and needs --input-format.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	addLayoutFlags(renderCmd)
	f := renderCmd.Flags()
	f.String("out-dir", "", "write each result under this directory instead of stdout")
	f.String("out-ext", ".txt", "extension of files written under --out-dir")
	f.String("highlight", "", "chroma lexer used to colour output on a terminal (e.g. go, json)")
	f.Int("jobs", 0, "documents rendered in parallel (0: GOMAXPROCS)")
	f.Bool("cache", false, "reuse earlier renders from the disk cache")
	f.Bool("cache-clear", false, "drop every cached render before starting")
	f.Bool("watch", false, "re-render inputs when they change")
	f.String("ui", "auto", "progress view for batches (auto|on|off)")
}

func runRender(cmd *cobra.Command, args []string) error {
	timer := observ.NewTimer()
	phase := timer.Begin("config")
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := applyRenderFlags(cmd, &s); err != nil {
		return err
	}
	timer.End(phase, s.cfg.Path)

	tracer, cleanup, err := setupTracing(cmd, s.cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("failed to get watch flag: %w", err)
	}
	if watch && slices.Contains(args, "-") {
		return errors.New("--watch cannot follow stdin")
	}

	opts, err := renderOptions(cmd, s)
	if err != nil {
		return err
	}
	hl, err := outputHighlighter(s.cfg.Render.Highlight, opts.OutDir)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	failed, err := renderBatch(ctx, cmd, args, opts, mode, hl, timer)
	if err != nil {
		return err
	}
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		printStageTimings(cmd.ErrOrStderr(), opts.Timings, timer, len(args))
	}
	if failed {
		dumpRing(cmd.ErrOrStderr(), tracer)
	}
	if !watch {
		if failed {
			return errReported
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if !quiet(cmd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "watching %d file(s), interrupt to stop\n", len(args))
	}
	return driver.Watch(ctx, args, driver.DefaultDebounce, func(changed []string) {
		if _, err := renderBatch(ctx, cmd, changed, opts, uiModeOff, hl, observ.NewTimer()); err != nil && ctx.Err() == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "render: %v\n", err)
		}
	})
}

// applyRenderFlags overrides weave.toml values with the render flags the
// user set.
func applyRenderFlags(cmd *cobra.Command, s *settings) error {
	f := cmd.Flags()
	var err error
	if f.Changed("out-ext") {
		if s.cfg.Render.OutExt, err = f.GetString("out-ext"); err != nil {
			return err
		}
	}
	if f.Changed("highlight") {
		if s.cfg.Render.Highlight, err = f.GetString("highlight"); err != nil {
			return err
		}
	}
	if f.Changed("jobs") {
		if s.cfg.Batch.Jobs, err = f.GetInt("jobs"); err != nil {
			return err
		}
	}
	if f.Changed("cache") {
		if s.cfg.Batch.Cache, err = f.GetBool("cache"); err != nil {
			return err
		}
	}
	return s.cfg.Validate()
}

func renderOptions(cmd *cobra.Command, s settings) (driver.RenderOptions, error) {
	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		return driver.RenderOptions{}, fmt.Errorf("failed to get out-dir flag: %w", err)
	}
	opts := driver.RenderOptions{
		Layout:      s.layout(),
		InputFormat: s.inputFormat,
		Normalize:   s.cfg.Render.Normalize,
		Jobs:        s.cfg.Batch.Jobs,
		OutDir:      outDir,
		OutExt:      s.cfg.Render.OutExt,
		BaseDir:     ".",
		Timings:     &pipeline.Timings{},
		Stdin:       cmd.InOrStdin(),
	}

	clearCache, err := cmd.Flags().GetBool("cache-clear")
	if err != nil {
		return driver.RenderOptions{}, fmt.Errorf("failed to get cache-clear flag: %w", err)
	}
	if !s.cfg.Batch.Cache && !clearCache {
		return opts, nil
	}
	cacheDir, err := s.cfg.CacheDir()
	if err != nil {
		return driver.RenderOptions{}, err
	}
	var cache *driver.DiskCache
	if cacheDir != "" {
		cache, err = driver.NewDiskCache(cacheDir)
	} else {
		cache, err = driver.OpenDiskCache("weave")
	}
	if err != nil {
		return driver.RenderOptions{}, fmt.Errorf("failed to open cache: %w", err)
	}
	if clearCache {
		if err := cache.DropAll(); err != nil {
			return driver.RenderOptions{}, fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	if s.cfg.Batch.Cache {
		opts.Cache = cache
	}
	return opts, nil
}

// outputHighlighter returns nil unless coloured text would reach a terminal.
func outputHighlighter(language, outDir string) (*highlight.Highlighter, error) {
	if language == "" || outDir != "" || color.NoColor || !isTerminal(os.Stdout) {
		return nil, nil
	}
	return highlight.New(language, "", "")
}

// renderBatch renders paths and prints the results in input order. failed
// reports per-file errors, which are printed as they are met; err is
// reserved for failures of the batch itself.
func renderBatch(ctx context.Context, cmd *cobra.Command, paths []string, opts driver.RenderOptions, mode uiMode, hl *highlight.Highlighter, timer *observ.Timer) (failed bool, err error) {
	phase := timer.Begin("render")
	var results []driver.RenderResult
	if shouldUseTUI(mode, len(paths)) {
		results, err = runRenderWithUI(ctx, "rendering", paths, opts)
	} else {
		results, err = driver.RenderPaths(ctx, paths, opts)
	}
	timer.End(phase, fmt.Sprintf("%d files", len(paths)))
	if err != nil {
		return true, err
	}

	phase = timer.Begin("output")
	defer timer.End(phase, "")
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed = true
			fmt.Fprintf(errOut, "render: %v\n", r.Err)
		case r.OutPath != "":
			if !quiet(cmd) {
				fmt.Fprintf(errOut, "wrote %s\n", r.OutPath)
			}
		default:
			if err := writeOutput(out, r.Output, hl); err != nil {
				return true, err
			}
		}
	}
	return failed, nil
}

func writeOutput(w io.Writer, text []byte, hl *highlight.Highlighter) error {
	if hl == nil {
		_, err := w.Write(text)
		return err
	}
	return hl.Write(w, string(text))
}

// dumpRing prints the events kept by a ring tracer after a failure.
func dumpRing(w io.Writer, tracer trace.Tracer) {
	ring := trace.RingOf(tracer)
	if ring == nil || ring.Len() == 0 {
		return
	}
	fmt.Fprintf(w, "trace: last %d events\n", ring.Len())
	if err := ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
