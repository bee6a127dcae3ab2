package driver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"weave/internal/doc"
	"weave/internal/pipeline"
	"weave/internal/pretty"
	"weave/internal/trace"
)

// RenderOptions configures a batch render.
type RenderOptions struct {
	Layout      pretty.Options
	InputFormat InputFormat // FormatAuto detects per file
	Normalize   string      // none|nfc|nfd|nfkc|nfkd
	Jobs        int         // <= 0 uses GOMAXPROCS
	OutDir      string      // when set, each result is also written there
	OutExt      string      // extension of written files, ".txt" when empty
	BaseDir     string      // display names are relative to it
	Cache       *DiskCache
	Progress    pipeline.ProgressSink
	Timings     *pipeline.Timings
	Stdin       io.Reader
}

// RenderResult is the outcome for one file.
type RenderResult struct {
	Path    string
	Name    string // display name
	Output  []byte // rendered text with its trailing newline
	OutPath string // written file, when OutDir is set
	Stats   pretty.Stats
	Cached  bool
	Err     error
}

// ParseNormalize maps a normalization name to a form. ok is false for
// "none" and the empty string.
func ParseNormalize(name string) (form norm.Form, ok bool, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return 0, false, nil
	case "nfc":
		return norm.NFC, true, nil
	case "nfd":
		return norm.NFD, true, nil
	case "nfkc":
		return norm.NFKC, true, nil
	case "nfkd":
		return norm.NFKD, true, nil
	default:
		return 0, false, fmt.Errorf("invalid normalization %q (expected: none|nfc|nfd|nfkc|nfkd)", name)
	}
}

// RenderPaths renders every path concurrently. Failures are reported per
// file in the results, in input order; the returned error is non-nil only
// for invalid options or cancellation.
func RenderPaths(ctx context.Context, paths []string, opts RenderOptions) ([]RenderResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	form, normalize, err := ParseNormalize(opts.Normalize)
	if err != nil {
		return nil, err
	}
	if opts.OutExt == "" {
		opts.OutExt = ".txt"
	}
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, err
		}
	}

	tracer := trace.FromContext(ctx)
	batch := trace.Begin(tracer, trace.ScopeDriver, "batch", trace.CurrentSpan(ctx).SpanID)
	defer batch.End(fmt.Sprintf("files=%d", len(paths)))

	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = pipeline.DisplayName(p, opts.BaseDir)
	}
	pipeline.EmitQueued(opts.Progress, names)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]RenderResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := renderOne(gctx, path, names[i], opts, form, normalize, tracer, batch.ID())
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func renderOne(ctx context.Context, path, name string, opts RenderOptions, form norm.Form, normalize bool, tracer trace.Tracer, parent uint64) RenderResult {
	res := RenderResult{Path: path, Name: name}
	span := trace.Begin(tracer, trace.ScopeFile, "file", parent).WithExtra("path", name)
	defer func() {
		detail := "ok"
		switch {
		case res.Err != nil:
			detail = res.Err.Error()
		case res.Cached:
			detail = "cached"
		}
		span.End(detail)
	}()

	fail := func(stage pipeline.Stage, err error, elapsed time.Duration) RenderResult {
		res.Err = fmt.Errorf("%s: %w", name, err)
		pipeline.Emit(opts.Progress, name, stage, pipeline.StatusError, res.Err, elapsed)
		return res
	}

	// load
	start := time.Now()
	pipeline.Emit(opts.Progress, name, pipeline.StageLoad, pipeline.StatusWorking, nil, 0)
	n, content, err := LoadFile(path, opts.InputFormat, opts.Stdin)
	elapsed := time.Since(start)
	opts.Timings.Add(pipeline.StageLoad, elapsed)
	if err != nil {
		return fail(pipeline.StageLoad, err, elapsed)
	}
	pipeline.Emit(opts.Progress, name, pipeline.StageLoad, pipeline.StatusDone, nil, elapsed)

	key, keyErr := cacheKey(path, content, opts)
	if opts.Cache != nil && keyErr == nil {
		var payload DiskPayload
		if hit, err := opts.Cache.Get(key, &payload); err == nil && hit {
			res.Output, res.Cached = payload.Output, true
			res.Stats = pretty.Stats{Ops: payload.Ops, Pruned: payload.Pruned, MaxOpen: payload.MaxOpen}
			pipeline.Emit(opts.Progress, name, pipeline.StageRender, pipeline.StatusCached, nil, 0)
			return writeStage(res, opts)
		}
	}

	// render
	if err := ctx.Err(); err != nil {
		return fail(pipeline.StageRender, err, 0)
	}
	start = time.Now()
	pipeline.Emit(opts.Progress, name, pipeline.StageRender, pipeline.StatusWorking, nil, 0)
	if normalize {
		n = doc.Normalize(n, form)
	}
	layout := opts.Layout
	layout.Tracer = tracer
	layout.TraceParent = span.ID()
	var buf bytes.Buffer
	stats, err := pretty.RenderStats(&buf, n, layout)
	elapsed = time.Since(start)
	opts.Timings.Add(pipeline.StageRender, elapsed)
	if err != nil {
		return fail(pipeline.StageRender, err, elapsed)
	}
	res.Output, res.Stats = buf.Bytes(), stats
	pipeline.Emit(opts.Progress, name, pipeline.StageRender, pipeline.StatusDone, nil, elapsed)

	if opts.Cache != nil && keyErr == nil {
		// A failed cache write only costs a re-render next time.
		_ = opts.Cache.Put(key, &DiskPayload{
			Source:  path,
			Output:  res.Output,
			Ops:     stats.Ops,
			Pruned:  stats.Pruned,
			MaxOpen: stats.MaxOpen,
			Created: time.Now(),
		})
	}
	return writeStage(res, opts)
}

func cacheKey(path string, content []byte, opts RenderOptions) (Digest, error) {
	format, err := ResolveFormat(path, opts.InputFormat)
	if err != nil {
		return Digest{}, err
	}
	return KeyFor(content, format, opts.Layout.Width, opts.Layout.MaxLookahead, opts.Normalize)
}

func writeStage(res RenderResult, opts RenderOptions) RenderResult {
	if opts.OutDir == "" {
		pipeline.Emit(opts.Progress, res.Name, pipeline.StageWrite, pipeline.StatusDone, nil, 0)
		return res
	}
	start := time.Now()
	pipeline.Emit(opts.Progress, res.Name, pipeline.StageWrite, pipeline.StatusWorking, nil, 0)
	res.OutPath = OutputPath(opts.OutDir, res.Name, opts.OutExt)
	err := os.MkdirAll(filepath.Dir(res.OutPath), 0o755)
	if err == nil {
		err = os.WriteFile(res.OutPath, res.Output, 0o644)
	}
	elapsed := time.Since(start)
	opts.Timings.Add(pipeline.StageWrite, elapsed)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", res.Name, err)
		pipeline.Emit(opts.Progress, res.Name, pipeline.StageWrite, pipeline.StatusError, res.Err, elapsed)
		return res
	}
	pipeline.Emit(opts.Progress, res.Name, pipeline.StageWrite, pipeline.StatusDone, nil, elapsed)
	return res
}

// OutputPath maps a display name to its file under outDir, replacing the
// input extension with ext. Names escaping outDir are flattened to their
// base name.
func OutputPath(outDir, name, ext string) string {
	if name == "-" || name == "" {
		name = "stdin"
	}
	rel := filepath.FromSlash(name)
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(rel)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ext
	return filepath.Join(outDir, rel)
}
