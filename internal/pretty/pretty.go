package pretty

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"weave/internal/doc"
	"weave/internal/trace"
)

// errStopped unwinds the pipeline when a Fragments consumer stops early.
var errStopped = errors.New("pretty: consumer stopped")

// Stats summarizes one render.
type Stats struct {
	Ops     int // ops in the serialized stream
	Pruned  int // groups resolved as TooFar
	MaxOpen int // most groups buffered at once
}

type engine struct {
	opt    Options
	tracer trace.Tracer
	span   *trace.Span
	r      rights
	b      *begins
	f      *formatter
}

func newEngine(opt Options, name string) *engine {
	t := trace.OrNop(opt.Tracer)
	span := trace.Begin(t, trace.ScopeStage, name, opt.TraceParent)
	return &engine{
		opt:    opt,
		tracer: t,
		span:   span,
		b:      newBegins(opt, t, span.ID()),
		f:      newFormatter(opt.width()),
	}
}

func (e *engine) stats() Stats {
	return Stats{Ops: e.b.seen, Pruned: e.b.pruned, MaxOpen: e.b.maxOpen}
}

func (e *engine) end(err error) {
	if !trace.Enabled(e.tracer, trace.ScopeStage) {
		return
	}
	s := e.stats()
	detail := fmt.Sprintf("ops=%d pruned=%d max_open=%d", s.Ops, s.Pruned, s.MaxOpen)
	if err != nil && !errors.Is(err, errStopped) {
		detail += " error=" + err.Error()
	}
	e.span.WithExtra("width", fmt.Sprint(e.opt.width())).End(detail)
}

// run drives ops produced by source through rights, begins and format.
func (e *engine) run(source func(emit func(Op) error) error, out func(string) error) error {
	toFormat := func(op Op) error { return e.f.push(op, out) }
	toBegins := func(op Op) error { return e.b.push(op, toFormat) }
	toRights := func(op Op) error { return e.r.push(op, toBegins) }
	if err := source(toRights); err != nil {
		return err
	}
	return e.b.finish()
}

func walkSource(n doc.Node) func(emit func(Op) error) error {
	return func(emit func(Op) error) error {
		s := serializer{}
		return s.walk(n, emit)
	}
}

func seqSource(ops iter.Seq[Op]) func(emit func(Op) error) error {
	return func(emit func(Op) error) error {
		for op := range ops {
			op.Right, op.Fit = 0, Fit{}
			if err := emit(op); err != nil {
				return err
			}
		}
		return nil
	}
}

func fragments(opt Options, name string, source func(emit func(Op) error) error) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		e := newEngine(opt, name)
		err := e.run(source, func(s string) error {
			if !yield(s, nil) {
				return errStopped
			}
			return nil
		})
		e.end(err)
		if err != nil && !errors.Is(err, errStopped) {
			yield("", err)
		}
	}
}

// Fragments lazily renders n. Each iteration yields a text fragment; a
// failure is yielded once, as the last pair, with an empty fragment.
// Fragments already yielded stay valid. Breaking out of the loop stops the
// render.
func Fragments(n doc.Node, opt Options) iter.Seq2[string, error] {
	return fragments(opt, "render", walkSource(n))
}

// Layout renders a raw op stream. Right edges and fits in the input are
// ignored and recomputed. Unbalanced or unknown ops fail with ErrInvalidOp.
func Layout(ops iter.Seq[Op], opt Options) iter.Seq2[string, error] {
	return fragments(opt, "layout", seqSource(ops))
}

// Render writes n to w followed by a single newline.
func Render(w io.Writer, n doc.Node, opt Options) error {
	_, err := RenderStats(w, n, opt)
	return err
}

// RenderStats is Render returning statistics about the fit pass.
func RenderStats(w io.Writer, n doc.Node, opt Options) (Stats, error) {
	bw := bufio.NewWriter(w)
	e := newEngine(opt, "render")
	err := e.run(walkSource(n), func(s string) error {
		_, werr := bw.WriteString(s)
		return werr
	})
	e.end(err)
	if err == nil {
		err = bw.WriteByte('\n')
	}
	if ferr := bw.Flush(); err == nil {
		err = ferr
	}
	return e.stats(), err
}

// String renders n without a trailing newline.
func String(n doc.Node, opt Options) (string, error) {
	var sb strings.Builder
	e := newEngine(opt, "render")
	err := e.run(walkSource(n), func(s string) error {
		sb.WriteString(s)
		return nil
	})
	e.end(err)
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Annotate returns the op stream of n as the formatter receives it: right
// edges stamped and every Begin resolved.
func Annotate(n doc.Node, opt Options) ([]Op, error) {
	var ops []Op
	e := newEngine(opt, "annotate")
	toBegins := func(op Op) error {
		return e.b.push(op, func(op Op) error {
			ops = append(ops, op)
			return nil
		})
	}
	err := walkSource(n)(func(op Op) error { return e.r.push(op, toBegins) })
	if err == nil {
		err = e.b.finish()
	}
	e.end(err)
	if err != nil {
		return nil, err
	}
	return ops, nil
}
