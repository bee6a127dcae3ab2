package pretty

import "weave/internal/trace"

// DefaultWidth is the line width used by DefaultOptions.
const DefaultWidth = 70

// Options configures a render.
type Options struct {
	// Width is the target line width in runes. Zero is a valid width that
	// breaks every soft line; negative values are treated as zero.
	Width int

	// MaxLookahead bounds the number of simultaneously open groups held
	// while their fit is unknown. Zero ties the bound to Width.
	MaxLookahead int

	// Tracer receives a stage span per render and, at debug level, one
	// point per group pruned as too far. Nil disables tracing.
	Tracer trace.Tracer

	// TraceParent is the span the render span nests under.
	TraceParent uint64
}

// DefaultOptions returns options for a DefaultWidth render.
func DefaultOptions() Options {
	return Options{Width: DefaultWidth}
}

func (o Options) width() int {
	return max(o.Width, 0)
}

func (o Options) lookahead() int {
	if o.MaxLookahead > 0 {
		return o.MaxLookahead
	}
	return o.width()
}
