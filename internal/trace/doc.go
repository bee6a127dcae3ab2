// Package trace provides the tracing subsystem used by weave for logging.
//
// Tracing follows a render from the CLI down to individual group decisions,
// which helps when a document renders slowly or lays out unexpectedly.
//
// # Usage
//
//	weave render --trace=- --trace-level=detail shader.json
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event immediately (file or stderr)
//   - RingTracer: keeps the last N events in memory for crash dumps
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
//   - LevelPhase: ScopeDriver and ScopeStage events (command, pipeline stages)
//   - LevelDetail: adds ScopeFile events (one per rendered document)
//   - LevelDebug: adds ScopeGroup events (pruned groups inside the fit pass)
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeFile, "render", parentID)
//	defer span.End("")
package trace
