// Package trace records timing spans for the aoc front-end.
//
// Spans are nested by scope: the driver run, a pass over a set of files
// (tokenize, parse, check), a single file and, at the most detailed level,
// a procedure inside a file. Tracing is off unless a tracer is configured:
//
//	aoc parse --trace=- --trace-level=detail Kernel.Mod
//
// Tracers:
//
//   - Nop: does nothing, the default
//   - StreamTracer: writes each event as it happens (text or NDJSON)
//   - RingTracer: keeps the last N events in memory for a dump on failure
//   - Fanout: forwards to several tracers
//
// Tracers travel with the context:
//
//	ctx = trace.WithTracer(ctx, t)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer sp.End("")
package trace
