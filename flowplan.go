// Package flowplan provides a top-level convenience entry point for
// compiling visually authored workflows into hierarchical execution plans.
//
// Usage:
//
//	import "github.com/BaSui01/flowplan"
//
//	flow, err := flowplan.ImportFlow(data)
//	result, err := flowplan.Compile(ctx, flow, contents)
//
// This is a thin wrapper around the canvas and compile packages; both
// produce identical results. Use this package when you prefer the shorter
// import path.
package flowplan

import (
	"context"

	"github.com/BaSui01/flowplan/canvas"
	"github.com/BaSui01/flowplan/compile"
)

// Option configures the compiler created by [Compile].
type Option = compile.Option

// Compile compiles one flow with a fresh default compiler.
func Compile(ctx context.Context, flow *canvas.Flow, contents canvas.ContentTable, opts ...Option) (*compile.Result, error) {
	return compile.New(opts...).Compile(ctx, flow, contents)
}

// ImportFlow decodes a flow from visual editor JSON.
func ImportFlow(data []byte) (*canvas.Flow, error) {
	return canvas.Import(data)
}

// Re-export compiler options so callers never need to import compile/.

// WithLogger sets a custom zap logger.
var WithLogger = compile.WithLogger

// WithStrict toggles strict fatal-error handling.
var WithStrict = compile.WithStrict

// WithResolver sets a custom edge-semantics resolver.
var WithResolver = compile.WithResolver

// WithMetrics sets a metrics sink.
var WithMetrics = compile.WithMetrics

// WithTracer sets the tracer for per-stage spans.
var WithTracer = compile.WithTracer
