package compile

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/flowplan/canvas"
)

// Metrics receives compile observations. Implementations must be safe for
// concurrent use; the compiler itself is synchronous.
type Metrics interface {
	ObserveCompile(d time.Duration, outcome string)
	ObserveGraph(nodes, edges int)
	ObserveValidation(errors, warnings int)
}

// Result is the output of one compilation.
type Result struct {
	Graph      *Graph
	Order      []string
	Plan       *Plan
	Validation *ValidationResult
}

// Option configures a Compiler instance.
type Option func(*Compiler)

// Compiler is the front door: it builds the graph, validates it, runs cycle
// detection, and synthesizes the hierarchy in one call. The transformation
// is pure and deterministic, so callers may memoize results by a content
// hash of the input flow; the compiler itself never caches.
type Compiler struct {
	logger   *zap.Logger
	resolver *Resolver
	tracer   trace.Tracer
	metrics  Metrics
	strict   bool
}

// New creates a compiler with sensible defaults and applies the provided
// options. Callers typically supply only the options that need to differ
// from the defaults.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		logger:   zap.NewNop(),
		resolver: NewResolver(),
		tracer:   otel.Tracer("flowplan/compile"),
		strict:   true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// WithLogger sets the logger used by the compiler and its stages.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithResolver sets a custom edge-semantics resolver.
func WithResolver(resolver *Resolver) Option {
	return func(c *Compiler) {
		if resolver != nil {
			c.resolver = resolver
		}
	}
}

// WithStrict controls fatal-error handling. Strict mode (the default)
// blocks compilation on any fatal validation error; lenient mode proceeds
// and surfaces everything through Result.Validation.
func WithStrict(strict bool) Option {
	return func(c *Compiler) {
		c.strict = strict
	}
}

// WithMetrics sets a metrics sink. Nil disables observation.
func WithMetrics(m Metrics) Option {
	return func(c *Compiler) {
		c.metrics = m
	}
}

// WithTracer sets the tracer for per-stage spans. The default is the global
// otel tracer, which is a noop unless the host application installs a
// provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Compiler) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// Compile runs the full pipeline on one flow. The context carries only
// trace propagation; compilation never blocks and cannot be cancelled
// midway. Every call builds a fresh graph and a fresh synthesizer.
func (c *Compiler) Compile(ctx context.Context, flow *canvas.Flow, contents canvas.ContentTable) (*Result, error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "compile",
		trace.WithAttributes(attribute.String("flow.name", flow.Name)))
	defer span.End()

	result, err := c.compile(ctx, flow, contents)

	if c.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		c.metrics.ObserveCompile(time.Since(start), outcome)
	}
	return result, err
}

func (c *Compiler) compile(ctx context.Context, flow *canvas.Flow, contents canvas.ContentTable) (*Result, error) {
	_, span := c.tracer.Start(ctx, "compile.build")
	graph, err := NewGraphBuilder().
		WithResolver(c.resolver).
		WithLogger(c.logger).
		Build(flow)
	span.End()
	if err != nil {
		return nil, fmt.Errorf("graph construction failed: %w", err)
	}
	if c.metrics != nil {
		c.metrics.ObserveGraph(len(graph.Nodes()), len(graph.Edges()))
	}

	_, span = c.tracer.Start(ctx, "compile.validate")
	validation := NewValidator().WithLogger(c.logger).Validate(graph, contents)
	span.End()
	if c.metrics != nil {
		c.metrics.ObserveValidation(len(validation.Errors), len(validation.Warnings))
	}
	if c.strict && !validation.Valid {
		return &Result{Graph: graph, Validation: validation},
			fmt.Errorf("validation failed with %d fatal error(s): %w", len(validation.Errors), validation.Errors[0])
	}

	// Synthesis over a cyclic graph is undefined behavior, so the cycle
	// check is mandatory even in lenient mode.
	_, span = c.tracer.Start(ctx, "compile.toposort")
	order, err := TopoSort(graph)
	span.End()
	if err != nil {
		return &Result{Graph: graph, Validation: validation}, err
	}

	_, span = c.tracer.Start(ctx, "compile.synthesize")
	plan, err := NewSynthesizer(graph).WithLogger(c.logger).Synthesize()
	span.End()
	if err != nil {
		return &Result{Graph: graph, Order: order, Validation: validation}, err
	}

	c.logger.Info("flow compiled",
		zap.String("flow", flow.Name),
		zap.Int("nodes", len(graph.Nodes())),
		zap.Int("warnings", len(validation.Warnings)),
	)
	return &Result{Graph: graph, Order: order, Plan: plan, Validation: validation}, nil
}
