package compile

import (
	"sort"

	"github.com/BaSui01/flowplan/canvas"
)

// Semantic is the resolved meaning of an edge, derived from its endpoint
// kinds and port handles.
type Semantic string

const (
	// SemanticSequential orders one task strictly after another.
	SemanticSequential Semantic = "sequential"
	// SemanticParallel marks two tasks as members of one parallel group.
	SemanticParallel Semantic = "parallel"
	// SemanticSubtask attaches a task as a child of a composite node.
	SemanticSubtask Semantic = "subtask"
	// SemanticInput feeds content (instructions, tools, context) into a task.
	SemanticInput Semantic = "input"
	// SemanticOutputSink routes a task's output to a sink node.
	SemanticOutputSink Semantic = "output_sink"
	// SemanticCrossLink connects a node to either half of a cross-region link.
	SemanticCrossLink Semantic = "cross_link"
	// SemanticUnknown is the non-fatal fallback when no rule matches.
	SemanticUnknown Semantic = "unknown"
)

// InputKind refines SemanticInput edges.
type InputKind string

const (
	InputInstruction InputKind = "instruction"
	InputTool        InputKind = "tool"
	InputContext     InputKind = "context"
)

// Rule matches an edge by endpoint kinds and handles. An empty handle field
// is a wildcard; kind fields always match exactly. Higher priority wins.
type Rule struct {
	SourceKind   canvas.NodeKind
	TargetKind   canvas.NodeKind
	SourceHandle string
	TargetHandle string
	Semantic     Semantic
	InputKind    InputKind
	Priority     int
}

// matches reports whether the rule applies to the given edge shape.
func (r Rule) matches(srcKind, dstKind canvas.NodeKind, srcHandle, dstHandle string) bool {
	if r.SourceKind != srcKind || r.TargetKind != dstKind {
		return false
	}
	if r.SourceHandle != "" && r.SourceHandle != srcHandle {
		return false
	}
	if r.TargetHandle != "" && r.TargetHandle != dstHandle {
		return false
	}
	return true
}

// defaultRules is the built-in rule table. The table is data, not branching
// logic: the same kind pair can carry different meanings depending on the
// handles the connection is attached to.
var defaultRules = []Rule{
	// task → task through the parallel link ports beats the generic wiring.
	{SourceKind: canvas.KindTask, TargetKind: canvas.KindTask, SourceHandle: "link-top", TargetHandle: "link-bottom", Semantic: SemanticParallel, Priority: 100},
	{SourceKind: canvas.KindTask, TargetKind: canvas.KindTask, SourceHandle: "output", TargetHandle: "input", Semantic: SemanticSequential, Priority: 90},
	{SourceKind: canvas.KindTask, TargetKind: canvas.KindTask, Semantic: SemanticSequential, Priority: 50},

	// Composite membership.
	{SourceKind: canvas.KindLoop, TargetKind: canvas.KindTask, SourceHandle: "body", Semantic: SemanticSubtask, Priority: 90},
	{SourceKind: canvas.KindLoop, TargetKind: canvas.KindTask, Semantic: SemanticSubtask, Priority: 50},
	{SourceKind: canvas.KindGroup, TargetKind: canvas.KindTask, Semantic: SemanticSubtask, Priority: 50},
	{SourceKind: canvas.KindTask, TargetKind: canvas.KindLoop, Semantic: SemanticSequential, Priority: 50},
	{SourceKind: canvas.KindTask, TargetKind: canvas.KindGroup, Semantic: SemanticSequential, Priority: 50},

	// Content providers feeding tasks; the target handle picks the input kind.
	{SourceKind: canvas.KindProvider, TargetKind: canvas.KindTask, TargetHandle: "instructions", Semantic: SemanticInput, InputKind: InputInstruction, Priority: 90},
	{SourceKind: canvas.KindProvider, TargetKind: canvas.KindTask, TargetHandle: "tools", Semantic: SemanticInput, InputKind: InputTool, Priority: 90},
	{SourceKind: canvas.KindProvider, TargetKind: canvas.KindTask, TargetHandle: "context", Semantic: SemanticInput, InputKind: InputContext, Priority: 90},
	{SourceKind: canvas.KindProvider, TargetKind: canvas.KindTask, Semantic: SemanticInput, InputKind: InputContext, Priority: 50},

	// Output sinks.
	{SourceKind: canvas.KindTask, TargetKind: canvas.KindSink, Semantic: SemanticOutputSink, Priority: 50},
	{SourceKind: canvas.KindProvider, TargetKind: canvas.KindSink, Semantic: SemanticOutputSink, Priority: 40},

	// Cross-region link halves.
	{SourceKind: canvas.KindTask, TargetKind: canvas.KindLinkOut, Semantic: SemanticCrossLink, Priority: 50},
	{SourceKind: canvas.KindLinkIn, TargetKind: canvas.KindTask, Semantic: SemanticCrossLink, Priority: 50},
}

// Resolver resolves edge semantics against a prioritized rule table.
type Resolver struct {
	rules []Rule
}

// NewResolver creates a resolver over the built-in rule table.
func NewResolver() *Resolver {
	return NewResolverWithRules(defaultRules)
}

// NewResolverWithRules creates a resolver over a custom rule table.
// Rules are evaluated in descending priority order; insertion order breaks
// priority ties so resolution stays deterministic.
func NewResolverWithRules(rules []Rule) *Resolver {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return &Resolver{rules: sorted}
}

// Resolve returns the semantic of an edge between the given endpoint kinds
// and handles. The first rule whose kind fields match exactly and whose
// handle fields match exactly or are wildcards wins. No match yields
// SemanticUnknown, which is not an error.
func (r *Resolver) Resolve(srcKind, dstKind canvas.NodeKind, srcHandle, dstHandle string) (Semantic, InputKind) {
	for _, rule := range r.rules {
		if rule.matches(srcKind, dstKind, srcHandle, dstHandle) {
			return rule.Semantic, rule.InputKind
		}
	}
	return SemanticUnknown, ""
}
