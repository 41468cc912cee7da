package compile

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/flowplan/canvas"
)

// maxReasonableIterations is the bound above which an explicit loop node is
// assumed to be a typo rather than intent.
const maxReasonableIterations = 10_000

// ValidationResult collects a full validator pass. Fatal errors are
// accumulated rather than aborting so every problem surfaces together;
// warnings never invalidate the result on their own.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []*Error `json:"errors,omitempty"`
	Warnings []*Error `json:"warnings,omitempty"`
}

func (r *ValidationResult) addError(e *Error) {
	r.Errors = append(r.Errors, e)
	r.Valid = false
}

func (r *ValidationResult) addWarning(e *Error) {
	r.Warnings = append(r.Warnings, e)
}

// Validator runs structural and reference checks against a built graph.
// Unlike the GraphBuilder it is fail-slow: the whole pass always completes
// and the caller chooses strict or lenient handling of the result.
type Validator struct {
	logger *zap.Logger
}

// NewValidator creates a validator.
func NewValidator() *Validator {
	return &Validator{logger: zap.NewNop()}
}

// WithLogger sets a custom logger.
func (v *Validator) WithLogger(logger *zap.Logger) *Validator {
	v.logger = logger.With(zap.String("component", "validator"))
	return v
}

// Validate runs every rule against the graph. contents resolves external
// content references; a reference absent from the table is fatal and
// attributed to the referencing node.
func (v *Validator) Validate(g *Graph, contents canvas.ContentTable) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if _, err := TopoSort(g); err != nil {
		if ce, ok := err.(*Error); ok {
			result.addError(ce)
		} else {
			result.addError(NewError(ErrGraphCycle, err.Error()))
		}
	}

	for _, n := range g.Nodes() {
		v.checkContentRef(n, contents, result)

		switch n.Kind {
		case canvas.KindTask:
			v.checkTask(n, result)
		case canvas.KindProvider:
			v.checkProvider(n, result)
		case canvas.KindLoop:
			v.checkComposite(n, result)
			v.checkIterationBound(n, result)
		case canvas.KindGroup:
			v.checkComposite(n, result)
		}
	}

	v.logger.Info("validation finished",
		zap.Bool("valid", result.Valid),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result
}

func (v *Validator) checkContentRef(n *Node, contents canvas.ContentTable, result *ValidationResult) {
	ref := n.ContentRef()
	if ref == "" || contents.Has(ref) {
		return
	}
	result.addError(NewError(ErrMissingContent,
		fmt.Sprintf("content reference %q cannot be resolved", ref)).
		WithLocation(n.Location()))
}

func (v *Validator) checkTask(n *Node, result *ValidationResult) {
	if len(n.Incoming) == 0 && len(n.Outgoing) == 0 {
		result.addWarning(NewError(WarnIsolatedTask,
			fmt.Sprintf("task %s has no connections and will never run", n.ID)).
			WithLocation(n.Location()))
		return
	}
	if !n.RequiresInstructions() {
		return
	}
	for _, e := range n.Incoming {
		if e.Semantic == SemanticInput {
			return
		}
	}
	result.addWarning(NewError(WarnNoInstructions,
		fmt.Sprintf("task %s requires instructions but no input edge provides any", n.ID)).
		WithLocation(n.Location()))
}

func (v *Validator) checkProvider(n *Node, result *ValidationResult) {
	if len(n.Outgoing) == 0 {
		result.addWarning(NewError(WarnUnusedProvider,
			fmt.Sprintf("provider %s feeds nothing", n.ID)).
			WithLocation(n.Location()))
	}
}

func (v *Validator) checkComposite(n *Node, result *ValidationResult) {
	for _, e := range n.Outgoing {
		if e.Semantic == SemanticSubtask {
			return
		}
	}
	for _, e := range n.Incoming {
		if e.Semantic == SemanticSubtask {
			return
		}
	}
	result.addWarning(NewError(WarnEmptyComposite,
		fmt.Sprintf("composite %s has no child connections", n.ID)).
		WithLocation(n.Location()))
}

func (v *Validator) checkIterationBound(n *Node, result *ValidationResult) {
	bound, ok := n.MaxIterations()
	if !ok {
		return
	}
	switch {
	case bound <= 0:
		result.addError(NewError(ErrBadIterationBound,
			fmt.Sprintf("loop %s declares non-positive iteration bound %d", n.ID, bound)).
			WithLocation(n.Location()))
	case bound > maxReasonableIterations:
		result.addWarning(NewError(WarnExcessiveBound,
			fmt.Sprintf("loop %s declares implausibly large iteration bound %d", n.ID, bound)).
			WithLocation(n.Location()))
	}
}
