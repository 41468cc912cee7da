package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/flowplan/canvas"
	"github.com/BaSui01/flowplan/testutil"
)

func validate(t *testing.T, flow *canvas.Flow, contents canvas.ContentTable) *ValidationResult {
	t.Helper()
	g, err := newTestBuilder().Build(flow)
	require.NoError(t, err)
	return NewValidator().Validate(g, contents)
}

func TestValidator_CleanFlow(t *testing.T) {
	result := validate(t, testutil.DiamondFlow(), nil)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidator_CycleIsFatal(t *testing.T) {
	flow := testutil.ChainFlow("a", "b")
	flow.Regions[0].Edges = append(flow.Regions[0].Edges, testutil.SeqEdge("b", "a"))

	result := validate(t, flow, nil)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ErrGraphCycle, result.Errors[0].Code)
	assert.NotEmpty(t, result.Errors[0].Cycle)
}

func TestValidator_IsolatedTaskWarns(t *testing.T) {
	flow := testutil.ChainFlow("a", "b")
	flow.Regions[0].Nodes = append(flow.Regions[0].Nodes, testutil.TaskNode("lonely"))

	result := validate(t, flow, nil)
	assert.True(t, result.Valid, "warnings never invalidate")
	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarnIsolatedTask, result.Warnings[0].Code)
	assert.Equal(t, "lonely", result.Warnings[0].Location.NodeID)
}

func TestValidator_MissingContentIsFatalAndNamesNode(t *testing.T) {
	flow := testutil.SingleRegionFlow(
		[]canvas.Node{
			{ID: "p", Type: "prompt", Config: map[string]any{"content_ref": "prompts/missing.md"}},
			testutil.TaskNode("a"),
		},
		[]canvas.Edge{{ID: "p->a", Source: "p", Target: "a", TargetHandle: "instructions"}},
	)

	result := validate(t, flow, canvas.ContentTable{})
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ErrMissingContent, result.Errors[0].Code)
	assert.Equal(t, "p", result.Errors[0].Location.NodeID)

	// The same flow with the reference resolved is clean.
	result = validate(t, flow, canvas.ContentTable{"prompts/missing.md": "do the thing"})
	assert.True(t, result.Valid)
}

func TestValidator_MissingContentIsAccumulated(t *testing.T) {
	// Both dangling references surface in one pass.
	flow := testutil.SingleRegionFlow(
		[]canvas.Node{
			{ID: "p1", Type: "prompt", Config: map[string]any{"content_ref": "one.md"}},
			{ID: "p2", Type: "prompt", Config: map[string]any{"content_ref": "two.md"}},
			testutil.TaskNode("a"),
		},
		[]canvas.Edge{
			{ID: "p1->a", Source: "p1", Target: "a"},
			{ID: "p2->a", Source: "p2", Target: "a"},
		},
	)

	result := validate(t, flow, canvas.ContentTable{})
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 2)
}

func TestValidator_UnusedProviderWarns(t *testing.T) {
	flow := testutil.SingleRegionFlow(
		[]canvas.Node{{ID: "p", Type: "prompt"}, testutil.TaskNode("a")},
		nil,
	)

	result := validate(t, flow, nil)
	assert.True(t, result.Valid)

	codes := warningCodes(result)
	assert.Contains(t, codes, WarnUnusedProvider)
}

func TestValidator_TaskRequiringInstructionsWarns(t *testing.T) {
	flow := testutil.SingleRegionFlow(
		[]canvas.Node{
			{ID: "a", Type: "task", Config: map[string]any{"requires_instructions": true}},
			testutil.TaskNode("b"),
		},
		[]canvas.Edge{testutil.SeqEdge("a", "b")},
	)

	result := validate(t, flow, nil)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarnNoInstructions, result.Warnings[0].Code)

	// Feeding it instructions clears the warning.
	flow.Regions[0].Nodes = append(flow.Regions[0].Nodes, canvas.Node{ID: "p", Type: "prompt"})
	flow.Regions[0].Edges = append(flow.Regions[0].Edges,
		canvas.Edge{ID: "p->a", Source: "p", Target: "a", TargetHandle: "instructions"})

	result = validate(t, flow, nil)
	assert.Empty(t, result.Warnings)
}

func TestValidator_EmptyCompositeWarns(t *testing.T) {
	flow := testutil.SingleRegionFlow(
		[]canvas.Node{{ID: "l", Type: "loop", Config: map[string]any{"max_iterations": 3}}},
		nil,
	)

	result := validate(t, flow, nil)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarnEmptyComposite, result.Warnings[0].Code)
}

func TestValidator_IterationBounds(t *testing.T) {
	loopFlow := func(bound int) *canvas.Flow {
		return testutil.SingleRegionFlow(
			[]canvas.Node{
				{ID: "l", Type: "loop", Config: map[string]any{"max_iterations": bound}},
				testutil.TaskNode("a"),
			},
			[]canvas.Edge{{ID: "l->a", Source: "l", Target: "a"}},
		)
	}

	result := validate(t, loopFlow(0), nil)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ErrBadIterationBound, result.Errors[0].Code)

	result = validate(t, loopFlow(1_000_000), nil)
	assert.True(t, result.Valid)
	codes := warningCodes(result)
	assert.Contains(t, codes, WarnExcessiveBound)

	result = validate(t, loopFlow(5), nil)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
}

func warningCodes(result *ValidationResult) []ErrorCode {
	codes := make([]ErrorCode, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		codes = append(codes, w.Code)
	}
	return codes
}
