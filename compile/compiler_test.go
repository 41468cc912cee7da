package compile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/flowplan/canvas"
	"github.com/BaSui01/flowplan/testutil"
)

func TestCompiler_FullPipeline(t *testing.T) {
	result, err := New().Compile(context.Background(), testutil.DiamondFlow(), nil)
	require.NoError(t, err)

	require.NotNil(t, result.Graph)
	assert.Len(t, result.Order, 4)
	require.NotNil(t, result.Plan)
	assert.Equal(t, "seq(a,seq(par(b,c),d))", result.Plan.String())
	assert.True(t, result.Validation.Valid)
}

func TestCompiler_StructuralErrorAbortsWithNoResult(t *testing.T) {
	flow := testutil.SingleRegionFlow(
		[]canvas.Node{testutil.TaskNode("a")},
		[]canvas.Edge{testutil.SeqEdge("a", "ghost")},
	)

	result, err := New().Compile(context.Background(), flow, nil)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, ErrUnknownEndpoint, GetErrorCode(err))
}

func TestCompiler_StrictModeBlocksOnFatal(t *testing.T) {
	flow := testutil.SingleRegionFlow(
		[]canvas.Node{
			{ID: "p", Type: "prompt", Config: map[string]any{"content_ref": "gone.md"}},
			testutil.TaskNode("a"),
		},
		[]canvas.Edge{{ID: "p->a", Source: "p", Target: "a"}},
	)

	result, err := New().Compile(context.Background(), flow, canvas.ContentTable{})
	require.Error(t, err)
	require.NotNil(t, result, "diagnostics are still returned")
	assert.Nil(t, result.Plan)
	assert.False(t, result.Validation.Valid)
}

func TestCompiler_LenientModeProceedsPastFatal(t *testing.T) {
	flow := testutil.SingleRegionFlow(
		[]canvas.Node{
			{ID: "p", Type: "prompt", Config: map[string]any{"content_ref": "gone.md"}},
			testutil.TaskNode("a"),
		},
		[]canvas.Edge{{ID: "p->a", Source: "p", Target: "a"}},
	)

	result, err := New(WithStrict(false)).Compile(context.Background(), flow, canvas.ContentTable{})
	require.NoError(t, err)
	require.NotNil(t, result.Plan)
	assert.False(t, result.Validation.Valid, "diagnostics still surface")
}

func TestCompiler_LenientModeStillRefusesCycles(t *testing.T) {
	flow := testutil.ChainFlow("a", "b")
	flow.Regions[0].Edges = append(flow.Regions[0].Edges, testutil.SeqEdge("b", "a"))

	result, err := New(WithStrict(false)).Compile(context.Background(), flow, nil)
	require.Error(t, err)
	assert.Equal(t, ErrGraphCycle, GetErrorCode(err))
	require.NotNil(t, result)
	assert.Nil(t, result.Plan, "synthesis must never run on a cyclic graph")
}

func TestCompiler_WarningsDoNotBlockStrictMode(t *testing.T) {
	flow := testutil.ChainFlow("a", "b")
	flow.Regions[0].Nodes = append(flow.Regions[0].Nodes, testutil.TaskNode("lonely"))

	result, err := New().Compile(context.Background(), flow, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Validation.Warnings)
	require.NotNil(t, result.Plan)
}

type recordingMetrics struct {
	compiles  int
	outcomes  []string
	nodes     int
	edges     int
	errCount  int
	warnCount int
}

func (m *recordingMetrics) ObserveCompile(_ time.Duration, outcome string) {
	m.compiles++
	m.outcomes = append(m.outcomes, outcome)
}

func (m *recordingMetrics) ObserveGraph(nodes, edges int) {
	m.nodes, m.edges = nodes, edges
}

func (m *recordingMetrics) ObserveValidation(errors, warnings int) {
	m.errCount, m.warnCount = errors, warnings
}

func TestCompiler_MetricsObserved(t *testing.T) {
	m := &recordingMetrics{}
	_, err := New(WithMetrics(m)).Compile(context.Background(), testutil.DiamondFlow(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, m.compiles)
	assert.Equal(t, []string{"ok"}, m.outcomes)
	assert.Equal(t, 4, m.nodes)
	assert.Equal(t, 4, m.edges)
	assert.Zero(t, m.errCount)
}
