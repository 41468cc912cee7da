package compile

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/BaSui01/flowplan/canvas"
	"github.com/BaSui01/flowplan/testutil"
)

// randomDAGFlow builds an acyclic flow of n tasks with forward edges chosen
// by the seeded generator, so every generated graph is reproducible.
func randomDAGFlow(n int, seed int64) *canvas.Flow {
	rng := rand.New(rand.NewSource(seed))

	ids := make([]string, n)
	nodes := make([]canvas.Node, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("n%d", i)
		nodes[i] = testutil.TaskNode(ids[i])
	}

	var edges []canvas.Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < 0.4 {
				edges = append(edges, testutil.SeqEdge(ids[i], ids[j]))
			}
		}
	}
	return testutil.SingleRegionFlow(nodes, edges)
}

// Property: no source node id appears twice anywhere in a synthesized tree,
// and every task is placed exactly once.
func TestProperty_NoDuplicatePlacement(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("every task placed exactly once", prop.ForAll(
		func(n int, seed int64) bool {
			flow := randomDAGFlow(n, seed)

			g, err := newTestBuilder().Build(flow)
			if err != nil {
				t.Logf("build failed: %v", err)
				return false
			}
			if _, err := TopoSort(g); err != nil {
				t.Logf("unexpected cycle in forward DAG: %v", err)
				return false
			}

			plan, err := NewSynthesizer(g).Synthesize()
			if err != nil {
				t.Logf("synthesize failed: %v", err)
				return false
			}
			if plan == nil {
				return n == 0
			}

			placed := make(map[string]int)
			for _, id := range plan.TaskIDs() {
				placed[id]++
			}
			for id, count := range placed {
				if count != 1 {
					t.Logf("task %s placed %d times in %s", id, count, plan)
					return false
				}
			}
			if len(placed) != n {
				t.Logf("placed %d of %d tasks in %s", len(placed), n, plan)
				return false
			}
			return true
		},
		gen.IntRange(1, 9),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

// Property: synthesis is deterministic; two fresh synthesizers over one
// graph produce structurally identical trees.
func TestProperty_DeterministicSynthesis(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("repeated synthesis agrees structurally", prop.ForAll(
		func(n int, seed int64) bool {
			flow := randomDAGFlow(n, seed)

			g, err := newTestBuilder().Build(flow)
			if err != nil {
				t.Logf("build failed: %v", err)
				return false
			}

			first, err := NewSynthesizer(g).Synthesize()
			if err != nil {
				t.Logf("first synthesis failed: %v", err)
				return false
			}
			second, err := NewSynthesizer(g).Synthesize()
			if err != nil {
				t.Logf("second synthesis failed: %v", err)
				return false
			}
			if first.String() != second.String() {
				t.Logf("trees diverged: %s vs %s", first, second)
				return false
			}
			return true
		},
		gen.IntRange(1, 9),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
