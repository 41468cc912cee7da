package compile

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlanKind tags the variants of a Plan node.
type PlanKind string

const (
	// PlanLeaf wraps a single task node.
	PlanLeaf PlanKind = "leaf"
	// PlanSequence runs its children strictly in order.
	PlanSequence PlanKind = "sequence"
	// PlanParallel runs its children concurrently; it always has at least
	// two children, a lone child is collapsed into its parent.
	PlanParallel PlanKind = "parallel"
)

// Plan is a node of the synthesized strict hierarchy consumed by the
// execution-plan builder. Leaves reuse their source task id; synthesized
// Sequence/Parallel wrappers receive generated ids distinct from any
// source id.
type Plan struct {
	ID       string
	Kind     PlanKind
	TaskID   string
	Children []*Plan
}

// String renders the tree's canonical shape, ignoring wrapper ids, so two
// synthesis passes over the same graph can be compared structurally.
func (p *Plan) String() string {
	if p == nil {
		return ""
	}
	switch p.Kind {
	case PlanLeaf:
		return p.TaskID
	case PlanSequence, PlanParallel:
		parts := make([]string, len(p.Children))
		for i, c := range p.Children {
			parts[i] = c.String()
		}
		tag := "seq"
		if p.Kind == PlanParallel {
			tag = "par"
		}
		return fmt.Sprintf("%s(%s)", tag, strings.Join(parts, ","))
	}
	return "?"
}

// Walk visits every node of the tree depth-first.
func (p *Plan) Walk(fn func(*Plan)) {
	if p == nil {
		return
	}
	fn(p)
	for _, c := range p.Children {
		c.Walk(fn)
	}
}

// TaskIDs returns the source task ids placed in the tree, in visit order.
func (p *Plan) TaskIDs() []string {
	var ids []string
	p.Walk(func(n *Plan) {
		if n.Kind == PlanLeaf {
			ids = append(ids, n.TaskID)
		}
	})
	return ids
}

func newLeaf(taskID string) *Plan {
	return &Plan{ID: taskID, Kind: PlanLeaf, TaskID: taskID}
}

func newSequence(children []*Plan) *Plan {
	return &Plan{ID: uuid.NewString(), Kind: PlanSequence, Children: children}
}

func newParallel(children []*Plan) *Plan {
	return &Plan{ID: uuid.NewString(), Kind: PlanParallel, Children: children}
}

// Synthesizer transforms the acyclic task subgraph of a Graph into a strict
// single-parent tree without duplicating any node, even when branches fan
// out and later reconverge. It carries the visited-set of one synthesis
// pass: a node, once placed, is never placed again. Instances are
// single-use and must not be shared across compiles.
type Synthesizer struct {
	graph   *Graph
	visited map[string]bool
	logger  *zap.Logger
	used    bool
}

// NewSynthesizer creates a single-use synthesizer for the given graph.
// The graph must have passed cycle detection; feeding a cyclic graph is
// undefined behavior.
func NewSynthesizer(g *Graph) *Synthesizer {
	return &Synthesizer{
		graph:   g,
		visited: make(map[string]bool),
		logger:  zap.NewNop(),
	}
}

// WithLogger sets a custom logger.
func (s *Synthesizer) WithLogger(logger *zap.Logger) *Synthesizer {
	s.logger = logger.With(zap.String("component", "synthesizer"))
	return s
}

// Synthesize builds the hierarchy from the graph's entry nodes. A nil
// result means the graph contains no task nodes to place.
func (s *Synthesizer) Synthesize() (*Plan, error) {
	if s.used {
		return nil, fmt.Errorf("synthesizer is single-use; create a fresh one per compile")
	}
	s.used = true

	plan := s.synthesizeSet(s.graph.Entries(), nil)
	s.logger.Debug("hierarchy synthesized",
		zap.Int("entries", len(s.graph.Entries())),
		zap.Int("placed", len(s.visited)),
	)
	return plan, nil
}

// synthesizeSet builds the subtree for a root set. stop bounds branch
// construction during fork-join handling: traversal never enters the stop
// node. Returns nil when the roots produce nothing.
func (s *Synthesizer) synthesizeSet(roots []*Node, stop *Node) *Plan {
	roots = s.pending(roots, stop)
	switch len(roots) {
	case 0:
		return nil
	case 1:
		return s.chain(roots[0], stop)
	}

	if merge := s.findMergePoint(roots, stop); merge != nil {
		// Fork-join: each branch runs up to, but excluding, the merge
		// point; the merge point continues after the parallel group.
		var branches []*Plan
		for _, root := range roots {
			if branch := s.chain(root, merge); branch != nil {
				branches = append(branches, branch)
			}
		}
		par := collapse(branches)
		cont := s.synthesizeSet([]*Node{merge}, stop)
		switch {
		case par == nil:
			return cont
		case cont == nil:
			return par
		default:
			return newSequence([]*Plan{par, cont})
		}
	}

	// Pure fan-out: branches never reconverge, build each independently.
	var branches []*Plan
	for _, root := range roots {
		if branch := s.chain(root, stop); branch != nil {
			branches = append(branches, branch)
		}
	}
	return collapse(branches)
}

// chain walks a single root as a straight-line sequence. The walk is
// iterative so recursion depth is bounded by fork count, not chain length.
// It stops at a chain end, at the stop node, at an already visited
// successor, or at a fork, where it recurses into the successors and
// appends the result as the chain's last element.
func (s *Synthesizer) chain(root *Node, stop *Node) *Plan {
	var items []*Plan
	current := root
	for current != nil {
		if s.visited[current.ID] || current == stop {
			break
		}
		s.visited[current.ID] = true
		items = append(items, newLeaf(current.ID))

		succs := s.pending(s.graph.SequentialSuccessors(current), stop)
		switch len(succs) {
		case 0:
			current = nil
		case 1:
			current = succs[0]
		default:
			if sub := s.synthesizeSet(succs, stop); sub != nil {
				items = append(items, sub)
			}
			current = nil
		}
	}

	switch len(items) {
	case 0:
		return nil
	case 1:
		return items[0]
	default:
		return newSequence(items)
	}
}

// findMergePoint searches for a node reachable via sequential edges from
// every root. Candidates come from intersecting per-root reachable sets;
// the winner is the candidate discovered first by re-walking breadth-first
// from the roots in their given order. That favors the closest point along
// at least one branch and is the deterministic tie-break; it is not
// guaranteed to be the globally nearest candidate.
func (s *Synthesizer) findMergePoint(roots []*Node, stop *Node) *Node {
	candidates := s.reachable(roots[0], stop)
	for _, root := range roots[1:] {
		other := s.reachable(root, stop)
		for id := range candidates {
			if !other[id] {
				delete(candidates, id)
			}
		}
		if len(candidates) == 0 {
			return nil
		}
	}

	queue := append([]*Node(nil), roots...)
	seen := make(map[string]bool, len(roots))
	for _, r := range roots {
		seen[r.ID] = true
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, succ := range s.pending(s.graph.SequentialSuccessors(n), stop) {
			if seen[succ.ID] {
				continue
			}
			if candidates[succ.ID] {
				return succ
			}
			seen[succ.ID] = true
			queue = append(queue, succ)
		}
	}
	return nil
}

// reachable computes the set of node ids reachable from the root via
// sequential edges, bounded by the shared visited-set and the stop node.
func (s *Synthesizer) reachable(root *Node, stop *Node) map[string]bool {
	out := make(map[string]bool)
	queue := []*Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, succ := range s.pending(s.graph.SequentialSuccessors(n), stop) {
			if out[succ.ID] {
				continue
			}
			out[succ.ID] = true
			queue = append(queue, succ)
		}
	}
	return out
}

// pending filters a node list down to unvisited nodes other than stop,
// preserving order.
func (s *Synthesizer) pending(nodes []*Node, stop *Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		if !s.visited[n.ID] && n != stop {
			out = append(out, n)
		}
	}
	return out
}

// collapse wraps branch results in a Parallel node, collapsing a lone
// branch into itself. Parallel nodes always have at least two children.
func collapse(branches []*Plan) *Plan {
	switch len(branches) {
	case 0:
		return nil
	case 1:
		return branches[0]
	default:
		return newParallel(branches)
	}
}
