package compile

import (
	"github.com/BaSui01/flowplan/canvas"
)

// Node is a typed graph node with its edge lists populated during the build.
// Once the owning Graph is returned by the builder, nodes are read-only.
type Node struct {
	ID       string
	Kind     canvas.NodeKind
	Label    string
	RegionID string
	Config   map[string]any
	Source   *canvas.SourceRef

	// Incoming and Outgoing are populated by the GraphBuilder in edge
	// declaration order, which downstream traversal relies on for
	// deterministic output.
	Incoming []*Edge
	Outgoing []*Edge
}

// Location returns the node's authoring location for diagnostics.
func (n *Node) Location() Location {
	loc := Location{NodeID: n.ID, RegionID: n.RegionID}
	if n.Source != nil {
		loc.File = n.Source.File
		loc.Line = n.Source.Line
	}
	return loc
}

// record returns a canvas view of the node for config helper reuse.
func (n *Node) record() canvas.Node {
	return canvas.Node{ID: n.ID, Type: string(n.Kind), Label: n.Label, Config: n.Config}
}

// ContentRef returns the node's external content reference, or "".
func (n *Node) ContentRef() string {
	return n.record().ContentRef()
}

// LinkName returns the pairing name of a link-out/link-in node.
func (n *Node) LinkName() string {
	return n.record().LinkName()
}

// MaxIterations returns a loop node's declared iteration bound.
func (n *Node) MaxIterations() (int, bool) {
	return n.record().ConfigInt("max_iterations")
}

// RequiresInstructions reports whether the task declares that it must be
// driven by instruction content.
func (n *Node) RequiresInstructions() bool {
	return n.record().ConfigBool("requires_instructions")
}

// Edge is a typed connection with its resolved semantic.
type Edge struct {
	ID           string
	SourceID     string
	TargetID     string
	SourceHandle string
	TargetHandle string
	Semantic     Semantic
	InputKind    InputKind

	// Raw points back at the originating record; nil for virtual edges
	// synthesized from link pairs.
	Raw *canvas.Edge
}

// Virtual reports whether the edge was synthesized from a link pair rather
// than authored on a canvas.
func (e *Edge) Virtual() bool {
	return e.Raw == nil
}

// LinkPair is a resolved cross-region connection: one link-out and one
// link-in node sharing a name, potentially in different regions.
type LinkPair struct {
	Name string
	Out  *Node
	In   *Node
}

// Graph is the compiled workflow graph. It is built fresh per compilation
// and immutable to all consumers once built.
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string
	edges     []*Edge
	linkPairs []LinkPair
	entries   []*Node
}

// Node retrieves a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges, authored first in declaration order, then
// virtual bridging edges.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// LinkPairs returns the resolved cross-region link pairs.
func (g *Graph) LinkPairs() []LinkPair {
	return g.linkPairs
}

// Entries returns the entry nodes: task nodes with no incoming sequential
// edge, in insertion order.
func (g *Graph) Entries() []*Node {
	return g.entries
}

// SequentialSuccessors returns the targets of the node's outgoing
// sequential edges, in edge order, as resolved nodes.
func (g *Graph) SequentialSuccessors(n *Node) []*Node {
	var out []*Node
	for _, e := range n.Outgoing {
		if e.Semantic != SemanticSequential {
			continue
		}
		if succ, ok := g.nodes[e.TargetID]; ok {
			out = append(out, succ)
		}
	}
	return out
}
