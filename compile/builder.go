package compile

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/flowplan/canvas"
)

// GraphBuilder constructs a typed Graph from raw canvas records.
// Construction is fail-fast: the first structural error aborts the build
// and no partial graph is returned.
type GraphBuilder struct {
	resolver *Resolver
	logger   *zap.Logger
}

// NewGraphBuilder creates a builder over the built-in semantic rule table.
func NewGraphBuilder() *GraphBuilder {
	logger, _ := zap.NewProduction()
	return &GraphBuilder{
		resolver: NewResolver(),
		logger:   logger.With(zap.String("component", "graph_builder")),
	}
}

// WithResolver sets a custom edge-semantics resolver.
func (b *GraphBuilder) WithResolver(resolver *Resolver) *GraphBuilder {
	b.resolver = resolver
	return b
}

// WithLogger sets a custom logger.
func (b *GraphBuilder) WithLogger(logger *zap.Logger) *GraphBuilder {
	b.logger = logger.With(zap.String("component", "graph_builder"))
	return b
}

// Build constructs the workflow graph from the flow's region-partitioned
// records: typed nodes, semantically resolved edges, cross-region link
// pairs with virtual bridging edges, and the entry node set.
func (b *GraphBuilder) Build(flow *canvas.Flow) (*Graph, error) {
	g := &Graph{nodes: make(map[string]*Node)}

	for _, region := range flow.Regions {
		for _, rec := range region.Nodes {
			kind, ok := canvas.ParseNodeKind(rec.Type)
			if !ok {
				return nil, NewError(ErrUnknownNodeType,
					fmt.Sprintf("node %s has unknown type %q", rec.ID, rec.Type)).
					WithLocation(Location{NodeID: rec.ID, RegionID: region.ID})
			}
			if prev, dup := g.nodes[rec.ID]; dup {
				return nil, NewError(ErrDuplicateNode,
					fmt.Sprintf("node id %s declared in regions %s and %s", rec.ID, prev.RegionID, region.ID)).
					WithLocation(Location{NodeID: rec.ID, RegionID: region.ID})
			}
			g.nodes[rec.ID] = &Node{
				ID:       rec.ID,
				Kind:     kind,
				Label:    rec.Label,
				RegionID: region.ID,
				Config:   rec.Config,
				Source:   rec.Source,
			}
			g.nodeOrder = append(g.nodeOrder, rec.ID)
		}
	}

	for _, region := range flow.Regions {
		for i := range region.Edges {
			if err := b.addEdge(g, region.ID, &region.Edges[i]); err != nil {
				return nil, err
			}
		}
	}

	if err := b.resolveLinks(g); err != nil {
		return nil, err
	}
	b.bridgeLinks(g)
	b.computeEntries(g)

	b.logger.Info("workflow graph built",
		zap.Int("nodes", len(g.nodes)),
		zap.Int("edges", len(g.edges)),
		zap.Int("link_pairs", len(g.linkPairs)),
		zap.Int("entries", len(g.entries)),
	)

	return g, nil
}

// addEdge resolves an authored edge's endpoints and semantic and wires it
// into both endpoints' edge lists. Unknown endpoints are fatal, never
// silently dropped.
func (b *GraphBuilder) addEdge(g *Graph, regionID string, rec *canvas.Edge) error {
	src, ok := g.nodes[rec.Source]
	if !ok {
		return NewError(ErrUnknownEndpoint,
			fmt.Sprintf("edge %s references unknown source %s", rec.ID, rec.Source)).
			WithLocation(Location{NodeID: rec.Source, RegionID: regionID})
	}
	dst, ok := g.nodes[rec.Target]
	if !ok {
		return NewError(ErrUnknownEndpoint,
			fmt.Sprintf("edge %s references unknown target %s", rec.ID, rec.Target)).
			WithLocation(Location{NodeID: rec.Target, RegionID: regionID})
	}

	semantic, inputKind := b.resolver.Resolve(src.Kind, dst.Kind, rec.SourceHandle, rec.TargetHandle)
	edge := &Edge{
		ID:           rec.ID,
		SourceID:     src.ID,
		TargetID:     dst.ID,
		SourceHandle: rec.SourceHandle,
		TargetHandle: rec.TargetHandle,
		Semantic:     semantic,
		InputKind:    inputKind,
		Raw:          rec,
	}
	src.Outgoing = append(src.Outgoing, edge)
	dst.Incoming = append(dst.Incoming, edge)
	g.edges = append(g.edges, edge)
	return nil
}

// resolveLinks groups link-out and link-in nodes by name and pairs matching
// names across any regions. Two same-direction links sharing a name within
// one region are ambiguous and fatal.
func (b *GraphBuilder) resolveLinks(g *Graph) error {
	outs := make(map[string][]*Node)
	ins := make(map[string][]*Node)
	var outNames, inNames []string

	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		name := n.LinkName()
		switch n.Kind {
		case canvas.KindLinkOut:
			if err := checkDuplicateLink(outs[name], n, name); err != nil {
				return err
			}
			if len(outs[name]) == 0 {
				outNames = append(outNames, name)
			}
			outs[name] = append(outs[name], n)
		case canvas.KindLinkIn:
			if err := checkDuplicateLink(ins[name], n, name); err != nil {
				return err
			}
			if len(ins[name]) == 0 {
				inNames = append(inNames, name)
			}
			ins[name] = append(ins[name], n)
		}
	}

	for _, name := range outNames {
		for _, out := range outs[name] {
			for _, in := range ins[name] {
				g.linkPairs = append(g.linkPairs, LinkPair{Name: name, Out: out, In: in})
			}
		}
	}
	return nil
}

// checkDuplicateLink rejects a second same-direction link with the same name
// in the same region.
func checkDuplicateLink(existing []*Node, n *Node, name string) error {
	for _, prev := range existing {
		if prev.RegionID == n.RegionID {
			return NewError(ErrDuplicateLink,
				fmt.Sprintf("duplicate %s link %q in region %s", n.Kind, name, n.RegionID)).
				WithLocation(n.Location())
		}
	}
	return nil
}

// bridgeLinks synthesizes virtual sequential edges for every link pair,
// connecting each task predecessor of the link-out directly to each task
// successor of the link-in. Cross-region chains then look identical to
// same-region chains during hierarchy synthesis.
func (b *GraphBuilder) bridgeLinks(g *Graph) {
	for _, pair := range g.linkPairs {
		for _, pred := range taskNeighbors(g, pair.Out.Incoming, func(e *Edge) string { return e.SourceID }) {
			for _, succ := range taskNeighbors(g, pair.In.Outgoing, func(e *Edge) string { return e.TargetID }) {
				edge := &Edge{
					ID:       fmt.Sprintf("link:%s:%s->%s", pair.Name, pred.ID, succ.ID),
					SourceID: pred.ID,
					TargetID: succ.ID,
					Semantic: SemanticSequential,
				}
				pred.Outgoing = append(pred.Outgoing, edge)
				succ.Incoming = append(succ.Incoming, edge)
				g.edges = append(g.edges, edge)
			}
		}
	}
}

// taskNeighbors collects the task-kind nodes on the far end of the given
// edge list, in edge order.
func taskNeighbors(g *Graph, edges []*Edge, endpoint func(*Edge) string) []*Node {
	var out []*Node
	for _, e := range edges {
		if n, ok := g.nodes[endpoint(e)]; ok && n.Kind == canvas.KindTask {
			out = append(out, n)
		}
	}
	return out
}

// computeEntries records task nodes with zero incoming sequential edges.
func (b *GraphBuilder) computeEntries(g *Graph) {
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		if n.Kind != canvas.KindTask {
			continue
		}
		hasSequentialIn := false
		for _, e := range n.Incoming {
			if e.Semantic == SemanticSequential {
				hasSequentialIn = true
				break
			}
		}
		if !hasSequentialIn {
			g.entries = append(g.entries, n)
		}
	}
}
