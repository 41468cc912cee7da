package compile

import "fmt"

// dfs marking states.
const (
	unvisited = iota
	inProgress
	done
)

// TopoSort produces a total order over node ids consistent with the graph's
// sequential edges, or a GRAPH_CYCLE error carrying the offending path.
// The traversal is driven from every unvisited node, not only entry nodes,
// so unreachable components are covered too. Loop semantics are expressed
// through explicit composite nodes; a sequential cycle is always an
// authoring error.
func TopoSort(g *Graph) ([]string, error) {
	state := make(map[string]int, len(g.nodeOrder))
	var stack []string
	var finished []string

	var visit func(n *Node) *Error
	visit = func(n *Node) *Error {
		state[n.ID] = inProgress
		stack = append(stack, n.ID)

		for _, succ := range g.SequentialSuccessors(n) {
			switch state[succ.ID] {
			case inProgress:
				return cycleError(stack, succ.ID).WithLocation(succ.Location())
			case unvisited:
				if err := visit(succ); err != nil {
					return err
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[n.ID] = done
		finished = append(finished, n.ID)
		return nil
	}

	for _, id := range g.nodeOrder {
		if state[id] != unvisited {
			continue
		}
		if err := visit(g.nodes[id]); err != nil {
			return nil, err
		}
	}

	// Reverse finish order is the topological order.
	order := make([]string, len(finished))
	for i, id := range finished {
		order[len(finished)-1-i] = id
	}
	return order, nil
}

// cycleError reconstructs the cycle from the DFS stack: the ordered path
// from the repeated node back to itself, closed by repeating the start node.
func cycleError(stack []string, start string) *Error {
	var path []string
	for i, id := range stack {
		if id == start {
			path = append(path, stack[i:]...)
			break
		}
	}
	path = append(path, start)
	return NewError(ErrGraphCycle,
		fmt.Sprintf("sequential cycle detected: %v", path)).
		WithCycle(path)
}
