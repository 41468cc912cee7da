// =============================================================================
// 🧪 测试辅助函数
// =============================================================================
// 提供跨包共享的 canvas.Flow 测试夹具构造器
//
// 使用方法:
//
//	flow := testutil.ChainFlow("a", "b", "c")
//	flow := testutil.DiamondFlow()
//
// =============================================================================
package testutil

import (
	"fmt"

	"github.com/BaSui01/flowplan/canvas"
)

// TaskNode 构造一个 task 节点记录
func TaskNode(id string) canvas.Node {
	return canvas.Node{ID: id, Type: "task", Label: id}
}

// SeqEdge 构造一条 output→input 的顺序连线
func SeqEdge(source, target string) canvas.Edge {
	return canvas.Edge{
		ID:           fmt.Sprintf("%s->%s", source, target),
		Source:       source,
		SourceHandle: "output",
		Target:       target,
		TargetHandle: "input",
	}
}

// SingleRegionFlow 用给定节点与连线构造单 Region 工作流
func SingleRegionFlow(nodes []canvas.Node, edges []canvas.Edge) *canvas.Flow {
	return &canvas.Flow{
		ID:   "flow-test",
		Name: "test flow",
		Regions: []canvas.Region{
			{ID: "main", Name: "Main", Nodes: nodes, Edges: edges},
		},
	}
}

// ChainFlow 构造线性链 a→b→c→…
func ChainFlow(ids ...string) *canvas.Flow {
	var nodes []canvas.Node
	var edges []canvas.Edge
	for i, id := range ids {
		nodes = append(nodes, TaskNode(id))
		if i > 0 {
			edges = append(edges, SeqEdge(ids[i-1], id))
		}
	}
	return SingleRegionFlow(nodes, edges)
}

// FanOutFlow 构造纯扇出 a→{b,c}，分支不再汇合
func FanOutFlow() *canvas.Flow {
	return SingleRegionFlow(
		[]canvas.Node{TaskNode("a"), TaskNode("b"), TaskNode("c")},
		[]canvas.Edge{SeqEdge("a", "b"), SeqEdge("a", "c")},
	)
}

// DiamondFlow 构造菱形 a→{b,c}，b→d，c→d
func DiamondFlow() *canvas.Flow {
	return SingleRegionFlow(
		[]canvas.Node{TaskNode("a"), TaskNode("b"), TaskNode("c"), TaskNode("d")},
		[]canvas.Edge{SeqEdge("a", "b"), SeqEdge("a", "c"), SeqEdge("b", "d"), SeqEdge("c", "d")},
	)
}

// CrossRegionFlow 构造跨 Region 链接：region1 的 a→link-out "X"，
// region2 的 link-in "X"→b
func CrossRegionFlow(linkName string) *canvas.Flow {
	return &canvas.Flow{
		ID:   "flow-cross",
		Name: "cross region flow",
		Regions: []canvas.Region{
			{
				ID: "region1",
				Nodes: []canvas.Node{
					TaskNode("a"),
					{ID: "out1", Type: "link-out", Config: map[string]any{"link_name": linkName}},
				},
				Edges: []canvas.Edge{
					{ID: "a->out1", Source: "a", Target: "out1"},
				},
			},
			{
				ID: "region2",
				Nodes: []canvas.Node{
					{ID: "in1", Type: "link-in", Config: map[string]any{"link_name": linkName}},
					TaskNode("b"),
				},
				Edges: []canvas.Edge{
					{ID: "in1->b", Source: "in1", Target: "b"},
				},
			},
		},
	}
}
