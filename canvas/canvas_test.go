package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFlowJSON = `{
  "id": "flow-1",
  "name": "research pipeline",
  "regions": [
    {
      "id": "main",
      "name": "Main",
      "nodes": [
        {"id": "plan", "type": "task", "label": "Plan"},
        {"id": "write", "type": "agent", "label": "Write",
         "config": {"requires_instructions": true}},
        {"id": "prompt", "type": "prompt",
         "config": {"content_ref": "prompts/writer.md"},
         "source": {"file": "flows/research.json", "line": 42}}
      ],
      "edges": [
        {"id": "e1", "source": "plan", "source_handle": "output",
         "target": "write", "target_handle": "input"},
        {"id": "e2", "source": "prompt", "target": "write",
         "target_handle": "instructions"}
      ]
    }
  ]
}`

func TestImport(t *testing.T) {
	flow, err := Import([]byte(sampleFlowJSON))
	require.NoError(t, err)

	assert.Equal(t, "research pipeline", flow.Name)
	require.Len(t, flow.Regions, 1)
	require.Len(t, flow.Regions[0].Nodes, 3)
	require.Len(t, flow.Regions[0].Edges, 2)

	write := flow.Regions[0].Nodes[1]
	kind, ok := write.Kind()
	require.True(t, ok, "agent must alias to the task kind")
	assert.Equal(t, KindTask, kind)
	assert.True(t, write.ConfigBool("requires_instructions"))

	prompt := flow.Regions[0].Nodes[2]
	assert.Equal(t, "prompts/writer.md", prompt.ContentRef())
	require.NotNil(t, prompt.Source)
	assert.Equal(t, 42, prompt.Source.Line)
}

func TestImport_BadJSON(t *testing.T) {
	_, err := Import([]byte("{not json"))
	assert.Error(t, err)
}

func TestExportRoundTrip(t *testing.T) {
	flow, err := Import([]byte(sampleFlowJSON))
	require.NoError(t, err)

	data, err := flow.Export()
	require.NoError(t, err)

	again, err := Import(data)
	require.NoError(t, err)
	assert.Equal(t, flow.Name, again.Name)
	assert.Len(t, again.Regions[0].Nodes, 3)
}

func TestParseNodeKind(t *testing.T) {
	tests := []struct {
		raw  string
		kind NodeKind
		ok   bool
	}{
		{"task", KindTask, true},
		{"agent", KindTask, true},
		{"loop", KindLoop, true},
		{"parallel", KindGroup, true},
		{"prompt", KindProvider, true},
		{"link-out", KindLinkOut, true},
		{"link in", KindLinkIn, true},
		{"debug", KindSink, true},
		{"teleporter", "", false},
	}
	for _, tt := range tests {
		kind, ok := ParseNodeKind(tt.raw)
		assert.Equal(t, tt.ok, ok, "raw=%s", tt.raw)
		assert.Equal(t, tt.kind, kind, "raw=%s", tt.raw)
	}
}

func TestNodeKindPredicates(t *testing.T) {
	assert.True(t, KindLoop.IsComposite())
	assert.True(t, KindGroup.IsComposite())
	assert.False(t, KindTask.IsComposite())
	assert.True(t, KindLinkOut.IsLink())
	assert.True(t, KindLinkIn.IsLink())
	assert.False(t, KindSink.IsLink())
}

func TestFlowValidate(t *testing.T) {
	flow, err := Import([]byte(sampleFlowJSON))
	require.NoError(t, err)
	assert.NoError(t, flow.Validate())

	t.Run("missing name", func(t *testing.T) {
		bad := *flow
		bad.Name = ""
		assert.Error(t, bad.Validate())
	})

	t.Run("unknown node type", func(t *testing.T) {
		bad, _ := Import([]byte(sampleFlowJSON))
		bad.Regions[0].Nodes[0].Type = "teleporter"
		assert.Error(t, bad.Validate())
	})

	t.Run("edge to unknown node", func(t *testing.T) {
		bad, _ := Import([]byte(sampleFlowJSON))
		bad.Regions[0].Edges[0].Target = "ghost"
		assert.Error(t, bad.Validate())
	})
}

func TestLinkName(t *testing.T) {
	n := Node{ID: "o", Type: "link-out", Label: "fallback",
		Config: map[string]any{"link_name": "X"}}
	assert.Equal(t, "X", n.LinkName())

	n.Config = nil
	assert.Equal(t, "fallback", n.LinkName())
}

func TestContentTable(t *testing.T) {
	table := ContentTable{"prompts/a.md": "content"}
	assert.True(t, table.Has("prompts/a.md"))
	assert.False(t, table.Has("prompts/b.md"))
}
