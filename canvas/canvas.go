package canvas

import (
	"encoding/json"
	"fmt"
	"time"
)

// Flow represents a complete visually authored workflow project.
type Flow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Version     string         `json:"version,omitempty"`
	Regions     []Region       `json:"regions"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitzero"`
	UpdatedAt   time.Time      `json:"updated_at,omitzero"`
}

// Region is a named partition of the workflow (a canvas tab) with its own
// nodes and edges. Edges may only reference nodes; cross-region connections
// are expressed through link-out/link-in node pairs, never raw edges.
type Region struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a raw node record as exported by the visual editor.
type Node struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Label  string         `json:"label,omitempty"`
	Config map[string]any `json:"config,omitempty"`
	Source *SourceRef     `json:"source,omitempty"`
}

// Edge is a raw connection record. SourceHandle and TargetHandle identify
// the ports the connection is attached to; both are optional.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	SourceHandle string `json:"source_handle,omitempty"`
	Target       string `json:"target"`
	TargetHandle string `json:"target_handle,omitempty"`
	Label        string `json:"label,omitempty"`
}

// SourceRef points back at the authoring artifact a record came from,
// for author-facing diagnostics.
type SourceRef struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`
}

// ConfigString returns a string config value, or "" when absent or not a string.
func (n Node) ConfigString(key string) string {
	if s, ok := n.Config[key].(string); ok {
		return s
	}
	return ""
}

// ConfigInt returns an integer config value. JSON decoding yields float64 for
// all numbers, so both representations are accepted.
func (n Node) ConfigInt(key string) (int, bool) {
	switch v := n.Config[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

// ConfigBool returns a boolean config value, or false when absent.
func (n Node) ConfigBool(key string) bool {
	b, _ := n.Config[key].(bool)
	return b
}

// LinkName returns the pairing name of a link-out/link-in node. The explicit
// link_name config key wins; the node label is the fallback.
func (n Node) LinkName() string {
	if name := n.ConfigString("link_name"); name != "" {
		return name
	}
	return n.Label
}

// ContentRef returns the external content reference declared by the node,
// or "" when the node carries none.
func (n Node) ContentRef() string {
	return n.ConfigString("content_ref")
}

// ContentTable maps external content references (ids or paths) to resolved
// content. Resolution happens before compilation; the compiler only checks
// that every referenced key is present.
type ContentTable map[string]string

// Has reports whether the table resolves the given reference.
func (t ContentTable) Has(ref string) bool {
	_, ok := t[ref]
	return ok
}

// Import decodes a Flow from visual editor JSON.
func Import(data []byte) (*Flow, error) {
	var f Flow
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode flow: %w", err)
	}
	return &f, nil
}

// Export encodes the flow as indented JSON.
func (f *Flow) Export() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// Validate performs lightweight structural checks on the raw records.
// Authoritative endpoint and link resolution happens in the compile package;
// this catches records that are malformed before compilation is attempted.
func (f *Flow) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("flow name is required")
	}
	if len(f.Regions) == 0 {
		return fmt.Errorf("flow must have at least one region")
	}

	seen := make(map[string]string)
	for _, region := range f.Regions {
		if region.ID == "" {
			return fmt.Errorf("region id is required")
		}
		for _, node := range region.Nodes {
			if node.ID == "" {
				return fmt.Errorf("region %s contains a node without an id", region.ID)
			}
			if prev, dup := seen[node.ID]; dup {
				return fmt.Errorf("duplicate node id %s (regions %s and %s)", node.ID, prev, region.ID)
			}
			seen[node.ID] = region.ID
			if _, ok := ParseNodeKind(node.Type); !ok {
				return fmt.Errorf("node %s has unknown type: %s", node.ID, node.Type)
			}
		}
	}

	for _, region := range f.Regions {
		for _, edge := range region.Edges {
			if _, ok := seen[edge.Source]; !ok {
				return fmt.Errorf("edge %s references unknown source: %s", edge.ID, edge.Source)
			}
			if _, ok := seen[edge.Target]; !ok {
				return fmt.Errorf("edge %s references unknown target: %s", edge.ID, edge.Target)
			}
		}
	}

	return nil
}

// RegionNodes returns the node records belonging to the given region.
func (f *Flow) RegionNodes(regionID string) []Node {
	for _, region := range f.Regions {
		if region.ID == regionID {
			return region.Nodes
		}
	}
	return nil
}
