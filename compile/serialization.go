package compile

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// PlanDefinition is the serializable form of a synthesized hierarchy,
// consumed by the downstream execution-plan builder.
type PlanDefinition struct {
	Flow string              `json:"flow,omitempty" yaml:"flow,omitempty"`
	Root *PlanNodeDefinition `json:"root,omitempty" yaml:"root,omitempty"`
}

// PlanNodeDefinition is one serializable hierarchy node.
type PlanNodeDefinition struct {
	ID       string                `json:"id" yaml:"id"`
	Kind     string                `json:"kind" yaml:"kind"`
	Task     string                `json:"task,omitempty" yaml:"task,omitempty"`
	Children []*PlanNodeDefinition `json:"children,omitempty" yaml:"children,omitempty"`
}

// GraphDefinition is a topology view of a built graph for visualization
// tooling: nodes, resolved edges, link pairs, and entry ids.
type GraphDefinition struct {
	Nodes     []GraphNodeDefinition `json:"nodes" yaml:"nodes"`
	Edges     []GraphEdgeDefinition `json:"edges" yaml:"edges"`
	LinkPairs []LinkPairDefinition  `json:"link_pairs,omitempty" yaml:"link_pairs,omitempty"`
	Entries   []string              `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// GraphNodeDefinition is one serializable graph node.
type GraphNodeDefinition struct {
	ID     string `json:"id" yaml:"id"`
	Kind   string `json:"kind" yaml:"kind"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
	Region string `json:"region" yaml:"region"`
}

// GraphEdgeDefinition is one serializable resolved edge.
type GraphEdgeDefinition struct {
	ID       string `json:"id" yaml:"id"`
	Source   string `json:"source" yaml:"source"`
	Target   string `json:"target" yaml:"target"`
	Semantic string `json:"semantic" yaml:"semantic"`
	Input    string `json:"input,omitempty" yaml:"input,omitempty"`
	Virtual  bool   `json:"virtual,omitempty" yaml:"virtual,omitempty"`
}

// LinkPairDefinition is one serializable resolved link pair.
type LinkPairDefinition struct {
	Name string `json:"name" yaml:"name"`
	Out  string `json:"out" yaml:"out"`
	In   string `json:"in" yaml:"in"`
}

// ToDefinition converts a plan tree to its serializable form.
func (p *Plan) ToDefinition(flowName string) *PlanDefinition {
	return &PlanDefinition{Flow: flowName, Root: planNodeDefinition(p)}
}

func planNodeDefinition(p *Plan) *PlanNodeDefinition {
	if p == nil {
		return nil
	}
	def := &PlanNodeDefinition{ID: p.ID, Kind: string(p.Kind), Task: p.TaskID}
	for _, c := range p.Children {
		def.Children = append(def.Children, planNodeDefinition(c))
	}
	return def
}

// ToJSON converts a PlanDefinition to a JSON string.
func (d *PlanDefinition) ToJSON() (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return string(data), nil
}

// ToYAML converts a PlanDefinition to a YAML string.
func (d *PlanDefinition) ToYAML() (string, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to marshal to YAML: %w", err)
	}
	return string(data), nil
}

// PlanFromJSON creates a PlanDefinition from a JSON string.
func PlanFromJSON(jsonStr string) (*PlanDefinition, error) {
	var def PlanDefinition
	if err := json.Unmarshal([]byte(jsonStr), &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal from JSON: %w", err)
	}
	if err := ValidatePlanDefinition(&def); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &def, nil
}

// PlanFromYAML creates a PlanDefinition from a YAML string.
func PlanFromYAML(yamlStr string) (*PlanDefinition, error) {
	var def PlanDefinition
	if err := yaml.Unmarshal([]byte(yamlStr), &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal from YAML: %w", err)
	}
	if err := ValidatePlanDefinition(&def); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &def, nil
}

// ValidatePlanDefinition checks the structural contract of a loaded plan:
// known kinds, leaves carry a task, every task placed at most once, and
// parallel nodes carry at least two children.
func ValidatePlanDefinition(def *PlanDefinition) error {
	if def.Root == nil {
		return fmt.Errorf("plan root is required")
	}
	tasks := make(map[string]bool)
	return validatePlanNode(def.Root, tasks)
}

func validatePlanNode(n *PlanNodeDefinition, tasks map[string]bool) error {
	if n.ID == "" {
		return fmt.Errorf("plan node id is required")
	}
	switch PlanKind(n.Kind) {
	case PlanLeaf:
		if n.Task == "" {
			return fmt.Errorf("node %s: leaf requires a task id", n.ID)
		}
		if tasks[n.Task] {
			return fmt.Errorf("task %s placed more than once", n.Task)
		}
		tasks[n.Task] = true
		if len(n.Children) > 0 {
			return fmt.Errorf("node %s: leaf cannot have children", n.ID)
		}
	case PlanSequence:
		if len(n.Children) == 0 {
			return fmt.Errorf("node %s: sequence requires children", n.ID)
		}
	case PlanParallel:
		if len(n.Children) < 2 {
			return fmt.Errorf("node %s: parallel requires at least 2 children", n.ID)
		}
	default:
		return fmt.Errorf("node %s: invalid kind: %s", n.ID, n.Kind)
	}
	for _, c := range n.Children {
		if err := validatePlanNode(c, tasks); err != nil {
			return err
		}
	}
	return nil
}

// ToDefinition converts a built graph to its topology view.
func (g *Graph) ToDefinition() *GraphDefinition {
	def := &GraphDefinition{}
	for _, n := range g.Nodes() {
		def.Nodes = append(def.Nodes, GraphNodeDefinition{
			ID:     n.ID,
			Kind:   string(n.Kind),
			Label:  n.Label,
			Region: n.RegionID,
		})
	}
	for _, e := range g.Edges() {
		def.Edges = append(def.Edges, GraphEdgeDefinition{
			ID:       e.ID,
			Source:   e.SourceID,
			Target:   e.TargetID,
			Semantic: string(e.Semantic),
			Input:    string(e.InputKind),
			Virtual:  e.Virtual(),
		})
	}
	for _, p := range g.LinkPairs() {
		def.LinkPairs = append(def.LinkPairs, LinkPairDefinition{Name: p.Name, Out: p.Out.ID, In: p.In.ID})
	}
	for _, n := range g.Entries() {
		def.Entries = append(def.Entries, n.ID)
	}
	return def
}

// ToJSON converts a GraphDefinition to a JSON string.
func (d *GraphDefinition) ToJSON() (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return string(data), nil
}
