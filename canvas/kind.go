package canvas

// NodeKind is the closed set of node variants the compiler understands.
// Raw editor type strings are resolved to a NodeKind exactly once, at import
// or graph-build time, so downstream logic can match exhaustively instead of
// re-testing strings.
type NodeKind string

const (
	// KindTask is an executable unit of work (an agent step).
	KindTask NodeKind = "task"
	// KindLoop is a composite node repeating its children a bounded number of times.
	KindLoop NodeKind = "loop"
	// KindGroup is a composite node running its children as one parallel group.
	KindGroup NodeKind = "group"
	// KindProvider supplies content (instructions, tool specs, context) to tasks.
	KindProvider NodeKind = "provider"
	// KindLinkOut is the outbound half of a named cross-region link.
	KindLinkOut NodeKind = "link-out"
	// KindLinkIn is the inbound half of a named cross-region link.
	KindLinkIn NodeKind = "link-in"
	// KindSink receives final output (a debug/output terminal).
	KindSink NodeKind = "sink"
)

// kindAliases maps every raw editor type string to its canonical variant.
// Editors have renamed node palettes over time; old exports must keep loading.
var kindAliases = map[string]NodeKind{
	"task":      KindTask,
	"agent":     KindTask,
	"loop":      KindLoop,
	"iteration": KindLoop,
	"group":     KindGroup,
	"parallel":  KindGroup,
	"provider":  KindProvider,
	"prompt":    KindProvider,
	"template":  KindProvider,
	"tool":      KindProvider,
	"link-out":  KindLinkOut,
	"link out":  KindLinkOut,
	"link-in":   KindLinkIn,
	"link in":   KindLinkIn,
	"sink":      KindSink,
	"output":    KindSink,
	"debug":     KindSink,
}

// ParseNodeKind resolves a raw editor type string to its canonical variant.
func ParseNodeKind(raw string) (NodeKind, bool) {
	kind, ok := kindAliases[raw]
	return kind, ok
}

// Kind resolves the node's raw type string. Unknown types yield ok == false;
// callers decide whether that is fatal.
func (n Node) Kind() (NodeKind, bool) {
	return ParseNodeKind(n.Type)
}

// IsComposite reports whether the kind is a composite (loop or parallel group).
func (k NodeKind) IsComposite() bool {
	return k == KindLoop || k == KindGroup
}

// IsLink reports whether the kind is either half of a cross-region link.
func (k NodeKind) IsLink() bool {
	return k == KindLinkOut || k == KindLinkIn
}
