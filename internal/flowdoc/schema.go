// Package flowdoc converts between the in-memory flow graph and the
// persisted flow document JSON. Serialization is deterministic (nodes
// sorted by id, connections by ordered pair) so an unchanged graph always
// produces byte-identical output; deserialization re-validates every graph
// invariant instead of trusting the document.
package flowdoc

// Document is the top-level persisted JSON shape for one IVR flow.
type Document struct {
	TenantID    int64           `json:"tenant_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Nodes       []NodeDoc       `json:"nodes"`
	Connections []ConnectionDoc `json:"connections"`
}

// NodeDoc is one node entry in the document.
type NodeDoc struct {
	ID       string      `json:"id"`
	Kind     string      `json:"kind"`
	Position PositionDoc `json:"position"`
	Data     NodeDataDoc `json:"data"`
}

// PositionDoc is a node's canvas coordinate.
type PositionDoc struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeDataDoc holds the label plus the kind-dependent payload fields.
type NodeDataDoc struct {
	Label     string            `json:"label"`
	Audio     string            `json:"audio,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
	Extension string            `json:"extension,omitempty"`
}

// ConnectionDoc is one directed edge entry in the document.
type ConnectionDoc struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// Meta carries the document header fields that live outside the graph.
type Meta struct {
	TenantID    int64
	Name        string
	Description string
}
