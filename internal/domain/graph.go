package domain

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Graph is the aggregate for one IVR flow: a set of nodes plus a set of
// directed connections. Invariants held at every mutation boundary:
//
//  1. Exactly one node of kind start; it cannot be removed or re-kinded.
//  2. Every connection references existing nodes.
//  3. No duplicate edges, no self-loops.
//  4. Node ids are unique and never reused within a session.
//
// Mutators apply their full effect or nothing. The zero value is not
// usable; construct with NewGraph or NewGraphFromParts.
type Graph struct {
	nodes   map[string]*Node
	edges   map[edgeKey]Connection
	startID string
}

// NewGraph creates a graph seeded with the single start node, the entry
// point every flow begins at.
func NewGraph() *Graph {
	g := &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[edgeKey]Connection),
	}
	start := defaultNode("start", KindStart, Position{X: 100, Y: 50})
	g.nodes[start.ID] = start
	g.startID = start.ID
	return g
}

// NewGraphFromParts assembles a graph from already-parsed nodes and
// connections, enforcing the same invariants the mutators do. Used when
// loading a flow document; the document is never trusted blindly.
func NewGraphFromParts(nodes []Node, conns []Connection) (*Graph, error) {
	g := &Graph{
		nodes: make(map[string]*Node, len(nodes)),
		edges: make(map[edgeKey]Connection, len(conns)),
	}
	for i := range nodes {
		n := nodes[i]
		if n.ID == "" {
			return nil, fmt.Errorf("node without id: %w", ErrMalformedDocument)
		}
		if !ValidNodeKinds[string(n.Kind)] {
			return nil, fmt.Errorf("node %s has unknown kind %q: %w", n.ID, n.Kind, ErrMalformedDocument)
		}
		if _, exists := g.nodes[n.ID]; exists {
			return nil, fmt.Errorf("duplicate node id %s: %w", n.ID, ErrInvariantViolation)
		}
		if err := n.validatePayload(); err != nil {
			return nil, err
		}
		if n.Kind == KindStart {
			if g.startID != "" {
				return nil, fmt.Errorf("multiple start nodes (%s, %s): %w", g.startID, n.ID, ErrInvariantViolation)
			}
			g.startID = n.ID
		}
		g.nodes[n.ID] = n.clone()
	}
	if g.startID == "" {
		return nil, fmt.Errorf("no start node: %w", ErrInvariantViolation)
	}
	for _, c := range conns {
		if _, ok := g.nodes[c.From]; !ok {
			return nil, fmt.Errorf("connection from unknown node %s: %w", c.From, ErrMalformedDocument)
		}
		if _, ok := g.nodes[c.To]; !ok {
			return nil, fmt.Errorf("connection to unknown node %s: %w", c.To, ErrMalformedDocument)
		}
		if c.From == c.To {
			return nil, fmt.Errorf("connection %s -> %s: %w", c.From, c.To, ErrSelfLoop)
		}
		key := edgeKey{from: c.From, to: c.To}
		if _, exists := g.edges[key]; exists {
			return nil, fmt.Errorf("connection %s -> %s: %w", c.From, c.To, ErrDuplicateEdge)
		}
		g.edges[key] = c
	}
	return g, nil
}

// StartID returns the id of the protected start node.
func (g *Graph) StartID() string {
	return g.startID
}

// AddNode inserts a new node of the given kind with its kind-specific
// default payload and returns the generated id. Adding a second start
// node is rejected; unknown kinds are rejected.
func (g *Graph) AddNode(kind NodeKind, pos Position) (string, error) {
	if kind == KindStart {
		return "", fmt.Errorf("adding a second start node: %w", ErrInvariantViolation)
	}
	if !ValidNodeKinds[string(kind)] {
		return "", fmt.Errorf("unknown node kind %q: %w", kind, ErrSchemaMismatch)
	}
	id := uuid.New().String()
	g.nodes[id] = defaultNode(id, kind, pos)
	return id, nil
}

// RemoveNode deletes a node and cascades: every connection whose From or
// To equals id is removed with it. The start node cannot be removed.
func (g *Graph) RemoveNode(id string) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	if n.Kind == KindStart {
		return fmt.Errorf("removing start node: %w", ErrInvariantViolation)
	}
	delete(g.nodes, id)
	for key := range g.edges {
		if key.from == id || key.to == id {
			delete(g.edges, key)
		}
	}
	return nil
}

// MoveNode replaces a node's position. No other field changes.
func (g *Graph) MoveNode(id string, pos Position) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	n.Position = pos
	return nil
}

// UpdateNodeData merges patch fields into a node's payload. The patch is
// validated against the node's kind before anything is applied, so a
// rejected patch leaves the node unchanged.
func (g *Graph) UpdateNodeData(id string, patch NodePatch) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	if err := n.validatePatch(patch); err != nil {
		return err
	}
	n.applyPatch(patch)
	return nil
}

// AddConnection inserts a directed edge from one node to another.
func (g *Graph) AddConnection(from, to string) error {
	if from == to {
		return fmt.Errorf("connection %s -> %s: %w", from, to, ErrSelfLoop)
	}
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("connection source %s: %w", from, ErrNotFound)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("connection target %s: %w", to, ErrNotFound)
	}
	key := edgeKey{from: from, to: to}
	if _, exists := g.edges[key]; exists {
		return fmt.Errorf("connection %s -> %s: %w", from, to, ErrDuplicateEdge)
	}
	g.edges[key] = Connection{From: from, To: to}
	return nil
}

// SetConnectionLabel sets the display label on an existing connection,
// e.g. the DTMF digit that takes this branch out of a menu.
func (g *Graph) SetConnectionLabel(from, to, label string) error {
	key := edgeKey{from: from, to: to}
	c, ok := g.edges[key]
	if !ok {
		return fmt.Errorf("connection %s -> %s: %w", from, to, ErrNotFound)
	}
	c.Label = label
	g.edges[key] = c
	return nil
}

// RemoveConnection deletes the edge for the ordered pair if present.
// Removing an absent edge is a no-op.
func (g *Graph) RemoveConnection(from, to string) {
	delete(g.edges, edgeKey{from: from, to: to})
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n.clone(), true
}

// Nodes returns copies of all nodes sorted by id.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, *n.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Connections returns all connections sorted by (from, to).
func (g *Graph) Connections() []Connection {
	out := make([]Connection, 0, len(g.edges))
	for _, c := range g.edges {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Outgoing returns the connections leaving the given node, sorted by target.
func (g *Graph) Outgoing(id string) []Connection {
	var out []Connection
	for key, c := range g.edges {
		if key.from == id {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].To < out[j].To })
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// ConnectionCount returns the number of connections.
func (g *Graph) ConnectionCount() int {
	return len(g.edges)
}

// Clone returns a deep copy of the graph, used to snapshot state for an
// in-flight save without blocking further edits.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:   make(map[string]*Node, len(g.nodes)),
		edges:   make(map[edgeKey]Connection, len(g.edges)),
		startID: g.startID,
	}
	for id, n := range g.nodes {
		c.nodes[id] = n.clone()
	}
	for key, conn := range g.edges {
		c.edges[key] = conn
	}
	return c
}

// Equal reports structural equality: same nodes (all fields) and the
// same connection set.
func (g *Graph) Equal(other *Graph) bool {
	if other == nil || len(g.nodes) != len(other.nodes) || len(g.edges) != len(other.edges) {
		return false
	}
	for id, n := range g.nodes {
		o, ok := other.nodes[id]
		if !ok || !nodesEqual(n, o) {
			return false
		}
	}
	for key, c := range g.edges {
		o, ok := other.edges[key]
		if !ok || c != o {
			return false
		}
	}
	return true
}

func nodesEqual(a, b *Node) bool {
	if a.ID != b.ID || a.Kind != b.Kind || a.Position != b.Position ||
		a.Label != b.Label || a.Audio != b.Audio || a.Extension != b.Extension {
		return false
	}
	if len(a.Options) != len(b.Options) {
		return false
	}
	for k, v := range a.Options {
		if b.Options[k] != v {
			return false
		}
	}
	return true
}
