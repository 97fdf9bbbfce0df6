package flowdoc

import (
	"encoding/json"
	"fmt"

	"github.com/pbxdeck/pbxdeck/internal/domain"
)

// Serialize renders a graph snapshot and its header metadata as the
// canonical flow document JSON. Node and connection order are fixed, and
// encoding/json emits map keys sorted, so repeated serialization of an
// unchanged graph is byte-identical.
func Serialize(g *domain.Graph, meta Meta) ([]byte, error) {
	doc := Document{
		TenantID:    meta.TenantID,
		Name:        meta.Name,
		Description: meta.Description,
		Nodes:       make([]NodeDoc, 0, g.NodeCount()),
		Connections: make([]ConnectionDoc, 0, g.ConnectionCount()),
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, NodeDoc{
			ID:       n.ID,
			Kind:     string(n.Kind),
			Position: PositionDoc{X: n.Position.X, Y: n.Position.Y},
			Data: NodeDataDoc{
				Label:     n.Label,
				Audio:     n.Audio,
				Options:   n.Options,
				Extension: n.Extension,
			},
		})
	}
	for _, c := range g.Connections() {
		doc.Connections = append(doc.Connections, ConnectionDoc{From: c.From, To: c.To, Label: c.Label})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding flow document: %w", err)
	}
	return data, nil
}

// Deserialize parses a flow document and rebuilds the graph, enforcing
// the same invariants the graph mutators do. A failure reports which part
// of the document is bad and leaves no partial graph behind.
func Deserialize(data []byte) (*domain.Graph, Meta, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, Meta{}, fmt.Errorf("parsing flow document: %v: %w", err, domain.ErrMalformedDocument)
	}
	if doc.Nodes == nil {
		return nil, Meta{}, fmt.Errorf("flow document has no nodes field: %w", domain.ErrMalformedDocument)
	}

	nodes := make([]domain.Node, 0, len(doc.Nodes))
	for _, nd := range doc.Nodes {
		if nd.ID == "" {
			return nil, Meta{}, fmt.Errorf("node without id: %w", domain.ErrMalformedDocument)
		}
		if !domain.ValidNodeKinds[nd.Kind] {
			return nil, Meta{}, fmt.Errorf("node %s has unknown kind %q: %w", nd.ID, nd.Kind, domain.ErrMalformedDocument)
		}
		nodes = append(nodes, domain.Node{
			ID:        nd.ID,
			Kind:      domain.NodeKind(nd.Kind),
			Position:  domain.Position{X: nd.Position.X, Y: nd.Position.Y},
			Label:     nd.Data.Label,
			Audio:     nd.Data.Audio,
			Options:   nd.Data.Options,
			Extension: nd.Data.Extension,
		})
	}

	conns := make([]domain.Connection, 0, len(doc.Connections))
	for _, cd := range doc.Connections {
		if cd.From == "" || cd.To == "" {
			return nil, Meta{}, fmt.Errorf("connection missing endpoint: %w", domain.ErrMalformedDocument)
		}
		conns = append(conns, domain.Connection{From: cd.From, To: cd.To, Label: cd.Label})
	}

	g, err := domain.NewGraphFromParts(nodes, conns)
	if err != nil {
		return nil, Meta{}, err
	}
	return g, Meta{TenantID: doc.TenantID, Name: doc.Name, Description: doc.Description}, nil
}
