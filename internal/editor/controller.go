// Package editor implements the interaction state machine for the flow
// canvas. It translates pointer and keyboard gestures into graph mutations
// and selection changes; it holds no graph data of its own beyond the
// current interaction state. Hit testing stays with the rendering layer,
// which passes the id of the node under the pointer (or "" for empty
// canvas) with each event.
package editor

import (
	"errors"
	"fmt"

	"github.com/pbxdeck/pbxdeck/internal/domain"
)

// Mode is the controller's current interaction state.
type Mode string

const (
	ModeIdle       Mode = "idle"
	ModeSelected   Mode = "selected"
	ModeDragging   Mode = "dragging"
	ModeConnecting Mode = "connecting"
)

// Controller drives one editing session over one graph. Events are
// handled to completion, one at a time; there is no concurrent mutation.
type Controller struct {
	graph *domain.Graph

	mode        Mode
	selected    string          // node id in Selected/Dragging modes
	dragOffset  domain.Position // pointer offset from the dragged node's origin
	connectFrom string          // source node id in Connecting mode

	// notice is a transient, non-fatal message for the user: rejected
	// connections, schema mismatches. Read and cleared via TakeNotice.
	notice string
}

// New creates a controller for the given graph, starting Idle.
func New(g *domain.Graph) *Controller {
	return &Controller{graph: g, mode: ModeIdle}
}

func (c *Controller) Graph() *domain.Graph { return c.graph }
func (c *Controller) Mode() Mode           { return c.mode }

// SelectedID returns the selected node id, or "" when nothing is selected.
func (c *Controller) SelectedID() string {
	if c.mode == ModeSelected || c.mode == ModeDragging {
		return c.selected
	}
	return ""
}

// ConnectSource returns the source node id of an in-progress connect
// gesture, or "".
func (c *Controller) ConnectSource() string {
	if c.mode == ModeConnecting {
		return c.connectFrom
	}
	return ""
}

// TakeNotice returns the pending transient notice and clears it.
func (c *Controller) TakeNotice() string {
	n := c.notice
	c.notice = ""
	return n
}

// PointerDown handles a press at the given canvas position. node is the
// id of the node under the pointer, "" for empty canvas; connect reports
// whether the connect modifier is held.
func (c *Controller) PointerDown(node string, at domain.Position, connect bool) {
	// A press always ends any gesture left over from a lost release.
	if node == "" {
		c.reset()
		return
	}
	n, ok := c.graph.Node(node)
	if !ok {
		c.reset()
		return
	}
	if connect {
		c.mode = ModeConnecting
		c.connectFrom = node
		return
	}
	c.mode = ModeDragging
	c.selected = node
	c.dragOffset = domain.Position{X: at.X - n.Position.X, Y: at.Y - n.Position.Y}
}

// PointerMove handles pointer motion. Only a drag gesture reacts: the
// dragged node follows the pointer, keeping the press offset.
func (c *Controller) PointerMove(at domain.Position) {
	if c.mode != ModeDragging {
		return
	}
	pos := domain.Position{X: at.X - c.dragOffset.X, Y: at.Y - c.dragOffset.Y}
	if err := c.graph.MoveNode(c.selected, pos); err != nil {
		// Node vanished mid-drag; abandon the gesture.
		c.reset()
	}
}

// PointerUp handles a release. node is the id of the node under the
// pointer, "" for empty canvas.
func (c *Controller) PointerUp(node string) {
	switch c.mode {
	case ModeDragging:
		c.mode = ModeSelected

	case ModeConnecting:
		from := c.connectFrom
		c.connectFrom = ""
		c.mode = ModeIdle
		if node == "" || node == from {
			return // aborted, no edge created
		}
		if err := c.graph.AddConnection(from, node); err != nil {
			switch {
			case errors.Is(err, domain.ErrDuplicateEdge):
				c.notice = "nodes are already connected"
			case errors.Is(err, domain.ErrSelfLoop):
				c.notice = "cannot connect a node to itself"
			default:
				c.notice = fmt.Sprintf("connection rejected: %v", err)
			}
		}
	}
}

// DeleteSelected removes the selected node, cascading its connections.
// On the protected start node the action is silently ignored. Without a
// selection it is a no-op.
func (c *Controller) DeleteSelected() {
	id := c.SelectedID()
	if id == "" {
		return
	}
	if err := c.graph.RemoveNode(id); err != nil {
		if errors.Is(err, domain.ErrInvariantViolation) {
			return // start node stays, no notice
		}
		c.notice = fmt.Sprintf("delete failed: %v", err)
		return
	}
	c.reset()
}

// UpdateSelected applies a payload patch to the selected node. Rejected
// without dispatching when nothing is selected.
func (c *Controller) UpdateSelected(patch domain.NodePatch) error {
	id := c.SelectedID()
	if id == "" {
		return fmt.Errorf("no node selected: %w", domain.ErrNotFound)
	}
	if err := c.graph.UpdateNodeData(id, patch); err != nil {
		if errors.Is(err, domain.ErrSchemaMismatch) {
			c.notice = "field not valid for this node kind"
		}
		return err
	}
	return nil
}

// AddNode inserts a node from the palette and selects it.
func (c *Controller) AddNode(kind domain.NodeKind, at domain.Position) (string, error) {
	id, err := c.graph.AddNode(kind, at)
	if err != nil {
		c.notice = fmt.Sprintf("cannot add node: %v", err)
		return "", err
	}
	c.mode = ModeSelected
	c.selected = id
	return id, nil
}

// reset aborts any gesture and clears the selection.
func (c *Controller) reset() {
	c.mode = ModeIdle
	c.selected = ""
	c.connectFrom = ""
	c.dragOffset = domain.Position{}
}
