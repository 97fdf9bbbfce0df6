package editor

import (
	"testing"

	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) (*Controller, string, string) {
	t.Helper()
	g := domain.NewGraph()
	a, err := g.AddNode(domain.KindGreeting, domain.Position{X: 100, Y: 100})
	require.NoError(t, err)
	b, err := g.AddNode(domain.KindMenu, domain.Position{X: 300, Y: 100})
	require.NoError(t, err)
	return New(g), a, b
}

func TestPointerDown_SelectsAndStartsDrag(t *testing.T) {
	c, a, _ := newSession(t)

	c.PointerDown(a, domain.Position{X: 110, Y: 105}, false)
	assert.Equal(t, ModeDragging, c.Mode())
	assert.Equal(t, a, c.SelectedID())
}

func TestDrag_MovesNodeKeepingPressOffset(t *testing.T) {
	c, a, _ := newSession(t)

	// Press 10,5 inside the node body.
	c.PointerDown(a, domain.Position{X: 110, Y: 105}, false)
	c.PointerMove(domain.Position{X: 200, Y: 180})
	assert.Equal(t, ModeDragging, c.Mode(), "drag continues across moves")

	n, _ := c.Graph().Node(a)
	assert.Equal(t, domain.Position{X: 190, Y: 175}, n.Position)

	c.PointerUp(a)
	assert.Equal(t, ModeSelected, c.Mode())
	assert.Equal(t, a, c.SelectedID())
	assert.Equal(t, 0, c.Graph().ConnectionCount(), "drag never creates a connection")
}

func TestConnectGesture_CreatesEdge(t *testing.T) {
	c, a, b := newSession(t)

	c.PointerDown(a, domain.Position{X: 100, Y: 100}, true)
	assert.Equal(t, ModeConnecting, c.Mode())
	assert.Equal(t, a, c.ConnectSource())
	assert.Empty(t, c.SelectedID(), "connect gesture does not select")

	c.PointerUp(b)
	assert.Equal(t, ModeIdle, c.Mode())
	require.Equal(t, 1, c.Graph().ConnectionCount())
	conns := c.Graph().Connections()
	assert.Equal(t, a, conns[0].From)
	assert.Equal(t, b, conns[0].To)
	assert.Empty(t, c.TakeNotice())
}

func TestConnectGesture_AbortOnEmptyCanvasOrSameNode(t *testing.T) {
	c, a, _ := newSession(t)

	c.PointerDown(a, domain.Position{}, true)
	c.PointerUp("")
	assert.Equal(t, ModeIdle, c.Mode())
	assert.Equal(t, 0, c.Graph().ConnectionCount())

	c.PointerDown(a, domain.Position{}, true)
	c.PointerUp(a)
	assert.Equal(t, ModeIdle, c.Mode())
	assert.Equal(t, 0, c.Graph().ConnectionCount())
}

func TestConnectGesture_DuplicateIsNonFatal(t *testing.T) {
	c, a, b := newSession(t)
	require.NoError(t, c.Graph().AddConnection(a, b))

	c.PointerDown(a, domain.Position{}, true)
	c.PointerUp(b)

	assert.Equal(t, ModeIdle, c.Mode())
	assert.Equal(t, 1, c.Graph().ConnectionCount(), "graph unchanged")
	assert.Equal(t, "nodes are already connected", c.TakeNotice())
	assert.Empty(t, c.TakeNotice(), "notice is cleared once read")
}

func TestPointerDown_EmptyCanvasClearsSelection(t *testing.T) {
	c, a, _ := newSession(t)

	c.PointerDown(a, domain.Position{X: 100, Y: 100}, false)
	c.PointerUp(a)
	require.Equal(t, a, c.SelectedID())

	c.PointerDown("", domain.Position{X: 500, Y: 500}, false)
	assert.Equal(t, ModeIdle, c.Mode())
	assert.Empty(t, c.SelectedID())
}

func TestDeleteSelected_RemovesNodeAndClearsSelection(t *testing.T) {
	c, a, b := newSession(t)
	require.NoError(t, c.Graph().AddConnection(a, b))

	c.PointerDown(b, domain.Position{X: 300, Y: 100}, false)
	c.PointerUp(b)
	c.DeleteSelected()

	assert.Equal(t, ModeIdle, c.Mode())
	assert.Empty(t, c.SelectedID())
	_, ok := c.Graph().Node(b)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Graph().ConnectionCount(), "incident connection cascaded")
}

func TestDeleteSelected_StartNodeIsSilentNoOp(t *testing.T) {
	c, _, _ := newSession(t)
	start := c.Graph().StartID()

	c.PointerDown(start, domain.Position{X: 100, Y: 50}, false)
	c.PointerUp(start)
	c.DeleteSelected()

	_, ok := c.Graph().Node(start)
	assert.True(t, ok, "start node survives")
	assert.Equal(t, start, c.SelectedID(), "selection kept, nothing happened")
	assert.Empty(t, c.TakeNotice(), "silently ignored")
}

func TestDeleteSelected_NoSelectionIsNoOp(t *testing.T) {
	c, _, _ := newSession(t)
	before := c.Graph().NodeCount()
	c.DeleteSelected()
	assert.Equal(t, before, c.Graph().NodeCount())
}

func TestUpdateSelected_RequiresSelection(t *testing.T) {
	c, a, _ := newSession(t)

	label := "Welcome"
	err := c.UpdateSelected(domain.NodePatch{Label: &label})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c.PointerDown(a, domain.Position{}, false)
	c.PointerUp(a)
	require.NoError(t, c.UpdateSelected(domain.NodePatch{Label: &label}))
	n, _ := c.Graph().Node(a)
	assert.Equal(t, "Welcome", n.Label)
}

func TestUpdateSelected_SchemaMismatchSurfacesNotice(t *testing.T) {
	c, _, b := newSession(t) // b is a menu node

	c.PointerDown(b, domain.Position{}, false)
	c.PointerUp(b)

	audio := "x.wav"
	err := c.UpdateSelected(domain.NodePatch{Audio: &audio})
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
	assert.NotEmpty(t, c.TakeNotice())

	n, _ := c.Graph().Node(b)
	assert.Empty(t, n.Audio, "graph left unchanged")
}

func TestAddNode_SelectsNewNode(t *testing.T) {
	c, _, _ := newSession(t)

	id, err := c.AddNode(domain.KindVoicemail, domain.Position{X: 400, Y: 200})
	require.NoError(t, err)
	assert.Equal(t, ModeSelected, c.Mode())
	assert.Equal(t, id, c.SelectedID())

	_, err = c.AddNode(domain.KindStart, domain.Position{})
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.NotEmpty(t, c.TakeNotice())
}

func TestGestureStateNeverLeaksAcrossGestures(t *testing.T) {
	c, a, b := newSession(t)

	// Connect gesture abandoned by a press on empty canvas.
	c.PointerDown(a, domain.Position{}, true)
	c.PointerDown("", domain.Position{}, false)
	assert.Equal(t, ModeIdle, c.Mode())

	// A later plain release must not create an edge from the stale source.
	c.PointerUp(b)
	assert.Equal(t, 0, c.Graph().ConnectionCount())
}
