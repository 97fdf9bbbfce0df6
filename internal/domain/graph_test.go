package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGraph_SeedsSingleStartNode(t *testing.T) {
	g := NewGraph()
	assert.Equal(t, 1, g.NodeCount())
	assert.Equal(t, 0, g.ConnectionCount())

	start, ok := g.Node(g.StartID())
	require.True(t, ok)
	assert.Equal(t, KindStart, start.Kind)
	assert.Equal(t, "Call Start", start.Label)
}

func TestAddNode_KindDefaults(t *testing.T) {
	g := NewGraph()

	cases := []struct {
		kind  NodeKind
		check func(t *testing.T, n Node)
	}{
		{KindGreeting, func(t *testing.T, n Node) {
			assert.Equal(t, "welcome.wav", n.Audio)
			assert.Equal(t, "Greeting", n.Label)
		}},
		{KindMenu, func(t *testing.T, n Node) {
			assert.Equal(t, map[string]string{"1": "", "2": "", "0": ""}, n.Options)
		}},
		{KindExtension, func(t *testing.T, n Node) {
			assert.Equal(t, "100", n.Extension)
		}},
		{KindVoicemail, func(t *testing.T, n Node) {
			assert.Empty(t, n.Audio)
			assert.Nil(t, n.Options)
		}},
		{KindHangup, func(t *testing.T, n Node) {
			assert.Equal(t, "Hangup", n.Label)
		}},
	}
	for _, tc := range cases {
		id, err := g.AddNode(tc.kind, Position{X: 300, Y: 150})
		require.NoError(t, err, "kind=%s", tc.kind)
		n, ok := g.Node(id)
		require.True(t, ok)
		assert.Equal(t, tc.kind, n.Kind)
		assert.Equal(t, Position{X: 300, Y: 150}, n.Position)
		tc.check(t, n)
	}
}

func TestAddNode_RejectsSecondStart(t *testing.T) {
	g := NewGraph()
	_, err := g.AddNode(KindStart, Position{})
	assert.ErrorIs(t, err, ErrInvariantViolation)
	assert.Equal(t, 1, g.NodeCount())
}

func TestAddNode_RejectsUnknownKind(t *testing.T) {
	g := NewGraph()
	_, err := g.AddNode(NodeKind("transfer"), Position{})
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestAddNode_IDsAreUnique(t *testing.T) {
	g := NewGraph()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := g.AddNode(KindHangup, Position{})
		require.NoError(t, err)
		assert.False(t, seen[id], "id %s reused", id)
		seen[id] = true
	}
}

func TestRemoveNode_StartIsProtected(t *testing.T) {
	g := NewGraph()
	err := g.RemoveNode(g.StartID())
	assert.ErrorIs(t, err, ErrInvariantViolation)

	_, ok := g.Node(g.StartID())
	assert.True(t, ok, "start node must survive the removal attempt")
}

func TestRemoveNode_Absent(t *testing.T) {
	g := NewGraph()
	err := g.RemoveNode("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Scenario from the menu-branch flow: seed + menu node + connection, then
// removing the menu node leaves only start and zero connections.
func TestRemoveNode_CascadeRemovesIncidentConnections(t *testing.T) {
	g := NewGraph()
	n1, err := g.AddNode(KindMenu, Position{X: 300, Y: 150})
	require.NoError(t, err)
	require.NoError(t, g.AddConnection(g.StartID(), n1))

	require.NoError(t, g.RemoveNode(n1))

	assert.Equal(t, 1, g.NodeCount())
	assert.Equal(t, 0, g.ConnectionCount())
	_, ok := g.Node(g.StartID())
	assert.True(t, ok)
}

func TestRemoveNode_CascadeIsExact(t *testing.T) {
	g := NewGraph()
	a, _ := g.AddNode(KindGreeting, Position{})
	b, _ := g.AddNode(KindMenu, Position{})
	c, _ := g.AddNode(KindHangup, Position{})
	require.NoError(t, g.AddConnection(g.StartID(), a))
	require.NoError(t, g.AddConnection(a, b))
	require.NoError(t, g.AddConnection(b, a))
	require.NoError(t, g.AddConnection(b, c))

	require.NoError(t, g.RemoveNode(a))

	// Only edges touching a are gone; b -> c survives.
	conns := g.Connections()
	require.Len(t, conns, 1)
	assert.Equal(t, b, conns[0].From)
	assert.Equal(t, c, conns[0].To)
}

func TestMoveNode(t *testing.T) {
	g := NewGraph()
	id, _ := g.AddNode(KindGreeting, Position{X: 10, Y: 10})

	require.NoError(t, g.MoveNode(id, Position{X: 42, Y: 7}))
	n, _ := g.Node(id)
	assert.Equal(t, Position{X: 42, Y: 7}, n.Position)
	assert.Equal(t, "welcome.wav", n.Audio, "move must not touch payload")

	assert.ErrorIs(t, g.MoveNode("ghost", Position{}), ErrNotFound)
}

func TestUpdateNodeData_MergesFields(t *testing.T) {
	g := NewGraph()
	id, _ := g.AddNode(KindGreeting, Position{})

	label := "Welcome"
	require.NoError(t, g.UpdateNodeData(id, NodePatch{Label: &label}))
	n, _ := g.Node(id)
	assert.Equal(t, "Welcome", n.Label)
	assert.Equal(t, "welcome.wav", n.Audio, "unpatched field preserved")

	audio := "intro.wav"
	require.NoError(t, g.UpdateNodeData(id, NodePatch{Audio: &audio}))
	n, _ = g.Node(id)
	assert.Equal(t, "intro.wav", n.Audio)
	assert.Equal(t, "Welcome", n.Label)
}

func TestUpdateNodeData_SchemaMismatch(t *testing.T) {
	g := NewGraph()
	hangup, _ := g.AddNode(KindHangup, Position{})

	audio := "boom.wav"
	err := g.UpdateNodeData(hangup, NodePatch{Audio: &audio})
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	n, _ := g.Node(hangup)
	assert.Empty(t, n.Audio, "rejected patch must not be applied")
}

func TestUpdateNodeData_RejectedPatchIsAtomic(t *testing.T) {
	g := NewGraph()
	hangup, _ := g.AddNode(KindHangup, Position{})

	// Label alone would be fine, but the invalid audio field rejects the
	// whole patch.
	label := "End"
	audio := "x.wav"
	err := g.UpdateNodeData(hangup, NodePatch{Label: &label, Audio: &audio})
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	n, _ := g.Node(hangup)
	assert.Equal(t, "Hangup", n.Label)
}

func TestUpdateNodeData_InvalidMenuDigit(t *testing.T) {
	g := NewGraph()
	menu, _ := g.AddNode(KindMenu, Position{})

	err := g.UpdateNodeData(menu, NodePatch{Options: map[string]string{"A": "sales"}})
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	require.NoError(t, g.UpdateNodeData(menu, NodePatch{Options: map[string]string{"*": "operator"}}))
	n, _ := g.Node(menu)
	assert.Equal(t, map[string]string{"*": "operator"}, n.Options)
}

func TestUpdateNodeData_Absent(t *testing.T) {
	g := NewGraph()
	label := "x"
	assert.ErrorIs(t, g.UpdateNodeData("ghost", NodePatch{Label: &label}), ErrNotFound)
}

func TestAddConnection_SelfLoop(t *testing.T) {
	g := NewGraph()
	a, _ := g.AddNode(KindMenu, Position{})
	assert.ErrorIs(t, g.AddConnection(a, a), ErrSelfLoop)
	// Self-loop is reported even for ids the graph has never seen.
	assert.ErrorIs(t, g.AddConnection("ghost", "ghost"), ErrSelfLoop)
}

// Scenario: two greetings, connecting twice yields exactly one connection.
func TestAddConnection_DuplicateEdge(t *testing.T) {
	g := NewGraph()
	n1, _ := g.AddNode(KindGreeting, Position{})
	n2, _ := g.AddNode(KindGreeting, Position{})

	require.NoError(t, g.AddConnection(n1, n2))
	err := g.AddConnection(n1, n2)
	assert.ErrorIs(t, err, ErrDuplicateEdge)
	assert.Equal(t, 1, g.ConnectionCount())
}

func TestAddConnection_ReverseDirectionIsDistinct(t *testing.T) {
	g := NewGraph()
	n1, _ := g.AddNode(KindGreeting, Position{})
	n2, _ := g.AddNode(KindMenu, Position{})

	require.NoError(t, g.AddConnection(n1, n2))
	require.NoError(t, g.AddConnection(n2, n1))
	assert.Equal(t, 2, g.ConnectionCount())
}

func TestAddConnection_MissingEndpoint(t *testing.T) {
	g := NewGraph()
	n1, _ := g.AddNode(KindGreeting, Position{})

	assert.ErrorIs(t, g.AddConnection(n1, "ghost"), ErrNotFound)
	assert.ErrorIs(t, g.AddConnection("ghost", n1), ErrNotFound)
	assert.Equal(t, 0, g.ConnectionCount())
}

func TestRemoveConnection_Idempotent(t *testing.T) {
	g := NewGraph()
	n1, _ := g.AddNode(KindGreeting, Position{})
	require.NoError(t, g.AddConnection(g.StartID(), n1))

	g.RemoveConnection(g.StartID(), n1)
	assert.Equal(t, 0, g.ConnectionCount())

	// Removing again, or removing something never added, is a no-op.
	g.RemoveConnection(g.StartID(), n1)
	g.RemoveConnection("a", "b")
	assert.Equal(t, 0, g.ConnectionCount())
}

func TestNewGraphFromParts_RejectsStartCountViolations(t *testing.T) {
	_, err := NewGraphFromParts([]Node{
		{ID: "s1", Kind: KindStart},
		{ID: "s2", Kind: KindStart},
	}, nil)
	assert.ErrorIs(t, err, ErrInvariantViolation)

	_, err = NewGraphFromParts([]Node{{ID: "a", Kind: KindHangup}}, nil)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestNewGraphFromParts_RejectsDanglingConnection(t *testing.T) {
	_, err := NewGraphFromParts(
		[]Node{{ID: "s", Kind: KindStart}},
		[]Connection{{From: "s", To: "missing"}},
	)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestNewGraphFromParts_RejectsPayloadKindConflict(t *testing.T) {
	_, err := NewGraphFromParts([]Node{
		{ID: "s", Kind: KindStart},
		{ID: "h", Kind: KindHangup, Audio: "x.wav"},
	}, nil)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestClone_IsDeepAndDetached(t *testing.T) {
	g := NewGraph()
	menu, _ := g.AddNode(KindMenu, Position{})
	require.NoError(t, g.AddConnection(g.StartID(), menu))

	snap := g.Clone()
	require.True(t, g.Equal(snap))

	// Mutating the original must not leak into the snapshot.
	require.NoError(t, g.UpdateNodeData(menu, NodePatch{Options: map[string]string{"9": "late shift"}}))
	require.NoError(t, g.RemoveNode(menu))

	assert.Equal(t, 2, snap.NodeCount())
	assert.Equal(t, 1, snap.ConnectionCount())
	n, ok := snap.Node(menu)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"1": "", "2": "", "0": ""}, n.Options)
}

func TestNodeAccessorsReturnCopies(t *testing.T) {
	g := NewGraph()
	menu, _ := g.AddNode(KindMenu, Position{})

	n, _ := g.Node(menu)
	n.Options["5"] = "tampered"
	n.Label = "tampered"

	fresh, _ := g.Node(menu)
	assert.NotContains(t, fresh.Options, "5")
	assert.Equal(t, "Menu", fresh.Label)
}
