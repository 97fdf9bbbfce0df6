package cli

import (
	"testing"

	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/pbxdeck/pbxdeck/internal/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// canvasModel builds a bare editor model around a graph, sized like a
// normal terminal, without services or a bridge.
func canvasModel(g *domain.Graph) editorModel {
	return editorModel{
		flow:  &domain.Flow{Name: "Day Routing"},
		ctrl:  editor.New(g),
		width: 100, height: 30,
	}
}

func TestRenderCanvas_ChipsAreBracketed(t *testing.T) {
	g := domain.NewGraph()
	m := canvasModel(g)

	assert.Contains(t, m.renderCanvas(), "[Call Start]")
}

func TestRenderCanvas_EdgeOnOneRow(t *testing.T) {
	g := domain.NewGraph()
	ext, err := g.AddNode(domain.KindExtension, domain.Position{X: 320, Y: 50})
	require.NoError(t, err)
	require.NoError(t, g.AddConnection(g.StartID(), ext))

	out := canvasModel(g).renderCanvas()
	assert.Contains(t, out, "─")
	assert.Contains(t, out, "▶")
	assert.Contains(t, out, "[Extension]")
}

func TestRenderCanvas_EdgeAcrossRowsBends(t *testing.T) {
	g := domain.NewGraph()
	ext, err := g.AddNode(domain.KindExtension, domain.Position{X: 320, Y: 100})
	require.NoError(t, err)
	require.NoError(t, g.AddConnection(g.StartID(), ext))

	out := canvasModel(g).renderCanvas()
	assert.Contains(t, out, "┐")
	assert.Contains(t, out, "│")
	assert.Contains(t, out, "▶")
}

func TestLayoutChips_TracksGraphPositions(t *testing.T) {
	g := domain.NewGraph()
	ext, err := g.AddNode(domain.KindExtension, domain.Position{X: 320, Y: 40})
	require.NoError(t, err)

	chips := layoutChips(g)
	require.Len(t, chips, 2)
	byID := map[string]chip{}
	for _, c := range chips {
		byID[c.id] = c
	}
	assert.Equal(t, 40, byID[ext].x)
	assert.Equal(t, 10, byID[ext].y)
	assert.Equal(t, len("Extension")+2, byID[ext].w)
}
