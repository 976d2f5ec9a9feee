package geometry

import (
	"testing"

	"github.com/TFMV/nodecanvas/models"
	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(x, y, w, h float64) *models.Node {
	n := models.NewNode("n")
	n.SetPosition(x, y)
	n.SetSize(w, h)
	return n
}

func TestTransform_RoundTrip(t *testing.T) {
	tr := Transform{K: 0.5, X: 100, Y: -40}
	logical := gg.Pt(30, 70)

	screen := LogicalToScreen(tr, logical)
	assert.InDelta(t, 115.0, screen.X, 1e-9)
	assert.InDelta(t, -5.0, screen.Y, 1e-9)

	back := ScreenToLogical(tr, screen)
	assert.InDelta(t, logical.X, back.X, 1e-9)
	assert.InDelta(t, logical.Y, back.Y, 1e-9)
}

func TestTransform_IdentityMatrix(t *testing.T) {
	assert.True(t, Identity().Matrix().IsIdentity())
}

func TestAnchors_UnknownUntilMeasured(t *testing.T) {
	n := node(10, 20, 100, 60)
	out := n.AddOutput("out")
	in := n.AddInput("in", false)

	_, ok := OutputAnchor(out)
	assert.False(t, ok)
	_, ok = InputAnchor(in)
	assert.False(t, ok)

	out.Socket = &models.Socket{OffsetX: 93, OffsetY: 27, Width: 14, Height: 14}
	p, ok := OutputAnchor(out)
	require.True(t, ok)
	assert.Equal(t, gg.Pt(110, 54), p)

	_, ok = OutputAnchor(nil)
	assert.False(t, ok)
}

func TestConnectionPath(t *testing.T) {
	c := ConnectionPath(gg.Pt(0, 0), gg.Pt(100, 50))

	assert.Equal(t, gg.Pt(0, 0), c.P0)
	assert.Equal(t, gg.Pt(30, 5), c.P1)
	assert.Equal(t, gg.Pt(70, 45), c.P2)
	assert.Equal(t, gg.Pt(100, 50), c.P3)
	assert.Equal(t, "M 0,0 C 30,5 70,45 100,50", c.D())
}

func TestConnectionPath_Deterministic(t *testing.T) {
	a := ConnectionPath(gg.Pt(12.5, -3), gg.Pt(-40, 88))
	b := ConnectionPath(gg.Pt(12.5, -3), gg.Pt(-40, 88))
	assert.Equal(t, a, b)
	assert.Equal(t, a.D(), b.D())
}

func TestBoundingBox(t *testing.T) {
	_, ok := BoundingBox(nil)
	assert.False(t, ok)

	box, ok := BoundingBox([]*models.Node{node(0, 0, 100, 50), node(200, 0, 100, 50)})
	require.True(t, ok)
	assert.Equal(t, Box{Left: 0, Top: 0, Right: 300, Bottom: 50}, box)
	assert.Equal(t, gg.Pt(150, 25), box.Center())
	assert.Equal(t, 300.0, box.Width())
	assert.Equal(t, 50.0, box.Height())
}

func TestRectanglesOverlapFully(t *testing.T) {
	outer := gg.NewRect(gg.Pt(0, 0), gg.Pt(100, 100))

	tests := []struct {
		name  string
		inner gg.Rect
		want  bool
	}{
		{"inside", gg.NewRect(gg.Pt(10, 10), gg.Pt(90, 90)), true},
		{"same", outer, true},
		{"crosses right edge", gg.NewRect(gg.Pt(50, 10), gg.Pt(150, 90)), false},
		{"outside", gg.NewRect(gg.Pt(200, 200), gg.Pt(210, 210)), false},
		{"encloses outer", gg.NewRect(gg.Pt(-10, -10), gg.Pt(110, 110)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RectanglesOverlapFully(outer, tt.inner))
		})
	}
}

func TestCovers(t *testing.T) {
	g := models.NewGroup("G", 0, 0, 400, 300)
	assert.True(t, Covers(g, node(10, 10, 100, 50)))
	assert.False(t, Covers(g, node(350, 10, 100, 50)))
}

func TestLayoutPorts(t *testing.T) {
	n := models.NewNode("n")
	n.SetPosition(100, 100)
	n.AddOutput("out")
	n.AddInput("a", false)
	n.AddInput("b", true)

	style := DefaultPortStyle()
	LayoutPorts(n, style)

	assert.Equal(t, 180.0, n.Width)
	assert.Equal(t, 24.0+3*22+11, n.Height)

	p, ok := OutputAnchor(n.Outputs[0])
	require.True(t, ok)
	assert.Equal(t, gg.Pt(280, 135), p)

	p, ok = InputAnchor(n.Inputs[1])
	require.True(t, ok)
	assert.Equal(t, gg.Pt(100, 179), p)

	measured := &models.Socket{OffsetX: 1, OffsetY: 2, Width: 3, Height: 4}
	n.Inputs[0].Socket = measured
	LayoutPorts(n, style)
	assert.Same(t, measured, n.Inputs[0].Socket)
}
