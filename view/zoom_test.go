package view

import (
	"testing"

	"github.com/TFMV/nodecanvas/geometry"
	"github.com/TFMV/nodecanvas/models"
	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
)

func newTestZoom() *Zoom {
	z := NewZoom()
	z.SetViewport(800, 600)
	z.SetScaleExtent(0.1, 1)
	z.SetTranslateExtent(-4096, -4096, 4096, 4096)
	return z
}

func TestZoom_ScaleExtentClampsCurrent(t *testing.T) {
	z := newTestZoom()
	z.SetTransform(geometry.Transform{K: 5})
	assert.Equal(t, 1.0, z.Transform().K)

	z.SetScaleExtent(0.1, 0.5)
	assert.Equal(t, 0.5, z.Transform().K)

	z.SetTransform(geometry.Transform{K: 0.01})
	assert.Equal(t, 0.1, z.Transform().K)
}

func TestZoom_TranslateExtentKeepsViewportInside(t *testing.T) {
	z := newTestZoom()
	z.SetTranslateExtent(0, 0, 1000, 1000)

	// pan far to the right of the extent
	z.SetTransform(geometry.Transform{K: 1, X: 5000, Y: 0})
	topLeft := z.Transform().Invert(gg.Pt(0, 0))
	assert.InDelta(t, 0.0, topLeft.X, 1e-9)

	// pan far past the bottom-right corner
	z.SetTransform(geometry.Transform{K: 1, X: -5000, Y: -5000})
	bottomRight := z.Transform().Invert(gg.Pt(800, 600))
	assert.InDelta(t, 1000.0, bottomRight.X, 1e-9)
	assert.InDelta(t, 1000.0, bottomRight.Y, 1e-9)
}

func TestZoom_ViewportLargerThanExtentIsCentred(t *testing.T) {
	z := newTestZoom()
	z.SetTranslateExtent(0, 0, 100, 100)
	z.SetTransform(geometry.Transform{K: 1, X: 37, Y: -12})

	center := z.Transform().Invert(gg.Pt(400, 300))
	assert.InDelta(t, 50.0, center.X, 1e-9)
	assert.InDelta(t, 50.0, center.Y, 1e-9)
}

func TestZoom_ScaleAroundKeepsPointFixed(t *testing.T) {
	z := newTestZoom()
	z.SetTransform(geometry.Transform{K: 0.5, X: 100, Y: 50})
	pointer := gg.Pt(300, 200)
	before := z.Transform().Invert(pointer)

	z.ScaleAround(1.5, pointer)
	after := z.Transform().Invert(pointer)

	assert.InDelta(t, 0.75, z.Transform().K, 1e-9)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestZoom_TranslateBy(t *testing.T) {
	z := newTestZoom()
	z.TranslateBy(25, -10)
	assert.Equal(t, geometry.Transform{K: 1, X: 25, Y: -10}, z.Transform())
}

func TestViewport_ScenarioA(t *testing.T) {
	z := newTestZoom()
	v := NewViewport(z, 0.9)

	ok := v.ZoomAt([]*models.Node{
		placed("n1", 0, 0, 100, 50),
		placed("n2", 200, 0, 100, 50),
	})

	assert.True(t, ok)
	tr := z.Transform()
	assert.InDelta(t, 0.9, tr.K, 1e-9)
	center := tr.Invert(gg.Pt(400, 300))
	assert.InDelta(t, 150.0, center.X, 1e-9)
	assert.InDelta(t, 25.0, center.Y, 1e-9)
}

func TestViewport_EmptySelectionIsNoop(t *testing.T) {
	z := newTestZoom()
	z.SetTransform(geometry.Transform{K: 0.7, X: 12, Y: 34})
	before := z.Transform()

	assert.False(t, NewViewport(z, 0.9).ZoomAt(nil))
	assert.False(t, NewViewport(z, 0.9).ZoomAt([]*models.Node{}))
	assert.Equal(t, before, z.Transform())
}

func TestViewport_ScaleBound(t *testing.T) {
	z := newTestZoom()
	v := NewViewport(z, 0.9)

	selections := [][]*models.Node{
		{placed("tiny", 0, 0, 1, 1)},
		{placed("flat", 0, 0, 5000, 1)},
		{placed("tall", 0, 0, 1, 9000)},
		{placed("a", -3000, -3000, 10, 10), placed("b", 3000, 3000, 10, 10)},
		{placed("unmeasured", 40, 40, 0, 0)},
	}

	for _, nodes := range selections {
		v.ZoomAt(nodes)
		k := z.Transform().K
		assert.LessOrEqual(t, k, 0.9+1e-12, nodes[0].ID)
		assert.GreaterOrEqual(t, k, 0.1, nodes[0].ID)
		assert.LessOrEqual(t, k, 1.0, nodes[0].ID)
	}
}
