package view

import (
	"math"

	"github.com/TFMV/nodecanvas/geometry"
	"github.com/TFMV/nodecanvas/models"
)

// Viewport fits node selections into the visible canvas
type Viewport struct {
	zoom   *Zoom
	margin float64
}

// NewViewport creates a viewport controller over zoom. margin is the share
// of the viewport the fitted selection may occupy.
func NewViewport(zoom *Zoom, margin float64) *Viewport {
	return &Viewport{zoom: zoom, margin: margin}
}

// ZoomAt centres the bounding box of nodes and scales it to fit. The scale
// never exceeds the margin, so small selections are not magnified. An empty
// selection leaves the transform untouched and reports false.
func (v *Viewport) ZoomAt(nodes []*models.Node) bool {
	bbox, ok := geometry.BoundingBox(nodes)
	if !ok {
		return false
	}

	width, height := v.zoom.Viewport()
	kh := height / bbox.Height()
	kw := width / bbox.Width()
	k := math.Min(math.Min(kh, kw), 1)
	if math.IsNaN(k) {
		// 0/0: a zero-sized selection in a zero-sized viewport
		k = 1
	}

	v.zoom.FitTo(bbox.Center(), v.margin*k)
	return true
}
