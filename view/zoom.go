package view

import (
	"math"

	"github.com/TFMV/nodecanvas/geometry"
	"github.com/gogpu/gg"
)

// Zoom owns the pan/zoom transform of the canvas and keeps it inside the
// configured scale and translate extents. Every setter clamps.
type Zoom struct {
	transform geometry.Transform
	scaleMin  float64
	scaleMax  float64
	extent    gg.Rect // logical area the viewport may show
	width     float64 // viewport size in screen pixels
	height    float64
}

// NewZoom creates an identity transform with unbounded extents
func NewZoom() *Zoom {
	inf := math.Inf(1)
	return &Zoom{
		transform: geometry.Identity(),
		scaleMin:  0,
		scaleMax:  inf,
		extent:    gg.Rect{Min: gg.Pt(-inf, -inf), Max: gg.Pt(inf, inf)},
	}
}

// Transform returns the current transform
func (z *Zoom) Transform() geometry.Transform {
	return z.transform
}

// ScaleExtent returns the configured scale bounds
func (z *Zoom) ScaleExtent() (float64, float64) {
	return z.scaleMin, z.scaleMax
}

// TranslateExtent returns the configured pannable area
func (z *Zoom) TranslateExtent() gg.Rect {
	return z.extent
}

// Viewport returns the viewport size
func (z *Zoom) Viewport() (float64, float64) {
	return z.width, z.height
}

// SetScaleExtent bounds the scale and re-clamps the current transform
func (z *Zoom) SetScaleExtent(min, max float64) {
	z.scaleMin, z.scaleMax = min, max
	z.SetTransform(z.transform)
}

// SetTranslateExtent bounds the pannable area and re-clamps the current transform
func (z *Zoom) SetTranslateExtent(left, top, right, bottom float64) {
	z.extent = gg.NewRect(gg.Pt(left, top), gg.Pt(right, bottom))
	z.SetTransform(z.transform)
}

// SetViewport records the viewport size and re-clamps the current transform
func (z *Zoom) SetViewport(width, height float64) {
	z.width, z.height = width, height
	z.SetTransform(z.transform)
}

// SetTransform replaces the transform in one step, clamped to the extents
func (z *Zoom) SetTransform(t geometry.Transform) {
	z.transform = z.constrain(t)
}

// FitTo centres the logical point in the viewport at scale k
func (z *Zoom) FitTo(center gg.Point, k float64) {
	k = z.clampScale(k)
	z.SetTransform(geometry.Transform{
		K: k,
		X: z.width/2 - k*center.X,
		Y: z.height/2 - k*center.Y,
	})
}

// ScaleAround multiplies the scale by factor keeping the screen point fixed
func (z *Zoom) ScaleAround(factor float64, screen gg.Point) {
	t := z.transform
	logical := t.Invert(screen)
	k := z.clampScale(t.K * factor)
	z.SetTransform(geometry.Transform{
		K: k,
		X: screen.X - k*logical.X,
		Y: screen.Y - k*logical.Y,
	})
}

// TranslateBy pans by a screen-space delta
func (z *Zoom) TranslateBy(dx, dy float64) {
	t := z.transform
	t.X += dx
	t.Y += dy
	z.SetTransform(t)
}

func (z *Zoom) clampScale(k float64) float64 {
	return geometry.Clamp(k, z.scaleMin, z.scaleMax)
}

// constrain clamps the scale, then shifts the transform so the viewport,
// inverted into logical space, stays inside the translate extent. A viewport
// larger than the extent is centred on it.
func (z *Zoom) constrain(t geometry.Transform) geometry.Transform {
	t.K = z.clampScale(t.K)
	if t.K <= 0 || math.IsNaN(t.K) {
		t.K = z.transform.K
	}

	dx0 := (0-t.X)/t.K - z.extent.Min.X
	dx1 := (z.width-t.X)/t.K - z.extent.Max.X
	dy0 := (0-t.Y)/t.K - z.extent.Min.Y
	dy1 := (z.height-t.Y)/t.K - z.extent.Max.Y

	dx := shift(dx0, dx1)
	dy := shift(dy0, dy1)

	t.X += t.K * dx
	t.Y += t.K * dy
	return t
}

func shift(d0, d1 float64) float64 {
	if d1 > d0 {
		return (d0 + d1) / 2
	}
	if s := math.Min(0, d0); s != 0 {
		return s
	}
	return math.Max(0, d1)
}
