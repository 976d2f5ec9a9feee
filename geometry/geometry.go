// Package geometry holds the stateless geometry of the editor surface:
// coordinate conversion, port anchors, connection curves, bounding boxes and
// containment tests. Every function is pure.
package geometry

import (
	"math"
	"strconv"
	"strings"

	"github.com/TFMV/nodecanvas/models"
	"github.com/gogpu/gg"
)

// Transform is a uniform pan/zoom: screen = (X, Y) + K * logical
type Transform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity returns the transform that maps logical space onto the screen 1:1
func Identity() Transform {
	return Transform{K: 1}
}

// Matrix returns the affine matrix of the transform
func (t Transform) Matrix() gg.Matrix {
	return gg.Translate(t.X, t.Y).Multiply(gg.Scale(t.K, t.K))
}

// Apply maps a logical point to the screen
func (t Transform) Apply(p gg.Point) gg.Point {
	return t.Matrix().TransformPoint(p)
}

// Invert maps a screen point back to logical space
func (t Transform) Invert(p gg.Point) gg.Point {
	return gg.Pt((p.X-t.X)/t.K, (p.Y-t.Y)/t.K)
}

// ScreenToLogical converts a screen point using the transform
func ScreenToLogical(t Transform, p gg.Point) gg.Point {
	return t.Invert(p)
}

// LogicalToScreen converts a logical point using the transform
func LogicalToScreen(t Transform, p gg.Point) gg.Point {
	return t.Apply(p)
}

// OutputAnchor returns the point a connection leaves the output from.
// The second result is false while the port has no measured socket.
func OutputAnchor(out *models.Output) (gg.Point, bool) {
	if out == nil || out.Node == nil {
		return gg.Point{}, false
	}
	return socketCenter(out.Node, out.Socket)
}

// InputAnchor returns the point a connection enters the input at.
// The second result is false while the port has no measured socket.
func InputAnchor(in *models.Input) (gg.Point, bool) {
	if in == nil || in.Node == nil {
		return gg.Point{}, false
	}
	return socketCenter(in.Node, in.Socket)
}

func socketCenter(node *models.Node, s *models.Socket) (gg.Point, bool) {
	if s == nil {
		return gg.Point{}, false
	}
	return gg.Pt(
		node.Position.X+s.OffsetX+s.Width/2,
		node.Position.Y+s.OffsetY+s.Height/2,
	), true
}

// Curve is the drawable shape of a connection
type Curve struct {
	gg.CubicBez
}

// ConnectionPath returns the cubic curve between two anchors. The control
// points pull horizontally by 30% of the horizontal span and vertically by 10%
// of the vertical span, so the curve leaves outputs and enters inputs sideways.
func ConnectionPath(p0, p1 gg.Point) Curve {
	offsetX := 0.3 * math.Abs(p0.X-p1.X)
	offsetY := 0.1 * (p1.Y - p0.Y)

	return Curve{gg.NewCubicBez(
		p0,
		gg.Pt(p0.X+offsetX, p0.Y+offsetY),
		gg.Pt(p1.X-offsetX, p1.Y-offsetY),
		p1,
	)}
}

// D renders the curve as SVG path data
func (c Curve) D() string {
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, c.P0)
	b.WriteString(" C ")
	writePoint(&b, c.P1)
	b.WriteByte(' ')
	writePoint(&b, c.P2)
	b.WriteByte(' ')
	writePoint(&b, c.P3)
	return b.String()
}

func writePoint(b *strings.Builder, p gg.Point) {
	b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
}

// Box is an axis-aligned bounding box in logical space
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Center returns the middle of the box
func (b Box) Center() gg.Point {
	return gg.Pt((b.Left+b.Right)/2, (b.Top+b.Bottom)/2)
}

// Width returns the horizontal extent
func (b Box) Width() float64 {
	return math.Abs(b.Right - b.Left)
}

// Height returns the vertical extent
func (b Box) Height() float64 {
	return math.Abs(b.Bottom - b.Top)
}

// Rect converts the box to a gg rectangle
func (b Box) Rect() gg.Rect {
	return gg.NewRect(gg.Pt(b.Left, b.Top), gg.Pt(b.Right, b.Bottom))
}

// BoundingBox returns the union of the nodes' rectangles. It reports false for
// an empty slice.
func BoundingBox(nodes []*models.Node) (Box, bool) {
	if len(nodes) == 0 {
		return Box{}, false
	}

	r := nodes[0].Rect()
	for _, n := range nodes[1:] {
		r = r.Union(n.Rect())
	}
	return Box{Left: r.Min.X, Top: r.Min.Y, Right: r.Max.X, Bottom: r.Max.Y}, true
}

// RectanglesOverlapFully reports whether all four corners of inner lie within outer
func RectanglesOverlapFully(outer, inner gg.Rect) bool {
	return outer.Contains(inner.Min) &&
		outer.Contains(inner.Max) &&
		outer.Contains(gg.Pt(inner.Max.X, inner.Min.Y)) &&
		outer.Contains(gg.Pt(inner.Min.X, inner.Max.Y))
}

// Covers reports whether the group's frame fully encloses the node
func Covers(g *models.Group, n *models.Node) bool {
	return RectanglesOverlapFully(g.Rect(), n.Rect())
}
