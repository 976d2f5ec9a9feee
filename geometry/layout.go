package geometry

import (
	"math"

	"github.com/TFMV/nodecanvas/models"
)

// PortStyle sizes the rows of a node when no measured element is available
type PortStyle struct {
	Width  float64 // node width used when the node is unmeasured
	Header float64 // title bar height
	Row    float64 // height of one port row
	Socket float64 // socket diameter
}

// DefaultPortStyle matches the stock node template
func DefaultPortStyle() PortStyle {
	return PortStyle{Width: 180, Header: 24, Row: 22, Socket: 14}
}

// LayoutPorts gives an unmeasured node a size and places the sockets of ports
// that have none: outputs down the right edge, inputs down the left edge, in
// index order below the outputs. Measured sockets are left untouched.
func LayoutPorts(node *models.Node, style PortStyle) {
	if !node.Measured() {
		rows := len(node.Outputs) + len(node.Inputs)
		node.SetSize(style.Width, style.Header+float64(rows)*style.Row+style.Row/2)
	}

	pad := (style.Row - style.Socket) / 2
	for i, out := range node.Outputs {
		if out.Socket != nil {
			continue
		}
		out.Socket = &models.Socket{
			OffsetX: node.Width - style.Socket/2,
			OffsetY: style.Header + float64(i)*style.Row + pad,
			Width:   style.Socket,
			Height:  style.Socket,
		}
	}

	base := style.Header + float64(len(node.Outputs))*style.Row
	for i, in := range node.Inputs {
		if in.Socket != nil {
			continue
		}
		in.Socket = &models.Socket{
			OffsetX: -style.Socket / 2,
			OffsetY: base + float64(i)*style.Row + pad,
			Width:   style.Socket,
			Height:  style.Socket,
		}
	}
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
