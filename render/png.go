package render

import (
	"bytes"
	"fmt"

	"github.com/TFMV/nodecanvas/view"
	"github.com/gogpu/gg"
)

// PNGRenderer rasterises the snapshot with gg
type PNGRenderer struct{}

// Name returns the name of the renderer
func (r *PNGRenderer) Name() string {
	return "PNG Renderer"
}

// Description returns a description of the renderer
func (r *PNGRenderer) Description() string {
	return "Rasterises groups, nodes and connection curves into a PNG image"
}

// Render draws the snapshot under its pan/zoom transform and encodes it as PNG.
// Labels are not drawn since no font face is loaded.
func (r *PNGRenderer) Render(snap *view.Snapshot, options *OutputOptions) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("render png: nil snapshot")
	}
	width, height := size(snap, options)
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("render png: invalid size %vx%v", width, height)
	}

	dc := gg.NewContext(int(width), int(height))
	defer dc.Close()

	dc.ClearWithColor(gg.Hex(options.Background))
	dc.SetTransform(snap.Transform.Matrix())

	for _, g := range snap.Groups {
		dc.SetHexColor(options.GroupColor)
		dc.DrawRectangle(g.Position.X, g.Position.Y, g.Width, g.Height)
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("render png: group %s: %w", g.ID, err)
		}
		if g.Selected {
			if err := outline(dc, options.SelectColor, g.Position, g.Width, g.Height); err != nil {
				return nil, err
			}
		}
	}

	dc.SetLineWidth(options.EdgeWidth)
	for _, p := range snap.ConnectionPaths {
		dc.SetHexColor(options.EdgeColor)
		if err := strokeCurve(dc, p); err != nil {
			return nil, fmt.Errorf("render png: connection %s: %w", p.ConnectionID, err)
		}
	}
	if p := snap.ActiveConnectionPath; p != nil {
		dc.SetHexColor(options.ActiveColor)
		dc.SetDash(5, 3)
		if err := strokeCurve(dc, *p); err != nil {
			return nil, fmt.Errorf("render png: active connection: %w", err)
		}
		dc.SetDash()
	}

	for _, n := range snap.Nodes {
		dc.SetHexColor(options.NodeColor)
		dc.DrawRoundedRectangle(n.Position.X, n.Position.Y, n.Width, n.Height, 6)
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("render png: node %s: %w", n.ID, err)
		}
		stroke := "#999999"
		if n.Selected {
			stroke = options.SelectColor
		}
		if err := outline(dc, stroke, n.Position, n.Width, n.Height); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("render png: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func strokeCurve(dc *gg.Context, p view.Path) error {
	c := p.Curve
	dc.MoveTo(c.P0.X, c.P0.Y)
	dc.CubicTo(c.P1.X, c.P1.Y, c.P2.X, c.P2.Y, c.P3.X, c.P3.Y)
	return dc.Stroke()
}

func outline(dc *gg.Context, color string, pos gg.Point, w, h float64) error {
	dc.SetHexColor(color)
	dc.SetLineWidth(1)
	dc.DrawRectangle(pos.X, pos.Y, w, h)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("render png: outline: %w", err)
	}
	return nil
}
