package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/TFMV/nodecanvas/view"
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format      string  // Output format (svg, png, json, dot)
	Width       float64 // Width of the output, 0 uses the snapshot canvas
	Height      float64 // Height of the output, 0 uses the snapshot canvas
	Background  string  // Background color
	NodeColor   string  // Node fill
	GroupColor  string  // Group fill
	EdgeColor   string  // Connection stroke
	ActiveColor string  // In-progress connection stroke
	SelectColor string  // Outline of selected nodes and groups
	EdgeWidth   float64 // Connection stroke width
	FontSize    float64 // Font size for labels
	ShowLabels  bool    // Show node and group titles
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render encodes a snapshot of the editor using the provided options
	Render(snap *view.Snapshot, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:      format,
		Background:  "#f8f8f8",
		NodeColor:   "#ffffff",
		GroupColor:  "#e3ecf7",
		EdgeColor:   "#666666",
		ActiveColor: "#4285f4",
		SelectColor: "#f4b400",
		EdgeWidth:   2.0,
		FontSize:    12.0,
		ShowLabels:  true,
	}
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "dot":
		return &DOTRenderer{}, nil
	case "png":
		return &PNGRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Formats lists the supported output formats
func Formats() []string {
	return []string{"svg", "png", "json", "dot"}
}

// size resolves the output size, falling back to the snapshot canvas
func size(snap *view.Snapshot, options *OutputOptions) (float64, float64) {
	w, h := options.Width, options.Height
	if w <= 0 {
		w = snap.Width
	}
	if h <= 0 {
		h = snap.Height
	}
	return w, h
}

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders the editor surface as Scalable Vector Graphics with the current pan and zoom"
}

// Render creates an SVG representation of the snapshot
func (r *SVGRenderer) Render(snap *view.Snapshot, options *OutputOptions) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("render svg: nil snapshot")
	}
	var buf bytes.Buffer
	width, height := size(snap, options)
	t := snap.Transform

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<g class="area" transform="translate(%s,%s) scale(%s)">
`, num(width), num(height), num(width), num(height), options.Background, num(t.X), num(t.Y), num(t.K))

	// Groups sit below nodes and connections
	for _, g := range snap.Groups {
		stroke := "none"
		if g.Selected {
			stroke = options.SelectColor
		}
		fmt.Fprintf(&buf, `  <rect class="group" data-id="%s" x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="0.6" stroke="%s"/>
`, html.EscapeString(g.ID), num(g.Position.X), num(g.Position.Y), num(g.Width), num(g.Height), options.GroupColor, stroke)
		if options.ShowLabels && g.Title != "" {
			fmt.Fprintf(&buf, `  <text x="%s" y="%s" font-family="sans-serif" font-size="%s" fill="#333333">%s</text>
`, num(g.Position.X+8), num(g.Position.Y+options.FontSize+4), num(options.FontSize), html.EscapeString(g.Title))
		}
	}

	for _, p := range snap.ConnectionPaths {
		fmt.Fprintf(&buf, `  <path class="connection" data-id="%s" d="%s" fill="none" stroke="%s" stroke-width="%s"/>
`, html.EscapeString(p.ConnectionID), p.D, options.EdgeColor, num(options.EdgeWidth))
	}
	if p := snap.ActiveConnectionPath; p != nil {
		fmt.Fprintf(&buf, `  <path class="connection active" d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-dasharray="5,3"/>
`, p.D, options.ActiveColor, num(options.EdgeWidth))
	}

	for _, n := range snap.Nodes {
		stroke := "#999999"
		if n.Selected {
			stroke = options.SelectColor
		}
		fmt.Fprintf(&buf, `  <rect class="node" data-id="%s" x="%s" y="%s" width="%s" height="%s" rx="6" fill="%s" stroke="%s"/>
`, html.EscapeString(n.ID), num(n.Position.X), num(n.Position.Y), num(n.Width), num(n.Height), options.NodeColor, stroke)
		if options.ShowLabels && n.Title != "" {
			fmt.Fprintf(&buf, `  <text x="%s" y="%s" font-family="sans-serif" font-size="%s" fill="#333333">%s</text>
`, num(n.Position.X+8), num(n.Position.Y+options.FontSize+4), num(options.FontSize), html.EscapeString(n.Title))
		}
	}

	buf.WriteString("</g>\n</svg>\n")
	return buf.Bytes(), nil
}

// JSONRenderer outputs raw JSON format
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders the snapshot as JSON data for machine consumption or custom front ends"
}

// Render creates a JSON representation of the snapshot
func (r *JSONRenderer) Render(snap *view.Snapshot, options *OutputOptions) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("render json: nil snapshot")
	}
	return json.MarshalIndent(snap, "", "  ")
}

// DOTRenderer outputs Graphviz DOT format
type DOTRenderer struct{}

// Name returns the name of the renderer
func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

// Description returns a description of the renderer
func (r *DOTRenderer) Description() string {
	return "Renders nodes, groups and connections in Graphviz DOT format"
}

// Render creates a DOT representation of the snapshot. Groups become
// clusters and positions are pinned in points.
func (r *DOTRenderer) Render(snap *view.Snapshot, options *OutputOptions) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("render dot: nil snapshot")
	}
	var buf bytes.Buffer

	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  graph [bgcolor=%s];\n", strconv.Quote(options.Background))
	fmt.Fprintf(&buf, "  node [shape=box, fontname=\"Arial\", fontsize=%s];\n", num(options.FontSize))

	for i, g := range snap.Groups {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n    label=%s;\n", i, strconv.Quote(g.Title))
		for _, id := range g.Members {
			fmt.Fprintf(&buf, "    %s;\n", strconv.Quote(id))
		}
		buf.WriteString("  }\n")
	}

	for _, n := range snap.Nodes {
		label := n.Title
		if label == "" {
			label = n.ID
		}
		fmt.Fprintf(&buf, "  %s [label=%s, pos=\"%s,%s!\"];\n",
			strconv.Quote(n.ID), strconv.Quote(label), num(n.Position.X), num(-n.Position.Y))
	}

	for _, p := range snap.ConnectionPaths {
		fmt.Fprintf(&buf, "  %s -> %s [id=%s];\n", strconv.Quote(p.From), strconv.Quote(p.To), strconv.Quote(p.ConnectionID))
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
