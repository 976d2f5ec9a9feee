// Package ingest loads editor documents and replays recorded input against
// an EditorView. Scenes come from a JSON fixture or a CSV edge list; input
// scripts are JSON lists of pointer and keyboard steps.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/TFMV/nodecanvas/models"
)

// DataProcessor defines the interface that all scene processors must implement
type DataProcessor interface {
	// ProcessData takes raw data bytes and returns an editor document
	ProcessData(data []byte) (*models.Editor, error)

	// GetName returns the name of the processor
	GetName() string
}

// Point is a JSON coordinate pair
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scene is the JSON fixture format of a document
type Scene struct {
	Name        string            `json:"name"`
	Nodes       []SceneNode       `json:"nodes"`
	Groups      []SceneGroup      `json:"groups,omitempty"`
	Connections []SceneConnection `json:"connections,omitempty"`
}

// SceneNode describes one node. A zero size leaves the node unmeasured and a
// missing position leaves it unplaced.
type SceneNode struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Position *Point      `json:"position,omitempty"`
	Width    float64     `json:"width,omitempty"`
	Height   float64     `json:"height,omitempty"`
	Inputs   []ScenePort `json:"inputs,omitempty"`
	Outputs  []ScenePort `json:"outputs,omitempty"`
}

// ScenePort describes an input or output. Multiple only applies to inputs.
type ScenePort struct {
	Name     string `json:"name"`
	Multiple bool   `json:"multiple,omitempty"`
}

// SceneGroup describes a group frame and its members
type SceneGroup struct {
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title"`
	Position  Point    `json:"position"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	MinWidth  float64  `json:"min_width,omitempty"`
	MinHeight float64  `json:"min_height,omitempty"`
	Members   []string `json:"members,omitempty"`
}

// PortRef points at a port by node ID and index
type PortRef struct {
	Node string `json:"node"`
	Port int    `json:"port"`
}

// SceneConnection joins an output to an input
type SceneConnection struct {
	From PortRef `json:"from"`
	To   PortRef `json:"to"`
}

// JSONProcessor handles scene fixtures
type JSONProcessor struct{}

// NewJSONProcessor creates a new JSON scene processor
func NewJSONProcessor() *JSONProcessor {
	return &JSONProcessor{}
}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Scene Processor"
}

// ProcessData decodes a scene fixture into a document
func (p *JSONProcessor) ProcessData(data []byte) (*models.Editor, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var scene Scene
	if err := dec.Decode(&scene); err != nil {
		return nil, sceneErrorf("decode: %v", err)
	}
	return scene.Build()
}

// Build creates the document the scene describes. Nodes are added in order,
// then groups, then connections, so the document's invariants are checked
// on every connection.
func (s *Scene) Build() (*models.Editor, error) {
	name := s.Name
	if name == "" {
		name = "scene"
	}
	doc := models.NewEditor(name)

	for i, sn := range s.Nodes {
		if sn.ID == "" {
			return nil, sceneErrorf("node %d: missing id", i)
		}
		node := newNode(sn)
		if sn.Position != nil {
			node.SetPosition(sn.Position.X, sn.Position.Y)
		}
		if err := doc.AddNode(node); err != nil {
			return nil, sceneErrorf("node %s: %v", sn.ID, err)
		}
	}

	for i, sg := range s.Groups {
		g := models.NewGroup(sg.Title, sg.Position.X, sg.Position.Y, sg.Width, sg.Height)
		if sg.ID != "" {
			g.ID = sg.ID
		}
		if sg.MinWidth > 0 || sg.MinHeight > 0 {
			g.SetMinSize(sg.MinWidth, sg.MinHeight)
			g.SetWidth(sg.Width)
			g.SetHeight(sg.Height)
		}
		for _, id := range sg.Members {
			node, err := doc.FindNodeByID(id)
			if err != nil {
				return nil, sceneErrorf("group %d: %v", i, err)
			}
			if owner := doc.GroupOf(node); owner != nil {
				return nil, sceneErrorf("group %d: node %s already belongs to group %s", i, id, owner.ID)
			}
			g.AddNode(node)
		}
		doc.AddGroup(g)
	}

	for i, sc := range s.Connections {
		out, err := doc.FindOutput(sc.From.Node, sc.From.Port)
		if err != nil {
			return nil, sceneErrorf("connection %d: %v", i, err)
		}
		in, err := doc.FindInput(sc.To.Node, sc.To.Port)
		if err != nil {
			return nil, sceneErrorf("connection %d: %v", i, err)
		}
		if _, err := doc.Connect(out, in); err != nil {
			return nil, sceneErrorf("connection %d: %v", i, err)
		}
	}

	return doc, nil
}

// CSVProcessor handles edge lists with source and target columns. Every
// node gets one output and one multi-connection input.
type CSVProcessor struct{}

// NewCSVProcessor creates a new CSV processor
func NewCSVProcessor() *CSVProcessor {
	return &CSVProcessor{}
}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Edge List Processor"
}

// ProcessData processes CSV data
func (p *CSVProcessor) ProcessData(data []byte) (*models.Editor, error) {
	reader := csv.NewReader(bytes.NewReader(data))

	header, err := reader.Read()
	if err != nil {
		return nil, sceneErrorf("reading CSV header: %v", err)
	}

	sourceIdx, targetIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "source", "from", "src":
			sourceIdx = i
		case "target", "to", "dst":
			targetIdx = i
		}
	}
	if sourceIdx == -1 || targetIdx == -1 {
		return nil, sceneErrorf("CSV must contain source and target columns")
	}

	doc := models.NewEditor("CSV Import")
	nodeFor := func(id string) (*models.Node, error) {
		if node, err := doc.FindNodeByID(id); err == nil {
			return node, nil
		}
		node := models.NewNodeWithID(id, id)
		node.AddInput("in", true)
		node.AddOutput("out")
		return node, doc.AddNode(node)
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, sceneErrorf("reading CSV row %d: %v", line, err)
		}

		source, err := nodeFor(strings.TrimSpace(row[sourceIdx]))
		if err != nil {
			return nil, sceneErrorf("row %d: %v", line, err)
		}
		target, err := nodeFor(strings.TrimSpace(row[targetIdx]))
		if err != nil {
			return nil, sceneErrorf("row %d: %v", line, err)
		}
		if source.Outputs[0].ConnectedTo(target.Inputs[0]) {
			continue
		}
		if _, err := doc.Connect(source.Outputs[0], target.Inputs[0]); err != nil {
			return nil, sceneErrorf("row %d: %v", line, err)
		}
	}

	return doc, nil
}

// GetProcessor returns the appropriate processor for the given format
func GetProcessor(format string) (DataProcessor, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONProcessor(), nil
	case "csv":
		return NewCSVProcessor(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Export captures a document as a scene fixture
func Export(doc *models.Editor) *Scene {
	scene := &Scene{Name: doc.Name}

	for _, n := range doc.Nodes() {
		sn := SceneNode{
			ID:     n.ID,
			Title:  n.Title,
			Width:  n.Width,
			Height: n.Height,
		}
		if n.Placed() {
			sn.Position = &Point{X: n.Position.X, Y: n.Position.Y}
		}
		for _, in := range n.Inputs {
			sn.Inputs = append(sn.Inputs, ScenePort{Name: in.Name, Multiple: in.MultipleConnections})
		}
		for _, out := range n.Outputs {
			sn.Outputs = append(sn.Outputs, ScenePort{Name: out.Name})
		}
		scene.Nodes = append(scene.Nodes, sn)
	}

	for _, g := range doc.Groups() {
		sg := SceneGroup{
			ID:        g.ID,
			Title:     g.Title,
			Position:  Point{X: g.Position.X, Y: g.Position.Y},
			Width:     g.Width,
			Height:    g.Height,
			MinWidth:  g.MinWidth,
			MinHeight: g.MinHeight,
		}
		for _, n := range g.Nodes {
			sg.Members = append(sg.Members, n.ID)
		}
		scene.Groups = append(scene.Groups, sg)
	}

	for _, c := range doc.AllConnections() {
		scene.Connections = append(scene.Connections, SceneConnection{
			From: PortRef{Node: c.Output.Node.ID, Port: c.Output.Index},
			To:   PortRef{Node: c.Input.Node.ID, Port: c.Input.Index},
		})
	}

	return scene
}
