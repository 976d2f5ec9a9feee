package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/TFMV/nodecanvas/log"
	"github.com/TFMV/nodecanvas/models"
	"github.com/TFMV/nodecanvas/view"
	"github.com/gogpu/gg"
)

// Step operations
const (
	OpResize      = "resize"
	OpMove        = "move"
	OpPick        = "pick"
	OpResolve     = "resolve"
	OpClick       = "click"
	OpDragNode    = "drag-node"
	OpDragGroup   = "drag-group"
	OpResizeGroup = "resize-group"
	OpPan         = "pan"
	OpWheel       = "wheel"
	OpZoom        = "zoom"
	OpMenu        = "menu"
	OpKey         = "key"
	OpTitle       = "title"
)

// Step is one recorded input. Coordinates are in screen space.
type Step struct {
	Op     string     `json:"op"`
	X      float64    `json:"x,omitempty"`
	Y      float64    `json:"y,omitempty"`
	Width  float64    `json:"width,omitempty"`
	Height float64    `json:"height,omitempty"`
	Node   string     `json:"node,omitempty"`
	Port   int        `json:"port,omitempty"`
	Group  string     `json:"group,omitempty"`
	Handle string     `json:"handle,omitempty"`
	Ctrl   bool       `json:"ctrl,omitempty"`
	Delta  float64    `json:"delta,omitempty"`
	Path   []Point    `json:"path,omitempty"`
	Nodes  []string   `json:"nodes,omitempty"`
	Key    string     `json:"key,omitempty"`
	Title  string     `json:"title,omitempty"`
	Create *SceneNode `json:"create,omitempty"`
}

// Script is an ordered list of steps
type Script struct {
	Steps []Step `json:"steps"`
}

// ParseScript decodes and validates an input script
func ParseScript(data []byte) (*Script, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var script Script
	if err := dec.Decode(&script); err != nil {
		return nil, scriptErrorf("decode: %v", err)
	}
	for i, step := range script.Steps {
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return &script, nil
}

// ParseStep decodes and validates a single step
func ParseStep(data []byte) (Step, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var step Step
	if err := dec.Decode(&step); err != nil {
		return Step{}, scriptErrorf("decode step: %v", err)
	}
	return step, step.Validate()
}

// Validate checks that the step carries what its operation needs
func (s Step) Validate() error {
	switch s.Op {
	case OpResize:
		if s.Width <= 0 || s.Height <= 0 {
			return scriptErrorf("%s needs a positive width and height", s.Op)
		}
	case OpMove, OpClick, OpWheel, OpZoom, OpKey:
	case OpPick, OpResolve:
		if s.Node == "" {
			return scriptErrorf("%s needs a node", s.Op)
		}
	case OpDragNode:
		if s.Node == "" || len(s.Path) == 0 {
			return scriptErrorf("%s needs a node and a path", s.Op)
		}
	case OpDragGroup, OpResizeGroup:
		if s.Group == "" || len(s.Path) == 0 {
			return scriptErrorf("%s needs a group and a path", s.Op)
		}
	case OpPan:
		if len(s.Path) == 0 {
			return scriptErrorf("%s needs a path", s.Op)
		}
	case OpMenu:
		if s.Create == nil {
			return scriptErrorf("%s needs a node to create", s.Op)
		}
	case OpTitle:
		if s.Group == "" {
			return scriptErrorf("%s needs a group", s.Op)
		}
	default:
		return scriptErrorf("unknown op %q", s.Op)
	}
	return nil
}

// Replayer dispatches steps to an EditorView over a document
type Replayer struct {
	view   *view.EditorView
	doc    *models.Editor
	logger log.Logger
}

// NewReplayer creates a replayer. doc must be the document v edits.
func NewReplayer(v *view.EditorView, doc *models.Editor, logger log.Logger) *Replayer {
	if logger == nil {
		logger = log.Nop()
	}
	return &Replayer{view: v, doc: doc, logger: logger}
}

// Replay applies every step in order and stops at the first failure
func (r *Replayer) Replay(script *Script) error {
	for i, step := range script.Steps {
		if err := r.Apply(step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}
	return nil
}

// Apply dispatches one step
func (r *Replayer) Apply(step Step) error {
	if err := step.Validate(); err != nil {
		return err
	}
	r.logger.Debug("replay %s", step.Op)

	v := r.view
	at := gg.Pt(step.X, step.Y)

	switch step.Op {
	case OpResize:
		v.Resize(step.Width, step.Height)
	case OpMove:
		v.PointerMove(at)
	case OpPick:
		out, err := r.doc.FindOutput(step.Node, step.Port)
		if err != nil {
			return err
		}
		v.PressOutput(out)
	case OpResolve:
		in, err := r.doc.FindInput(step.Node, step.Port)
		if err != nil {
			return err
		}
		v.PressInput(in)
	case OpClick:
		v.AreaClick(at, step.Ctrl)
	case OpDragNode:
		node, err := r.doc.FindNodeByID(step.Node)
		if err != nil {
			return err
		}
		run(v.DragNode(node), step.Path)
	case OpDragGroup:
		g, err := r.doc.FindGroupByID(step.Group)
		if err != nil {
			return err
		}
		run(v.DragGroup(g), step.Path)
	case OpResizeGroup:
		g, err := r.doc.FindGroupByID(step.Group)
		if err != nil {
			return err
		}
		run(v.ResizeGroup(g, step.Handle), step.Path)
	case OpPan:
		run(v.DragCanvas(), step.Path)
	case OpWheel:
		v.Wheel(at, step.Delta)
	case OpZoom:
		nodes, err := r.nodes(step.Nodes)
		if err != nil {
			return err
		}
		v.ZoomAt(nodes)
	case OpMenu:
		create := *step.Create
		v.SelectMenuItem(func() any { return newNode(create) })
	case OpKey:
		v.KeyDown(step.Key)
	case OpTitle:
		g, err := r.doc.FindGroupByID(step.Group)
		if err != nil {
			return err
		}
		v.SetPrompter(fixedPrompt(step.Title))
		v.EditGroupTitle(g)
	}
	return nil
}

// nodes resolves IDs; an empty list means every node
func (r *Replayer) nodes(ids []string) ([]*models.Node, error) {
	if len(ids) == 0 {
		return r.doc.Nodes(), nil
	}
	nodes := make([]*models.Node, 0, len(ids))
	for _, id := range ids {
		n, err := r.doc.FindNodeByID(id)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// run drives a gesture through the path: start at the first point, one tick
// per following point, then end.
func run(d *view.Drag, path []Point) {
	d.Start(gg.Pt(path[0].X, path[0].Y))
	for _, p := range path[1:] {
		d.Move(gg.Pt(p.X, p.Y))
	}
	d.End()
}

func newNode(sn SceneNode) *models.Node {
	var node *models.Node
	if sn.ID != "" {
		node = models.NewNodeWithID(sn.ID, sn.Title)
	} else {
		node = models.NewNode(sn.Title)
	}
	if sn.Width > 0 && sn.Height > 0 {
		node.SetSize(sn.Width, sn.Height)
	}
	for _, in := range sn.Inputs {
		node.AddInput(in.Name, in.Multiple)
	}
	for _, out := range sn.Outputs {
		node.AddOutput(out.Name)
	}
	return node
}

// fixedPrompt answers every prompt with the same title; empty cancels
type fixedPrompt string

func (p fixedPrompt) Prompt(_, _ string) (string, bool) {
	return string(p), p != ""
}
