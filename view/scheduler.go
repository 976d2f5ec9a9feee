package view

import (
	"github.com/TFMV/nodecanvas/geometry"
	"github.com/TFMV/nodecanvas/models"
	"github.com/gogpu/gg"
)

// Path is one drawable connection curve
type Path struct {
	ConnectionID string         `json:"connection_id,omitempty"`
	From         string         `json:"from,omitempty"`
	To           string         `json:"to,omitempty"`
	D            string         `json:"d"`
	Active       bool           `json:"active,omitempty"`
	Curve        geometry.Curve `json:"-"`
}

// NodeView is the drawable state of a node
type NodeView struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Position gg.Point `json:"position"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Selected bool     `json:"selected,omitempty"`
}

// GroupView is the drawable state of a group
type GroupView struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Position gg.Point `json:"position"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Members  []string `json:"members"`
	Selected bool     `json:"selected,omitempty"`
}

// Snapshot is the plain data handed to the renderer on every update
type Snapshot struct {
	Frame                uint64             `json:"frame"`
	Transform            geometry.Transform `json:"transform"`
	Width                float64            `json:"width"`
	Height               float64            `json:"height"`
	Groups               []GroupView        `json:"groups"`
	Nodes                []NodeView         `json:"nodes"`
	ConnectionPaths      []Path             `json:"connection_paths"`
	ActiveConnectionPath *Path              `json:"active_connection_path,omitempty"`
}

// Renderer receives snapshots and repaints
type Renderer interface {
	Refresh(snap *Snapshot)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(snap *Snapshot)

// Refresh implements Renderer
func (f RendererFunc) Refresh(snap *Snapshot) {
	f(snap)
}

// Scene is what the scheduler projects into a snapshot
type Scene interface {
	Nodes() []*models.Node
	Groups() []*models.Group
	Selected() ([]*models.Node, *models.Group)
}

// Scheduler recomputes the visual state and hands it to the renderer. An
// Update issued while a pass is running, for example from inside Refresh,
// is folded into one extra pass after the current one.
type Scheduler struct {
	scene    Scene
	picker   *Picker
	zoom     *Zoom
	pointer  func() gg.Point
	renderer Renderer

	frame    uint64
	updating bool
	dirty    bool
}

// NewScheduler wires the projection sources. pointer returns the logical
// mouse position used for the in-progress connection.
func NewScheduler(scene Scene, picker *Picker, zoom *Zoom, pointer func() gg.Point, renderer Renderer) *Scheduler {
	if renderer == nil {
		renderer = RendererFunc(func(*Snapshot) {})
	}
	return &Scheduler{
		scene:    scene,
		picker:   picker,
		zoom:     zoom,
		pointer:  pointer,
		renderer: renderer,
	}
}

// Update projects the current state and refreshes the renderer
func (s *Scheduler) Update() {
	if s.updating {
		s.dirty = true
		return
	}

	s.updating = true
	defer func() { s.updating = false }()

	for {
		s.dirty = false
		s.frame++
		s.renderer.Refresh(s.Snapshot())
		if !s.dirty {
			return
		}
	}
}

// Frames returns how many snapshots were handed out
func (s *Scheduler) Frames() uint64 {
	return s.frame
}

// Snapshot builds the drawable state without refreshing the renderer
func (s *Scheduler) Snapshot() *Snapshot {
	width, height := s.zoom.Viewport()
	snap := &Snapshot{
		Frame:           s.frame,
		Transform:       s.zoom.Transform(),
		Width:           width,
		Height:          height,
		ConnectionPaths: s.connectionPaths(),
	}

	selectedNodes, selectedGroup := s.scene.Selected()
	isSelected := make(map[*models.Node]bool, len(selectedNodes))
	for _, n := range selectedNodes {
		isSelected[n] = true
	}

	for _, g := range s.scene.Groups() {
		members := make([]string, 0, len(g.Nodes))
		for _, n := range g.Nodes {
			members = append(members, n.ID)
		}
		snap.Groups = append(snap.Groups, GroupView{
			ID:       g.ID,
			Title:    g.Title,
			Position: g.Position,
			Width:    g.Width,
			Height:   g.Height,
			Members:  members,
			Selected: g == selectedGroup,
		})
	}

	for _, n := range s.scene.Nodes() {
		snap.Nodes = append(snap.Nodes, NodeView{
			ID:       n.ID,
			Title:    n.Title,
			Position: n.Position,
			Width:    n.Width,
			Height:   n.Height,
			Selected: isSelected[n],
		})
	}

	if out := s.picker.Picked(); out != nil {
		if from, ok := geometry.OutputAnchor(out); ok {
			curve := geometry.ConnectionPath(from, s.pointer())
			snap.ActiveConnectionPath = &Path{From: out.Node.ID, D: curve.D(), Active: true, Curve: curve}
		}
	}

	return snap
}

// connectionPaths returns one path per connection whose anchors are known
func (s *Scheduler) connectionPaths() []Path {
	var paths []Path
	for _, node := range s.scene.Nodes() {
		for _, out := range node.Outputs {
			for _, c := range out.Connections {
				from, ok := geometry.OutputAnchor(out)
				if !ok {
					continue
				}
				to, ok := geometry.InputAnchor(c.Input)
				if !ok {
					continue
				}
				curve := geometry.ConnectionPath(from, to)
				paths = append(paths, Path{
					ConnectionID: c.ID,
					From:         node.ID,
					To:           c.Input.Node.ID,
					D:            curve.D(),
					Curve:        curve,
				})
			}
		}
	}
	return paths
}
