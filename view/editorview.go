// Package view is the interaction engine of the node editor. It turns pointer
// input into document edits: the connection picker, group containment,
// pan/zoom with viewport fitting, and the scheduler that projects the document
// into drawable snapshots.
package view

import (
	"math"

	"github.com/TFMV/nodecanvas/config"
	"github.com/TFMV/nodecanvas/geometry"
	"github.com/TFMV/nodecanvas/log"
	"github.com/TFMV/nodecanvas/models"
	"github.com/gogpu/gg"
)

// Document is the graph document the view edits
type Document interface {
	Connector
	Scene
	AddNode(node *models.Node) error
	SelectNode(node *models.Node)
	SelectGroup(g *models.Group)
	KeyDown(key string) error
	MarkLoaded()
	Trigger(event models.EditorEvent, payload any)
}

// ContextMenu is opened on empty-area clicks
type ContextMenu interface {
	Show(x, y float64)
	Hide()
}

// MenuItem is a context menu entry. A *models.Node result is added to the
// document at the pointer position.
type MenuItem func() any

// Prompter asks the user for text. ok is false when the user cancels.
type Prompter interface {
	Prompt(message, current string) (answer string, ok bool)
}

// Options configures an EditorView
type Options struct {
	ScaleMin        float64
	ScaleMax        float64
	TranslateExtent float64
	ZoomMargin      float64
	MenuOffset      float64
	Width           float64
	Height          float64
	PortStyle       geometry.PortStyle
}

// DefaultOptions mirrors config.Default
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig maps configuration onto view options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ScaleMin:        cfg.View.ScaleMin,
		ScaleMax:        cfg.View.ScaleMax,
		TranslateExtent: cfg.View.TranslateExtent,
		ZoomMargin:      cfg.View.ZoomMargin,
		MenuOffset:      cfg.View.MenuOffset,
		Width:           cfg.Canvas.Width,
		Height:          cfg.Canvas.Height,
		PortStyle: geometry.PortStyle{
			Width:  cfg.Ports.Width,
			Header: cfg.Ports.Header,
			Row:    cfg.Ports.Row,
			Socket: cfg.Ports.Socket,
		},
	}
}

// EditorView composes the interaction components over one document. All
// methods must be called from the goroutine that dispatches input.
type EditorView struct {
	doc         Document
	picker      *Picker
	zoom        *Zoom
	viewport    *Viewport
	containment *Containment
	scheduler   *Scheduler
	menu        ContextMenu
	prompter    Prompter
	opts        Options
	logger      log.Logger

	mouse gg.Point // logical pointer position
}

// New creates a view over doc. renderer, menu and logger may be nil.
func New(doc Document, renderer Renderer, menu ContextMenu, opts Options, logger log.Logger) *EditorView {
	if logger == nil {
		logger = log.Nop()
	}

	v := &EditorView{
		doc:         doc,
		zoom:        NewZoom(),
		containment: NewContainment(logger),
		menu:        menu,
		opts:        opts,
		logger:      logger,
	}
	v.picker = NewPicker(doc, v.Update, logger)
	v.viewport = NewViewport(v.zoom, opts.ZoomMargin)
	v.scheduler = NewScheduler(doc, v.picker, v.zoom, v.Mouse, renderer)

	v.zoom.SetViewport(opts.Width, opts.Height)
	v.SetScaleExtent(opts.ScaleMin, opts.ScaleMax)
	size := opts.TranslateExtent
	v.SetTranslateExtent(-size, -size, size, size)
	return v
}

// SetPrompter installs the text prompt used for group titles
func (v *EditorView) SetPrompter(p Prompter) {
	v.prompter = p
}

// Document returns the edited document
func (v *EditorView) Document() Document {
	return v.doc
}

// Picker exposes the connection picker
func (v *EditorView) Picker() *Picker {
	return v.picker
}

// Transform returns the current pan/zoom
func (v *EditorView) Transform() geometry.Transform {
	return v.zoom.Transform()
}

// Mouse returns the last pointer position in logical space
func (v *EditorView) Mouse() gg.Point {
	return v.mouse
}

// Snapshot returns the current drawable state
func (v *EditorView) Snapshot() *Snapshot {
	return v.scheduler.Snapshot()
}

// Frames returns the number of repaints so far
func (v *EditorView) Frames() uint64 {
	return v.scheduler.Frames()
}

// Update recomputes the visual state and repaints
func (v *EditorView) Update() {
	v.scheduler.Update()
}

// Load lays out ports that have no measured socket, sizes the canvas and
// marks the document as loaded.
func (v *EditorView) Load() {
	for _, n := range v.doc.Nodes() {
		geometry.LayoutPorts(n, v.opts.PortStyle)
	}
	v.Resize(v.opts.Width, v.opts.Height)
	v.doc.MarkLoaded()
}

// Resize records a new canvas size and repaints
func (v *EditorView) Resize(width, height float64) {
	v.zoom.SetViewport(width, height)
	v.Update()
}

// SetScaleExtent bounds the zoom scale
func (v *EditorView) SetScaleExtent(min, max float64) {
	v.zoom.SetScaleExtent(min, max)
}

// SetTranslateExtent bounds the pannable logical area
func (v *EditorView) SetTranslateExtent(left, top, right, bottom float64) {
	v.zoom.SetTranslateExtent(left, top, right, bottom)
}

// ZoomAt fits the nodes into the viewport. Empty selections are ignored.
func (v *EditorView) ZoomAt(nodes []*models.Node) {
	if v.viewport.ZoomAt(nodes) {
		v.Update()
	}
}

// Wheel zooms around the pointer. deltaY follows wheel event sign: positive
// zooms out.
func (v *EditorView) Wheel(screen gg.Point, deltaY float64) {
	v.zoom.ScaleAround(math.Pow(2, -deltaY*0.002), screen)
	v.PointerMove(screen)
}

// PointerMove records the pointer and repaints, which keeps the in-progress
// connection under the cursor.
func (v *EditorView) PointerMove(screen gg.Point) {
	v.mouse = geometry.ScreenToLogical(v.zoom.Transform(), screen)
	v.Update()
}

// PressOutput starts, or restarts, a connection from the output
func (v *EditorView) PressOutput(output *models.Output) {
	v.picker.BeginPick(output)
}

// PressInput completes or detaches a connection at the input
func (v *EditorView) PressInput(input *models.Input) {
	v.picker.ResolvePick(input)
}

// AreaClick handles a click on empty canvas. Without ctrl an active pick is
// cancelled; otherwise the context menu opens next to the pointer.
func (v *EditorView) AreaClick(screen gg.Point, ctrl bool) {
	v.mouse = geometry.ScreenToLogical(v.zoom.Transform(), screen)

	if v.picker.State() == Picking && !ctrl {
		v.picker.CancelPick()
	} else if v.menu != nil {
		v.menu.Show(screen.X-v.opts.MenuOffset, screen.Y-v.opts.MenuOffset)
	}
	v.Update()
}

// SelectMenuItem runs a context menu entry and closes the menu
func (v *EditorView) SelectMenuItem(item MenuItem) {
	if node, ok := item().(*models.Node); ok {
		node.SetPosition(v.mouse.X, v.mouse.Y)
		geometry.LayoutPorts(node, v.opts.PortStyle)
		if err := v.doc.AddNode(node); err != nil {
			v.logger.Warn("add node from menu: %v", err)
		}
	}
	if v.menu != nil {
		v.menu.Hide()
	}
	v.Update()
}

// KeyDown forwards a key press to the document. A pick whose node was just
// removed is dropped with it.
func (v *EditorView) KeyDown(key string) {
	if err := v.doc.KeyDown(key); err != nil {
		v.logger.Warn("key %s: %v", key, err)
	}
	if out := v.picker.Picked(); out != nil && !v.hasNode(out.Node) {
		v.picker.CancelPick()
	}
	v.Update()
}

func (v *EditorView) hasNode(node *models.Node) bool {
	for _, n := range v.doc.Nodes() {
		if n == node {
			return true
		}
	}
	return false
}

// MeasureNode records the rendered size of a node
func (v *EditorView) MeasureNode(node *models.Node, width, height float64) {
	node.SetSize(width, height)
	v.Update()
}

// EditGroupTitle asks for a new title; empty or cancelled answers are ignored
func (v *EditorView) EditGroupTitle(g *models.Group) {
	if v.prompter == nil {
		return
	}
	if title, ok := v.prompter.Prompt("Please enter title of the group", g.Title); ok {
		g.SetTitle(title)
	}
	v.Update()
}

// Reconcile re-derives group membership for every node
func (v *EditorView) Reconcile() []MembershipChange {
	return v.containment.Reconcile(v.doc.Groups(), v.doc.Nodes(), nil)
}

// logicalDelta converts a screen pointer delta at the current scale
func (v *EditorView) logicalDelta(from, to gg.Point) gg.Point {
	return to.Sub(from).Div(v.zoom.Transform().K)
}

// DragNode returns the drag gesture of a node. Starting raises and selects
// the node; ticks move it; the end re-derives group membership.
func (v *EditorView) DragNode(node *models.Node) *Drag {
	var prev gg.Point
	return newDrag(
		func(p gg.Point) {
			prev = p
			v.doc.SelectNode(node)
			v.logger.Debug("drag node %s start", node.ID)
		},
		func(p gg.Point) {
			d := v.logicalDelta(prev, p)
			prev = p
			node.Translate(d.X, d.Y)
			v.Update()
		},
		func() {
			v.containment.Reconcile(v.doc.Groups(), v.doc.Nodes(), nil)
			v.doc.Trigger(models.EventChange, node)
			v.Update()
			v.logger.Debug("drag node %s end", node.ID)
		},
	)
}

// DragGroup returns the drag gesture of a group. Members travel with the
// group on every tick; membership is re-derived when the gesture ends.
func (v *EditorView) DragGroup(g *models.Group) *Drag {
	var prev gg.Point
	return newDrag(
		func(p gg.Point) {
			prev = p
			v.doc.SelectGroup(g)
		},
		func(p gg.Point) {
			d := v.logicalDelta(prev, p)
			prev = p
			g.Translate(d.X, d.Y)
			for _, n := range g.Nodes {
				n.Translate(d.X, d.Y)
			}
			v.Update()
		},
		func() {
			v.containment.Reconcile(v.doc.Groups(), v.doc.Nodes(), g)
			v.doc.Trigger(models.EventChange, g)
			v.Update()
		},
	)
}

// ResizeGroup returns the resize gesture of one edge handle of a group. code
// names the edges, e.g. "l", "rb".
func (v *EditorView) ResizeGroup(g *models.Group, code string) *Drag {
	handle := ParseHandle(code)
	var prev gg.Point
	return newDrag(
		func(p gg.Point) {
			prev = p
			v.doc.SelectGroup(g)
		},
		func(p gg.Point) {
			d := v.logicalDelta(prev, p)
			applied := ResizeGroup(g, handle, d.X, d.Y)
			prev = prev.Add(applied.Mul(v.zoom.Transform().K))
			v.Update()
		},
		func() {
			v.containment.Reconcile(v.doc.Groups(), v.doc.Nodes(), g)
			v.doc.Trigger(models.EventChange, g)
			v.Update()
		},
	)
}

// DragCanvas returns the pan gesture of the empty canvas
func (v *EditorView) DragCanvas() *Drag {
	var prev gg.Point
	return newDrag(
		func(p gg.Point) { prev = p },
		func(p gg.Point) {
			v.zoom.TranslateBy(p.X-prev.X, p.Y-prev.Y)
			prev = p
			v.Update()
		},
		func() {},
	)
}
