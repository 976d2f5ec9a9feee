package view

import (
	"testing"

	"github.com/TFMV/nodecanvas/geometry"
	"github.com/TFMV/nodecanvas/models"
	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	snaps []*Snapshot
}

func (r *recordingRenderer) Refresh(snap *Snapshot) {
	r.snaps = append(r.snaps, snap)
}

func (r *recordingRenderer) last() *Snapshot {
	return r.snaps[len(r.snaps)-1]
}

type fakeMenu struct {
	shown  []gg.Point
	hidden int
}

func (m *fakeMenu) Show(x, y float64) { m.shown = append(m.shown, gg.Pt(x, y)) }
func (m *fakeMenu) Hide()             { m.hidden++ }

type fakePrompter struct {
	answer string
	ok     bool
}

func (p fakePrompter) Prompt(string, string) (string, bool) { return p.answer, p.ok }

func newView(t *testing.T) (*EditorView, *models.Editor, *recordingRenderer, *fakeMenu) {
	t.Helper()
	doc := models.NewEditor("test")
	r := &recordingRenderer{}
	m := &fakeMenu{}
	v := New(doc, r, m, DefaultOptions(), nil)
	return v, doc, r, m
}

func addNode(t *testing.T, doc *models.Editor, id string, x, y float64) *models.Node {
	t.Helper()
	n := models.NewNodeWithID(id, id)
	n.SetPosition(x, y)
	n.AddOutput("out")
	n.AddInput("in", false)
	require.NoError(t, doc.AddNode(n))
	return n
}

func TestEditorView_LoadLaysOutAndTriggers(t *testing.T) {
	v, doc, r, _ := newView(t)
	n := addNode(t, doc, "n", 0, 0)

	loaded := false
	doc.Events.On(func(models.EditorEvent, any) { loaded = true }, models.EventLoad)
	v.Load()

	assert.True(t, loaded)
	assert.True(t, doc.Loaded())
	assert.True(t, n.Measured())
	assert.NotNil(t, n.Outputs[0].Socket)
	assert.NotEmpty(t, r.snaps)
}

func TestEditorView_ScenarioB(t *testing.T) {
	v, doc, r, _ := newView(t)
	a := addNode(t, doc, "a", 0, 0)
	b := addNode(t, doc, "b", 0, 200)
	c := addNode(t, doc, "c", 400, 100)
	v.Load()

	o1, o2, in := a.Outputs[0], b.Outputs[0], c.Inputs[0]
	_, err := doc.Connect(o1, in)
	require.NoError(t, err)

	v.PressOutput(o2)
	assert.NotNil(t, r.last().ActiveConnectionPath)

	v.PressInput(in)
	require.Len(t, in.Connections, 1)
	assert.Same(t, o2, in.Connections[0].Output)
	assert.Empty(t, o1.Connections)
	assert.Nil(t, v.Picker().Picked())

	snap := r.last()
	assert.Nil(t, snap.ActiveConnectionPath)
	require.Len(t, snap.ConnectionPaths, 1)
	assert.Equal(t, in.Connections[0].ID, snap.ConnectionPaths[0].ConnectionID)
}

func TestEditorView_ScenarioC(t *testing.T) {
	v, doc, _, _ := newView(t)
	g := models.NewGroup("G", 0, 0, 400, 300)
	doc.AddGroup(g)
	n := addNode(t, doc, "n", 500, 500)
	n.SetSize(100, 50)

	drag := v.DragNode(n)
	require.True(t, drag.Start(gg.Pt(500, 500)))
	require.True(t, drag.Move(gg.Pt(200, 200)))
	assert.False(t, g.HasNode(n), "membership changes only at gesture end")
	require.True(t, drag.End())

	assert.True(t, g.HasNode(n))
	assert.Equal(t, gg.Pt(200, 200), n.Position)

	gdrag := v.DragGroup(g)
	gdrag.Start(gg.Pt(10, 10))
	gdrag.Move(gg.Pt(60, 30))
	gdrag.End()

	assert.Equal(t, gg.Pt(50, 20), g.Position)
	assert.Equal(t, gg.Pt(250, 220), n.Position)
	assert.True(t, g.HasNode(n))
}

func TestEditorView_DragHonoursScale(t *testing.T) {
	v, doc, _, _ := newView(t)
	n := addNode(t, doc, "n", 0, 0)
	v.zoom.SetTransform(geometry.Transform{K: 0.5})

	d := v.DragNode(n)
	d.Start(gg.Pt(0, 0))
	d.Move(gg.Pt(10, 20))
	d.End()

	assert.Equal(t, gg.Pt(20, 40), n.Position)
}

func TestEditorView_DragPhaseOrder(t *testing.T) {
	v, doc, _, _ := newView(t)
	n := addNode(t, doc, "n", 0, 0)

	changes := 0
	doc.Events.On(func(models.EditorEvent, any) { changes++ }, models.EventChange)

	d := v.DragNode(n)
	assert.False(t, d.Move(gg.Pt(5, 5)), "tick before start is ignored")
	assert.False(t, d.End(), "end before start is ignored")
	assert.Equal(t, gg.Pt(0, 0), n.Position)

	d.Start(gg.Pt(0, 0))
	assert.False(t, d.Start(gg.Pt(1, 1)))
	assert.True(t, d.End())
	assert.False(t, d.End(), "end is delivered once")
	assert.Equal(t, 1, changes)
}

func TestEditorView_ResizeGesture(t *testing.T) {
	v, doc, _, _ := newView(t)
	g := models.NewGroup("G", 0, 0, 400, 300)
	doc.AddGroup(g)
	inside := addNode(t, doc, "inside", 320, 20)
	inside.SetSize(50, 50)
	doc.Trigger(models.EventChange, nil)

	d := v.ResizeGroup(g, "l")
	d.Start(gg.Pt(0, 100))
	d.Move(gg.Pt(500, 100))
	assert.Equal(t, g.MinWidth, g.Width)
	assert.Equal(t, 100.0, g.Position.X)

	// the edge only follows the pointer again once it is back over it
	d.Move(gg.Pt(450, 100))
	assert.Equal(t, g.MinWidth, g.Width)
	d.Move(gg.Pt(50, 100))
	assert.Equal(t, 50.0, g.Position.X)
	assert.Equal(t, 350.0, g.Width)
	d.End()

	assert.True(t, g.HasNode(inside))
}

func TestEditorView_AreaClick(t *testing.T) {
	v, doc, _, menu := newView(t)
	a := addNode(t, doc, "a", 0, 0)

	v.PressOutput(a.Outputs[0])
	v.AreaClick(gg.Pt(100, 100), false)
	assert.Equal(t, Idle, v.Picker().State())
	assert.Empty(t, menu.shown)

	v.PressOutput(a.Outputs[0])
	v.AreaClick(gg.Pt(100, 100), true)
	assert.Equal(t, Picking, v.Picker().State())
	assert.Equal(t, []gg.Point{gg.Pt(80, 80)}, menu.shown)

	v.Picker().CancelPick()
	v.AreaClick(gg.Pt(300, 50), false)
	assert.Equal(t, gg.Pt(280, 30), menu.shown[1])
}

func TestEditorView_SelectMenuItemAddsNodeAtPointer(t *testing.T) {
	v, doc, _, menu := newView(t)
	v.PointerMove(gg.Pt(120, 80))

	v.SelectMenuItem(func() any {
		n := models.NewNode("from menu")
		n.AddOutput("out")
		return n
	})
	require.Len(t, doc.Nodes(), 1)
	n := doc.Nodes()[0]
	assert.Equal(t, gg.Pt(120, 80), n.Position)
	assert.NotNil(t, n.Outputs[0].Socket)
	assert.Equal(t, 1, menu.hidden)

	v.SelectMenuItem(func() any { return "not a node" })
	assert.Len(t, doc.Nodes(), 1)
	assert.Equal(t, 2, menu.hidden)
}

func TestEditorView_ZoomAtEmptyIsNoop(t *testing.T) {
	v, _, r, _ := newView(t)
	before := v.Transform()
	frames := len(r.snaps)

	v.ZoomAt(nil)
	assert.Equal(t, before, v.Transform())
	assert.Len(t, r.snaps, frames)
}

func TestEditorView_ZoomAtScenarioA(t *testing.T) {
	v, doc, _, _ := newView(t)
	n1 := addNode(t, doc, "n1", 0, 0)
	n2 := addNode(t, doc, "n2", 200, 0)
	n1.SetSize(100, 50)
	n2.SetSize(100, 50)

	v.ZoomAt([]*models.Node{n1, n2})
	tr := v.Transform()
	assert.InDelta(t, 0.9, tr.K, 1e-9)
	assert.InDelta(t, 265.0, tr.X, 1e-9)
	assert.InDelta(t, 277.5, tr.Y, 1e-9)
}

func TestEditorView_EditGroupTitle(t *testing.T) {
	v, doc, _, _ := newView(t)
	g := models.NewGroup("old", 0, 0, 0, 0)
	doc.AddGroup(g)

	v.EditGroupTitle(g)
	assert.Equal(t, "old", g.Title)

	v.SetPrompter(fakePrompter{answer: "", ok: true})
	v.EditGroupTitle(g)
	assert.Equal(t, "old", g.Title)

	v.SetPrompter(fakePrompter{answer: "new", ok: false})
	v.EditGroupTitle(g)
	assert.Equal(t, "old", g.Title)

	v.SetPrompter(fakePrompter{answer: "new", ok: true})
	v.EditGroupTitle(g)
	assert.Equal(t, "new", g.Title)
}

func TestEditorView_KeyDownDeletesSelectedNode(t *testing.T) {
	v, doc, _, _ := newView(t)
	n := addNode(t, doc, "n", 0, 0)
	doc.SelectNode(n)

	v.KeyDown("Delete")
	assert.Empty(t, doc.Nodes())
}

func TestEditorView_DeletingPickedNodeCancelsPick(t *testing.T) {
	v, doc, r, _ := newView(t)
	a := addNode(t, doc, "a", 0, 0)
	b := addNode(t, doc, "b", 300, 0)
	c := addNode(t, doc, "c", 300, 200)
	v.Load()

	v.PressOutput(a.Outputs[0])
	doc.SelectNode(c)
	v.KeyDown("Delete")
	assert.Equal(t, Picking, v.Picker().State(), "removing another node keeps the pick")

	doc.SelectNode(a)
	v.KeyDown("Delete")
	assert.Equal(t, Idle, v.Picker().State())
	assert.Nil(t, r.last().ActiveConnectionPath)

	v.PressInput(b.Inputs[0])
	assert.Equal(t, Idle, v.Picker().State())
	assert.Empty(t, b.Inputs[0].Connections)
}

func TestEditorView_PanAndWheel(t *testing.T) {
	v, _, _, _ := newView(t)
	v.SetScaleExtent(0.1, 2)

	d := v.DragCanvas()
	d.Start(gg.Pt(0, 0))
	d.Move(gg.Pt(40, 30))
	d.End()
	assert.Equal(t, geometry.Transform{K: 1, X: 40, Y: 30}, v.Transform())

	before := geometry.ScreenToLogical(v.Transform(), gg.Pt(200, 200))
	v.Wheel(gg.Pt(200, 200), -500)
	assert.InDelta(t, 2.0, v.Transform().K, 1e-9)
	after := geometry.ScreenToLogical(v.Transform(), gg.Pt(200, 200))
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
	assert.InDelta(t, before.X, v.Mouse().X, 1e-9)
}
