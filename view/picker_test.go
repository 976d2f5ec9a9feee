package view

import (
	"testing"

	"github.com/TFMV/nodecanvas/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Document = (*models.Editor)(nil)

type fixture struct {
	doc      *models.Editor
	o1, o2   *models.Output
	single   *models.Input
	multi    *models.Input
	repaints int
	picker   *Picker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{doc: models.NewEditor("test")}

	src1 := models.NewNodeWithID("src1", "Source 1")
	src2 := models.NewNodeWithID("src2", "Source 2")
	dst := models.NewNodeWithID("dst", "Sink")
	f.o1 = src1.AddOutput("out")
	f.o2 = src2.AddOutput("out")
	f.single = dst.AddInput("single", false)
	f.multi = dst.AddInput("multi", true)

	for _, n := range []*models.Node{src1, src2, dst} {
		require.NoError(t, f.doc.AddNode(n))
	}
	f.picker = NewPicker(f.doc, func() { f.repaints++ }, nil)
	return f
}

func TestPicker_StartsIdle(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, Idle, f.picker.State())
	assert.Nil(t, f.picker.Picked())
}

func TestPicker_ToggleConnection(t *testing.T) {
	f := newFixture(t)

	f.picker.BeginPick(f.o1)
	assert.Equal(t, Picking, f.picker.State())
	f.picker.ResolvePick(f.single)

	require.Len(t, f.single.Connections, 1)
	assert.Same(t, f.o1, f.single.Connections[0].Output)
	assert.Equal(t, Idle, f.picker.State())

	f.picker.BeginPick(f.o1)
	f.picker.ResolvePick(f.single)
	assert.Empty(t, f.single.Connections)
	assert.Empty(t, f.o1.Connections)
	assert.Equal(t, Idle, f.picker.State())
}

func TestPicker_ToggleOnMultipleInput(t *testing.T) {
	f := newFixture(t)

	f.picker.BeginPick(f.o1)
	f.picker.ResolvePick(f.multi)
	f.picker.BeginPick(f.o2)
	f.picker.ResolvePick(f.multi)
	require.Len(t, f.multi.Connections, 2)

	f.picker.BeginPick(f.o1)
	f.picker.ResolvePick(f.multi)
	require.Len(t, f.multi.Connections, 1)
	assert.Same(t, f.o2, f.multi.Connections[0].Output)
}

func TestPicker_ReplacesSingleConnection(t *testing.T) {
	f := newFixture(t)
	_, err := f.doc.Connect(f.o1, f.single)
	require.NoError(t, err)

	f.picker.BeginPick(f.o2)
	f.picker.ResolvePick(f.single)

	require.Len(t, f.single.Connections, 1)
	assert.Same(t, f.o2, f.single.Connections[0].Output)
	assert.Empty(t, f.o1.Connections)
	assert.Nil(t, f.picker.Picked())
}

func TestPicker_SingleInputNeverHoldsTwo(t *testing.T) {
	f := newFixture(t)
	sequence := []*models.Output{f.o1, f.o2, f.o2, f.o1, f.o1, f.o2, f.o1}

	for _, out := range sequence {
		f.picker.BeginPick(out)
		f.picker.ResolvePick(f.single)
		assert.LessOrEqual(t, len(f.single.Connections), 1)

		// detach and drop back onto the same input
		f.picker.ResolvePick(f.single)
		f.picker.ResolvePick(f.single)
		assert.LessOrEqual(t, len(f.single.Connections), 1)
	}
}

func TestPicker_DetachFromInput(t *testing.T) {
	f := newFixture(t)
	_, err := f.doc.Connect(f.o1, f.single)
	require.NoError(t, err)

	f.picker.ResolvePick(f.single)
	assert.Empty(t, f.single.Connections)
	assert.Same(t, f.o1, f.picker.Picked())

	f.picker.ResolvePick(f.multi)
	require.Len(t, f.multi.Connections, 1)
	assert.Same(t, f.o1, f.multi.Connections[0].Output)
	assert.Equal(t, Idle, f.picker.State())
}

func TestPicker_ResolveWithoutPickOrConnection(t *testing.T) {
	f := newFixture(t)
	f.picker.ResolvePick(f.single)

	assert.Equal(t, Idle, f.picker.State())
	assert.Empty(t, f.doc.AllConnections())
}

func TestPicker_LatestOutputWins(t *testing.T) {
	f := newFixture(t)
	f.picker.BeginPick(f.o1)
	f.picker.BeginPick(f.o2)
	f.picker.ResolvePick(f.single)

	require.Len(t, f.single.Connections, 1)
	assert.Same(t, f.o2, f.single.Connections[0].Output)
}

func TestPicker_Cancel(t *testing.T) {
	f := newFixture(t)
	f.picker.BeginPick(f.o1)
	before := f.repaints

	f.picker.CancelPick()
	assert.Equal(t, Idle, f.picker.State())
	assert.Empty(t, f.doc.AllConnections())
	assert.Equal(t, before+1, f.repaints)

	f.picker.CancelPick()
	assert.Equal(t, before+1, f.repaints)
}

func TestPicker_RepaintsOnTransitions(t *testing.T) {
	f := newFixture(t)
	f.picker.BeginPick(f.o1)
	f.picker.ResolvePick(f.single)
	assert.Equal(t, 2, f.repaints)
}

func TestPickState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "picking", Picking.String())
}
