package view

import (
	"github.com/TFMV/nodecanvas/log"
	"github.com/TFMV/nodecanvas/models"
)

// PickState is the state of the connection gesture
type PickState int

const (
	// Idle means no output is picked
	Idle PickState = iota
	// Picking means an output is waiting for an input
	Picking
)

func (s PickState) String() string {
	if s == Picking {
		return "picking"
	}
	return "idle"
}

// Connector is the part of the document the picker mutates
type Connector interface {
	Connect(output *models.Output, input *models.Input) (*models.Connection, error)
	RemoveConnection(connection *models.Connection) error
}

// Picker turns two presses, output then input, into a connection. It holds
// the only piece of state shared across gestures: the picked output.
type Picker struct {
	doc     Connector
	picked  *models.Output
	repaint func()
	logger  log.Logger
}

// NewPicker creates an idle picker. repaint is invoked after every transition
// and may be nil.
func NewPicker(doc Connector, repaint func(), logger log.Logger) *Picker {
	if repaint == nil {
		repaint = func() {}
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Picker{doc: doc, repaint: repaint, logger: logger}
}

// State reports whether a pick is in progress
func (p *Picker) State() PickState {
	if p.picked != nil {
		return Picking
	}
	return Idle
}

// Picked returns the picked output, or nil when idle
func (p *Picker) Picked() *models.Output {
	return p.picked
}

// BeginPick picks the output. Pressing another output while picking replaces
// the previous pick.
func (p *Picker) BeginPick(output *models.Output) {
	p.picked = output
	p.logger.Debug("pick output %s of node %s", output.Name, output.Node.ID)
	p.repaint()
}

// ResolvePick handles a press on an input.
//
// Idle: an existing connection on the input is detached and its output becomes
// the pick, so the edge can be dragged to another input. Without a connection
// this is a no-op.
//
// Picking: if the picked output already feeds the input the connection is
// removed. Otherwise a single-connection input is emptied and a new connection
// is created. Either way the picker returns to idle.
func (p *Picker) ResolvePick(input *models.Input) {
	defer p.repaint()

	if p.picked == nil {
		if !input.HasConnection() {
			return
		}
		c := input.Connections[0]
		p.remove(c)
		p.picked = c.Output
		p.logger.Debug("detached connection %s, picking output %s", c.ID, c.Output.Name)
		return
	}

	output := p.picked
	p.picked = nil

	if existing, ok := output.ConnectionTo(input); ok {
		p.remove(existing)
		p.logger.Debug("toggled off connection %s", existing.ID)
		return
	}

	if !input.MultipleConnections && input.HasConnection() {
		p.remove(input.Connections[0])
	}

	c, err := p.doc.Connect(output, input)
	if err != nil {
		p.logger.Warn("connect %s -> %s: %v", output.Name, input.Name, err)
		return
	}
	p.logger.Debug("created connection %s", c.ID)
}

// CancelPick drops the pick without creating a connection
func (p *Picker) CancelPick() {
	if p.picked == nil {
		return
	}
	p.picked = nil
	p.logger.Debug("pick cancelled")
	p.repaint()
}

func (p *Picker) remove(c *models.Connection) {
	if err := p.doc.RemoveConnection(c); err != nil {
		p.logger.Warn("remove connection %s: %v", c.ID, err)
	}
}
