package models

import (
	"math"
	"time"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
)

// NewNode creates a new node with a unique ID and timestamps
func NewNode(title string) *Node {
	now := time.Now()
	return &Node{
		ID:        uuid.New().String(),
		Title:     title,
		Inputs:    []*Input{},
		Outputs:   []*Output{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewNodeWithID creates a new node with the specified ID
func NewNodeWithID(id, title string) *Node {
	node := NewNode(title)
	node.ID = id
	return node
}

// AddInput appends an input port to the node
func (n *Node) AddInput(name string, multiple bool) *Input {
	in := &Input{
		ID:                  uuid.New().String(),
		Name:                name,
		Node:                n,
		Index:               len(n.Inputs),
		MultipleConnections: multiple,
	}
	n.Inputs = append(n.Inputs, in)
	return in
}

// AddOutput appends an output port to the node
func (n *Node) AddOutput(name string) *Output {
	out := &Output{
		ID:    uuid.New().String(),
		Name:  name,
		Node:  n,
		Index: len(n.Outputs),
	}
	n.Outputs = append(n.Outputs, out)
	return out
}

// SetPosition sets the position of a node
func (n *Node) SetPosition(x, y float64) {
	n.Position = gg.Pt(x, y)
	n.placed = true
	n.UpdatedAt = time.Now()
}

// Translate moves the node by the given logical delta
func (n *Node) Translate(dx, dy float64) {
	n.Position = n.Position.Add(gg.Pt(dx, dy))
	n.placed = true
}

// Placed reports whether the node was ever given a position. The origin is
// a valid position.
func (n *Node) Placed() bool {
	return n.placed
}

// SetSize records the measured size of the node
func (n *Node) SetSize(width, height float64) {
	n.Width = width
	n.Height = height
	n.UpdatedAt = time.Now()
}

// Measured reports whether the node has been given a size
func (n *Node) Measured() bool {
	return n.Width > 0 && n.Height > 0
}

// Rect returns the node's rectangle in logical space
func (n *Node) Rect() gg.Rect {
	return gg.Rect{
		Min: n.Position,
		Max: gg.Pt(n.Position.X+n.Width, n.Position.Y+n.Height),
	}
}

// Connections returns every connection attached to any port of the node
func (n *Node) Connections() []*Connection {
	var result []*Connection
	for _, in := range n.Inputs {
		result = append(result, in.Connections...)
	}
	for _, out := range n.Outputs {
		result = append(result, out.Connections...)
	}
	return result
}

// HasConnection reports whether the input holds at least one connection
func (in *Input) HasConnection() bool {
	return len(in.Connections) > 0
}

// ConnectedTo reports whether the output already feeds the given input
func (out *Output) ConnectedTo(in *Input) bool {
	return out.connectionTo(in) != nil
}

func (out *Output) connectionTo(in *Input) *Connection {
	for _, c := range out.Connections {
		if c.Input == in {
			return c
		}
	}
	return nil
}

// ConnectionTo returns the connection from this output to the input, if any
func (out *Output) ConnectionTo(in *Input) (*Connection, bool) {
	c := out.connectionTo(in)
	return c, c != nil
}

func removeConnection(list []*Connection, c *Connection) ([]*Connection, bool) {
	for i, existing := range list {
		if existing == c {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

// NewGroup creates a new group with the given frame and a default resize floor
func NewGroup(title string, x, y, width, height float64) *Group {
	now := time.Now()
	g := &Group{
		ID:        uuid.New().String(),
		Title:     title,
		Position:  gg.Pt(x, y),
		MinWidth:  DefaultGroupMinWidth,
		MinHeight: DefaultGroupMinHeight,
		Nodes:     []*Node{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	g.SetWidth(width)
	g.SetHeight(height)
	return g
}

// Default resize floor for new groups
const (
	DefaultGroupMinWidth  = 300
	DefaultGroupMinHeight = 250
)

// SetWidth sets the width, never below MinWidth
func (g *Group) SetWidth(w float64) {
	g.Width = math.Max(g.MinWidth, w)
	g.UpdatedAt = time.Now()
}

// SetHeight sets the height, never below MinHeight
func (g *Group) SetHeight(h float64) {
	g.Height = math.Max(g.MinHeight, h)
	g.UpdatedAt = time.Now()
}

// SetMinSize changes the resize floor and grows the group if needed
func (g *Group) SetMinSize(minWidth, minHeight float64) {
	g.MinWidth = minWidth
	g.MinHeight = minHeight
	g.SetWidth(g.Width)
	g.SetHeight(g.Height)
}

// Translate moves the group frame by the given logical delta
func (g *Group) Translate(dx, dy float64) {
	g.Position = g.Position.Add(gg.Pt(dx, dy))
}

// Rect returns the group's rectangle in logical space
func (g *Group) Rect() gg.Rect {
	return gg.Rect{
		Min: g.Position,
		Max: gg.Pt(g.Position.X+g.Width, g.Position.Y+g.Height),
	}
}

// HasNode reports whether the node is currently a member
func (g *Group) HasNode(node *Node) bool {
	for _, n := range g.Nodes {
		if n == node {
			return true
		}
	}
	return false
}

// AddNode adds a member. Adding an existing member is a no-op.
func (g *Group) AddNode(node *Node) {
	if g.HasNode(node) {
		return
	}
	g.Nodes = append(g.Nodes, node)
	g.UpdatedAt = time.Now()
}

// RemoveNode drops a member. Removing a non-member is a no-op.
func (g *Group) RemoveNode(node *Node) {
	for i, n := range g.Nodes {
		if n == node {
			g.Nodes = append(g.Nodes[:i], g.Nodes[i+1:]...)
			g.UpdatedAt = time.Now()
			return
		}
	}
}

// SetTitle replaces the title; empty titles are rejected
func (g *Group) SetTitle(title string) bool {
	if title == "" {
		return false
	}
	g.Title = title
	g.UpdatedAt = time.Now()
	return true
}
