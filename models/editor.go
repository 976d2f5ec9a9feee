package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Editor is the graph document edited by the view. It owns nodes and groups;
// connections live on the ports of its nodes.
type Editor struct {
	ID        string
	Name      string
	Events    *EventListener
	nodes     []*Node
	groups    []*Group
	selected  []*Node
	group     *Group
	loaded    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEditor creates an empty document
func NewEditor(name string) *Editor {
	now := time.Now()
	return &Editor{
		ID:        uuid.New().String(),
		Name:      name,
		Events:    NewEventListener(),
		nodes:     []*Node{},
		groups:    []*Group{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Nodes returns the nodes in z-order (last is topmost)
func (e *Editor) Nodes() []*Node {
	return e.nodes
}

// Groups returns the groups in z-order (last is topmost)
func (e *Editor) Groups() []*Group {
	return e.groups
}

// Trigger forwards an event to the document listeners
func (e *Editor) Trigger(event EditorEvent, payload any) {
	e.Events.Trigger(event, payload)
}

// Loaded reports whether the view finished its first layout
func (e *Editor) Loaded() bool {
	return e.loaded
}

// MarkLoaded flags the document as laid out and triggers the load event
func (e *Editor) MarkLoaded() {
	e.loaded = true
	e.Trigger(EventLoad, e)
}

// AddNode adds a node to the document
func (e *Editor) AddNode(node *Node) error {
	if e.hasNode(node) {
		return fmt.Errorf("add node %s: %w", node.ID, ErrDuplicateNode)
	}
	for _, n := range e.nodes {
		if n.ID == node.ID {
			return fmt.Errorf("add node %s: %w", node.ID, ErrDuplicateNode)
		}
	}

	e.nodes = append(e.nodes, node)
	e.UpdatedAt = time.Now()
	e.Trigger(EventNodeCreated, node)
	e.Trigger(EventChange, node)
	return nil
}

// RemoveNode removes a node together with its connections and memberships
func (e *Editor) RemoveNode(node *Node) error {
	idx := e.indexOf(node)
	if idx < 0 {
		return fmt.Errorf("remove node %s: %w", node.ID, ErrNodeNotFound)
	}

	for _, c := range node.Connections() {
		e.detach(c)
		e.Trigger(EventConnectionRemoved, c)
	}
	for _, g := range e.groups {
		g.RemoveNode(node)
	}
	for i, n := range e.selected {
		if n == node {
			e.selected = append(e.selected[:i], e.selected[i+1:]...)
			break
		}
	}

	e.nodes = append(e.nodes[:idx], e.nodes[idx+1:]...)
	e.UpdatedAt = time.Now()
	e.Trigger(EventNodeRemoved, node)
	e.Trigger(EventChange, node)
	return nil
}

// Connect creates a connection from output to input. Both ports must belong to
// nodes of this document and the input must have room for another connection.
func (e *Editor) Connect(output *Output, input *Input) (*Connection, error) {
	if output == nil || input == nil || !e.hasNode(output.Node) || !e.hasNode(input.Node) {
		return nil, fmt.Errorf("connect: %w", ErrPortNotOwned)
	}
	if !input.MultipleConnections && input.HasConnection() {
		return nil, fmt.Errorf("connect %s -> %s: %w", output.Name, input.Name, ErrInputOccupied)
	}

	c := &Connection{
		ID:        uuid.New().String(),
		Output:    output,
		Input:     input,
		CreatedAt: time.Now(),
	}
	output.Connections = append(output.Connections, c)
	input.Connections = append(input.Connections, c)

	e.UpdatedAt = time.Now()
	e.Trigger(EventConnectionCreated, c)
	e.Trigger(EventChange, c)
	return c, nil
}

// RemoveConnection detaches a connection from both of its ports
func (e *Editor) RemoveConnection(c *Connection) error {
	if c == nil || !e.detach(c) {
		return ErrConnectionNotFound
	}
	e.UpdatedAt = time.Now()
	e.Trigger(EventConnectionRemoved, c)
	e.Trigger(EventChange, c)
	return nil
}

func (e *Editor) detach(c *Connection) bool {
	var fromOut, fromIn bool
	c.Output.Connections, fromOut = removeConnection(c.Output.Connections, c)
	c.Input.Connections, fromIn = removeConnection(c.Input.Connections, c)
	return fromOut || fromIn
}

// AllConnections returns every connection, ordered by node then output
func (e *Editor) AllConnections() []*Connection {
	var result []*Connection
	for _, n := range e.nodes {
		for _, out := range n.Outputs {
			result = append(result, out.Connections...)
		}
	}
	return result
}

// AddGroup adds a group on top of the existing ones
func (e *Editor) AddGroup(g *Group) {
	e.groups = append(e.groups, g)
	e.UpdatedAt = time.Now()
	e.Trigger(EventGroupCreated, g)
	e.Trigger(EventChange, g)
}

// RemoveGroup removes a group; its former members stay in the document
func (e *Editor) RemoveGroup(g *Group) error {
	for i, existing := range e.groups {
		if existing == g {
			e.groups = append(e.groups[:i], e.groups[i+1:]...)
			if e.group == g {
				e.group = nil
			}
			e.UpdatedAt = time.Now()
			e.Trigger(EventGroupRemoved, g)
			e.Trigger(EventChange, g)
			return nil
		}
	}
	return fmt.Errorf("remove group %s: %w", g.ID, ErrGroupNotFound)
}

// GroupOf returns the group the node belongs to, if any
func (e *Editor) GroupOf(node *Node) *Group {
	for _, g := range e.groups {
		if g.HasNode(node) {
			return g
		}
	}
	return nil
}

// SelectNode makes the node the single selection and raises it to the top
func (e *Editor) SelectNode(node *Node) {
	e.selected = []*Node{node}
	e.group = nil
	if idx := e.indexOf(node); idx >= 0 && idx != len(e.nodes)-1 {
		e.nodes = append(append(e.nodes[:idx:idx], e.nodes[idx+1:]...), node)
	}
	e.Trigger(EventSelect, node)
}

// SelectGroup makes the group the single selection
func (e *Editor) SelectGroup(g *Group) {
	e.selected = nil
	e.group = g
	e.Trigger(EventSelect, g)
}

// Selected returns the selected nodes and group
func (e *Editor) Selected() ([]*Node, *Group) {
	return e.selected, e.group
}

// KeyDown handles editor shortcuts. Delete and Backspace remove the selection.
func (e *Editor) KeyDown(key string) error {
	switch key {
	case "Delete", "Backspace":
		if e.group != nil {
			return e.RemoveGroup(e.group)
		}
		for _, n := range append([]*Node(nil), e.selected...) {
			if err := e.RemoveNode(n); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Editor) hasNode(node *Node) bool {
	return node != nil && e.indexOf(node) >= 0
}

func (e *Editor) indexOf(node *Node) int {
	for i, n := range e.nodes {
		if n == node {
			return i
		}
	}
	return -1
}
