package models

import (
	"fmt"
)

// NodeFilter is a function type used to filter nodes in queries
type NodeFilter func(node *Node) bool

// FindNodeByID returns a node by its ID
func (e *Editor) FindNodeByID(id string) (*Node, error) {
	for _, node := range e.nodes {
		if node.ID == id {
			return node, nil
		}
	}
	return nil, fmt.Errorf("node with ID %s: %w", id, ErrNodeNotFound)
}

// FindGroupByID returns a group by its ID
func (e *Editor) FindGroupByID(id string) (*Group, error) {
	for _, g := range e.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, fmt.Errorf("group with ID %s: %w", id, ErrGroupNotFound)
}

// FindInput returns the input at index on the node with the given ID
func (e *Editor) FindInput(nodeID string, index int) (*Input, error) {
	node, err := e.FindNodeByID(nodeID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(node.Inputs) {
		return nil, fmt.Errorf("input %d of node %s: %w", index, nodeID, ErrPortNotOwned)
	}
	return node.Inputs[index], nil
}

// FindOutput returns the output at index on the node with the given ID
func (e *Editor) FindOutput(nodeID string, index int) (*Output, error) {
	node, err := e.FindNodeByID(nodeID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(node.Outputs) {
		return nil, fmt.Errorf("output %d of node %s: %w", index, nodeID, ErrPortNotOwned)
	}
	return node.Outputs[index], nil
}

// FindOutgoingConnections returns all connections originating from a node
func (e *Editor) FindOutgoingConnections(node *Node) []*Connection {
	var result []*Connection
	for _, out := range node.Outputs {
		result = append(result, out.Connections...)
	}
	return result
}

// FindIncomingConnections returns all connections targeting a node
func (e *Editor) FindIncomingConnections(node *Node) []*Connection {
	var result []*Connection
	for _, in := range node.Inputs {
		result = append(result, in.Connections...)
	}
	return result
}

// FindConnectedNodes returns all nodes directly connected to a node
func (e *Editor) FindConnectedNodes(node *Node) []*Node {
	seen := make(map[*Node]bool)
	for _, c := range node.Connections() {
		seen[c.Output.Node] = true
		seen[c.Input.Node] = true
	}
	delete(seen, node)

	var result []*Node
	for _, n := range e.nodes {
		if seen[n] {
			result = append(result, n)
		}
	}
	return result
}

// FilterNodes returns nodes that match the provided filter function
func (e *Editor) FilterNodes(filter NodeFilter) []*Node {
	var result []*Node
	for _, node := range e.nodes {
		if filter(node) {
			result = append(result, node)
		}
	}
	return result
}
