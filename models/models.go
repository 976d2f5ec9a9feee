// Package models provides data structures and interfaces for the nodecanvas editor.
// It defines the graph document the interactive surface edits: nodes with typed
// ports, the connections between them, and the groups that frame them.
package models

import (
	"time"

	"github.com/gogpu/gg"
)

// Socket is the measured element of a port, relative to its node's position.
// A port without a socket has not been laid out yet and has no anchor.
type Socket struct {
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Node represents a node on the canvas
type Node struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Position  gg.Point  `json:"position"` // logical space, top-left corner
	Width     float64   `json:"width"`    // zero until measured
	Height    float64   `json:"height"`   // zero until measured
	Inputs    []*Input  `json:"inputs"`
	Outputs   []*Output `json:"outputs"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	placed bool
}

// Input is a port that receives connections
type Input struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	Node                *Node         `json:"-"` // owning node, back-reference only
	Index               int           `json:"index"`
	MultipleConnections bool          `json:"multiple_connections"`
	Connections         []*Connection `json:"-"`
	Socket              *Socket       `json:"socket,omitempty"`
}

// Output is a port that originates connections
type Output struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Node        *Node         `json:"-"`
	Index       int           `json:"index"`
	Connections []*Connection `json:"-"`
	Socket      *Socket       `json:"socket,omitempty"`
}

// Connection represents a directed edge from an output to an input
type Connection struct {
	ID        string    `json:"id"`
	Output    *Output   `json:"-"`
	Input     *Input    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Group is a titled, resizable frame. Its member set is derived from geometry
// and rewritten at the end of every drag or resize gesture.
type Group struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Position  gg.Point  `json:"position"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	MinWidth  float64   `json:"min_width"`
	MinHeight float64   `json:"min_height"`
	Nodes     []*Node   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NodeRepository defines lookup and mutation of nodes in a document
type NodeRepository interface {
	FindNodeByID(id string) (*Node, error)
	AddNode(node *Node) error
	RemoveNode(node *Node) error
}

// ConnectionRepository defines lookup and mutation of connections in a document
type ConnectionRepository interface {
	Connect(output *Output, input *Input) (*Connection, error)
	RemoveConnection(connection *Connection) error
}
