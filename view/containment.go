package view

import (
	"math"
	"strings"

	"github.com/TFMV/nodecanvas/geometry"
	"github.com/TFMV/nodecanvas/log"
	"github.com/TFMV/nodecanvas/models"
	"github.com/gogpu/gg"
)

// MembershipChange records one node joining or leaving a group
type MembershipChange struct {
	Node  *models.Node
	Group *models.Group
	Added bool
}

// Containment derives group membership from geometry. A node belongs to at
// most one group. When several groups cover a node the owner is, in order:
// the group of the gesture that just ended, the node's current group, the
// topmost covering group.
type Containment struct {
	logger log.Logger
}

// NewContainment creates a reconciler
func NewContainment(logger log.Logger) *Containment {
	if logger == nil {
		logger = log.Nop()
	}
	return &Containment{logger: logger}
}

// Reconcile brings the membership of every group in line with geometry for
// the given nodes. gesture is the group whose drag or resize just ended, or
// nil after a node drag. Calling it again without moving anything changes
// nothing.
func (c *Containment) Reconcile(groups []*models.Group, nodes []*models.Node, gesture *models.Group) []MembershipChange {
	var changes []MembershipChange

	for _, node := range nodes {
		owner := c.owner(groups, node, gesture)

		for _, g := range groups {
			contain := g == owner
			cover := g.HasNode(node)

			switch {
			case contain && !cover:
				g.AddNode(node)
				changes = append(changes, MembershipChange{Node: node, Group: g, Added: true})
				c.logger.Debug("node %s joined group %s", node.ID, g.ID)
			case !contain && cover:
				g.RemoveNode(node)
				changes = append(changes, MembershipChange{Node: node, Group: g})
				c.logger.Debug("node %s left group %s", node.ID, g.ID)
			}
		}
	}

	return changes
}

func (c *Containment) owner(groups []*models.Group, node *models.Node, gesture *models.Group) *models.Group {
	if gesture != nil && geometry.Covers(gesture, node) {
		return gesture
	}
	for _, g := range groups {
		if g.HasNode(node) && geometry.Covers(g, node) {
			return g
		}
	}
	for i := len(groups) - 1; i >= 0; i-- {
		if geometry.Covers(groups[i], node) {
			return groups[i]
		}
	}
	return nil
}

// Handle selects the edges a resize gesture moves
type Handle uint8

const (
	HandleLeft Handle = 1 << iota
	HandleRight
	HandleTop
	HandleBottom
)

// ParseHandle reads an edge code such as "l", "rb" or "lt". Compass letters
// w, e, n and s are accepted as well.
func ParseHandle(code string) Handle {
	var h Handle
	code = strings.ToLower(code)
	if strings.ContainsAny(code, "lw") {
		h |= HandleLeft
	} else if strings.ContainsAny(code, "re") {
		h |= HandleRight
	}
	if strings.ContainsAny(code, "tn") {
		h |= HandleTop
	} else if strings.ContainsAny(code, "bs") {
		h |= HandleBottom
	}
	return h
}

// Has reports whether the handle moves the edge
func (h Handle) Has(edge Handle) bool {
	return h&edge != 0
}

// ResizeGroup applies a logical pointer delta to the edges named by handle
// and returns the edge movement actually applied. Size never drops below the
// group's floor. Moving the left or top edge shifts the position by at most
// the slack above the floor, so the opposite edge stays put once the floor is
// reached. The gesture advances its reference pointer by the applied amount
// only, which keeps the edge under the pointer when it comes back.
func ResizeGroup(g *models.Group, handle Handle, dx, dy float64) gg.Point {
	var applied gg.Point
	slackW := math.Max(0, g.Width-g.MinWidth)
	slackH := math.Max(0, g.Height-g.MinHeight)

	switch {
	case handle.Has(HandleLeft):
		applied.X = math.Min(slackW, dx)
		g.Position.X += applied.X
		g.SetWidth(g.Width - dx)
	case handle.Has(HandleRight):
		w := g.Width
		g.SetWidth(w + dx)
		applied.X = g.Width - w
	}

	switch {
	case handle.Has(HandleTop):
		applied.Y = math.Min(slackH, dy)
		g.Position.Y += applied.Y
		g.SetHeight(g.Height - dy)
	case handle.Has(HandleBottom):
		h := g.Height
		g.SetHeight(h + dy)
		applied.Y = g.Height - h
	}

	return applied
}
