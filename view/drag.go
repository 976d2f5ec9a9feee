package view

import "github.com/gogpu/gg"

// Drag is a three-phase pointer gesture bound to one element. Start opens a
// gesture, Move delivers ticks, End closes it exactly once. Calls that break
// that order are ignored and reported as false. A closed Drag can be started
// again.
type Drag struct {
	onStart func(screen gg.Point)
	onMove  func(screen gg.Point)
	onEnd   func()
	active  bool
}

func newDrag(start, move func(gg.Point), end func()) *Drag {
	return &Drag{onStart: start, onMove: move, onEnd: end}
}

// Active reports whether a gesture is open
func (d *Drag) Active() bool {
	return d.active
}

// Start opens the gesture at a screen position
func (d *Drag) Start(screen gg.Point) bool {
	if d.active {
		return false
	}
	d.active = true
	d.onStart(screen)
	return true
}

// Move delivers a tick with the current screen position
func (d *Drag) Move(screen gg.Point) bool {
	if !d.active {
		return false
	}
	d.onMove(screen)
	return true
}

// End closes the gesture, committing whatever the last tick produced
func (d *Drag) End() bool {
	if !d.active {
		return false
	}
	d.active = false
	d.onEnd()
	return true
}
