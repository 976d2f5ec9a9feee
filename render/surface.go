package render

import (
	"fmt"
	"sync"

	"github.com/TFMV/nodecanvas/view"
)

// Surface is the repaint target of an EditorView. It keeps the latest
// snapshot so it can be encoded on demand, e.g. by the HTTP server.
type Surface struct {
	mu      sync.RWMutex
	last    *view.Snapshot
	frames  uint64
	options *OutputOptions
}

// NewSurface creates a surface using the given base options. nil uses defaults.
func NewSurface(options *OutputOptions) *Surface {
	if options == nil {
		options = NewDefaultOptions("svg")
	}
	return &Surface{options: options}
}

// Refresh implements view.Renderer
func (s *Surface) Refresh(snap *view.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = snap
	s.frames++
}

// Last returns the most recent snapshot, or nil before the first repaint
func (s *Surface) Last() *view.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Frames returns how many repaints the surface received
func (s *Surface) Frames() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames
}

// Encode renders the latest snapshot in the given format
func (s *Surface) Encode(format string) ([]byte, error) {
	snap := s.Last()
	if snap == nil {
		return nil, fmt.Errorf("encode %s: nothing rendered yet", format)
	}

	renderer, err := GetRenderer(format)
	if err != nil {
		return nil, err
	}

	options := *s.options
	options.Format = format
	return renderer.Render(snap, &options)
}
