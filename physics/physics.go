// Package physics auto-arranges editor nodes. Unplaced nodes are seeded with
// simplex noise and a force-directed simulation then pulls connected nodes
// together while pushing every pair apart.
package physics

import (
	"fmt"
	"math"
	"sync"

	"github.com/TFMV/nodecanvas/models"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Graph is the part of the document a layout reads
type Graph interface {
	Nodes() []*models.Node
	AllConnections() []*models.Connection
}

// LayoutAlgorithm defines an interface for layout algorithms
type LayoutAlgorithm interface {
	Initialize(graph Graph)
	Step() bool // Returns true if stable, false if needs more steps
	Apply(graph Graph)
	GetName() string
}

// Options configures Arrange
type Options struct {
	Algorithm     string  // "force" or "noise"
	Width         float64 // Width of the layout area
	Height        float64 // Height of the layout area
	MaxIterations int
	Threshold     float64 // Average force below which the layout is stable
	Seed          int64   // Noise seed for unplaced nodes
}

// DefaultOptions returns the layout used by the render command
func DefaultOptions() Options {
	return Options{
		Algorithm:     "force",
		Width:         1600,
		Height:        1200,
		MaxIterations: 300,
		Threshold:     0.01,
		Seed:          1,
	}
}

// Arrange lays out the graph in place and returns the number of steps run.
// Group membership is not touched; callers reconcile afterwards.
func Arrange(graph Graph, opts Options) (int, error) {
	layout, err := GetLayoutAlgorithm(opts.Algorithm, opts)
	if err != nil {
		return 0, err
	}
	if len(graph.Nodes()) == 0 {
		return 0, nil
	}

	layout.Initialize(graph)
	steps := 0
	for steps < opts.MaxIterations {
		steps++
		if layout.Step() {
			break
		}
	}
	layout.Apply(graph)
	return steps, nil
}

// GetLayoutAlgorithm returns a layout algorithm by name
func GetLayoutAlgorithm(name string, opts Options) (LayoutAlgorithm, error) {
	switch name {
	case "", "force":
		return NewForceDirectedLayout(opts), nil
	case "noise":
		return NewNoiseLayout(NewForceDirectedLayout(opts), opts.Seed), nil
	default:
		return nil, fmt.Errorf("unknown layout algorithm: %s", name)
	}
}

// ForceDirectedLayout implements a Fruchterman-Reingold force-directed layout
// over node centres. Nodes are visited in document order so runs are
// reproducible.
type ForceDirectedLayout struct {
	mu              sync.Mutex
	width           float64
	height          float64
	nodes           []*models.Node
	positions       []position
	velocities      []velocity
	forces          []force
	springs         []spring
	seeder          Seeder
	temperature     float64
	k               float64 // optimal distance
	iterations      int
	maxIterations   int
	stable          bool
	energyThreshold float64
	gravity         float64 // Gravity factor
	repulsionForce  float64 // Repulsion strength
	dampingFactor   float64 // Damping for velocity
	springConstant  float64 // Spring stiffness
}

// Force vector components
type force struct {
	fx, fy float64
}

// Position coordinates
type position struct {
	x, y float64
}

// Velocity vector components
type velocity struct {
	vx, vy float64
}

// spring joins two node indexes; weight counts parallel connections
type spring struct {
	a, b   int
	weight float64
}

// Seeder places a node that has no position yet. i is the node's index.
type Seeder func(i int, width, height float64) (x, y float64)

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(opts Options) *ForceDirectedLayout {
	fd := &ForceDirectedLayout{
		width:           opts.Width,
		height:          opts.Height,
		temperature:     10.0,
		maxIterations:   opts.MaxIterations,
		energyThreshold: opts.Threshold,
		gravity:         0.05,
		repulsionForce:  100.0,
		dampingFactor:   0.9,
		springConstant:  0.04,
	}
	fd.seeder = gridSeeder
	return fd
}

// GetName returns the name of the layout algorithm
func (fd *ForceDirectedLayout) GetName() string {
	return "Force-Directed Layout"
}

// SetSeeder replaces the placement of unplaced nodes
func (fd *ForceDirectedLayout) SetSeeder(s Seeder) {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	fd.seeder = s
}

// Initialize sets up the layout algorithm
func (fd *ForceDirectedLayout) Initialize(graph Graph) {
	fd.mu.Lock()
	defer fd.mu.Unlock()

	fd.nodes = graph.Nodes()
	n := len(fd.nodes)
	fd.positions = make([]position, n)
	fd.velocities = make([]velocity, n)
	fd.forces = make([]force, n)
	fd.iterations = 0
	fd.stable = false

	// Optimal distance between nodes
	fd.k = math.Sqrt(fd.width * fd.height / math.Max(1, float64(n)))

	index := make(map[*models.Node]int, n)
	for i, node := range fd.nodes {
		index[node] = i
		if !node.Placed() {
			x, y := fd.seeder(i, fd.width, fd.height)
			fd.positions[i] = position{x: x, y: y}
		} else {
			fd.positions[i] = position{
				x: node.Position.X + node.Width/2,
				y: node.Position.Y + node.Height/2,
			}
		}
	}

	// Parallel connections between the same pair make one stronger spring
	fd.springs = fd.springs[:0]
	seen := make(map[[2]int]int)
	for _, c := range graph.AllConnections() {
		a, okA := index[c.Output.Node]
		b, okB := index[c.Input.Node]
		if !okA || !okB || a == b {
			continue
		}
		key := [2]int{min(a, b), max(a, b)}
		if at, ok := seen[key]; ok {
			fd.springs[at].weight++
			continue
		}
		seen[key] = len(fd.springs)
		fd.springs = append(fd.springs, spring{a: a, b: b, weight: 1})
	}
}

// Step performs one iteration of the layout algorithm
func (fd *ForceDirectedLayout) Step() bool {
	fd.mu.Lock()
	defer fd.mu.Unlock()

	if fd.iterations >= fd.maxIterations || fd.stable || len(fd.nodes) == 0 {
		return true
	}

	for i := range fd.forces {
		fd.forces[i] = force{}
	}

	centerX := fd.width / 2
	centerY := fd.height / 2
	for i := range fd.positions {
		pos1 := fd.positions[i]

		// Gravity grows with the distance from the centre
		dx := centerX - pos1.x
		dy := centerY - pos1.y
		distance := math.Max(0.1, math.Hypot(dx, dy))
		gravityFactor := fd.gravity * (distance / math.Min(fd.width, fd.height))
		fd.forces[i].fx += dx * gravityFactor
		fd.forces[i].fy += dy * gravityFactor

		for j := i + 1; j < len(fd.positions); j++ {
			pos2 := fd.positions[j]
			dx := pos1.x - pos2.x
			dy := pos1.y - pos2.y
			distance := math.Hypot(dx, dy)
			if distance < 0.1 {
				// coincident nodes: push apart along a fixed diagonal
				dx, dy, distance = 0.1, 0.1, 0.1*math.Sqrt2
			}

			// F = k^2 / distance
			repulsive := (fd.k * fd.k / distance) * fd.repulsionForce / 100.0
			dx /= distance
			dy /= distance
			fd.forces[i].fx += dx * repulsive
			fd.forces[i].fy += dy * repulsive
			fd.forces[j].fx -= dx * repulsive
			fd.forces[j].fy -= dy * repulsive
		}
	}

	for _, s := range fd.springs {
		pos1 := fd.positions[s.a]
		pos2 := fd.positions[s.b]
		dx := pos2.x - pos1.x
		dy := pos2.y - pos1.y
		distance := math.Max(0.1, math.Hypot(dx, dy))

		// F = distance^2 / k, stronger for parallel connections
		attractive := distance * distance / fd.k * fd.springConstant * (1.0 + s.weight)
		dx /= distance
		dy /= distance
		fd.forces[s.a].fx += dx * attractive
		fd.forces[s.a].fy += dy * attractive
		fd.forces[s.b].fx -= dx * attractive
		fd.forces[s.b].fy -= dy * attractive
	}

	// Simulated annealing: forces are capped by the temperature
	totalEnergy := 0.0
	padding := math.Min(fd.k*0.5, math.Min(fd.width, fd.height)/4)
	for i, f := range fd.forces {
		magnitude := math.Hypot(f.fx, f.fy)
		if magnitude > 0 {
			scale := math.Min(magnitude, fd.temperature) / magnitude
			f.fx *= scale
			f.fy *= scale
		}

		v := fd.velocities[i]
		v.vx = (v.vx + f.fx) * fd.dampingFactor
		v.vy = (v.vy + f.fy) * fd.dampingFactor
		fd.velocities[i] = v

		pos := fd.positions[i]
		pos.x = math.Max(padding, math.Min(fd.width-padding, pos.x+v.vx))
		pos.y = math.Max(padding, math.Min(fd.height-padding, pos.y+v.vy))
		fd.positions[i] = pos

		totalEnergy += math.Hypot(f.fx, f.fy)
	}

	fd.temperature *= 0.95
	fd.stable = totalEnergy/float64(len(fd.forces)) < fd.energyThreshold
	fd.iterations++
	return fd.stable
}

// Apply moves every node so its centre lands on the computed position
func (fd *ForceDirectedLayout) Apply(graph Graph) {
	fd.mu.Lock()
	defer fd.mu.Unlock()

	for i, node := range fd.nodes {
		pos := fd.positions[i]
		node.SetPosition(pos.x-node.Width/2, pos.y-node.Height/2)
	}
}

// Iterations returns how many steps ran since Initialize
func (fd *ForceDirectedLayout) Iterations() int {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	return fd.iterations
}

// gridSeeder spreads unplaced nodes on a square grid
func gridSeeder(i int, width, height float64) (float64, float64) {
	const cols = 8
	return width/(cols+1)*float64(i%cols+1), height/(cols+1)*float64(i/cols%cols+1)
}

// NoiseLayout seeds unplaced nodes from simplex noise instead of a grid and
// then defers to its base layout. A fixed seed gives the same arrangement.
type NoiseLayout struct {
	baseLayout     *ForceDirectedLayout
	noiseGenerator opensimplex.Noise
	noiseScale     float64
}

// NewNoiseLayout wraps base with noise seeding
func NewNoiseLayout(base *ForceDirectedLayout, seed int64) *NoiseLayout {
	nl := &NoiseLayout{
		baseLayout:     base,
		noiseGenerator: opensimplex.New(seed),
		noiseScale:     0.7,
	}
	base.SetSeeder(nl.seed2D)
	return nl
}

// GetName returns the name of the layout algorithm
func (nl *NoiseLayout) GetName() string {
	return "Noise-Seeded Layout"
}

// Initialize initializes the base layout with noise seeding
func (nl *NoiseLayout) Initialize(graph Graph) {
	nl.baseLayout.Initialize(graph)
}

// Step performs one iteration of the layout algorithm
func (nl *NoiseLayout) Step() bool {
	return nl.baseLayout.Step()
}

// Apply writes the base layout positions
func (nl *NoiseLayout) Apply(graph Graph) {
	nl.baseLayout.Apply(graph)
}

// seed2D samples two decorrelated noise channels; Eval2 is in [-1, 1]
func (nl *NoiseLayout) seed2D(i int, width, height float64) (float64, float64) {
	t := float64(i) * nl.noiseScale
	nx := nl.noiseGenerator.Eval2(t, 0)
	ny := nl.noiseGenerator.Eval2(t+100, 100)
	return width/2 + nx*width/2, height/2 + ny*height/2
}
