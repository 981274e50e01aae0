// Package pathfind finds least-cost routes across a navgrid.Grid using A*
// with an elevation-aware movement penalty.
package pathfind

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"github.com/Faultbox/heightpath/pkg/navgrid"
)

// Search errors.
var (
	ErrNoPath         = errors.New("no path")
	ErrIterationLimit = errors.New("search iteration limit reached")
)

// cancelCheckInterval is how many expansions run between context checks.
const cancelCheckInterval = 256

// Options tunes a search.
type Options struct {
	// PenaltyThreshold is the elevation delta a single step may climb or drop
	// before PenaltyMultiplier applies.
	PenaltyThreshold int
	// PenaltyMultiplier scales elevation deltas beyond the threshold.
	PenaltyMultiplier float64
	// MaxStep makes steps with a larger absolute elevation change impassable.
	// Zero allows any step.
	MaxStep int
	// MaxIterations bounds the number of expanded nodes. Zero means unbounded.
	MaxIterations int
}

// Path is the result of a successful search.
type Path struct {
	Coords   []navgrid.Coord // Start excluded, target included
	Cost     int             // Accumulated cost at the target
	Expanded int             // Nodes moved to the closed set
}

// Len returns the number of steps in the path.
func (p Path) Len() int {
	return len(p.Coords)
}

// Finder runs searches with fixed options. It holds no per-search state and
// may be used from multiple goroutines.
type Finder struct {
	opts Options
	log  *zap.Logger
}

// NewFinder creates a finder. A nil logger disables search logging.
func NewFinder(opts Options, log *zap.Logger) *Finder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Finder{opts: opts, log: log}
}

// Options returns the finder's options.
func (f *Finder) Options() Options {
	return f.opts
}

// FindPath is a convenience wrapper that searches between two world positions
// with the given penalty parameters.
func FindPath(ctx context.Context, grid *navgrid.Grid, start, target mgl32.Vec3, threshold int, multiplier float64) (Path, error) {
	return NewFinder(Options{PenaltyThreshold: threshold, PenaltyMultiplier: multiplier}, nil).
		FindPath(ctx, grid, start, target)
}

// FindPath searches between the cells under two world positions.
func (f *Finder) FindPath(ctx context.Context, grid *navgrid.Grid, start, target mgl32.Vec3) (Path, error) {
	if grid.Empty() {
		return Path{}, navgrid.ErrEmptyGrid
	}
	startNode, err := grid.NodeFromWorldPoint(start)
	if err != nil {
		return Path{}, fmt.Errorf("start: %w", err)
	}
	targetNode, err := grid.NodeFromWorldPoint(target)
	if err != nil {
		return Path{}, fmt.Errorf("target: %w", err)
	}
	return f.search(ctx, grid, startNode, targetNode)
}

// FindPathCoords searches between two grid coordinates.
func (f *Finder) FindPathCoords(ctx context.Context, grid *navgrid.Grid, start, target navgrid.Coord) (Path, error) {
	if grid.Empty() {
		return Path{}, navgrid.ErrEmptyGrid
	}
	startNode, ok := grid.Node(start)
	if !ok {
		return Path{}, fmt.Errorf("start: %w: %v", navgrid.ErrInvalidCoordinate, start)
	}
	targetNode, ok := grid.Node(target)
	if !ok {
		return Path{}, fmt.Errorf("target: %w: %v", navgrid.ErrInvalidCoordinate, target)
	}
	return f.search(ctx, grid, startNode, targetNode)
}

func (f *Finder) search(ctx context.Context, grid *navgrid.Grid, start, target *navgrid.Node) (Path, error) {
	log := f.log.With(
		zap.String("search", uuid.New().String()),
		zap.Stringer("start", start.Coord),
		zap.Stringer("target", target.Coord),
	)
	began := time.Now()

	s := newSearch(grid, target, f.opts)
	path, err := s.run(ctx, start)
	if err != nil {
		log.Debug("path search failed",
			zap.Error(err),
			zap.Int("expanded", s.closed.Size()),
			zap.Duration("elapsed", time.Since(began)))
		return Path{}, err
	}

	log.Debug("path found",
		zap.Int("steps", path.Len()),
		zap.Int("cost", path.Cost),
		zap.Int("expanded", path.Expanded),
		zap.Duration("elapsed", time.Since(began)))
	return path, nil
}

// searchNode is the per-search scratch record for one grid cell.
type searchNode struct {
	node    *navgrid.Node
	g       int // Cost from start
	h       int // Estimated cost to target
	penalty int // Elevation penalty of the step that produced g
	parent  *searchNode
	seq     int // Order of insertion into the open set
	index   int // Index in the open set heap, -1 when not open
}

func (n *searchNode) f() int {
	return n.g + n.h
}

// openSet is a priority queue ordered by (f, h, insertion order).
type openSet []*searchNode

func (h openSet) Len() int { return len(h) }

func (h openSet) Less(i, j int) bool {
	a, b := h[i], h[j]
	if af, bf := a.f(), b.f(); af != bf {
		return af < bf
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

func (h openSet) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *openSet) Push(x any) {
	node := x.(*searchNode)
	node.index = len(*h)
	*h = append(*h, node)
}

func (h *openSet) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

type search struct {
	grid   *navgrid.Grid
	target *navgrid.Node
	opts   Options

	nodes  map[navgrid.Coord]*searchNode
	open   openSet
	closed mapset.Set[navgrid.Coord]
	seq    int
}

func newSearch(grid *navgrid.Grid, target *navgrid.Node, opts Options) *search {
	return &search{
		grid:   grid,
		target: target,
		opts:   opts,
		nodes:  make(map[navgrid.Coord]*searchNode),
		closed: mapset.New[navgrid.Coord](),
	}
}

func (s *search) scratch(n *navgrid.Node) *searchNode {
	sn, ok := s.nodes[n.Coord]
	if !ok {
		sn = &searchNode{node: n, index: -1}
		s.nodes[n.Coord] = sn
	}
	return sn
}

func (s *search) push(n *searchNode) {
	n.seq = s.seq
	s.seq++
	heap.Push(&s.open, n)
}

func (s *search) run(ctx context.Context, startNode *navgrid.Node) (Path, error) {
	start := s.scratch(startNode)
	start.h = Distance(startNode.Coord, s.target.Coord)
	s.push(start)

	iterations := 0
	for s.open.Len() > 0 {
		if iterations%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Path{}, err
			}
		}
		if s.opts.MaxIterations > 0 && iterations >= s.opts.MaxIterations {
			return Path{}, fmt.Errorf("%w: %d", ErrIterationLimit, iterations)
		}
		iterations++

		current := heap.Pop(&s.open).(*searchNode)
		s.closed.Put(current.node.Coord)

		if current.node.Coord == s.target.Coord {
			return s.retrace(start, current), nil
		}

		s.expand(current)
	}

	return Path{}, ErrNoPath
}

// expand relaxes every neighbour of current. Open nodes are re-prioritised in
// place; a node only leaves the open set when it is closed.
func (s *search) expand(current *searchNode) {
	for _, nb := range s.grid.Neighbours(current.node) {
		if s.closed.Has(nb.Coord) || !s.passable(current.node, nb) {
			continue
		}

		penalty := MovementPenalty(current.node.Elevation, nb.Elevation, s.opts.PenaltyThreshold, s.opts.PenaltyMultiplier)
		next := s.scratch(nb)
		cost := current.g + Distance(current.node.Coord, nb.Coord) + penalty
		open := next.index >= 0
		if open && cost >= next.g {
			continue
		}

		next.g = cost
		next.h = Distance(nb.Coord, s.target.Coord)
		next.penalty = penalty
		next.parent = current

		if open {
			heap.Fix(&s.open, next.index)
		} else {
			s.push(next)
		}
	}
}

func (s *search) passable(from, to *navgrid.Node) bool {
	return s.opts.MaxStep <= 0 || abs(to.Elevation-from.Elevation) <= s.opts.MaxStep
}

// retrace walks parent links from end back to start (exclusive) and returns
// the coordinates in traversal order.
func (s *search) retrace(start, end *searchNode) Path {
	var coords []navgrid.Coord
	seen := mapset.New[navgrid.Coord]()

	for n := end; n != nil && n != start; n = n.parent {
		if seen.Has(n.node.Coord) {
			continue
		}
		seen.Put(n.node.Coord)
		coords = append(coords, n.node.Coord)
	}
	slices.Reverse(coords)

	return Path{
		Coords:   coords,
		Cost:     end.g,
		Expanded: s.closed.Size(),
	}
}
