// Package navgrid builds the discrete navigation lattice that path searches run over.
package navgrid

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Grid errors.
var (
	ErrInvalidCoordinate = errors.New("coordinate outside grid")
	ErrEmptyGrid         = errors.New("empty grid")
)

// HeightProvider samples terrain elevation at a grid coordinate.
type HeightProvider interface {
	SampleElevation(x, y int) int
}

// HeightFunc adapts a plain function to HeightProvider.
type HeightFunc func(x, y int) int

// SampleElevation calls f(x, y).
func (f HeightFunc) SampleElevation(x, y int) int {
	return f(x, y)
}

// CoordinateMapper converts between world space and grid coordinates.
type CoordinateMapper interface {
	WorldToGrid(pos mgl32.Vec3) (x, y int)
	GridToWorld(x, y int) mgl32.Vec3
}

// Coord is an integer lattice coordinate.
type Coord struct {
	X, Y int
}

// String returns the coordinate as "(x,y)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Node is a single addressable cell of the grid.
// Nodes are immutable once the grid is built; two nodes are the same cell iff their coords match.
type Node struct {
	Position  mgl32.Vec3 // World-space anchor on the terrain surface
	Coord     Coord
	Elevation int
}

// Grid is a dense Width x Height lattice of nodes.
// Topology and elevations never change after construction, so a Grid may be shared between goroutines.
type Grid struct {
	Width    int
	Height   int
	CellSize float32

	cells  []Node // row-major: cells[y*Width+x]
	mapper CoordinateMapper
}

// New samples every cell of a width x height lattice once and returns the grid.
// A nil mapper places cells on a uniform lattice of cellSize spacing rooted at the origin.
func New(width, height int, cellSize float32, heights HeightProvider, mapper CoordinateMapper) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyGrid, width, height)
	}
	if heights == nil {
		return nil, errors.New("navgrid: nil height provider")
	}
	if mapper == nil {
		mapper = uniformMapper{cellSize: cellSize}
	}

	g := &Grid{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
		cells:    make([]Node, width*height),
		mapper:   mapper,
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			elevation := heights.SampleElevation(x, y)
			pos := mapper.GridToWorld(x, y)
			pos[1] = float32(elevation)
			g.cells[y*width+x] = Node{
				Position:  pos,
				Coord:     Coord{X: x, Y: y},
				Elevation: elevation,
			}
		}
	}

	return g, nil
}

// Empty reports whether the grid is nil or has no cells.
func (g *Grid) Empty() bool {
	return g == nil || len(g.cells) == 0
}

// InBounds reports whether c addresses a cell of the grid.
func (g *Grid) InBounds(c Coord) bool {
	if g == nil {
		return false
	}
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Node returns the cell at c.
func (g *Grid) Node(c Coord) (*Node, bool) {
	if !g.InBounds(c) {
		return nil, false
	}
	return &g.cells[c.Y*g.Width+c.X], true
}

// Neighbours returns the in-bounds cells at Chebyshev distance 1 from n.
// The scan order is fixed (x offset outer, y offset inner) so searches are reproducible.
func (g *Grid) Neighbours(n *Node) []*Node {
	neighbours := make([]*Node, 0, 8)
	if g == nil || n == nil {
		return neighbours
	}

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if nb, ok := g.Node(Coord{X: n.Coord.X + dx, Y: n.Coord.Y + dy}); ok {
				neighbours = append(neighbours, nb)
			}
		}
	}

	return neighbours
}

// NodeFromWorldPoint returns the cell under a world-space position.
func (g *Grid) NodeFromWorldPoint(pos mgl32.Vec3) (*Node, error) {
	if g.Empty() {
		return nil, ErrEmptyGrid
	}
	x, y := g.mapper.WorldToGrid(pos)
	c := Coord{X: x, Y: y}
	n, ok := g.Node(c)
	if !ok {
		return nil, fmt.Errorf("%w: world %v maps to %v in %dx%d grid", ErrInvalidCoordinate, pos, c, g.Width, g.Height)
	}
	return n, nil
}

// SnapToSurface returns pos snapped to the corner of its cell on the terrain surface.
func (g *Grid) SnapToSurface(pos mgl32.Vec3) (mgl32.Vec3, error) {
	n, err := g.NodeFromWorldPoint(pos)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return n.Position, nil
}

// PathToWorld converts grid coordinates into surface waypoints.
// Coordinates outside the grid are skipped.
func (g *Grid) PathToWorld(coords []Coord) []mgl32.Vec3 {
	waypoints := make([]mgl32.Vec3, 0, len(coords))
	for _, c := range coords {
		if n, ok := g.Node(c); ok {
			waypoints = append(waypoints, n.Position)
		}
	}
	return waypoints
}

// ElevationRange returns the lowest and highest elevation in the grid.
func (g *Grid) ElevationRange() (min, max int) {
	if g.Empty() {
		return 0, 0
	}

	min = g.cells[0].Elevation
	max = g.cells[0].Elevation
	for i := range g.cells {
		e := g.cells[i].Elevation
		if e < min {
			min = e
		}
		if e > max {
			max = e
		}
	}

	return min, max
}

type uniformMapper struct {
	cellSize float32
}

func (m uniformMapper) WorldToGrid(pos mgl32.Vec3) (int, int) {
	if m.cellSize <= 0 {
		return floorCell(pos.X()), floorCell(pos.Z())
	}
	return floorCell(pos.X() / m.cellSize), floorCell(pos.Z() / m.cellSize)
}

func (m uniformMapper) GridToWorld(x, y int) mgl32.Vec3 {
	size := m.cellSize
	if size <= 0 {
		size = 1
	}
	return mgl32.Vec3{float32(x) * size, 0, float32(y) * size}
}
