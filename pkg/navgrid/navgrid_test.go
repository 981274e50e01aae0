package navgrid

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// flatGrid creates a grid of uniform elevation on a unit lattice.
func flatGrid(t *testing.T, width, height, elevation int) *Grid {
	t.Helper()
	g, err := New(width, height, 1, HeightFunc(func(x, y int) int { return elevation }), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return g
}

func chebyshev(a, b Coord) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

func TestNew_EmptyDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 4},
		{"zero height", 4, 0},
		{"negative", -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.width, tt.height, 1, HeightFunc(func(x, y int) int { return 0 }), nil)
			if !errors.Is(err, ErrEmptyGrid) {
				t.Errorf("expected ErrEmptyGrid, got %v", err)
			}
		})
	}
}

func TestNew_NilHeightProvider(t *testing.T) {
	if _, err := New(2, 2, 1, nil, nil); err == nil {
		t.Error("expected error for nil height provider")
	}
}

func TestNew_SamplesEveryCellOnce(t *testing.T) {
	calls := make(map[Coord]int)
	heights := HeightFunc(func(x, y int) int {
		calls[Coord{x, y}]++
		return x*10 + y
	})

	g, err := New(4, 3, 2, heights, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if len(calls) != 12 {
		t.Errorf("expected 12 sampled cells, got %d", len(calls))
	}
	for c, n := range calls {
		if n != 1 {
			t.Errorf("cell %v sampled %d times", c, n)
		}
	}

	n, ok := g.Node(Coord{3, 2})
	if !ok {
		t.Fatal("expected node (3,2)")
	}
	if n.Elevation != 32 {
		t.Errorf("expected elevation 32, got %d", n.Elevation)
	}
	want := mgl32.Vec3{6, 32, 4}
	if n.Position != want {
		t.Errorf("expected position %v, got %v", want, n.Position)
	}
}

func TestGrid_Neighbours(t *testing.T) {
	g := flatGrid(t, 5, 4, 0)

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			n, _ := g.Node(Coord{x, y})
			neighbours := g.Neighbours(n)

			if len(neighbours) < 3 || len(neighbours) > 8 {
				t.Errorf("%v: expected 3..8 neighbours, got %d", n.Coord, len(neighbours))
			}

			seen := make(map[Coord]bool)
			for _, nb := range neighbours {
				if !g.InBounds(nb.Coord) {
					t.Errorf("%v: neighbour %v out of bounds", n.Coord, nb.Coord)
				}
				if nb.Coord == n.Coord {
					t.Errorf("%v: node listed as its own neighbour", n.Coord)
				}
				if d := chebyshev(n.Coord, nb.Coord); d != 1 {
					t.Errorf("%v: neighbour %v at distance %d", n.Coord, nb.Coord, d)
				}
				if seen[nb.Coord] {
					t.Errorf("%v: duplicate neighbour %v", n.Coord, nb.Coord)
				}
				seen[nb.Coord] = true
			}
		}
	}
}

func TestGrid_NeighbourCounts(t *testing.T) {
	g := flatGrid(t, 5, 5, 0)

	tests := []struct {
		coord Coord
		want  int
	}{
		{Coord{0, 0}, 3},
		{Coord{4, 4}, 3},
		{Coord{2, 0}, 5},
		{Coord{0, 2}, 5},
		{Coord{2, 2}, 8},
	}

	for _, tt := range tests {
		n, _ := g.Node(tt.coord)
		if got := len(g.Neighbours(n)); got != tt.want {
			t.Errorf("%v: expected %d neighbours, got %d", tt.coord, tt.want, got)
		}
	}
}

func TestGrid_NeighbourOrder(t *testing.T) {
	g := flatGrid(t, 3, 3, 0)
	center, _ := g.Node(Coord{1, 1})

	want := []Coord{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 2},
		{2, 0}, {2, 1}, {2, 2},
	}

	got := g.Neighbours(center)
	if len(got) != len(want) {
		t.Fatalf("expected %d neighbours, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Coord != want[i] {
			t.Errorf("neighbour %d: expected %v, got %v", i, want[i], got[i].Coord)
		}
	}
}

func TestGrid_NodeFromWorldPoint(t *testing.T) {
	g := flatGrid(t, 4, 4, 7)

	n, err := g.NodeFromWorldPoint(mgl32.Vec3{2.5, 100, 1.2})
	if err != nil {
		t.Fatalf("NodeFromWorldPoint failed: %v", err)
	}
	if n.Coord != (Coord{2, 1}) {
		t.Errorf("expected (2,1), got %v", n.Coord)
	}

	outside := []mgl32.Vec3{
		{-1, 0, 0},
		{0, 0, -0.5},
		{4.5, 0, 0},
		{0, 0, 10},
	}
	for _, pos := range outside {
		if _, err := g.NodeFromWorldPoint(pos); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("%v: expected ErrInvalidCoordinate, got %v", pos, err)
		}
	}
}

func TestGrid_NilAndEmpty(t *testing.T) {
	var g *Grid

	if !g.Empty() {
		t.Error("expected nil grid to be empty")
	}
	if g.InBounds(Coord{0, 0}) {
		t.Error("expected nil grid to have no cells")
	}
	if _, err := g.NodeFromWorldPoint(mgl32.Vec3{}); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("expected ErrEmptyGrid, got %v", err)
	}
	if n := g.Neighbours(nil); len(n) != 0 {
		t.Errorf("expected no neighbours, got %d", len(n))
	}
}

func TestGrid_SnapToSurface(t *testing.T) {
	g, err := New(3, 3, 2, HeightFunc(func(x, y int) int { return x + y }), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := g.SnapToSurface(mgl32.Vec3{3.9, -50, 5.1})
	if err != nil {
		t.Fatalf("SnapToSurface failed: %v", err)
	}
	want := mgl32.Vec3{2, 3, 4}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestGrid_PathToWorld(t *testing.T) {
	g := flatGrid(t, 3, 3, 5)

	waypoints := g.PathToWorld([]Coord{{1, 1}, {9, 9}, {2, 2}})
	if len(waypoints) != 2 {
		t.Fatalf("expected 2 waypoints, got %d", len(waypoints))
	}
	if waypoints[1] != (mgl32.Vec3{2, 5, 2}) {
		t.Errorf("unexpected waypoint %v", waypoints[1])
	}
}

func TestGrid_ElevationRange(t *testing.T) {
	g, err := New(4, 4, 1, HeightFunc(func(x, y int) int { return x*y - 3 }), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	min, max := g.ElevationRange()
	if min != -3 || max != 6 {
		t.Errorf("expected range [-3, 6], got [%d, %d]", min, max)
	}
}
