package pathfind

import (
	"context"
	"testing"

	astar "github.com/beefsack/go-astar"

	"github.com/Faultbox/heightpath/pkg/navgrid"
)

// oracleCell adapts a grid cell to astar.Pather so an independent A*
// implementation can cross-check search costs.
type oracleCell struct {
	grid  *navgrid.Grid
	opts  *Options
	coord navgrid.Coord
}

func (o oracleCell) node() *navgrid.Node {
	n, _ := o.grid.Node(o.coord)
	return n
}

func (o oracleCell) PathNeighbors() []astar.Pather {
	var neighbors []astar.Pather
	for _, nb := range o.grid.Neighbours(o.node()) {
		neighbors = append(neighbors, oracleCell{grid: o.grid, opts: o.opts, coord: nb.Coord})
	}
	return neighbors
}

func (o oracleCell) PathNeighborCost(to astar.Pather) float64 {
	from, dest := o.node(), to.(oracleCell).node()
	step := Distance(from.Coord, dest.Coord) +
		MovementPenalty(from.Elevation, dest.Elevation, o.opts.PenaltyThreshold, o.opts.PenaltyMultiplier)
	return float64(step)
}

func (o oracleCell) PathEstimatedCost(to astar.Pather) float64 {
	return float64(Distance(o.coord, to.(oracleCell).coord))
}

func TestFindPath_MatchesOracleOnFlatGrids(t *testing.T) {
	sizes := [][2]int{{3, 3}, {7, 4}, {12, 12}, {20, 9}}
	opts := Options{PenaltyThreshold: 2, PenaltyMultiplier: 3}
	f := NewFinder(opts, nil)

	for _, size := range sizes {
		g := mockGrid(t, flatRows(size[0], size[1]))
		corners := []navgrid.Coord{
			c(0, 0),
			c(size[0]-1, 0),
			c(0, size[1]-1),
			c(size[0]-1, size[1]-1),
			c(size[0]/2, size[1]/2),
		}

		for _, from := range corners {
			for _, to := range corners {
				if from == to {
					continue
				}
				path, err := f.FindPathCoords(context.Background(), g, from, to)
				if err != nil {
					t.Fatalf("%v: %v -> %v: %v", size, from, to, err)
				}

				_, distance, found := astar.Path(
					oracleCell{grid: g, opts: &opts, coord: from},
					oracleCell{grid: g, opts: &opts, coord: to},
				)
				if !found {
					t.Fatalf("%v: oracle found no path %v -> %v", size, from, to)
				}
				if float64(path.Cost) != distance {
					t.Errorf("%v: %v -> %v: cost %d, oracle %v", size, from, to, path.Cost, distance)
				}
				if path.Cost != Distance(from, to) {
					t.Errorf("%v: %v -> %v: cost %d, octile distance %d", size, from, to, path.Cost, Distance(from, to))
				}
			}
		}
	}
}
