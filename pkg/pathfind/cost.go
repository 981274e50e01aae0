package pathfind

import "github.com/Faultbox/heightpath/pkg/navgrid"

// Octile step costs, scaled by 10 so diagonal moves (10*sqrt(2)) stay integral.
const (
	StraightCost = 10
	DiagonalCost = 14
)

// Distance returns the octile distance between two grid coordinates.
func Distance(a, b navgrid.Coord) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return DiagonalCost*dy + StraightCost*(dx-dy)
	}
	return DiagonalCost*dx + StraightCost*(dy-dx)
}

// MovementPenalty returns the extra cost of stepping from elevation from to elevation to.
// Elevation changes steeper than threshold, up or down, are scaled by multiplier
// (truncated toward zero); gentler changes cost their raw signed delta.
func MovementPenalty(from, to, threshold int, multiplier float64) int {
	delta := to - from
	if delta >= 0 {
		if delta > threshold {
			return int(float64(delta) * multiplier)
		}
		return delta
	}
	if delta < -threshold {
		return int(float64(delta) * multiplier)
	}
	return delta
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
