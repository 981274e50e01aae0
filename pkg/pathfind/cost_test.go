package pathfind

import (
	"testing"

	"github.com/Faultbox/heightpath/pkg/navgrid"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b navgrid.Coord
		want int
	}{
		{navgrid.Coord{X: 3, Y: 3}, navgrid.Coord{X: 3, Y: 3}, 0},
		{navgrid.Coord{X: 0, Y: 0}, navgrid.Coord{X: 1, Y: 0}, 10},
		{navgrid.Coord{X: 0, Y: 0}, navgrid.Coord{X: 0, Y: 1}, 10},
		{navgrid.Coord{X: 0, Y: 0}, navgrid.Coord{X: 1, Y: 1}, 14},
		{navgrid.Coord{X: 5, Y: 5}, navgrid.Coord{X: 4, Y: 6}, 14},
		{navgrid.Coord{X: 0, Y: 0}, navgrid.Coord{X: 3, Y: 1}, 34},
		{navgrid.Coord{X: 0, Y: 0}, navgrid.Coord{X: 2, Y: 2}, 28},
		{navgrid.Coord{X: 0, Y: 0}, navgrid.Coord{X: 2, Y: 0}, 20},
	}

	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := Distance(tt.b, tt.a); got != tt.want {
			t.Errorf("Distance(%v, %v) = %d, want %d (symmetry)", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestMovementPenalty(t *testing.T) {
	tests := []struct {
		name       string
		from, to   int
		threshold  int
		multiplier float64
		want       int
	}{
		{"flat", 5, 5, 2, 3, 0},
		{"gentle climb", 0, 2, 2, 3, 2},
		{"steep climb", 0, 3, 2, 3, 9},
		{"gentle drop", 2, 0, 2, 3, -2},
		{"steep drop", 3, 0, 2, 3, -9},
		{"climb truncates", 0, 3, 2, 1.5, 4},
		{"drop truncates toward zero", 3, 0, 2, 1.5, -4},
		{"zero threshold", 0, 1, 0, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MovementPenalty(tt.from, tt.to, tt.threshold, tt.multiplier)
			if got != tt.want {
				t.Errorf("MovementPenalty(%d, %d, %d, %v) = %d, want %d",
					tt.from, tt.to, tt.threshold, tt.multiplier, got, tt.want)
			}
		})
	}
}

func TestMovementPenalty_MultiplierMonotonic(t *testing.T) {
	multipliers := []float64{0.5, 1, 1.25, 2, 3.7, 10}

	for delta := 3; delta <= 40; delta++ {
		prev := MovementPenalty(0, delta, 2, multipliers[0])
		for _, m := range multipliers[1:] {
			got := MovementPenalty(0, delta, 2, m)
			if got < prev {
				t.Fatalf("climb %d: penalty dropped from %d to %d at multiplier %v", delta, prev, got, m)
			}
			prev = got
		}
	}
}
