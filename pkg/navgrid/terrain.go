package navgrid

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrResolutionMismatch reports a terrain whose grid would not line up one
// cell per sample with the heightmap it is built from.
var ErrResolutionMismatch = errors.New("terrain grid does not match heightmap samples")

// SampleBounds is implemented by height providers backed by a finite sample
// array. Build uses it to reject grids that would read past the samples.
type SampleBounds interface {
	Bounds() (width, height int)
}

// cellEpsilon absorbs float32 rounding when a cell corner is mapped back to its cell.
const cellEpsilon = 1e-3

// Terrain describes the physical extent of a heightmapped terrain and maps between
// its world space and heightmap (grid) coordinates.
type Terrain struct {
	Origin      mgl32.Vec3 // World position of the heightmap's (0,0) corner
	SizeX       float32    // Physical size along X
	SizeZ       float32    // Physical size along Z
	ResolutionX int        // Heightmap samples along X
	ResolutionZ int        // Heightmap samples along Z
}

// SquareTerrain returns a terrain with the same resolution on both axes.
func SquareTerrain(origin mgl32.Vec3, sizeX, sizeZ float32, resolution int) Terrain {
	return Terrain{Origin: origin, SizeX: sizeX, SizeZ: sizeZ, ResolutionX: resolution, ResolutionZ: resolution}
}

// CellSize returns the average physical extent of one heightmap cell.
func (t Terrain) CellSize() float32 {
	if t.ResolutionX < 2 || t.ResolutionZ < 2 {
		return 0
	}
	xSize := t.SizeX / float32(t.ResolutionX-1)
	zSize := t.SizeZ / float32(t.ResolutionZ-1)
	return (xSize + zSize) / 2
}

// Dimensions returns the grid size derived from the terrain extent and cell size.
// Each axis uses its own physical extent.
func (t Terrain) Dimensions() (width, height int) {
	cellSize := t.CellSize()
	if cellSize <= 0 {
		return 0, 0
	}
	width = int(math.RoundToEven(float64(t.SizeX / cellSize)))
	height = int(math.RoundToEven(float64(t.SizeZ / cellSize)))
	return width, height
}

// WorldToGrid maps a world position to the heightmap cell containing it.
// Points inside the terrain extent always land on a grid cell; the strip
// beyond the last full cell belongs to the edge cell.
func (t Terrain) WorldToGrid(pos mgl32.Vec3) (int, int) {
	if t.SizeX <= 0 || t.SizeZ <= 0 {
		return -1, -1
	}
	local := pos.Sub(t.Origin)
	xScale := float32(t.ResolutionX) / t.SizeX
	zScale := float32(t.ResolutionZ) / t.SizeZ
	x, y := floorCell(local.X()*xScale), floorCell(local.Z()*zScale)

	width, height := t.Dimensions()
	if local.X() <= t.SizeX && x >= width {
		x = width - 1
	}
	if local.Z() <= t.SizeZ && y >= height {
		y = height - 1
	}
	return x, y
}

// GridToWorld returns the world position of a heightmap cell corner at ground level (Y = origin).
func (t Terrain) GridToWorld(x, y int) mgl32.Vec3 {
	if t.ResolutionX <= 0 || t.ResolutionZ <= 0 {
		return t.Origin
	}
	xScale := t.SizeX / float32(t.ResolutionX)
	zScale := t.SizeZ / float32(t.ResolutionZ)
	return t.Origin.Add(mgl32.Vec3{float32(x) * xScale, 0, float32(y) * zScale})
}

// Build creates the navigation grid for a terrain, sampling each cell's elevation once.
//
// When heights implements SampleBounds, each grid axis must have one cell per
// sample interval (the sample count, or one less); otherwise cells would read
// clamped or skipped samples and Build fails with ErrResolutionMismatch.
func Build(t Terrain, heights HeightProvider) (*Grid, error) {
	if t.ResolutionX < 2 || t.ResolutionZ < 2 || t.SizeX <= 0 || t.SizeZ <= 0 {
		return nil, fmt.Errorf("%w: terrain %gx%g at resolution %dx%d", ErrEmptyGrid, t.SizeX, t.SizeZ, t.ResolutionX, t.ResolutionZ)
	}
	width, height := t.Dimensions()
	if b, ok := heights.(SampleBounds); ok {
		sw, sh := b.Bounds()
		if !covers(width, sw) || !covers(height, sh) {
			return nil, fmt.Errorf("%w: %dx%d grid over %dx%d samples (terrain %gx%g)",
				ErrResolutionMismatch, width, height, sw, sh, t.SizeX, t.SizeZ)
		}
	}
	return New(width, height, t.CellSize(), heights, t)
}

func covers(cells, samples int) bool {
	return cells == samples || cells == samples-1
}

func floorCell(v float32) int {
	return int(math.Floor(float64(v) + cellEpsilon))
}
