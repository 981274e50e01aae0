package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/heightpath/internal/config"
	"github.com/Faultbox/heightpath/internal/logger"
	"github.com/Faultbox/heightpath/pkg/heightmap"
	"github.com/Faultbox/heightpath/pkg/navgrid"
)

// loadedTerrain is a heightmap and the grid built from it.
type loadedTerrain struct {
	heights *heightmap.Heightmap
	grid    *navgrid.Grid
}

func loadTerrain(cfg *config.Config) (*loadedTerrain, error) {
	hm, err := heightmap.Load(cfg.Terrain.Heightmap, cfg.Terrain.HeightScale)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", cfg.Terrain.Heightmap, err)
	}

	grid, err := navgrid.Build(cfg.Terrain.Terrain(hm.Resolution()), hm)
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}

	logger.Info("terrain loaded",
		zap.String("heightmap", cfg.Terrain.Heightmap),
		zap.Int("samples", hm.Width),
		zap.Int("width", grid.Width),
		zap.Int("height", grid.Height),
		zap.Float32("cellSize", grid.CellSize))

	return &loadedTerrain{heights: hm, grid: grid}, nil
}
