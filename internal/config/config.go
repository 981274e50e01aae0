// Package config handles navpath configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/heightpath/pkg/navgrid"
	"github.com/Faultbox/heightpath/pkg/pathfind"
)

// Config holds all navpath settings.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig describes the heightmap and the physical terrain it covers.
type TerrainConfig struct {
	Heightmap   string     `yaml:"heightmap"`    // RAW, PNG, BMP or TIFF file
	SizeX       float32    `yaml:"size_x"`       // Physical size along X
	SizeZ       float32    `yaml:"size_z"`       // Physical size along Z
	HeightScale float64    `yaml:"height_scale"` // World height of a full-scale sample
	Origin      [3]float32 `yaml:"origin,flow"`  // World position of the heightmap corner
}

// SearchConfig holds pathfinding settings.
type SearchConfig struct {
	PenaltyThreshold  int           `yaml:"penalty_threshold"`
	PenaltyMultiplier float64       `yaml:"penalty_multiplier"`
	MaxStep           int           `yaml:"max_step"`
	MaxIterations     int           `yaml:"max_iterations"`
	Timeout           time.Duration `yaml:"timeout"`
	Workers           int           `yaml:"workers"` // Concurrent searches in batch mode
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Heightmap:   "terrain.raw",
			SizeX:       1000,
			SizeZ:       1000,
			HeightScale: 600,
		},
		Search: SearchConfig{
			PenaltyThreshold:  2,
			PenaltyMultiplier: 3,
			MaxStep:           0,
			MaxIterations:     0,
			Timeout:           5 * time.Second,
			Workers:           4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks that the configuration can drive a search.
func (c *Config) Validate() error {
	var errs []error
	if c.Terrain.SizeX <= 0 || c.Terrain.SizeZ <= 0 {
		errs = append(errs, fmt.Errorf("terrain size must be positive, got %gx%g", c.Terrain.SizeX, c.Terrain.SizeZ))
	}
	if c.Terrain.HeightScale < 0 {
		errs = append(errs, fmt.Errorf("height scale must not be negative, got %g", c.Terrain.HeightScale))
	}
	if c.Search.PenaltyThreshold < 0 {
		errs = append(errs, fmt.Errorf("penalty threshold must not be negative, got %d", c.Search.PenaltyThreshold))
	}
	if c.Search.PenaltyMultiplier < 0 {
		errs = append(errs, fmt.Errorf("penalty multiplier must not be negative, got %g", c.Search.PenaltyMultiplier))
	}
	if c.Search.MaxStep < 0 || c.Search.MaxIterations < 0 {
		errs = append(errs, errors.New("search bounds must not be negative"))
	}
	if c.Search.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Search.Workers))
	}
	return errors.Join(errs...)
}

// Terrain returns the coordinate mapping for a heightmap with the given
// number of samples along X and Z.
func (c TerrainConfig) Terrain(resolutionX, resolutionZ int) navgrid.Terrain {
	return navgrid.Terrain{
		Origin:      mgl32.Vec3(c.Origin),
		SizeX:       c.SizeX,
		SizeZ:       c.SizeZ,
		ResolutionX: resolutionX,
		ResolutionZ: resolutionZ,
	}
}

// Options returns the pathfinder options for these settings.
func (c SearchConfig) Options() pathfind.Options {
	return pathfind.Options{
		PenaltyThreshold:  c.PenaltyThreshold,
		PenaltyMultiplier: c.PenaltyMultiplier,
		MaxStep:           c.MaxStep,
		MaxIterations:     c.MaxIterations,
	}
}
