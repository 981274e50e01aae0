// navpath finds height-aware paths across heightmap terrain.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/heightpath/internal/config"
	"github.com/Faultbox/heightpath/internal/logger"
)

func main() {
	config.ParseFlags()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	switch command {
	case "info":
		err = cmdInfo(cfg)
	case "find":
		err = cmdFind(cfg, args)
	case "batch":
		err = cmdBatch(cfg, args)
	case "watch":
		err = cmdWatch(cfg, args)
	case "config":
		err = cmdConfig(cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		logger.Sync()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`navpath - height-aware A* pathfinding over heightmap terrain

Usage:
  navpath [global flags] <command> [options]

Commands:
  info                         Show grid dimensions and elevation range
  find -from X,Z -to X,Z       Find a path between two world points
  batch <queries.yaml>         Run many searches concurrently on one grid
  watch -from X,Z -to X,Z      Re-run a search whenever the heightmap or config changes
  config [path]                Write the effective config as YAML

Global flags:
  -config <file>      Config file (default ./config.yaml, then user config dir)
  -heightmap <file>   Heightmap (.raw, .r16, .png, .bmp, .tif, .gat)
  -threshold N        Elevation change per step before the multiplier applies
  -multiplier F       Penalty multiplier for steep steps
  -max-step N         Largest passable elevation change per step (0 = unlimited)
  -workers N          Concurrent searches in batch mode
  -debug              Enable debug logging

Examples:
  navpath info
  navpath -heightmap valley.png find -from 10,10 -to 900,640
  navpath -threshold 4 -multiplier 1.5 batch queries.yaml
  navpath config ./navpath.yaml`)
}

func cmdInfo(cfg *config.Config) error {
	terrain, err := loadTerrain(cfg)
	if err != nil {
		return err
	}

	lo, hi := terrain.grid.ElevationRange()
	fmt.Printf("Heightmap:  %s\n", cfg.Terrain.Heightmap)
	fmt.Printf("Samples:    %dx%d\n", terrain.heights.Width, terrain.heights.Height)
	fmt.Printf("Terrain:    %gx%g at %v\n", cfg.Terrain.SizeX, cfg.Terrain.SizeZ, cfg.Terrain.Origin)
	fmt.Printf("Grid:       %dx%d\n", terrain.grid.Width, terrain.grid.Height)
	fmt.Printf("Cell size:  %.3f\n", terrain.grid.CellSize)
	fmt.Printf("Elevation:  %d .. %d\n", lo, hi)
	return nil
}

func cmdConfig(cfg *config.Config, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
