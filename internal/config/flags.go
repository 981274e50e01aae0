package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile     = flag.String("log-file", "", "Write logs to this file as well")
	flagHeightmap   = flag.String("heightmap", "", "Heightmap file (.raw, .r16, .png, .bmp, .tif, .gat)")
	flagSizeX       = flag.Float64("size-x", 0, "Terrain size along X")
	flagSizeZ       = flag.Float64("size-z", 0, "Terrain size along Z")
	flagHeightScale = flag.Float64("height-scale", 0, "World height of a full-scale heightmap sample")
	flagThreshold   = flag.Int("threshold", -1, "Elevation change allowed per step before the penalty multiplier applies")
	flagMultiplier  = flag.Float64("multiplier", -1, "Penalty multiplier for steep steps")
	flagMaxStep     = flag.Int("max-step", -1, "Largest passable elevation change per step (0 = unlimited)")
	flagWorkers     = flag.Int("workers", 0, "Concurrent searches in batch mode")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagHeightmap != "" {
		cfg.Terrain.Heightmap = *flagHeightmap
	}
	if *flagSizeX > 0 {
		cfg.Terrain.SizeX = float32(*flagSizeX)
	}
	if *flagSizeZ > 0 {
		cfg.Terrain.SizeZ = float32(*flagSizeZ)
	}
	if *flagHeightScale > 0 {
		cfg.Terrain.HeightScale = *flagHeightScale
	}
	if *flagThreshold >= 0 {
		cfg.Search.PenaltyThreshold = *flagThreshold
	}
	if *flagMultiplier >= 0 {
		cfg.Search.PenaltyMultiplier = *flagMultiplier
	}
	if *flagMaxStep >= 0 {
		cfg.Search.MaxStep = *flagMaxStep
	}
	if *flagWorkers > 0 {
		cfg.Search.Workers = *flagWorkers
	}
}
