package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/heightpath/internal/config"
	"github.com/Faultbox/heightpath/internal/logger"
	"github.com/Faultbox/heightpath/pkg/navgrid"
	"github.com/Faultbox/heightpath/pkg/pathfind"
)

// parsePoint parses "x,z" into a world position on the ground plane.
func parsePoint(s string) (mgl32.Vec3, error) {
	xs, zs, ok := strings.Cut(s, ",")
	if !ok {
		return mgl32.Vec3{}, fmt.Errorf("point %q: want x,z", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 32)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("point %q: %w", s, err)
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(zs), 32)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("point %q: %w", s, err)
	}
	return mgl32.Vec3{float32(x), 0, float32(z)}, nil
}

// pointFlags registers -from and -to on a subcommand flag set.
func pointFlags(fs *flag.FlagSet) (from, to *string) {
	from = fs.String("from", "", "Start point as x,z in world units")
	to = fs.String("to", "", "Target point as x,z in world units")
	return from, to
}

func parseEndpoints(from, to string) (mgl32.Vec3, mgl32.Vec3, error) {
	if from == "" || to == "" {
		return mgl32.Vec3{}, mgl32.Vec3{}, errors.New("both -from and -to are required")
	}
	start, err := parsePoint(from)
	if err != nil {
		return mgl32.Vec3{}, mgl32.Vec3{}, err
	}
	target, err := parsePoint(to)
	if err != nil {
		return mgl32.Vec3{}, mgl32.Vec3{}, err
	}
	return start, target, nil
}

func newFinder(cfg *config.Config) *pathfind.Finder {
	return pathfind.NewFinder(cfg.Search.Options(), logger.Named("pathfind"))
}

// searchWithTimeout runs one search, bounded by timeout when it is positive.
func searchWithTimeout(ctx context.Context, finder *pathfind.Finder, grid *navgrid.Grid, start, target mgl32.Vec3, timeout time.Duration) (pathfind.Path, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return finder.FindPath(ctx, grid, start, target)
}

// printPath writes a path as one waypoint per line. A search that found no
// route is reported, not treated as a failure.
func printPath(w io.Writer, grid *navgrid.Grid, path pathfind.Path, err error) error {
	if errors.Is(err, pathfind.ErrNoPath) {
		fmt.Fprintln(w, "no path")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Steps:    %d\n", path.Len())
	fmt.Fprintf(w, "Cost:     %d\n", path.Cost)
	fmt.Fprintf(w, "Expanded: %d\n", path.Expanded)
	for i, p := range grid.PathToWorld(path.Coords) {
		fmt.Fprintf(w, "  %-5d %-12v %8.2f %8.2f %8.2f\n", i+1, path.Coords[i], p.X(), p.Y(), p.Z())
	}
	return nil
}

func cmdFind(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("find", flag.ExitOnError)
	from, to := pointFlags(fs)
	fs.Parse(args)

	start, target, err := parseEndpoints(*from, *to)
	if err != nil {
		return err
	}

	terrain, err := loadTerrain(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path, err := searchWithTimeout(ctx, newFinder(cfg), terrain.grid, start, target, cfg.Search.Timeout)
	return printPath(os.Stdout, terrain.grid, path, err)
}
