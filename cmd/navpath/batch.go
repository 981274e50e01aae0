package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/heightpath/internal/config"
	"github.com/Faultbox/heightpath/internal/logger"
	"github.com/Faultbox/heightpath/pkg/navgrid"
	"github.com/Faultbox/heightpath/pkg/pathfind"
)

// query is one entry of a batch file. Points are x,z world positions.
type query struct {
	Name string     `yaml:"name"`
	From [2]float32 `yaml:"from,flow"`
	To   [2]float32 `yaml:"to,flow"`
}

func (q query) endpoints() (mgl32.Vec3, mgl32.Vec3) {
	return mgl32.Vec3{q.From[0], 0, q.From[1]}, mgl32.Vec3{q.To[0], 0, q.To[1]}
}

type queryFile struct {
	Queries []query `yaml:"queries"`
}

type queryResult struct {
	Query query
	Path  pathfind.Path
	Err   error
}

func loadQueries(path string) ([]query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var qf queryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(qf.Queries) == 0 {
		return nil, fmt.Errorf("%s: no queries", path)
	}

	for i := range qf.Queries {
		if qf.Queries[i].Name == "" {
			qf.Queries[i].Name = fmt.Sprintf("query-%d", i+1)
		}
	}
	return qf.Queries, nil
}

// runBatch searches every query on the shared grid with at most workers
// searches in flight. Per-query failures are recorded in the results; only
// cancellation of ctx stops the batch.
func runBatch(ctx context.Context, finder *pathfind.Finder, grid *navgrid.Grid, queries []query, workers int, timeout time.Duration) ([]queryResult, error) {
	results := make([]queryResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, q := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start, target := q.endpoints()
			path, err := searchWithTimeout(gctx, finder, grid, start, target, timeout)
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return err
			}
			results[i] = queryResult{Query: q, Path: path, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printResults(w io.Writer, results []queryResult) (found int) {
	for _, r := range results {
		switch {
		case errors.Is(r.Err, pathfind.ErrNoPath):
			fmt.Fprintf(w, "%-20s no path\n", r.Query.Name)
		case r.Err != nil:
			fmt.Fprintf(w, "%-20s error: %v\n", r.Query.Name, r.Err)
		default:
			found++
			fmt.Fprintf(w, "%-20s %5d steps  cost %-8d expanded %d\n",
				r.Query.Name, r.Path.Len(), r.Path.Cost, r.Path.Expanded)
		}
	}
	return found
}

func cmdBatch(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: navpath batch <queries.yaml>")
	}

	queries, err := loadQueries(args[0])
	if err != nil {
		return err
	}

	terrain, err := loadTerrain(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	began := time.Now()
	results, err := runBatch(ctx, newFinder(cfg), terrain.grid, queries, cfg.Search.Workers, cfg.Search.Timeout)
	if err != nil {
		return err
	}

	found := printResults(os.Stdout, results)
	logger.Info("batch complete",
		zap.Int("queries", len(queries)),
		zap.Int("found", found),
		zap.Int("workers", cfg.Search.Workers),
		zap.Duration("elapsed", time.Since(began)))
	return nil
}
