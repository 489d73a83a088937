package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RunTargets runs every target on its own fresh Simulator and returns results in the
// order of targets. At most parallelism runs execute at once (values < 1 mean one at a
// time). Runs share only cfg.Catalog and pattern, both read-only; each run's mutable
// state stays confined to the goroutine executing it.
func RunTargets(ctx context.Context, cfg SimConfig, pattern []Deflection, targets []int64, parallelism int) ([]Result, error) {
	// Surface configuration and input errors once, before any goroutine starts.
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := NewDeflectionSequence(pattern); err != nil {
		return nil, err
	}

	results := make([]Result, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallelism, 1))
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := Simulate(cfg, pattern, target)
			if err != nil {
				return fmt.Errorf("target %d: %w", target, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
