// Package batch maps many genotypes concurrently through one mapper.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"morphogen/internal/builder"
)

// Result is the outcome of mapping the genotype at Index.
type Result struct {
	Index     int
	Phenotype any
	Err       error
	Elapsed   time.Duration
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Requested int
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// Runner fans genotypes out to at most Workers goroutines. A failing
// genotype does not stop the batch; only context cancellation does.
type Runner struct {
	Workers int
	Logger  *slog.Logger
	Metrics *Metrics
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Map applies mapper to every genotype. Results keep the genotype order.
func (r *Runner) Map(ctx context.Context, mapper builder.Mapper[any, any], genotypes []any) ([]Result, Summary, error) {
	if mapper == nil {
		return nil, Summary{}, fmt.Errorf("batch mapper is required")
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	log := r.logger()
	start := time.Now()
	results := make([]Result, len(genotypes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, genotype := range genotypes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			began := time.Now()
			phenotype, err := mapper(genotype)
			elapsed := time.Since(began)
			results[i] = Result{Index: i, Phenotype: phenotype, Err: err, Elapsed: elapsed}
			r.Metrics.observe(elapsed.Seconds(), err)
			if err != nil {
				log.Debug("genotype mapping failed", "index", i, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Summary{}, err
	}
	r.Metrics.batch()

	summary := Summary{Requested: len(genotypes), Elapsed: time.Since(start)}
	for _, res := range results {
		if res.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	if summary.Failed > 0 {
		log.Warn("batch finished with failures", "requested", summary.Requested, "failed", summary.Failed)
	} else {
		log.Debug("batch finished", "requested", summary.Requested, "elapsed", summary.Elapsed)
	}
	return results, summary, nil
}
