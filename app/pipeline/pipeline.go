package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jd261/marit/app/aggregate"
	"github.com/jd261/marit/app/config"
	"github.com/jd261/marit/app/extract"
	"github.com/jd261/marit/app/resolve"
	"github.com/jd261/marit/app/source"
)

// Runner drives one full aggregation pass. Sources are processed one at a
// time with a pacing delay between listing fetches; candidate resolution
// within a source fans out over a bounded worker pool, with the aggregator
// as the single serialized merge point.
type Runner struct {
	fetcher     *source.Fetcher
	extractor   *extract.Extractor
	resolver    *resolve.Resolver
	aggregator  *aggregate.Aggregator
	pacing      time.Duration
	workerCount int
}

func NewRunner(fetcher *source.Fetcher, extractor *extract.Extractor, resolver *resolve.Resolver,
	aggregator *aggregate.Aggregator, pacing time.Duration, workerCount int) *Runner {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Runner{
		fetcher:     fetcher,
		extractor:   extractor,
		resolver:    resolver,
		aggregator:  aggregator,
		pacing:      pacing,
		workerCount: workerCount,
	}
}

// Run processes every source. A listing fetch failure aborts the remaining
// work and surfaces as the run's error; candidate-level failures only
// reduce the output.
func (r *Runner) Run(ctx context.Context, sources []config.Source) error {
	for i, src := range sources {
		if i > 0 && r.pacing > 0 {
			select {
			case <-time.After(r.pacing):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := r.processSource(ctx, src); err != nil {
			return fmt.Errorf("source %s: %w", src.Name, err)
		}
	}

	return nil
}

type candidateJob struct {
	post source.Post
	url  string
}

func (r *Runner) processSource(ctx context.Context, src config.Source) error {
	started := time.Now()

	posts, err := r.fetcher.Run(ctx, src)
	if err != nil {
		return err
	}

	jobs := make(chan candidateJob)
	var wg sync.WaitGroup
	var resolved, rejected atomic.Int64

	for i := 0; i < r.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				res, err := r.resolver.Run(ctx, job.url)
				if err != nil {
					rejected.Add(1)
					slog.Debug("Candidate rejected", "source", src.Name, "url", job.url, "reason", err)
					continue
				}
				resolved.Add(1)
				r.aggregator.Add(src.Name, job.post, res)
			}
		}()
	}

	candidateCount := 0
	for _, post := range posts {
		for _, candidate := range r.extractor.Run(post.Body, post.Link) {
			candidateCount++
			jobs <- candidateJob{post: post, url: candidate}
		}
	}
	close(jobs)
	wg.Wait()

	slog.Info("Source processed",
		"source", src.Name,
		"duration", time.Since(started).Round(time.Millisecond),
		"posts", len(posts),
		"candidates", candidateCount,
		"resolved", resolved.Load(),
		"rejected", rejected.Load())

	return nil
}
