package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ademuri/ytm-wrapped/internal/export"
)

// How often a shard checks whether the build was abandoned.
const cancelCheckInterval = 4096

// GenerateReportParallel folds contiguous shards of events concurrently and
// merges them in shard order, giving the same report as GenerateReport. If ctx
// is cancelled the build is abandoned and only the error is returned.
func GenerateReportParallel(ctx context.Context, events []export.RawEvent, config Config, workers int) (*Report, FilterStats, error) {
	if workers <= 1 || len(events) < 2*workers {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		report, stats := GenerateReportWithStats(events, config)
		return report, stats, nil
	}

	shards := shard(events, workers)
	partials := make([]*Aggregates, len(shards))
	partialStats := make([]FilterStats, len(shards))

	g, ctx := errgroup.WithContext(ctx)
	for i, part := range shards {
		g.Go(func() error {
			agg, stats, err := foldContext(ctx, part, config)
			if err != nil {
				return err
			}
			partials[i] = agg
			partialStats[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	agg := partials[0]
	stats := partialStats[0]
	for i := 1; i < len(partials); i++ {
		agg.Merge(partials[i])
		stats.merge(partialStats[i])
	}
	return Assemble(agg, config), stats, nil
}

func foldContext(ctx context.Context, events []export.RawEvent, config Config) (*Aggregates, FilterStats, error) {
	filter := NewFilter(config)
	millis := config.MillisPerPlay()

	agg := NewAggregates()
	stats := FilterStats{}
	for i, ev := range events {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		ts, verdict := filter.Check(ev)
		stats[verdict]++
		if verdict != Accepted {
			continue
		}
		agg.Add(Normalize(ev, ts), millis)
	}
	return agg, stats, nil
}

func shard(events []export.RawEvent, n int) [][]export.RawEvent {
	size := (len(events) + n - 1) / n
	shards := make([][]export.RawEvent, 0, n)
	for start := 0; start < len(events); start += size {
		end := min(start+size, len(events))
		shards = append(shards, events[start:end])
	}
	return shards
}
