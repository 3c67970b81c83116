// Package watch fetches game details in API-sized batches and polls a game
// list on a schedule, reporting games it has not seen before.
package watch

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/guarzo/freestuff/api"
	"github.com/guarzo/freestuff/client"
)

// Source is the part of *client.Client the watcher needs.
type Source interface {
	GameList(ctx context.Context, category client.Category) ([]api.GameID, error)
	GameDetails(ctx context.Context, ids []api.GameID) (map[string]api.GameInfo, error)
}

var _ Source = (*client.Client)(nil)

// FetchDetails splits ids into batches of batchSize, fetches up to concurrency
// batches at a time and merges the results. Any failed batch fails the whole
// call and no partial map is returned.
func FetchDetails(ctx context.Context, src Source, ids []api.GameID, batchSize, concurrency int) (map[string]api.GameInfo, error) {
	if batchSize <= 0 {
		batchSize = client.MaxBatchSize
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	out := make(map[string]api.GameInfo, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for _, batch := range lo.Chunk(ids, batchSize) {
		batch := batch
		eg.Go(func() error {
			games, err := src.GameDetails(ctx, batch)
			if err != nil {
				return errors.Wrapf(err, "failed to fetch details for %v", batch)
			}
			mu.Lock()
			for k, g := range games {
				out[k] = g
			}
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
