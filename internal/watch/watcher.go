package watch

import (
	"context"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/guarzo/freestuff/api"
	"github.com/guarzo/freestuff/client"
)

// DefaultSchedule polls every half hour.
const DefaultSchedule = "@every 30m"

// Handler is called once per newly seen game, in game-list order.
type Handler func(id api.GameID, game api.GameInfo)

// Config configures a Watcher.
type Config struct {
	Category client.Category
	// Schedule is a standard five-field cron spec or a descriptor such as "@every 10m".
	Schedule    string
	BatchSize   int
	Concurrency int
	// SkipInitial marks everything in the first poll as seen without reporting it.
	SkipInitial bool
	Logger      *zerolog.Logger
}

// Watcher polls a game list and reports ids it has not seen before.
type Watcher struct {
	src      Source
	cfg      Config
	handler  Handler
	schedule cron.Schedule
	logger   zerolog.Logger

	pollMu sync.Mutex // serializes polls

	mu     sync.Mutex
	seen   map[api.GameID]struct{}
	primed bool
}

// New validates cfg and returns a Watcher.
func New(src Source, cfg Config, handler Handler) (*Watcher, error) {
	if src == nil {
		return nil, errors.New("source is required")
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}
	if cfg.Category == "" {
		cfg.Category = client.CategoryFree
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	schedule, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid schedule %q", cfg.Schedule)
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "watch").Logger()
	}

	return &Watcher{
		src:      src,
		cfg:      cfg,
		handler:  handler,
		schedule: schedule,
		logger:   logger,
		seen:     make(map[api.GameID]struct{}),
	}, nil
}

// Poll runs one cycle and returns how many new games were reported. Ids are
// only marked seen once their details were fetched, so a failed cycle is
// retried in full on the next one.
func (w *Watcher) Poll(ctx context.Context) (int, error) {
	w.pollMu.Lock()
	defer w.pollMu.Unlock()

	ids, err := w.src.GameList(ctx, w.cfg.Category)
	if err != nil {
		return 0, errors.Wrap(err, "failed to fetch game list")
	}

	w.mu.Lock()
	fresh := lo.Filter(lo.Uniq(ids), func(id api.GameID, _ int) bool {
		_, ok := w.seen[id]
		return !ok
	})
	first := !w.primed
	w.primed = true
	if first && w.cfg.SkipInitial {
		w.markLocked(fresh)
		w.mu.Unlock()
		w.logger.Info().Int("games", len(fresh)).Msg("initial game list marked as seen")
		return 0, nil
	}
	w.mu.Unlock()

	if len(fresh) == 0 {
		return 0, nil
	}

	games, err := FetchDetails(ctx, w.src, fresh, w.cfg.BatchSize, w.cfg.Concurrency)
	if err != nil {
		return 0, err
	}

	reported := 0
	for _, id := range fresh {
		game, ok := games[strconv.FormatUint(id, 10)]
		if !ok {
			w.logger.Warn().Uint64("id", id).Msg("game missing from details response")
			continue
		}
		w.handler(id, game)
		reported++
	}

	w.mu.Lock()
	w.markLocked(fresh)
	w.mu.Unlock()

	return reported, nil
}

func (w *Watcher) markLocked(ids []api.GameID) {
	for _, id := range ids {
		w.seen[id] = struct{}{}
	}
}

// Seen reports whether id has been handled or skipped.
func (w *Watcher) Seen(id api.GameID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.seen[id]
	return ok
}

// Run polls immediately and then on the schedule until ctx is done. Failed
// polls are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	w.pollAndLog(ctx)

	cronLogger := cron.PrintfLogger(&w.logger)
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger)),
	)
	c.Schedule(w.schedule, cron.FuncJob(func() { w.pollAndLog(ctx) }))
	c.Start()

	w.logger.Info().
		Str("schedule", w.cfg.Schedule).
		Str("category", string(w.cfg.Category)).
		Msg("watching for new games")

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (w *Watcher) pollAndLog(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	n, err := w.Poll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error().Err(err).Msg("poll failed")
		}
		return
	}
	w.logger.Debug().Int("new", n).Msg("poll finished")
}
