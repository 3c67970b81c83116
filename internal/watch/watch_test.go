package watch

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guarzo/freestuff/api"
	"github.com/guarzo/freestuff/client"
	"github.com/guarzo/freestuff/internal/testutil"
)

type fakeSource struct {
	t       *testing.T
	factory *testutil.TestDataFactory

	mu         sync.Mutex
	list       []api.GameID
	listErr    error
	detailsErr error
	batches    [][]api.GameID
	inFlight   atomic.Int32
	maxFlight  atomic.Int32
	categories []client.Category
}

func newFakeSource(t *testing.T) *fakeSource {
	return &fakeSource{t: t, factory: testutil.NewTestDataFactory(42)}
}

func (f *fakeSource) setList(ids ...api.GameID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = ids
}

func (f *fakeSource) GameList(_ context.Context, category client.Category) ([]api.GameID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = append(f.categories, category)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]api.GameID(nil), f.list...), nil
}

func (f *fakeSource) GameDetails(_ context.Context, ids []api.GameID) (map[string]api.GameInfo, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.maxFlight.Load()
		if n <= peak || f.maxFlight.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]api.GameID(nil), ids...))
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}

	out := make(map[string]api.GameInfo, len(ids))
	for _, id := range ids {
		g, err := api.DecodeGameInfo(testutil.Marshal(f.t, f.factory.Game(id)))
		if err != nil {
			return nil, err
		}
		out[strconv.FormatUint(id, 10)] = g
	}
	return out, nil
}

func (f *fakeSource) batchSizes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	sizes := make([]int, len(f.batches))
	for i, b := range f.batches {
		sizes[i] = len(b)
	}
	return sizes
}

func TestFetchDetails_Batches(t *testing.T) {
	src := newFakeSource(t)
	ids := testutil.NewTestDataFactory(1).GenerateGameIDs(12)

	games, err := FetchDetails(context.Background(), src, ids, 5, 2)
	require.NoError(t, err)
	assert.Len(t, games, 12)
	for _, id := range ids {
		assert.Contains(t, games, strconv.FormatUint(id, 10))
	}

	assert.ElementsMatch(t, []int{5, 5, 2}, src.batchSizes())
	assert.LessOrEqual(t, src.maxFlight.Load(), int32(2))
}

func TestFetchDetails_Defaults(t *testing.T) {
	src := newFakeSource(t)
	ids := testutil.NewTestDataFactory(2).GenerateGameIDs(7)

	games, err := FetchDetails(context.Background(), src, ids, 0, 0)
	require.NoError(t, err)
	assert.Len(t, games, 7)
	assert.ElementsMatch(t, []int{client.MaxBatchSize, 2}, src.batchSizes())
	assert.Equal(t, int32(1), src.maxFlight.Load())
}

func TestFetchDetails_Empty(t *testing.T) {
	src := newFakeSource(t)

	games, err := FetchDetails(context.Background(), src, nil, 5, 2)
	require.NoError(t, err)
	assert.NotNil(t, games)
	assert.Empty(t, games)
	assert.Empty(t, src.batchSizes())
}

func TestFetchDetails_ErrorFailsAll(t *testing.T) {
	src := newFakeSource(t)
	src.detailsErr = client.ErrRateLimited

	games, err := FetchDetails(context.Background(), src, []api.GameID{1, 2, 3, 4, 5, 6}, 5, 2)
	assert.ErrorIs(t, err, client.ErrRateLimited)
	assert.Nil(t, games)
}

func TestNew_Validation(t *testing.T) {
	src := newFakeSource(t)
	noop := func(api.GameID, api.GameInfo) {}

	_, err := New(nil, Config{}, noop)
	assert.Error(t, err)

	_, err = New(src, Config{}, nil)
	assert.Error(t, err)

	_, err = New(src, Config{Schedule: "every now and then"}, noop)
	assert.Error(t, err)

	for _, spec := range []string{"", "@every 10m", "@hourly", "*/15 * * * *"} {
		w, err := New(src, Config{Schedule: spec}, noop)
		require.NoError(t, err, spec)
		assert.Equal(t, client.CategoryFree, w.cfg.Category)
	}
}

type collector struct {
	mu  sync.Mutex
	ids []api.GameID
}

func (c *collector) handle(id api.GameID, g api.GameInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids, id)
}

func (c *collector) got() []api.GameID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.GameID(nil), c.ids...)
}

func TestWatcher_ReportsOnlyNewGames(t *testing.T) {
	src := newFakeSource(t)
	var seen collector

	w, err := New(src, Config{Category: client.CategoryApproved}, seen.handle)
	require.NoError(t, err)

	src.setList(100, 200, 300)
	n, err := w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []api.GameID{100, 200, 300}, seen.got())

	src.setList(100, 200, 300, 400, 400)
	n, err = w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []api.GameID{100, 200, 300, 400}, seen.got())

	n, err = w.Poll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.True(t, w.Seen(400))
	assert.False(t, w.Seen(500))
	assert.Equal(t, client.CategoryApproved, src.categories[0])
}

func TestWatcher_SkipInitial(t *testing.T) {
	src := newFakeSource(t)
	var seen collector

	w, err := New(src, Config{SkipInitial: true}, seen.handle)
	require.NoError(t, err)

	src.setList(1, 2, 3)
	n, err := w.Poll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, seen.got())
	assert.Empty(t, src.batchSizes(), "initial poll should not fetch details")
	assert.True(t, w.Seen(2))

	src.setList(1, 2, 3, 4)
	n, err = w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []api.GameID{4}, seen.got())
}

func TestWatcher_FailedPollIsRetried(t *testing.T) {
	src := newFakeSource(t)
	var seen collector

	w, err := New(src, Config{}, seen.handle)
	require.NoError(t, err)

	src.setList(7, 8)
	src.detailsErr = errors.New("boom")
	_, err = w.Poll(context.Background())
	require.Error(t, err)
	assert.False(t, w.Seen(7))

	src.mu.Lock()
	src.detailsErr = nil
	src.mu.Unlock()

	n, err := w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []api.GameID{7, 8}, seen.got())
}

func TestWatcher_ListError(t *testing.T) {
	src := newFakeSource(t)
	src.listErr = client.ErrRateLimited

	w, err := New(src, Config{}, func(api.GameID, api.GameInfo) {})
	require.NoError(t, err)

	_, err = w.Poll(context.Background())
	assert.ErrorIs(t, err, client.ErrRateLimited)
}

func TestWatcher_RunPollsUntilCancelled(t *testing.T) {
	src := newFakeSource(t)
	src.setList(11, 12)
	var seen collector

	w, err := New(src, Config{Schedule: "@every 1h"}, seen.handle)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return len(seen.got()) == 2 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
