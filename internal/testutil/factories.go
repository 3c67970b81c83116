package testutil

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// TestDataFactory provides methods for generating dynamic test data
type TestDataFactory struct {
	rand *rand.Rand
}

// NewTestDataFactory creates a new test data factory with a seeded random generator
func NewTestDataFactory(seed int64) *TestDataFactory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &TestDataFactory{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// GenerateTestKey generates a random API key
func (f *TestDataFactory) GenerateTestKey() string {
	return fmt.Sprintf("test-key-%d", f.rand.Int63())
}

// GenerateGameID generates a game id in the range the API hands out
func (f *TestDataFactory) GenerateGameID() uint64 {
	return uint64(f.rand.Intn(900000) + 100000)
}

// GenerateGameIDs generates n distinct game ids
func (f *TestDataFactory) GenerateGameIDs(n int) []uint64 {
	seen := make(map[uint64]bool, n)
	ids := make([]uint64, 0, n)
	for len(ids) < n {
		id := f.GenerateGameID()
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// GenerateTitle generates a random game title
func (f *TestDataFactory) GenerateTitle() string {
	titles := []string{"Test Quest", "Test Racer", "Test Tactics", "Test Odyssey", "Test Farm"}
	return titles[f.rand.Intn(len(titles))]
}

// GenerateStore generates one of the store tags the API sends
func (f *TestDataFactory) GenerateStore() string {
	stores := []string{"steam", "epic", "gog", "humble", "itch"}
	return stores[f.rand.Intn(len(stores))]
}

// GeneratePrice generates a price in whole currency units with cents
func (f *TestDataFactory) GeneratePrice() float64 {
	cents := f.rand.Intn(5000) + 99
	return float64(cents) / 100
}

// GenerateUntil generates an expiry within the next two weeks, in epoch seconds
func (f *TestDataFactory) GenerateUntil() float64 {
	hours := f.rand.Intn(14*24) + 1
	return float64(time.Now().Add(time.Duration(hours) * time.Hour).Unix())
}

// Game builds a complete game object for id using generated values
func (f *TestDataFactory) Game(id uint64) map[string]any {
	g := map[string]any{
		"urls": map[string]any{
			"default": "https://redirect.freestuffbot.xyz/game/" + strconv.FormatUint(id, 10),
			"browser": "https://store.test.local/app/" + strconv.FormatUint(id, 10),
			"client":  nil,
			"org":     "https://store.test.local/app/" + strconv.FormatUint(id, 10),
		},
		"url":       "https://redirect.freestuffbot.xyz/game/" + strconv.FormatUint(id, 10),
		"org_url":   "https://store.test.local/app/" + strconv.FormatUint(id, 10),
		"title":     f.GenerateTitle(),
		"org_price": map[string]any{"euro": f.GeneratePrice(), "dollar": f.GeneratePrice()},
		"price":     map[string]any{"euro": 0, "dollar": 0},
		"thumbnail": map[string]any{},
		"kind":      "game",
		"tags":      []string{"indie"},
		"until":     f.GenerateUntil(),
		"store":     f.GenerateStore(),
		"flags":     0,
		"type":      "free",
	}
	return g
}
