// Package client talks to the freestuffbot.xyz REST API and returns the typed
// records from package api.
//
//	c, err := client.New(client.Config{APIKey: key})
//	ids, err := c.GameList(ctx, client.CategoryFree)
//	games, err := c.GameDetails(ctx, ids[:5])
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/guarzo/freestuff/api"
	"github.com/guarzo/freestuff/internal/ratelimit"
)

const (
	// Version is sent in the default User-Agent.
	Version = "0.3.0"

	DefaultAPIDomain = "https://api.freestuffbot.xyz"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "freestuff-go/" + Version

	// MaxBatchSize is the most ids the API answers in one details request.
	// GameDetails does not enforce it.
	MaxBatchSize = 5

	pingPath        = "/v1/ping"
	gameListPath    = "/v1/games/"
	gameDetailsPath = "/v1/game/%s/info"
)

// Category selects which game list to fetch.
type Category string

const (
	CategoryAll      Category = "all"
	CategoryApproved Category = "approved"
	CategoryFree     Category = "free"
)

// Config configures a Client.
type Config struct {
	APIKey    string
	APIDomain string

	// HTTPClient is copied; Timeout and CheckRedirect are filled in when unset.
	HTTPClient *http.Client
	Timeout    time.Duration
	UserAgent  string

	// RequestsPerSecond > 0 paces requests client-side. Zero disables pacing.
	RequestsPerSecond float64
	Burst             int

	// Logger receives a debug line per request. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns a config pointing at the public API. APIKey is left empty.
func DefaultConfig() Config {
	return Config{
		APIDomain: DefaultAPIDomain,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		Burst:     1,
	}
}

// Client is safe for concurrent use.
type Client struct {
	t *transport
}

// New validates cfg and builds a Client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}

	origin, err := normalizedOrigin(cfg.APIDomain)
	if err != nil {
		return nil, err
	}

	hc := &http.Client{}
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		hc = &copied
	}
	if hc.Timeout == 0 {
		hc.Timeout = cfg.Timeout
		if hc.Timeout <= 0 {
			hc.Timeout = DefaultTimeout
		}
	}
	if hc.CheckRedirect == nil {
		hc.CheckRedirect = checkRedirect
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "freestuff").Logger()
	}

	return &Client{t: &transport{
		origin:    origin,
		key:       cfg.APIKey,
		userAgent: userAgent,
		http:      hc,
		limiter:   ratelimit.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		logger:    logger,
	}}, nil
}

// normalizedOrigin reduces domain to scheme://host. Endpoint paths are
// absolute and replace any path on the domain.
func normalizedOrigin(domain string) (string, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		domain = DefaultAPIDomain
	}
	u, err := url.Parse(domain)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidDomain, "%q: %v", domain, err)
	}
	if u.Host == "" {
		return "", errors.Wrapf(ErrInvalidDomain, "%q: missing host", domain)
	}
	if !strings.EqualFold(u.Scheme, "https") {
		return "", errors.Wrapf(ErrHTTPSRequired, "%q", domain)
	}
	return "https://" + u.Host, nil
}

// Ping checks that the API is reachable and accepts the key.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	if _, err := c.t.get(ctx, pingPath); err != nil {
		return false, err
	}
	return true, nil
}

// GameList fetches the ids of every game in category.
func (c *Client) GameList(ctx context.Context, category Category) ([]api.GameID, error) {
	if strings.TrimSpace(string(category)) == "" {
		return nil, errors.New("category is required")
	}
	body, err := c.t.get(ctx, gameListPath+url.PathEscape(string(category)))
	if err != nil {
		return nil, err
	}
	return api.DecodeGameList(body)
}

// GameDetails fetches details for ids in a single request, keyed by the id as a
// decimal string. The API answers at most MaxBatchSize ids per request; split
// larger sets before calling. An empty ids returns an empty map without a request.
func (c *Client) GameDetails(ctx context.Context, ids []api.GameID) (map[string]api.GameInfo, error) {
	if len(ids) == 0 {
		return map[string]api.GameInfo{}, nil
	}
	body, err := c.t.get(ctx, GameDetailsPath(ids))
	if err != nil {
		return nil, err
	}
	return api.DecodeGameDetails(body)
}

// GameDetail fetches a single game.
func (c *Client) GameDetail(ctx context.Context, id api.GameID) (api.GameInfo, error) {
	games, err := c.GameDetails(ctx, []api.GameID{id})
	if err != nil {
		return api.GameInfo{}, err
	}
	if g, ok := games[strconv.FormatUint(id, 10)]; ok {
		return g, nil
	}
	for _, g := range games {
		return g, nil
	}
	return api.GameInfo{}, &api.DecodeError{Cause: errors.Errorf("game %d missing from response", id)}
}

// GameDetailsPath returns the details endpoint for ids, e.g.
// /v1/game/1234+5678/info.
func GameDetailsPath(ids []api.GameID) string {
	joined := strings.Join(lo.Map(ids, func(id api.GameID, _ int) string {
		return strconv.FormatUint(id, 10)
	}), "+")
	return fmt.Sprintf(gameDetailsPath, joined)
}
