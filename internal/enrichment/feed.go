package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/stitts-dev/dfs-lineup-builder/internal/services"
)

// Cache is the subset of the cache service the feed client needs.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// FetchObserver receives one call per fetch attempt.
type FetchObserver interface {
	RecordFeedFetch(feed string, err error)
}

type FeedClientConfig struct {
	Timeout        time.Duration
	RatePerSecond  float64
	FailureTrip    int // consecutive failures before the breaker opens
	BreakerTimeout time.Duration
	CacheTTL       time.Duration
}

// FeedClient fetches JSON enrichment feeds behind a rate limiter, a circuit
// breaker and an optional cache.
type FeedClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	cache      Cache
	cacheTTL   time.Duration
	observer   FetchObserver
	logger     *logrus.Logger
}

func NewFeedClient(cfg FeedClientConfig, cache Cache, observer FetchObserver, logger *logrus.Logger) *FeedClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 1
	}
	if cfg.FailureTrip <= 0 {
		cfg.FailureTrip = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = time.Minute
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	trip := uint32(cfg.FailureTrip)
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "enrichment-feeds",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= trip
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker":    name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Warn("Enrichment feed circuit breaker state changed")
		},
	})

	return &FeedClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		breaker:    breaker,
		cache:      cache,
		cacheTTL:   cfg.CacheTTL,
		observer:   observer,
		logger:     logger,
	}
}

// Fetch decodes the JSON document at url into dest, serving from cache when
// possible.
func (c *FeedClient) Fetch(ctx context.Context, source Source, url string, dest interface{}) error {
	key := services.FeedCacheKey(string(source), url)
	if c.cache != nil {
		if err := c.cache.Get(ctx, key, dest); err == nil {
			c.logger.WithField("feed", source).Debug("Enrichment feed served from cache")
			return nil
		}
	}

	err := c.fetch(ctx, url, dest)
	if c.observer != nil {
		c.observer.RecordFeedFetch(string(source), err)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch %s feed: %w", source, err)
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, key, dest, c.cacheTTL); err != nil {
			c.logger.WithError(err).WithField("feed", source).Warn("Failed to cache enrichment feed")
		}
	}
	return nil
}

func (c *FeedClient) fetch(ctx context.Context, url string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body.([]byte), dest); err != nil {
		return fmt.Errorf("failed to decode feed: %w", err)
	}
	return nil
}

// BreakerOpen reports whether the circuit breaker is rejecting requests.
func (c *FeedClient) BreakerOpen() bool {
	return c.breaker.State() == gobreaker.StateOpen
}

// IsBreakerError reports errors caused by the breaker rather than the feed.
func IsBreakerError(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
