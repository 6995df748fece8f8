package enrichment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

type RefresherConfig struct {
	OddsURL    string
	WeatherURL string
	DefenseURL string
	Interval   time.Duration
}

// Refresher periodically pulls every configured feed into the store. Each
// source refreshes independently; one failing feed leaves the others and the
// previously stored data untouched.
type Refresher struct {
	client *FeedClient
	store  *Store
	config RefresherConfig
	logger *logrus.Logger

	cron      *cron.Cron
	isRunning bool
	mu        sync.Mutex
}

func NewRefresher(client *FeedClient, store *Store, cfg RefresherConfig, logger *logrus.Logger) *Refresher {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Refresher{
		client: client,
		store:  store,
		config: cfg,
		logger: logger,
		cron:   cron.New(),
	}
}

type feedJob struct {
	source Source
	url    string
	run    func(ctx context.Context) error
}

func (r *Refresher) jobs() []feedJob {
	var jobs []feedJob
	if r.config.OddsURL != "" {
		jobs = append(jobs, feedJob{SourceOdds, r.config.OddsURL, r.RefreshOdds})
	}
	if r.config.WeatherURL != "" {
		jobs = append(jobs, feedJob{SourceWeather, r.config.WeatherURL, r.RefreshWeather})
	}
	if r.config.DefenseURL != "" {
		jobs = append(jobs, feedJob{SourceDefense, r.config.DefenseURL, r.RefreshDefense})
	}
	return jobs
}

// Start schedules each configured feed and kicks off an initial refresh.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("enrichment refresher is already running")
	}

	jobs := r.jobs()
	if len(jobs) == 0 {
		r.logger.Info("No enrichment feeds configured, refresher not started")
		return nil
	}

	spec := fmt.Sprintf("@every %s", r.config.Interval)
	for _, job := range jobs {
		job := job
		if _, err := r.cron.AddFunc(spec, func() { r.runJob(ctx, job) }); err != nil {
			return fmt.Errorf("failed to schedule %s refresh: %w", job.source, err)
		}
		go r.runJob(ctx, job)
	}

	r.cron.Start()
	r.isRunning = true

	r.logger.WithFields(logrus.Fields{
		"feeds":    len(jobs),
		"interval": r.config.Interval.String(),
	}).Info("Enrichment refresher started")
	return nil
}

func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRunning {
		return
	}

	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.isRunning = false
	r.logger.Info("Enrichment refresher stopped")
}

func (r *Refresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRunning
}

// RefreshAll refreshes every configured feed concurrently and returns the
// failures keyed by source.
func (r *Refresher) RefreshAll(ctx context.Context) map[Source]error {
	jobs := r.jobs()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed = make(map[Source]error)
	)
	for _, job := range jobs {
		wg.Add(1)
		go func(job feedJob) {
			defer wg.Done()
			if err := job.run(ctx); err != nil {
				mu.Lock()
				failed[job.source] = err
				mu.Unlock()
			}
		}(job)
	}
	wg.Wait()
	return failed
}

func (r *Refresher) runJob(ctx context.Context, job feedJob) {
	start := time.Now()
	log := r.logger.WithField("feed", job.source)
	if err := job.run(ctx); err != nil {
		log.WithError(err).Warn("Enrichment refresh failed, keeping previous data")
		return
	}
	log.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("Enrichment feed refreshed")
}

func (r *Refresher) RefreshOdds(ctx context.Context) error {
	var odds map[models.GameCode]models.GameOdds
	if err := r.client.Fetch(ctx, SourceOdds, r.config.OddsURL, &odds); err != nil {
		return err
	}
	r.store.SetOdds(odds)
	return nil
}

func (r *Refresher) RefreshWeather(ctx context.Context) error {
	var weather map[models.GameCode]models.Weather
	if err := r.client.Fetch(ctx, SourceWeather, r.config.WeatherURL, &weather); err != nil {
		return err
	}
	r.store.SetWeather(weather)
	return nil
}

func (r *Refresher) RefreshDefense(ctx context.Context) error {
	var rankings map[models.DefenseKey]models.DefenseRanking
	if err := r.client.Fetch(ctx, SourceDefense, r.config.DefenseURL, &rankings); err != nil {
		return err
	}
	r.store.SetDefense(rankings)
	return nil
}
