// Package refresh keeps the in-memory search index current: it loads
// watchlist data from the registered source loaders on a cron schedule,
// merges and normalizes the results, swaps the index snapshot, and
// persists the entity sets so a restarted process can serve immediately
// from cache.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/index"
	"github.com/ternarybob/vigil/internal/interfaces"
	"github.com/ternarybob/vigil/internal/models"
)

// Service drives scheduled watchlist reloads.
type Service struct {
	loaders []interfaces.ListLoader
	idx     *index.Index
	cache   interfaces.EntityCache
	cron    *cron.Cron
	limiter *rate.Limiter
	logger  arbor.ILogger

	mu          sync.Mutex
	running     bool
	refreshing  bool
	lastRefresh time.Time
	lastError   string
}

// NewService creates a refresh service. The cache may be nil, in which
// case snapshots are not persisted across restarts.
func NewService(loaders []interfaces.ListLoader, idx *index.Index, cache interfaces.EntityCache, cfg common.RefreshConfig, logger arbor.ILogger) *Service {
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 2
	}
	return &Service{
		loaders: loaders,
		idx:     idx,
		cache:   cache,
		cron:    cron.New(),
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:  logger,
	}
}

// Start warms the index from the persisted cache, then schedules
// periodic refreshes. A failed initial refresh is logged, not fatal:
// the service keeps serving whatever the cache held.
func (s *Service) Start(ctx context.Context, schedule string) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("refresh service already running")
	}
	s.running = true
	s.mu.Unlock()

	s.warmFromCache()

	if schedule == "" {
		schedule = "0 */12 * * *"
	}
	if _, err := s.cron.AddFunc(schedule, func() {
		if err := s.Refresh(context.Background()); err != nil {
			s.logger.Warn().Err(err).Msg("Scheduled refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to add refresh cron job: %w", err)
	}
	s.cron.Start()

	s.logger.Info().
		Str("schedule", schedule).
		Int("loaders", len(s.loaders)).
		Msg("Refresh service started")

	// Initial load in the background so startup is not blocked on
	// upstream list downloads.
	go func() {
		if err := s.Refresh(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Initial refresh failed; serving cached data")
		}
	}()

	return nil
}

// Stop halts the cron scheduler.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	s.logger.Info().Msg("Refresh service stopped")
}

// Refresh runs one full load cycle: every loader is fetched (rate
// limited), the results are merged and normalized, and the index
// snapshot is replaced. Only runs one cycle at a time.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.refreshing {
		s.mu.Unlock()
		return fmt.Errorf("refresh already in progress")
	}
	s.refreshing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.refreshing = false
		s.mu.Unlock()
	}()

	start := time.Now()
	var all []*models.Entity
	var failed []string

	for _, loader := range s.loaders {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("refresh cancelled: %w", err)
		}

		source := loader.Source()
		entities, err := loader.Load(ctx)
		if err != nil {
			// A failed list keeps its previous cached data.
			s.logger.Warn().Err(err).
				Str("source", string(source)).
				Msg("List load failed, keeping cached entities")
			failed = append(failed, string(source))
			if s.cache != nil {
				cached, _, cerr := s.cache.LoadSnapshot(source)
				if cerr == nil {
					all = append(all, cached...)
				}
			}
			continue
		}

		s.logger.Info().
			Str("source", string(source)).
			Int("entities", len(entities)).
			Msg("List loaded")

		if s.cache != nil {
			if err := s.cache.SaveSnapshot(source, entities, time.Now()); err != nil {
				s.logger.Warn().Err(err).
					Str("source", string(source)).
					Msg("Failed to persist snapshot")
			}
		}
		all = append(all, entities...)
	}

	merged := models.MergeEntities(all)
	for _, e := range merged {
		e.Normalize()
	}
	s.idx.Replace(merged)

	s.mu.Lock()
	s.lastRefresh = time.Now()
	if len(failed) > 0 {
		s.lastError = fmt.Sprintf("failed sources: %v", failed)
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	s.logger.Info().
		Int("entities", len(merged)).
		Str("duration", time.Since(start).Round(time.Millisecond).String()).
		Msg("Index refreshed")

	if len(failed) > 0 {
		return fmt.Errorf("refresh completed with failures: %v", failed)
	}
	return nil
}

// Warm populates the index from persisted snapshots without contacting
// any upstream source.
func (s *Service) Warm() {
	s.warmFromCache()
}

// warmFromCache populates the index from persisted snapshots.
func (s *Service) warmFromCache() {
	if s.cache == nil {
		return
	}
	cached, err := s.cache.LoadAll()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load cached snapshots")
		return
	}
	if len(cached) == 0 {
		return
	}

	merged := models.MergeEntities(cached)
	for _, e := range merged {
		e.Normalize()
	}
	s.idx.Replace(merged)

	s.logger.Info().
		Int("entities", len(merged)).
		Msg("Index warmed from cache")
}

// Status reports refresh state for the status endpoint.
type Status struct {
	Refreshing  bool      `json:"refreshing"`
	LastRefresh time.Time `json:"lastRefresh,omitzero"`
	LastError   string    `json:"lastError,omitempty"`
	IndexSize   int       `json:"indexSize"`
}

// Status returns the current refresh state.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Refreshing:  s.refreshing,
		LastRefresh: s.lastRefresh,
		LastError:   s.lastError,
		IndexSize:   s.idx.Len(),
	}
}
