package worker

import (
	"context"
	"sync"
	"time"

	"warehouse-service/internal/broker"
	"warehouse-service/internal/models"
	"warehouse-service/internal/util"

	"go.uber.org/zap"
)

// StatsRefresher recomputes the dashboard. Implemented by
// *service.ReportingService.
type StatsRefresher interface {
	Refresh(ctx context.Context) models.DashboardStats
}

// StatsWorker keeps the dashboard gauges current by recomputing them whenever
// an entity changes. Events arriving within minInterval of the last refresh
// share one trailing refresh, fired once the interval has elapsed.
type StatsWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	refresher    StatsRefresher
	minInterval  time.Duration
	logger       *zap.Logger

	mu          sync.Mutex
	ctx         context.Context
	lastRefresh time.Time
	trailing    *time.Timer
}

// NewStatsWorker creates a new stats worker
func NewStatsWorker(consumer *broker.Consumer, refresher StatsRefresher, minInterval time.Duration) *StatsWorker {
	w := &StatsWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		refresher:    refresher,
		minInterval:  minInterval,
		logger:       util.GetLogger(),
		ctx:          context.Background(),
	}
	w.eventHandler.OnEntityEvent(w.HandleEntityEvent)
	return w
}

// Start refreshes once and then consumes until ctx is cancelled
func (w *StatsWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting stats worker")
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()

	w.refresh(ctx, time.Now())
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *StatsWorker) Stop() error {
	w.logger.Info("Stopping stats worker")
	w.mu.Lock()
	if w.trailing != nil {
		w.trailing.Stop()
		w.trailing = nil
	}
	w.mu.Unlock()
	return w.consumer.Close()
}

// HandleEntityEvent refreshes the dashboard for one change notification, or
// schedules the trailing refresh when one ran less than minInterval ago
func (w *StatsWorker) HandleEntityEvent(ctx context.Context, event *models.EntityEvent) error {
	util.EventsConsumedTotal.WithLabelValues(event.Entity).Inc()

	now := time.Now()
	w.mu.Lock()
	since := now.Sub(w.lastRefresh)
	if since < w.minInterval {
		if w.trailing == nil {
			w.trailing = time.AfterFunc(w.minInterval-since, w.refreshTrailing)
		}
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	w.logger.Debug("Refreshing dashboard",
		zap.String("entity", event.Entity),
		zap.String("entity_id", event.EntityID),
		zap.String("event_type", event.EventType))
	w.refresh(ctx, now)
	return nil
}

func (w *StatsWorker) refreshTrailing() {
	w.mu.Lock()
	w.trailing = nil
	ctx := w.ctx
	w.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	w.logger.Debug("Refreshing dashboard after burst")
	w.refresh(ctx, time.Now())
}

func (w *StatsWorker) refresh(ctx context.Context, now time.Time) {
	w.mu.Lock()
	w.lastRefresh = now
	w.mu.Unlock()
	w.refresher.Refresh(ctx)
}
