package service

import (
	"context"
	"sync"

	"warehouse-service/internal/models"
	"warehouse-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportingService aggregates dashboard figures
type ReportingService struct {
	repo   StatsRepository
	logger *zap.Logger
}

// NewReportingService creates a new reporting service
func NewReportingService(repo StatsRepository) *ReportingService {
	return &ReportingService{
		repo:   repo,
		logger: util.GetLogger(),
	}
}

// DashboardStats counts every entity concurrently. A failing count is logged
// and reported as 0; the call itself never fails.
func (s *ReportingService) DashboardStats(ctx context.Context) models.DashboardStats {
	ctx, span := util.StartSpan(ctx, "ReportingService.DashboardStats")
	defer span.End()

	var (
		stats     models.DashboardStats
		fulfilled int
		wg        sync.WaitGroup
	)

	pending, done := false, true
	counts := []struct {
		name  string
		dst   *int
		count func(context.Context) (int, error)
	}{
		{"products", &stats.TotalProducts, s.repo.CountProducts},
		{"suppliers", &stats.TotalSuppliers, s.repo.CountSuppliers},
		{"warehouses", &stats.TotalWarehouses, s.repo.CountWarehouses},
		{"orders", &stats.TotalOrders, func(ctx context.Context) (int, error) {
			return s.repo.CountOrders(ctx, nil)
		}},
		{"active_orders", &stats.ActiveOrders, func(ctx context.Context) (int, error) {
			return s.repo.CountOrders(ctx, &pending)
		}},
		{"fulfilled_orders", &fulfilled, func(ctx context.Context) (int, error) {
			return s.repo.CountOrders(ctx, &done)
		}},
	}

	for _, c := range counts {
		wg.Add(1)
		go func(name string, dst *int, count func(context.Context) (int, error)) {
			defer wg.Done()
			*dst = s.safeCount(ctx, name, count)
		}(c.name, c.dst, c.count)
	}
	wg.Wait()

	stats.FulfillmentRate = fulfillmentRate(fulfilled, stats.TotalOrders)
	return stats
}

// Refresh recomputes the dashboard and publishes it as gauges
func (s *ReportingService) Refresh(ctx context.Context) models.DashboardStats {
	stats := s.DashboardStats(ctx)

	util.DashboardStat.WithLabelValues("total_products").Set(float64(stats.TotalProducts))
	util.DashboardStat.WithLabelValues("active_orders").Set(float64(stats.ActiveOrders))
	util.DashboardStat.WithLabelValues("total_orders").Set(float64(stats.TotalOrders))
	util.DashboardStat.WithLabelValues("total_suppliers").Set(float64(stats.TotalSuppliers))
	util.DashboardStat.WithLabelValues("total_warehouses").Set(float64(stats.TotalWarehouses))
	util.DashboardStat.WithLabelValues("fulfillment_rate").Set(stats.FulfillmentRate)
	util.StatsRefreshTotal.Inc()

	return stats
}

func (s *ReportingService) safeCount(ctx context.Context, name string, count func(context.Context) (int, error)) int {
	n, err := count(ctx)
	if err != nil {
		util.DashboardCountFailuresTotal.WithLabelValues(name).Inc()
		s.logger.Warn("Dashboard count failed, reporting 0",
			zap.String("count", name),
			zap.Error(err))
		return 0
	}
	return n
}

// fulfillmentRate is the percentage of fulfilled orders rounded to two
// decimals, 0 when there are no orders.
func fulfillmentRate(fulfilled, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(fulfilled)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
	f, _ := rate.Float64()
	return f
}
