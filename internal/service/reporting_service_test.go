package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFulfillmentRate(t *testing.T) {
	tests := []struct {
		name      string
		fulfilled int
		total     int
		want      float64
	}{
		{"no orders", 0, 0, 0},
		{"three of ten", 3, 10, 30},
		{"one of three", 1, 3, 33.33},
		{"two of three", 2, 3, 66.67},
		{"all", 4, 4, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fulfillmentRate(tt.fulfilled, tt.total))
		})
	}
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.supplier(t, "S1")
	f.supplier(t, "S2")
	f.product(t, "P1", "S1")
	f.warehouse(t, "W1")

	fulfilled := true
	for i := 0; i < 10; i++ {
		order, _, err := f.orders.Create(ctx, orderRequest(t), "")
		require.NoError(t, err)
		if i < 3 {
			req := orderRequest(t)
			req.Fulfilled = &fulfilled
			_, err = f.orders.Update(ctx, order.ID, req)
			require.NoError(t, err)
		}
	}

	stats := f.reporting.DashboardStats(ctx)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 2, stats.TotalSuppliers)
	assert.Equal(t, 1, stats.TotalWarehouses)
	assert.Equal(t, 10, stats.TotalOrders)
	assert.Equal(t, 7, stats.ActiveOrders)
	assert.Equal(t, 30.0, stats.FulfillmentRate)
}

func TestDashboardStatsEmpty(t *testing.T) {
	f := newFixture(t)

	stats := f.reporting.Refresh(context.Background())
	assert.Zero(t, stats.TotalOrders)
	assert.Equal(t, 0.0, stats.FulfillmentRate)
}

func TestDashboardStatsFailSoft(t *testing.T) {
	f := newFixture(t)
	f.supplier(t, "S1")
	f.product(t, "P1", "S1")
	f.warehouse(t, "W1")
	f.db.FailOn("CountProducts", errors.New("relation does not exist"))
	f.db.FailOn("CountOrders", errors.New("timeout"))

	stats := f.reporting.DashboardStats(context.Background())
	assert.Zero(t, stats.TotalProducts)
	assert.Zero(t, stats.TotalOrders)
	assert.Zero(t, stats.FulfillmentRate)
	assert.Equal(t, 1, stats.TotalSuppliers)
	assert.Equal(t, 1, stats.TotalWarehouses)
}
