package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

func analyticsServiceWithRepo(repo repository.AnalyticsRepository) *analyticsService {
	return &analyticsService{
		repo: repo,
		now:  func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) },
	}
}

func setupAnalyticsMock(m *MockAnalyticsRepository, revenue, prevRevenue string, orders int64) {
	m.On("TotalRevenue", mock.Anything, uint(2), mock.Anything, mock.Anything).
		Return(decimal.RequireFromString(revenue), nil).Once()
	m.On("OrderCount", mock.Anything, uint(2), mock.Anything, mock.Anything).Return(orders, nil)
	m.On("DailySales", mock.Anything, uint(2), mock.Anything, mock.Anything).Return([]repository.DailySale{}, nil)
	m.On("OrdersByStatus", mock.Anything, uint(2), mock.Anything, mock.Anything).Return([]repository.StatusCount{}, nil)
	m.On("TopProducts", mock.Anything, uint(2), mock.Anything, mock.Anything, topProductsLimit).Return([]repository.TopProduct{}, nil)
	m.On("ProductCountByCategory", mock.Anything, uint(2)).Return([]repository.CategoryCount{}, nil)
	// Second TotalRevenue call covers the preceding window.
	m.On("TotalRevenue", mock.Anything, uint(2), mock.Anything, mock.Anything).
		Return(decimal.RequireFromString(prevRevenue), nil).Once()
}

func TestAnalyticsService_SalesReport(t *testing.T) {
	seller := &model.User{ID: 2, Role: model.RoleSeller}

	t.Run("computes growth and average order value", func(t *testing.T) {
		repo := new(MockAnalyticsRepository)
		setupAnalyticsMock(repo, "300.00", "200.00", 4)

		report, err := analyticsServiceWithRepo(repo).SalesReport(context.Background(), seller, "month")

		assert.NoError(t, err)
		assert.Equal(t, "month", report.Period)
		assert.Equal(t, int64(4), report.TotalOrders)
		assert.True(t, report.RevenueGrowth.Equal(decimal.RequireFromString("50")))
		assert.True(t, report.AverageOrderValue.Equal(decimal.RequireFromString("75")))
	})

	t.Run("zero previous revenue yields zero growth", func(t *testing.T) {
		repo := new(MockAnalyticsRepository)
		setupAnalyticsMock(repo, "300.00", "0", 4)

		report, err := analyticsServiceWithRepo(repo).SalesReport(context.Background(), seller, "week")

		assert.NoError(t, err)
		assert.True(t, report.RevenueGrowth.IsZero())
	})

	t.Run("zero orders yields zero average", func(t *testing.T) {
		repo := new(MockAnalyticsRepository)
		setupAnalyticsMock(repo, "0", "0", 0)

		report, err := analyticsServiceWithRepo(repo).SalesReport(context.Background(), seller, "year")

		assert.NoError(t, err)
		assert.True(t, report.AverageOrderValue.IsZero())
	})

	t.Run("empty period defaults to month", func(t *testing.T) {
		repo := new(MockAnalyticsRepository)
		setupAnalyticsMock(repo, "10.00", "10.00", 1)

		report, err := analyticsServiceWithRepo(repo).SalesReport(context.Background(), seller, "")

		assert.NoError(t, err)
		assert.Equal(t, "month", report.Period)
	})

	t.Run("unknown period is rejected", func(t *testing.T) {
		repo := new(MockAnalyticsRepository)

		_, err := analyticsServiceWithRepo(repo).SalesReport(context.Background(), seller, "decade")

		assert.Equal(t, apperrors.ErrInvalidTimeRange, err)
		repo.AssertNotCalled(t, "TotalRevenue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPeriodWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period        string
		expectedStart time.Time
	}{
		{"week", now.AddDate(0, 0, -7)},
		{"month", now.AddDate(0, -1, 0)},
		{"year", now.AddDate(-1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			start, end, err := periodWindow(tt.period, now)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStart, start)
			assert.Equal(t, now, end)
		})
	}
}
