package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

const topProductsLimit = 5

// SalesReport aggregates a seller's performance over one period, with growth
// measured against the immediately preceding period of the same length.
type SalesReport struct {
	Period             string                     `json:"period"`
	StartDate          time.Time                  `json:"start_date"`
	EndDate            time.Time                  `json:"end_date"`
	TotalRevenue       decimal.Decimal            `json:"total_revenue"`
	TotalOrders        int64                      `json:"total_orders"`
	AverageOrderValue  decimal.Decimal            `json:"average_order_value"`
	RevenueGrowth      decimal.Decimal            `json:"revenue_growth"`
	DailySales         []repository.DailySale     `json:"daily_sales"`
	OrdersByStatus     []repository.StatusCount   `json:"orders_by_status"`
	TopProducts        []repository.TopProduct    `json:"top_products"`
	ProductsByCategory []repository.CategoryCount `json:"products_by_category"`
}

// AnalyticsService builds seller dashboards.
type AnalyticsService interface {
	SalesReport(ctx context.Context, seller *model.User, period string) (*SalesReport, error)
}

type analyticsService struct {
	repo repository.AnalyticsRepository
	now  func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(repo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{repo: repo, now: time.Now}
}

// periodWindow maps a period name to its [start, end] window ending now.
func periodWindow(period string, now time.Time) (start, end time.Time, err error) {
	end = now
	switch period {
	case "week":
		start = now.AddDate(0, 0, -7)
	case "month":
		start = now.AddDate(0, -1, 0)
	case "year":
		start = now.AddDate(-1, 0, 0)
	default:
		return time.Time{}, time.Time{}, apperrors.ErrInvalidTimeRange
	}
	return start, end, nil
}

func (s *analyticsService) SalesReport(ctx context.Context, seller *model.User, period string) (*SalesReport, error) {
	if period == "" {
		period = "month"
	}
	start, end, err := periodWindow(period, s.now())
	if err != nil {
		return nil, err
	}

	revenue, err := s.repo.TotalRevenue(ctx, seller.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("total revenue: %w", err)
	}
	orders, err := s.repo.OrderCount(ctx, seller.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("order count: %w", err)
	}
	daily, err := s.repo.DailySales(ctx, seller.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	byStatus, err := s.repo.OrdersByStatus(ctx, seller.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("orders by status: %w", err)
	}
	top, err := s.repo.TopProducts(ctx, seller.ID, start, end, topProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	byCategory, err := s.repo.ProductCountByCategory(ctx, seller.ID)
	if err != nil {
		return nil, fmt.Errorf("products by category: %w", err)
	}

	// Growth compares against the window of the same length just before start.
	prevStart := start.Add(-end.Sub(start))
	prevRevenue, err := s.repo.TotalRevenue(ctx, seller.ID, prevStart, start)
	if err != nil {
		return nil, fmt.Errorf("previous revenue: %w", err)
	}

	growth := decimal.Zero
	if prevRevenue.IsPositive() {
		growth = revenue.Sub(prevRevenue).Div(prevRevenue).Mul(decimal.NewFromInt(100)).Round(2)
	}

	avgOrder := decimal.Zero
	if orders > 0 {
		avgOrder = revenue.Div(decimal.NewFromInt(orders)).Round(2)
	}

	return &SalesReport{
		Period:             period,
		StartDate:          start,
		EndDate:            end,
		TotalRevenue:       revenue,
		TotalOrders:        orders,
		AverageOrderValue:  avgOrder,
		RevenueGrowth:      growth,
		DailySales:         daily,
		OrdersByStatus:     byStatus,
		TopProducts:        top,
		ProductsByCategory: byCategory,
	}, nil
}
