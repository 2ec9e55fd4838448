package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailySale is one point of the per-day revenue series.
type DailySale struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Orders int64           `json:"orders"`
}

// CategoryCount is the number of a seller's products in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// StatusCount is the number of orders holding one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// TopProduct is one entry of the top-sellers list.
type TopProduct struct {
	Name    string          `json:"name"`
	Sales   int64           `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
}

// AnalyticsRepository runs read-only aggregate queries scoped to one
// seller's products within a time window.
type AnalyticsRepository interface {
	DailySales(ctx context.Context, sellerID uint, start, end time.Time) ([]DailySale, error)
	ProductCountByCategory(ctx context.Context, sellerID uint) ([]CategoryCount, error)
	TotalRevenue(ctx context.Context, sellerID uint, start, end time.Time) (decimal.Decimal, error)
	OrderCount(ctx context.Context, sellerID uint, start, end time.Time) (int64, error)
	OrdersByStatus(ctx context.Context, sellerID uint, start, end time.Time) ([]StatusCount, error)
	TopProducts(ctx context.Context, sellerID uint, start, end time.Time, limit int) ([]TopProduct, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository.
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) DailySales(ctx context.Context, sellerID uint, start, end time.Time) ([]DailySale, error) {
	var sales []DailySale
	err := r.db.WithContext(ctx).Raw(`
		SELECT DATE(o.created_at) AS date,
		       COALESCE(SUM(oi.price * oi.quantity), 0) AS amount,
		       COUNT(DISTINCT o.id) AS orders
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		WHERE p.seller_id = ? AND o.created_at BETWEEN ? AND ?
		GROUP BY DATE(o.created_at)
		ORDER BY DATE(o.created_at)`,
		sellerID, start, end).Scan(&sales).Error
	return sales, err
}

func (r *analyticsRepository) ProductCountByCategory(ctx context.Context, sellerID uint) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.name AS category, COUNT(p.id) AS count
		FROM categories c
		JOIN product_categories pc ON pc.category_id = c.id
		JOIN products p ON p.id = pc.product_id
		WHERE p.seller_id = ?
		GROUP BY c.name`,
		sellerID).Scan(&counts).Error
	return counts, err
}

func (r *analyticsRepository) TotalRevenue(ctx context.Context, sellerID uint, start, end time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(oi.price * oi.quantity), 0) AS total
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE p.seller_id = ? AND o.created_at BETWEEN ? AND ?`,
		sellerID, start, end).Scan(&result).Error
	return result.Total, err
}

func (r *analyticsRepository) OrderCount(ctx context.Context, sellerID uint, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT o.id)
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		WHERE p.seller_id = ? AND o.created_at BETWEEN ? AND ?`,
		sellerID, start, end).Scan(&count).Error
	return count, err
}

func (r *analyticsRepository) OrdersByStatus(ctx context.Context, sellerID uint, start, end time.Time) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT o.status AS status, COUNT(DISTINCT o.id) AS count
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		WHERE p.seller_id = ? AND o.created_at BETWEEN ? AND ?
		GROUP BY o.status`,
		sellerID, start, end).Scan(&counts).Error
	return counts, err
}

func (r *analyticsRepository) TopProducts(ctx context.Context, sellerID uint, start, end time.Time, limit int) ([]TopProduct, error) {
	var products []TopProduct
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.name AS name,
		       SUM(oi.quantity) AS sales,
		       SUM(oi.price * oi.quantity) AS revenue
		FROM products p
		JOIN order_items oi ON oi.product_id = p.id
		JOIN orders o ON o.id = oi.order_id
		WHERE p.seller_id = ? AND o.created_at BETWEEN ? AND ?
		GROUP BY p.name
		ORDER BY SUM(oi.quantity) DESC
		LIMIT ?`,
		sellerID, start, end, limit).Scan(&products).Error
	return products, err
}
