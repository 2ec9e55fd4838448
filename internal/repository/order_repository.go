package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"marketplace/internal/model"
)

// OrderFilter holds the optional filters of a buyer's order listing.
type OrderFilter struct {
	Status    model.OrderStatus
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PerPage   int
}

// OrderRepository defines order persistence operations. Stock mutators live
// here so order creation and cancellation can run them inside the same
// transaction as the order write.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	// UpdateTrackingNumber writes only the tracking_number column, so it can
	// never clobber a status written by a concurrent guarded transition.
	UpdateTrackingNumber(ctx context.Context, orderID uint, trackingNumber string) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	FindByBuyer(ctx context.Context, buyerID uint, filter OrderFilter) ([]model.Order, int64, error)
	// UpdateStatusGuard moves the order from one status to another only if it
	// still holds the expected current status; the affected-row count tells
	// the caller whether the transition won.
	UpdateStatusGuard(ctx context.Context, orderID uint, from, to model.OrderStatus) (int64, error)
	// DecrementStock performs the conditional decrement
	// `stock = stock - qty WHERE stock >= qty`; zero affected rows means the
	// stock was depleted by a concurrent order.
	DecrementStock(ctx context.Context, productID uint, quantity int) (int64, error)
	RestoreStock(ctx context.Context, productID uint, quantity int) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo OrderRepository) error) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) UpdateTrackingNumber(ctx context.Context, orderID uint, trackingNumber string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("tracking_number", trackingNumber).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByBuyer(ctx context.Context, buyerID uint, filter OrderFilter) ([]model.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{}).Where("buyer_id = ?", buyerID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 20
	}

	var orders []model.Order
	if err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) UpdateStatusGuard(ctx context.Context, orderID uint, from, to model.OrderStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *orderRepository) DecrementStock(ctx context.Context, productID uint, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	return res.RowsAffected, res.Error
}

func (r *orderRepository) RestoreStock(ctx context.Context, productID uint, quantity int) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", quantity)).Error
}

// WithTransaction executes a function within a database transaction.
func (r *orderRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo OrderRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &orderRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
