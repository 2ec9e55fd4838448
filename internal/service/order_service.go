package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"marketplace/internal/auth"
	"marketplace/internal/cache"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID uint
	Quantity  int
}

// OrderInput carries the fields of an order creation request.
type OrderInput struct {
	Items           []OrderItemInput
	ShippingAddress string
	Notes           string
}

// OrderUpdateInput carries the mutable fields of an order.
type OrderUpdateInput struct {
	Status         model.OrderStatus
	TrackingNumber string
}

// OrderService handles order placement and lifecycle.
type OrderService interface {
	Create(ctx context.Context, buyer *model.User, in OrderInput) (*model.Order, error)
	Get(ctx context.Context, buyer *model.User, id uint) (*model.Order, error)
	List(ctx context.Context, buyer *model.User, filter repository.OrderFilter) ([]model.Order, int64, error)
	Update(ctx context.Context, buyer *model.User, id uint, in OrderUpdateInput) (*model.Order, error)
	Cancel(ctx context.Context, buyer *model.User, id uint) (*model.Order, error)
}

type orderService struct {
	orderRepo         repository.OrderRepository
	productRepo       repository.ProductRepository
	notifications     NotificationService
	cache             *cache.Client
	lowStockThreshold int
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	notifications NotificationService,
	cache *cache.Client,
	lowStockThreshold int,
) OrderService {
	return &orderService{
		orderRepo:         orderRepo,
		productRepo:       productRepo,
		notifications:     notifications,
		cache:             cache,
		lowStockThreshold: lowStockThreshold,
	}
}

// newOrderNumber builds a short human-facing order reference.
func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}

// Create places an order: every unit price is snapshotted at call time and
// stock is taken with a conditional decrement inside one transaction, so two
// concurrent orders cannot both take the last units.
func (s *orderService) Create(ctx context.Context, buyer *model.User, in OrderInput) (*model.Order, error) {
	order := &model.Order{
		OrderNumber:     newOrderNumber(),
		Status:          model.OrderStatusPending,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
		BuyerID:         buyer.ID,
	}

	// Collected during the transaction, used for notifications after commit.
	type soldItem struct {
		sellerID  uint
		productID uint
		name      string
		remaining int
	}
	var sold []soldItem

	err := s.orderRepo.WithTransaction(ctx, func(ctx context.Context, tx repository.OrderRepository) error {
		total := decimal.Zero
		items := make([]model.OrderItem, 0, len(in.Items))

		for _, it := range in.Items {
			product, err := s.productRepo.FindByID(ctx, it.ProductID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return apperrors.ErrProductNotFound
				}
				return err
			}
			if product.Stock < it.Quantity {
				return apperrors.ErrInsufficientStock
			}

			affected, err := tx.DecrementStock(ctx, product.ID, it.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if affected == 0 {
				// A concurrent order drained the stock between the read and
				// the decrement.
				return apperrors.ErrInsufficientStock
			}

			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
			items = append(items, model.OrderItem{
				ProductID: product.ID,
				Quantity:  it.Quantity,
				Price:     product.Price,
			})
			sold = append(sold, soldItem{
				sellerID:  product.SellerID,
				productID: product.ID,
				name:      product.Name,
				remaining: product.Stock - it.Quantity,
			})
		}

		order.TotalAmount = total
		order.Items = items
		return tx.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	// Post-commit side effects: fire-and-forget notifications and cache
	// invalidation for the touched products.
	notified := make(map[uint]bool)
	for _, item := range sold {
		_ = s.cache.Delete(ctx, fmt.Sprintf("product:%d", item.productID))
		if !notified[item.sellerID] {
			s.notifications.OrderReceived(ctx, item.sellerID, order.ID, order.OrderNumber)
			notified[item.sellerID] = true
		}
		if item.remaining <= s.lowStockThreshold {
			s.notifications.LowStock(ctx, item.sellerID, item.productID, item.name, item.remaining)
		}
	}

	return order, nil
}

// Get returns the buyer's order. Orders are buyer-scoped: anyone else gets a
// permission error.
func (s *orderService) Get(ctx context.Context, buyer *model.User, id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}
	if !auth.OwnsOrder(buyer, order) {
		return nil, apperrors.ErrForbidden
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context, buyer *model.User, filter repository.OrderFilter) ([]model.Order, int64, error) {
	return s.orderRepo.FindByBuyer(ctx, buyer.ID, filter)
}

// Update applies a status change and/or tracking number. Status changes are
// validated against the order state machine and written with a guard on the
// current status, so a concurrent transition loses cleanly.
func (s *orderService) Update(ctx context.Context, buyer *model.User, id uint, in OrderUpdateInput) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}
	if !auth.OwnsOrder(buyer, order) {
		return nil, apperrors.ErrForbidden
	}

	if in.Status != "" && in.Status != order.Status {
		if !model.CanTransition(order.Status, in.Status) {
			return nil, apperrors.ErrInvalidStatusTransition
		}
		affected, err := s.orderRepo.UpdateStatusGuard(ctx, order.ID, order.Status, in.Status)
		if err != nil {
			return nil, fmt.Errorf("update status: %w", err)
		}
		if affected == 0 {
			return nil, apperrors.ErrInvalidStatusTransition
		}
		order.Status = in.Status
		s.notifications.OrderStatusChanged(ctx, order.BuyerID, order.ID, order.OrderNumber, in.Status)
	}

	if in.TrackingNumber != "" {
		// Column-scoped write: a full-row save here would put the status read
		// at FindByID back over a concurrent guarded transition.
		if err := s.orderRepo.UpdateTrackingNumber(ctx, order.ID, in.TrackingNumber); err != nil {
			return nil, fmt.Errorf("update tracking number: %w", err)
		}
		order.TrackingNumber = in.TrackingNumber
	}

	return order, nil
}

// Cancel is the exact inverse of Create's stock effect: it moves a pending
// order to cancelled and restores every item's stock in one transaction.
func (s *orderService) Cancel(ctx context.Context, buyer *model.User, id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}
	if !auth.OwnsOrder(buyer, order) {
		return nil, apperrors.ErrForbidden
	}
	if order.Status != model.OrderStatusPending {
		return nil, apperrors.ErrOrderNotCancellable
	}

	err = s.orderRepo.WithTransaction(ctx, func(ctx context.Context, tx repository.OrderRepository) error {
		affected, err := tx.UpdateStatusGuard(ctx, order.ID, model.OrderStatusPending, model.OrderStatusCancelled)
		if err != nil {
			return fmt.Errorf("cancel order: %w", err)
		}
		if affected == 0 {
			return apperrors.ErrOrderNotCancellable
		}
		for _, item := range order.Items {
			if err := tx.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = model.OrderStatusCancelled
	for _, item := range order.Items {
		_ = s.cache.Delete(ctx, fmt.Sprintf("product:%d", item.ProductID))
	}
	s.notifications.OrderStatusChanged(ctx, order.BuyerID, order.ID, order.OrderNumber, model.OrderStatusCancelled)

	return order, nil
}
