package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
)

func orderTestBuyer() *model.User {
	return &model.User{ID: 1, Email: "buyer@example.com", Role: model.RoleBuyer, IsActive: true}
}

func TestOrderService_Create(t *testing.T) {
	buyer := orderTestBuyer()
	product := &model.Product{
		ID:       10,
		Name:     "Headphones",
		Price:    decimal.RequireFromString("199.99"),
		Stock:    5,
		SellerID: 2,
	}

	t.Run("snapshots price and decrements stock", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		notifications := new(MockNotificationService)

		productRepo.On("FindByID", mock.Anything, uint(10)).Return(product, nil)
		orderRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		orderRepo.On("DecrementStock", mock.Anything, uint(10), 2).Return(int64(1), nil)
		orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)
		notifications.On("OrderReceived", mock.Anything, uint(2), mock.Anything, mock.Anything).Return()

		service := NewOrderService(orderRepo, productRepo, notifications, nil, 0)
		order, err := service.Create(context.Background(), buyer, OrderInput{
			Items:           []OrderItemInput{{ProductID: 10, Quantity: 2}},
			ShippingAddress: "1 Main St",
		})

		assert.NoError(t, err)
		assert.Equal(t, model.OrderStatusPending, order.Status)
		assert.Equal(t, uint(1), order.BuyerID)
		assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("399.98")))
		assert.Len(t, order.Items, 1)
		assert.True(t, order.Items[0].Price.Equal(product.Price))
		assert.Contains(t, order.OrderNumber, "ORD-")

		orderRepo.AssertExpectations(t)
		notifications.AssertExpectations(t)
	})

	t.Run("insufficient stock fails before decrement", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		notifications := new(MockNotificationService)

		productRepo.On("FindByID", mock.Anything, uint(10)).Return(product, nil)
		orderRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)

		service := NewOrderService(orderRepo, productRepo, notifications, nil, 0)
		order, err := service.Create(context.Background(), buyer, OrderInput{
			Items: []OrderItemInput{{ProductID: 10, Quantity: 6}},
		})

		assert.Equal(t, apperrors.ErrInsufficientStock, err)
		assert.Nil(t, order)
		orderRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
		notifications.AssertNotCalled(t, "OrderReceived", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent depletion loses the conditional decrement", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		notifications := new(MockNotificationService)

		productRepo.On("FindByID", mock.Anything, uint(10)).Return(product, nil)
		orderRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		orderRepo.On("DecrementStock", mock.Anything, uint(10), 2).Return(int64(0), nil)

		service := NewOrderService(orderRepo, productRepo, notifications, nil, 0)
		_, err := service.Create(context.Background(), buyer, OrderInput{
			Items: []OrderItemInput{{ProductID: 10, Quantity: 2}},
		})

		assert.Equal(t, apperrors.ErrInsufficientStock, err)
		orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)

		productRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
		orderRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)

		service := NewOrderService(orderRepo, productRepo, new(MockNotificationService), nil, 0)
		_, err := service.Create(context.Background(), buyer, OrderInput{
			Items: []OrderItemInput{{ProductID: 99, Quantity: 1}},
		})

		assert.Equal(t, apperrors.ErrProductNotFound, err)
	})

	t.Run("low stock notification below threshold", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		notifications := new(MockNotificationService)

		productRepo.On("FindByID", mock.Anything, uint(10)).Return(product, nil)
		orderRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		orderRepo.On("DecrementStock", mock.Anything, uint(10), 3).Return(int64(1), nil)
		orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)
		notifications.On("OrderReceived", mock.Anything, uint(2), mock.Anything, mock.Anything).Return()
		notifications.On("LowStock", mock.Anything, uint(2), uint(10), "Headphones", 2).Return()

		service := NewOrderService(orderRepo, productRepo, notifications, nil, 3)
		_, err := service.Create(context.Background(), buyer, OrderInput{
			Items: []OrderItemInput{{ProductID: 10, Quantity: 3}},
		})

		assert.NoError(t, err)
		notifications.AssertExpectations(t)
	})
}

func TestOrderService_Get(t *testing.T) {
	buyer := orderTestBuyer()

	t.Run("foreign order is forbidden", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.Order{ID: 5, BuyerID: 42}, nil)

		service := NewOrderService(orderRepo, new(MockProductRepository), new(MockNotificationService), nil, 0)
		_, err := service.Get(context.Background(), buyer, 5)

		assert.Equal(t, apperrors.ErrForbidden, err)
	})

	t.Run("missing order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindByID", mock.Anything, uint(5)).Return(nil, gorm.ErrRecordNotFound)

		service := NewOrderService(orderRepo, new(MockProductRepository), new(MockNotificationService), nil, 0)
		_, err := service.Get(context.Background(), buyer, 5)

		assert.Equal(t, apperrors.ErrOrderNotFound, err)
	})
}

func TestOrderService_Update(t *testing.T) {
	buyer := orderTestBuyer()

	t.Run("valid transition notifies the buyer", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		notifications := new(MockNotificationService)

		orderRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.Order{
			ID: 5, BuyerID: 1, OrderNumber: "ORD-ABC12345", Status: model.OrderStatusPending,
		}, nil)
		orderRepo.On("UpdateStatusGuard", mock.Anything, uint(5), model.OrderStatusPending, model.OrderStatusPaid).Return(int64(1), nil)
		notifications.On("OrderStatusChanged", mock.Anything, uint(1), uint(5), "ORD-ABC12345", model.OrderStatusPaid).Return()

		service := NewOrderService(orderRepo, new(MockProductRepository), notifications, nil, 0)
		order, err := service.Update(context.Background(), buyer, 5, OrderUpdateInput{Status: model.OrderStatusPaid})

		assert.NoError(t, err)
		assert.Equal(t, model.OrderStatusPaid, order.Status)
		notifications.AssertExpectations(t)
	})

	t.Run("illegal transition", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.Order{
			ID: 5, BuyerID: 1, Status: model.OrderStatusDelivered,
		}, nil)

		service := NewOrderService(orderRepo, new(MockProductRepository), new(MockNotificationService), nil, 0)
		_, err := service.Update(context.Background(), buyer, 5, OrderUpdateInput{Status: model.OrderStatusPaid})

		assert.Equal(t, apperrors.ErrInvalidStatusTransition, err)
		orderRepo.AssertNotCalled(t, "UpdateStatusGuard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("tracking-only update never writes the status column", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		notifications := new(MockNotificationService)

		orderRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.Order{
			ID: 5, BuyerID: 1, Status: model.OrderStatusPending,
		}, nil)
		orderRepo.On("UpdateTrackingNumber", mock.Anything, uint(5), "TRK-123").Return(nil)

		service := NewOrderService(orderRepo, new(MockProductRepository), notifications, nil, 0)
		order, err := service.Update(context.Background(), buyer, 5, OrderUpdateInput{TrackingNumber: "TRK-123"})

		assert.NoError(t, err)
		assert.Equal(t, "TRK-123", order.TrackingNumber)
		assert.Equal(t, model.OrderStatusPending, order.Status)
		// A concurrent guarded transition must stay untouched, so the only
		// write is the column-scoped tracking update.
		orderRepo.AssertNotCalled(t, "UpdateStatusGuard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		notifications.AssertNotCalled(t, "OrderStatusChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		orderRepo.AssertExpectations(t)
	})

	t.Run("status and tracking update together", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		notifications := new(MockNotificationService)

		orderRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.Order{
			ID: 5, BuyerID: 1, OrderNumber: "ORD-ABC12345", Status: model.OrderStatusPaid,
		}, nil)
		orderRepo.On("UpdateStatusGuard", mock.Anything, uint(5), model.OrderStatusPaid, model.OrderStatusShipped).Return(int64(1), nil)
		orderRepo.On("UpdateTrackingNumber", mock.Anything, uint(5), "TRK-123").Return(nil)
		notifications.On("OrderStatusChanged", mock.Anything, uint(1), uint(5), "ORD-ABC12345", model.OrderStatusShipped).Return()

		service := NewOrderService(orderRepo, new(MockProductRepository), notifications, nil, 0)
		order, err := service.Update(context.Background(), buyer, 5, OrderUpdateInput{
			Status:         model.OrderStatusShipped,
			TrackingNumber: "TRK-123",
		})

		assert.NoError(t, err)
		assert.Equal(t, model.OrderStatusShipped, order.Status)
		assert.Equal(t, "TRK-123", order.TrackingNumber)
		orderRepo.AssertExpectations(t)
	})

	t.Run("guard loses to a concurrent transition", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.Order{
			ID: 5, BuyerID: 1, Status: model.OrderStatusPending,
		}, nil)
		orderRepo.On("UpdateStatusGuard", mock.Anything, uint(5), model.OrderStatusPending, model.OrderStatusPaid).Return(int64(0), nil)

		service := NewOrderService(orderRepo, new(MockProductRepository), new(MockNotificationService), nil, 0)
		_, err := service.Update(context.Background(), buyer, 5, OrderUpdateInput{Status: model.OrderStatusPaid})

		assert.Equal(t, apperrors.ErrInvalidStatusTransition, err)
	})
}

func TestOrderService_Cancel(t *testing.T) {
	buyer := orderTestBuyer()
	pendingOrder := func() *model.Order {
		return &model.Order{
			ID:          5,
			BuyerID:     1,
			OrderNumber: "ORD-ABC12345",
			Status:      model.OrderStatusPending,
			Items: []model.OrderItem{
				{ProductID: 10, Quantity: 2},
				{ProductID: 11, Quantity: 1},
			},
		}
	}

	t.Run("restores every item's stock", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		notifications := new(MockNotificationService)

		orderRepo.On("FindByID", mock.Anything, uint(5)).Return(pendingOrder(), nil)
		orderRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		orderRepo.On("UpdateStatusGuard", mock.Anything, uint(5), model.OrderStatusPending, model.OrderStatusCancelled).Return(int64(1), nil)
		orderRepo.On("RestoreStock", mock.Anything, uint(10), 2).Return(nil)
		orderRepo.On("RestoreStock", mock.Anything, uint(11), 1).Return(nil)
		notifications.On("OrderStatusChanged", mock.Anything, uint(1), uint(5), "ORD-ABC12345", model.OrderStatusCancelled).Return()

		service := NewOrderService(orderRepo, new(MockProductRepository), notifications, nil, 0)
		order, err := service.Cancel(context.Background(), buyer, 5)

		assert.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, order.Status)
		orderRepo.AssertExpectations(t)
		notifications.AssertExpectations(t)
	})

	t.Run("only pending orders can be cancelled", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		shipped := pendingOrder()
		shipped.Status = model.OrderStatusShipped
		orderRepo.On("FindByID", mock.Anything, uint(5)).Return(shipped, nil)

		service := NewOrderService(orderRepo, new(MockProductRepository), new(MockNotificationService), nil, 0)
		_, err := service.Cancel(context.Background(), buyer, 5)

		assert.Equal(t, apperrors.ErrOrderNotCancellable, err)
		orderRepo.AssertNotCalled(t, "RestoreStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("foreign order is forbidden", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		foreign := pendingOrder()
		foreign.BuyerID = 42
		orderRepo.On("FindByID", mock.Anything, uint(5)).Return(foreign, nil)

		service := NewOrderService(orderRepo, new(MockProductRepository), new(MockNotificationService), nil, 0)
		_, err := service.Cancel(context.Background(), buyer, 5)

		assert.Equal(t, apperrors.ErrForbidden, err)
	})
}
