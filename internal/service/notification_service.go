package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/gorm"

	"marketplace/internal/auth"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// NotificationService persists typed notifications and serves the owner's
// notification feed. The typed creators are fire-and-forget: failures are
// logged and never propagated to the triggering operation.
type NotificationService interface {
	OrderReceived(ctx context.Context, sellerID, orderID uint, orderNumber string)
	OrderStatusChanged(ctx context.Context, userID, orderID uint, orderNumber string, status model.OrderStatus)
	NewReview(ctx context.Context, sellerID, productID uint, productName string, rating int)
	LowStock(ctx context.Context, sellerID, productID uint, productName string, stock int)
	System(ctx context.Context, userID uint, title, message string, data map[string]interface{})

	List(ctx context.Context, user *model.User, unreadOnly bool, skip, limit int) ([]model.Notification, error)
	UnreadCount(ctx context.Context, user *model.User) (int64, error)
	MarkRead(ctx context.Context, user *model.User, id uint) (*model.Notification, error)
	MarkAllRead(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, user *model.User, id uint) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) create(ctx context.Context, userID uint, typ model.NotificationType, title, message string, data map[string]interface{}) {
	payload := ""
	if data != nil {
		if raw, err := json.Marshal(data); err == nil {
			payload = string(raw)
		}
	}
	n := &model.Notification{
		Type:    typ,
		Title:   title,
		Message: message,
		UserID:  userID,
		Data:    payload,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Printf("notification %s for user %d dropped: %v", typ, userID, err)
	}
}

func (s *notificationService) OrderReceived(ctx context.Context, sellerID, orderID uint, orderNumber string) {
	s.create(ctx, sellerID, model.NotificationOrderReceived,
		"New order",
		fmt.Sprintf("Order %s contains your products", orderNumber),
		map[string]interface{}{"order_id": orderID})
}

func (s *notificationService) OrderStatusChanged(ctx context.Context, userID, orderID uint, orderNumber string, status model.OrderStatus) {
	s.create(ctx, userID, model.NotificationOrderStatusChanged,
		"Order status changed",
		fmt.Sprintf("Order %s is now %s", orderNumber, status),
		map[string]interface{}{"order_id": orderID, "status": string(status)})
}

func (s *notificationService) NewReview(ctx context.Context, sellerID, productID uint, productName string, rating int) {
	s.create(ctx, sellerID, model.NotificationNewReview,
		"New review",
		fmt.Sprintf("%s received a %d-star review", productName, rating),
		map[string]interface{}{"product_id": productID, "rating": rating})
}

func (s *notificationService) LowStock(ctx context.Context, sellerID, productID uint, productName string, stock int) {
	s.create(ctx, sellerID, model.NotificationLowStock,
		"Low stock",
		fmt.Sprintf("Only %d units of %s left", stock, productName),
		map[string]interface{}{"product_id": productID, "current_stock": stock})
}

func (s *notificationService) System(ctx context.Context, userID uint, title, message string, data map[string]interface{}) {
	s.create(ctx, userID, model.NotificationSystem, title, message, data)
}

func (s *notificationService) List(ctx context.Context, user *model.User, unreadOnly bool, skip, limit int) ([]model.Notification, error) {
	return s.repo.ListByUser(ctx, user.ID, unreadOnly, skip, limit)
}

func (s *notificationService) UnreadCount(ctx context.Context, user *model.User) (int64, error) {
	return s.repo.CountUnread(ctx, user.ID)
}

func (s *notificationService) MarkRead(ctx context.Context, user *model.User, id uint) (*model.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, err
	}
	// Foreign notifications are reported as missing for privacy.
	if !auth.OwnsNotification(user, n) {
		return nil, apperrors.ErrNotificationNotFound
	}
	if err := s.repo.MarkRead(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, user *model.User) error {
	return s.repo.MarkAllRead(ctx, user.ID)
}

func (s *notificationService) Delete(ctx context.Context, user *model.User, id uint) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrNotificationNotFound
		}
		return err
	}
	if !auth.OwnsNotification(user, n) {
		return apperrors.ErrNotificationNotFound
	}
	return s.repo.Delete(ctx, n)
}
