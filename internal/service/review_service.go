package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// ReviewInput carries the fields of a review creation request.
type ReviewInput struct {
	Rating  int
	Comment string
}

// ReviewService handles product reviews.
type ReviewService interface {
	Create(ctx context.Context, user *model.User, productID uint, in ReviewInput) (*model.Review, error)
	ListByProduct(ctx context.Context, productID uint) ([]model.Review, error)
}

type reviewService struct {
	reviewRepo    repository.ReviewRepository
	productRepo   repository.ProductRepository
	notifications NotificationService
}

// NewReviewService creates a new review service.
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, notifications NotificationService) ReviewService {
	return &reviewService{
		reviewRepo:    reviewRepo,
		productRepo:   productRepo,
		notifications: notifications,
	}
}

func (s *reviewService) Create(ctx context.Context, user *model.User, productID uint, in ReviewInput) (*model.Review, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, err
	}

	review := &model.Review{
		Rating:    in.Rating,
		Comment:   in.Comment,
		UserID:    user.ID,
		ProductID: product.ID,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.notifications.NewReview(ctx, product.SellerID, product.ID, product.Name, review.Rating)
	return review, nil
}

func (s *reviewService) ListByProduct(ctx context.Context, productID uint) ([]model.Review, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, err
	}
	return s.reviewRepo.ListByProduct(ctx, productID)
}
