package service

import (
	"context"
	"fmt"

	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// ProfileInput carries the mutable fields of a user profile.
type ProfileInput struct {
	FullName string
	Phone    string

	// Seller profile, ignored for buyers.
	CompanyName        string
	CompanyDescription string
	CompanyAddress     string
	CompanyPhone       string
}

// UserService handles profile operations.
type UserService interface {
	UpdateProfile(ctx context.Context, user *model.User, in ProfileInput) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) UpdateProfile(ctx context.Context, user *model.User, in ProfileInput) (*model.User, error) {
	user.FullName = in.FullName
	user.Phone = in.Phone
	if user.IsSeller() {
		user.CompanyName = in.CompanyName
		user.CompanyDescription = in.CompanyDescription
		user.CompanyAddress = in.CompanyAddress
		user.CompanyPhone = in.CompanyPhone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}
