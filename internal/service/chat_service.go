package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"marketplace/internal/auth"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// ChatInput carries the fields of a chat creation request.
type ChatInput struct {
	SellerID  uint
	ProductID *uint
}

// MessageInput carries the fields of a new chat message.
type MessageInput struct {
	Content string
}

// MessagePusher delivers a payload to a connected user. Delivery is best
// effort; the return value reports whether the user was online.
type MessagePusher interface {
	Send(userID uint, payload interface{}) bool
}

// ChatService handles buyer-seller conversations. Every read and write is
// restricted to the two participants.
type ChatService interface {
	Create(ctx context.Context, buyer *model.User, in ChatInput) (*model.Chat, error)
	Get(ctx context.Context, user *model.User, id uint) (*model.Chat, error)
	List(ctx context.Context, user *model.User, filter repository.ChatFilter) ([]model.Chat, int64, error)
	ListMessages(ctx context.Context, user *model.User, chatID uint) ([]model.Message, error)
	SendMessage(ctx context.Context, user *model.User, chatID uint, in MessageInput) (*model.Message, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	pusher   MessagePusher
}

// NewChatService creates a new chat service. pusher may be nil; messages are
// then persisted without live delivery.
func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, pusher MessagePusher) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
		pusher:   pusher,
	}
}

// Create opens a conversation with a seller, or returns the existing one for
// the same buyer, seller and product.
func (s *chatService) Create(ctx context.Context, buyer *model.User, in ChatInput) (*model.Chat, error) {
	seller, err := s.userRepo.FindByID(ctx, in.SellerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	if !seller.IsSeller() {
		return nil, apperrors.ErrUserNotFound
	}

	existing, err := s.chatRepo.FindByParticipants(ctx, buyer.ID, seller.ID, in.ProductID)
	if err == nil {
		return existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("find chat: %w", err)
	}

	chat := &model.Chat{
		BuyerID:   buyer.ID,
		SellerID:  seller.ID,
		ProductID: in.ProductID,
	}
	if err := s.chatRepo.Create(ctx, chat); err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return chat, nil
}

func (s *chatService) Get(ctx context.Context, user *model.User, id uint) (*model.Chat, error) {
	chat, err := s.chatRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrChatNotFound
		}
		return nil, err
	}
	if !auth.ChatParticipant(user, chat) {
		return nil, apperrors.ErrForbidden
	}
	return chat, nil
}

func (s *chatService) List(ctx context.Context, user *model.User, filter repository.ChatFilter) ([]model.Chat, int64, error) {
	return s.chatRepo.ListByUser(ctx, user.ID, filter)
}

func (s *chatService) ListMessages(ctx context.Context, user *model.User, chatID uint) ([]model.Message, error) {
	if _, err := s.Get(ctx, user, chatID); err != nil {
		return nil, err
	}
	return s.chatRepo.ListMessages(ctx, chatID)
}

// SendMessage persists a message into one of the user's chats, then pushes
// it to the peer's live connection if one is open.
func (s *chatService) SendMessage(ctx context.Context, user *model.User, chatID uint, in MessageInput) (*model.Message, error) {
	chat, err := s.Get(ctx, user, chatID)
	if err != nil {
		return nil, err
	}

	message := &model.Message{
		ChatID:  chatID,
		UserID:  user.ID,
		Content: in.Content,
	}
	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	// Offline peers get nothing here; they replay via ListMessages.
	if s.pusher != nil {
		s.pusher.Send(chat.PeerOf(user.ID), message)
	}
	return message, nil
}
