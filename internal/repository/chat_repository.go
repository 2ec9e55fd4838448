package repository

import (
	"context"

	"gorm.io/gorm"

	"marketplace/internal/model"
)

// ChatFilter holds the optional filters of a chat listing.
type ChatFilter struct {
	ProductID uint
	Page      int
	PerPage   int
}

// ChatRepository defines chat and message persistence operations.
type ChatRepository interface {
	Create(ctx context.Context, chat *model.Chat) error
	FindByID(ctx context.Context, id uint) (*model.Chat, error)
	// FindByParticipants returns the chat for a (buyer, seller, product)
	// triple, first match wins.
	FindByParticipants(ctx context.Context, buyerID, sellerID uint, productID *uint) (*model.Chat, error)
	ListByUser(ctx context.Context, userID uint, filter ChatFilter) ([]model.Chat, int64, error)
	CreateMessage(ctx context.Context, message *model.Message) error
	ListMessages(ctx context.Context, chatID uint) ([]model.Message, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, chat *model.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

func (r *chatRepository) FindByID(ctx context.Context, id uint) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.WithContext(ctx).First(&chat, id).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) FindByParticipants(ctx context.Context, buyerID, sellerID uint, productID *uint) (*model.Chat, error) {
	query := r.db.WithContext(ctx).Where("buyer_id = ? AND seller_id = ?", buyerID, sellerID)
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	} else {
		query = query.Where("product_id IS NULL")
	}

	var chat model.Chat
	if err := query.First(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) ListByUser(ctx context.Context, userID uint, filter ChatFilter) ([]model.Chat, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Chat{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID)

	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
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

	var chats []model.Chat
	if err := query.
		Order("updated_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&chats).Error; err != nil {
		return nil, 0, err
	}
	return chats, total, nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID uint) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
