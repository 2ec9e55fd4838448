package model

import "time"

// Chat is a buyer-seller conversation, optionally tied to a product.
// At most one chat exists per (buyer, seller, product) triple, enforced by
// lookup-before-insert.
type Chat struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BuyerID   uint      `json:"buyer_id" gorm:"not null;index"`
	SellerID  uint      `json:"seller_id" gorm:"not null;index"`
	ProductID *uint     `json:"product_id,omitempty" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Buyer    User        `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Seller   User        `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Messages []Message   `json:"messages,omitempty" gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE"`
}

// IsParticipant reports whether a user belongs to the chat.
func (c *Chat) IsParticipant(userID uint) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

// PeerOf returns the other participant of the chat.
func (c *Chat) PeerOf(userID uint) uint {
	if c.BuyerID == userID {
		return c.SellerID
	}
	return c.BuyerID
}

// Message is one persisted chat message.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	IsRead    bool      `json:"is_read" gorm:"default:false"`
	ChatID    uint      `json:"chat_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
