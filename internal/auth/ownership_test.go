package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"marketplace/internal/model"
)

func TestOwnershipPredicates(t *testing.T) {
	owner := &model.User{ID: 1}
	other := &model.User{ID: 2}

	t.Run("product", func(t *testing.T) {
		product := &model.Product{SellerID: 1}
		assert.True(t, OwnsProduct(owner, product))
		assert.False(t, OwnsProduct(other, product))
		assert.False(t, OwnsProduct(nil, product))
		assert.False(t, OwnsProduct(owner, nil))
	})

	t.Run("order", func(t *testing.T) {
		order := &model.Order{BuyerID: 1}
		assert.True(t, OwnsOrder(owner, order))
		assert.False(t, OwnsOrder(other, order))
		assert.False(t, OwnsOrder(nil, order))
	})

	t.Run("chat", func(t *testing.T) {
		chat := &model.Chat{BuyerID: 1, SellerID: 2}
		assert.True(t, ChatParticipant(owner, chat))
		assert.True(t, ChatParticipant(other, chat))
		assert.False(t, ChatParticipant(&model.User{ID: 3}, chat))
		assert.False(t, ChatParticipant(nil, chat))
	})

	t.Run("notification", func(t *testing.T) {
		notification := &model.Notification{UserID: 1}
		assert.True(t, OwnsNotification(owner, notification))
		assert.False(t, OwnsNotification(other, notification))
		assert.False(t, OwnsNotification(owner, nil))
	})
}
