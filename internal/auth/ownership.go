package auth

import "marketplace/internal/model"

// Ownership predicates used by every mutating handler. Centralized here so
// the (actor, resource) checks are written and tested once.

// OwnsProduct reports whether the user is the product's seller.
func OwnsProduct(u *model.User, p *model.Product) bool {
	return u != nil && p != nil && p.SellerID == u.ID
}

// OwnsOrder reports whether the user is the order's buyer.
func OwnsOrder(u *model.User, o *model.Order) bool {
	return u != nil && o != nil && o.BuyerID == u.ID
}

// ChatParticipant reports whether the user is the chat's buyer or seller.
func ChatParticipant(u *model.User, c *model.Chat) bool {
	return u != nil && c != nil && c.IsParticipant(u.ID)
}

// OwnsNotification reports whether the notification belongs to the user.
func OwnsNotification(u *model.User, n *model.Notification) bool {
	return u != nil && n != nil && n.UserID == u.ID
}
