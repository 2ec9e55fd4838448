package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatParticipants(t *testing.T) {
	chat := &Chat{BuyerID: 1, SellerID: 2}

	assert.True(t, chat.IsParticipant(1))
	assert.True(t, chat.IsParticipant(2))
	assert.False(t, chat.IsParticipant(3))

	assert.Equal(t, uint(2), chat.PeerOf(1))
	assert.Equal(t, uint(1), chat.PeerOf(2))
}
