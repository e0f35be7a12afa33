package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapcircle/swapcircle-api/internal/models"
	"github.com/swapcircle/swapcircle-api/internal/store"
)

func TestPostUserMessage(t *testing.T) {
	svc := NewMessageService(store.NewMemory())
	swapID := uuid.New()

	msg, err := svc.PostUserMessage(swapID, "alice", "bob", "still available?")
	require.NoError(t, err)
	assert.Equal(t, models.MessageKindUser, msg.Kind)
	assert.Equal(t, "alice", msg.SenderID)
	assert.Equal(t, "bob", msg.RecipientID)
	assert.False(t, msg.IsRead)
	assert.False(t, msg.SentAt.IsZero())
}

func TestPostSystemMessageFansOut(t *testing.T) {
	svc := NewMessageService(store.NewMemory())
	swapID := uuid.New()

	msgs, err := svc.PostSystemMessage(swapID, models.EventSwapAccepted, "Swap accepted.",
		[]string{"alice", "bob"}, map[string]interface{}{"actor_id": "bob"})
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	recipients := map[string]bool{}
	for _, m := range msgs {
		recipients[m.RecipientID] = true
		assert.Equal(t, models.SystemSenderID, m.SenderID)
		assert.True(t, m.IsSystem())
		assert.Equal(t, "bob", m.Metadata["actor_id"])
	}
	assert.True(t, recipients["alice"])
	assert.True(t, recipients["bob"])
}

func TestListForSwapOrdersOldestFirst(t *testing.T) {
	svc := NewMessageService(store.NewMemory())
	swapID := uuid.New()

	for _, content := range []string{"first", "second", "third"} {
		_, err := svc.PostUserMessage(swapID, "alice", "bob", content)
		require.NoError(t, err)
	}

	msgs, err := svc.ListForSwap(swapID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].SentAt.Before(msgs[i-1].SentAt))
	}
}

func TestMarkRead(t *testing.T) {
	svc := NewMessageService(store.NewMemory())
	swapID := uuid.New()

	msg, err := svc.PostUserMessage(swapID, "alice", "bob", "hello")
	require.NoError(t, err)

	// Only the recipient can mark; the sender gets not-found.
	_, err = svc.MarkRead(swapID, msg.ID, "alice")
	assert.ErrorIs(t, err, ErrMessageNotFound)

	read, err := svc.MarkRead(swapID, msg.ID, "bob")
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	// Idempotent.
	again, err := svc.MarkRead(swapID, msg.ID, "bob")
	require.NoError(t, err)
	assert.True(t, again.IsRead)

	_, err = svc.MarkRead(swapID, uuid.New(), "bob")
	assert.ErrorIs(t, err, ErrMessageNotFound)

	// A message cannot be addressed through the wrong swap.
	_, err = svc.MarkRead(uuid.New(), msg.ID, "bob")
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestCountUnread(t *testing.T) {
	svc := NewMessageService(store.NewMemory())
	swapA, swapB := uuid.New(), uuid.New()

	_, err := svc.PostUserMessage(swapA, "alice", "bob", "one")
	require.NoError(t, err)
	_, err = svc.PostUserMessage(swapA, "alice", "bob", "two")
	require.NoError(t, err)
	_, err = svc.PostUserMessage(swapB, "carol", "bob", "three")
	require.NoError(t, err)
	toAlice, err := svc.PostUserMessage(swapB, "bob", "alice", "four")
	require.NoError(t, err)

	summary, err := svc.CountUnread("bob")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalUnread)
	assert.Equal(t, 2, summary.BySwap[swapA])
	assert.Equal(t, 1, summary.BySwap[swapB])

	// The per-swap breakdown always sums to the total.
	sum := 0
	for _, n := range summary.BySwap {
		sum += n
	}
	assert.Equal(t, summary.TotalUnread, sum)

	// Reading removes from the count.
	_, err = svc.MarkRead(swapB, toAlice.ID, "alice")
	require.NoError(t, err)
	summary, err = svc.CountUnread("alice")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalUnread)
}

func TestDeleteMessage(t *testing.T) {
	svc := NewMessageService(store.NewMemory())
	swapID := uuid.New()

	msg, err := svc.PostUserMessage(swapID, "alice", "bob", "typo")
	require.NoError(t, err)

	// Recipient cannot delete.
	err = svc.Delete(swapID, msg.ID, "bob")
	assert.ErrorIs(t, err, ErrMessageNotFound)

	// Sender can.
	require.NoError(t, svc.Delete(swapID, msg.ID, "alice"))
	msgs, err := svc.ListForSwap(swapID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSystemMessagesAreNotDeletable(t *testing.T) {
	svc := NewMessageService(store.NewMemory())
	swapID := uuid.New()

	msgs, err := svc.PostSystemMessage(swapID, models.EventSwapCancelled, "Swap cancelled.",
		[]string{"alice"}, nil)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	err = svc.Delete(swapID, msgs[0].ID, "alice")
	assert.ErrorIs(t, err, ErrMessageNotFound)

	err = svc.Delete(swapID, msgs[0].ID, models.SystemSenderID)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestReference(t *testing.T) {
	svc := NewMessageService(store.NewMemory())
	swapID := uuid.New()

	empty, err := svc.Reference(swapID)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalCount)
	assert.Zero(t, empty.UnreadCount)
	assert.Nil(t, empty.LatestMessage)

	first, err := svc.PostUserMessage(swapID, "alice", "bob", "first")
	require.NoError(t, err)
	_, err = svc.PostUserMessage(swapID, "bob", "alice", "latest")
	require.NoError(t, err)
	_, err = svc.MarkRead(swapID, first.ID, "bob")
	require.NoError(t, err)

	ref, err := svc.Reference(swapID)
	require.NoError(t, err)
	assert.Equal(t, 2, ref.TotalCount)
	assert.Equal(t, 1, ref.UnreadCount)
	require.NotNil(t, ref.LatestMessage)
	assert.Equal(t, "latest", ref.LatestMessage.Content)
	assert.Equal(t, models.MessageKindUser, ref.LatestMessage.Kind)
}
