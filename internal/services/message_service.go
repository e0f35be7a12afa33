package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/swapcircle/swapcircle-api/internal/dto"
	"github.com/swapcircle/swapcircle-api/internal/models"
	"github.com/swapcircle/swapcircle-api/internal/store"
)

// ErrMessageNotFound also covers authorization failures on message
// mutations, so a caller cannot probe for the existence of messages in
// conversations they do not participate in.
var ErrMessageNotFound = errors.New("message not found")

type MessageService struct {
	messages store.MessageStore
}

func NewMessageService(messages store.MessageStore) *MessageService {
	return &MessageService{messages: messages}
}

// PostUserMessage appends a participant-authored message to a swap
// conversation. Membership in the swap is checked by the caller.
func (s *MessageService) PostUserMessage(swapID uuid.UUID, senderID, recipientID, content string) (*models.Message, error) {
	msg := &models.Message{
		ID:          uuid.New(),
		SwapID:      swapID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		SentAt:      time.Now().UTC(),
		Kind:        models.MessageKindUser,
	}
	if err := s.messages.CreateMessage(msg); err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}
	return msg, nil
}

// PostSystemMessage fans one lifecycle notification out to every recipient.
func (s *MessageService) PostSystemMessage(swapID uuid.UUID, eventType, content string, recipientIDs []string, metadata map[string]interface{}) ([]models.Message, error) {
	now := time.Now().UTC()
	out := make([]models.Message, 0, len(recipientIDs))
	for _, recipientID := range recipientIDs {
		msg := models.Message{
			ID:          uuid.New(),
			SwapID:      swapID,
			SenderID:    models.SystemSenderID,
			RecipientID: recipientID,
			Content:     content,
			SentAt:      now,
			Kind:        models.MessageKindSystem,
			EventType:   eventType,
			Metadata:    datatypes.JSONMap(metadata),
		}
		if err := s.messages.CreateMessage(&msg); err != nil {
			return out, fmt.Errorf("failed to post system message: %w", err)
		}
		out = append(out, msg)
	}
	return out, nil
}

// ListForSwap returns the full conversation, oldest first.
func (s *MessageService) ListForSwap(swapID uuid.UUID) ([]models.Message, error) {
	msgs, err := s.messages.MessagesBySwap(swapID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

// MarkRead flips the read flag for the addressed recipient. Marking an
// already-read message again is a no-op, not an error.
func (s *MessageService) MarkRead(swapID, messageID uuid.UUID, recipientID string) (*models.Message, error) {
	msg, err := s.messages.GetMessage(swapID, messageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to load message: %w", err)
	}
	if msg.RecipientID != recipientID {
		return nil, ErrMessageNotFound
	}
	if msg.IsRead {
		return msg, nil
	}

	msg.IsRead = true
	if err := s.messages.SaveMessage(msg); err != nil {
		return nil, fmt.Errorf("failed to mark message read: %w", err)
	}
	return msg, nil
}

// CountUnread totals unread messages addressed to the user, with a per-swap
// breakdown.
func (s *MessageService) CountUnread(userID string) (*dto.UnreadSummary, error) {
	msgs, err := s.messages.UnreadByRecipient(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}

	summary := &dto.UnreadSummary{BySwap: make(map[uuid.UUID]int)}
	for _, m := range msgs {
		summary.TotalUnread++
		summary.BySwap[m.SwapID]++
	}
	return summary, nil
}

// Delete removes a message. Only the sender may delete, and system
// messages are never deletable; every failure reads as not-found.
func (s *MessageService) Delete(swapID, messageID uuid.UUID, userID string) error {
	msg, err := s.messages.GetMessage(swapID, messageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("failed to load message: %w", err)
	}
	if msg.SenderID != userID || msg.IsSystem() {
		return ErrMessageNotFound
	}

	if err := s.messages.DeleteMessage(swapID, messageID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// Reference summarizes a conversation for embedding into swap views.
func (s *MessageService) Reference(swapID uuid.UUID) (*models.MessageReference, error) {
	msgs, err := s.messages.MessagesBySwap(swapID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize messages: %w", err)
	}

	ref := &models.MessageReference{TotalCount: len(msgs)}
	for _, m := range msgs {
		if !m.IsRead {
			ref.UnreadCount++
		}
	}
	if len(msgs) > 0 {
		last := msgs[len(msgs)-1]
		ref.LatestMessage = &models.LatestMessage{
			Content:   last.Content,
			Timestamp: last.SentAt,
			Kind:      last.Kind,
			EventType: last.EventType,
		}
	}
	return ref, nil
}
