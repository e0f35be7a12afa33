package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemSenderID is the reserved sender for lifecycle notifications.
const SystemSenderID = "SYSTEM"

// Message kinds.
const (
	MessageKindUser   = "user"
	MessageKindSystem = "system"
)

// System message event types, one per swap lifecycle transition that
// notifies the participants.
const (
	EventSwapAccepted  = "SWAP_ACCEPTED"
	EventSwapRejected  = "SWAP_REJECTED"
	EventSwapCompleted = "SWAP_COMPLETED"
	EventSwapCancelled = "SWAP_CANCELLED"
)

// Message is one conversational entry in a swap. User messages are authored
// by a participant; system messages are emitted by the swap lifecycle and
// can never be deleted.
type Message struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"message_id"`
	SwapID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"swap_id"`
	SenderID    string            `gorm:"size:128;not null" json:"sender_id"`
	RecipientID string            `gorm:"size:128;not null;index" json:"recipient_id"`
	Content     string            `gorm:"type:text;not null" json:"content"`
	SentAt      time.Time         `gorm:"not null;index" json:"timestamp"`
	IsRead      bool              `gorm:"default:false" json:"is_read"`
	Kind        string            `gorm:"size:10;not null;default:'user'" json:"message_type"`
	EventType   string            `gorm:"size:30" json:"event_type,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
}

// IsSystem reports whether the message was generated by the swap lifecycle.
func (m *Message) IsSystem() bool {
	return m.Kind == MessageKindSystem
}

// MessageReference is a conversation summary embedded into swap views in
// place of the full message history.
type MessageReference struct {
	TotalCount    int            `json:"total_count"`
	UnreadCount   int            `json:"unread_count"`
	LatestMessage *LatestMessage `json:"latest_message"`
}

// LatestMessage summarizes the most recent message of a swap.
type LatestMessage struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"message_type"`
	EventType string    `json:"event_type,omitempty"`
}
