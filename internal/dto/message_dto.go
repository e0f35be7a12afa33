package dto

import "github.com/google/uuid"

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// UnreadSummary reports how many unread messages await a user, in total
// and per swap.
type UnreadSummary struct {
	TotalUnread int               `json:"total_unread"`
	BySwap      map[uuid.UUID]int `json:"by_swap"`
}
