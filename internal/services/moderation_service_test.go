package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapcircle/swapcircle-api/internal/dto"
	"github.com/swapcircle/swapcircle-api/internal/store"
)

func TestCheckContent(t *testing.T) {
	svc := NewModerationService(store.NewMemory())

	tests := []struct {
		name   string
		strict bool
		text   string
		wantOK bool
	}{
		{"clean text", true, "Is the jacket still available?", true},
		{"empty text", true, "", true},
		{"banned word", false, "this is a scam listing", false},
		{"url in message", true, "see https://example.com/me", false},
		{"url in listing text allowed", false, "see https://example.com/me", true},
		{"email in message", true, "mail me at joe@example.com", false},
		{"phone in message", true, "call 503-555-0147", false},
		{"phone in listing text allowed", false, "call 503-555-0147", true},
		{"repeated characters", false, "sooooo good", false},
		{"shouting", false, "AMAZING JACKET WOWOW GREAT DEAL HURRY", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CheckContent(tt.strict, tt.text)
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrContentRejected)
			}
		})
	}
}

func TestCheckContentScreensEveryText(t *testing.T) {
	svc := NewModerationService(store.NewMemory())
	err := svc.CheckContent(false, "Nice coat", "total scam though")
	assert.ErrorIs(t, err, ErrContentRejected)
}

func TestCreateReport(t *testing.T) {
	svc := NewModerationService(store.NewMemory())

	report, err := svc.CreateReport("alice", &dto.CreateReportRequest{
		ContentType: "listing",
		ContentID:   uuid.NewString(),
		Reason:      "counterfeit item",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", report.ReporterID)
	assert.Equal(t, "pending", report.Status)

	_, err = svc.CreateReport("alice", &dto.CreateReportRequest{
		ContentType: "listing",
		ContentID:   uuid.NewString(),
		Reason:      "   ",
	})
	assert.ErrorIs(t, err, ErrContentRejected)
}

func TestBlocking(t *testing.T) {
	svc := NewModerationService(store.NewMemory())

	_, err := svc.BlockUser("alice", "alice")
	assert.ErrorIs(t, err, ErrSelfBlock)

	block, err := svc.BlockUser("alice", "bob")
	require.NoError(t, err)

	_, err = svc.BlockUser("alice", "bob")
	assert.ErrorIs(t, err, ErrAlreadyBlocked)

	// A block in either direction shuts down the interaction.
	blocked, err := svc.InteractionBlocked("bob", "alice")
	require.NoError(t, err)
	assert.True(t, blocked)
	blocked, err = svc.InteractionBlocked("alice", "bob")
	require.NoError(t, err)
	assert.True(t, blocked)

	// Only the blocker can lift it.
	err = svc.UnblockUser(block.ID, "bob")
	assert.ErrorIs(t, err, ErrBlockNotFound)
	require.NoError(t, svc.UnblockUser(block.ID, "alice"))

	blocked, err = svc.InteractionBlocked("alice", "bob")
	require.NoError(t, err)
	assert.False(t, blocked)
}
