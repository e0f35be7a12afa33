package dto

type CreateReportRequest struct {
	ContentType string `json:"content_type" validate:"required,oneof=listing message user"`
	ContentID   string `json:"content_id" validate:"required,max=255"`
	Reason      string `json:"reason" validate:"required,max=500"`
}

type BlockUserRequest struct {
	BlockedID string `json:"blocked_id" validate:"required,max=128"`
}
