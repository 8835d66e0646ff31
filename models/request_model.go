package models

// LoginRequest is the body of POST /api/session.
type LoginRequest struct {
	Code string `json:"code" validate:"required"`
}

// GroupCreateRequest is the body of POST /api/groups.
type GroupCreateRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	AccessCode  string  `json:"access_code" validate:"required,max=191"`
	Description *string `json:"description"`
}

// ClientCreateRequest is the body of POST /api/clients.
type ClientCreateRequest struct {
	ClientName string  `json:"client_name" validate:"required,max=255"`
	AccessCode string  `json:"access_code" validate:"required,max=191"`
	GroupID    *string `json:"group_id"`
}

// AccessCodeCreateRequest is the body of POST /api/access-codes.
// Client codes are issued through clients or groups, never here.
type AccessCodeCreateRequest struct {
	Code            string  `json:"code" validate:"required,max=191"`
	Role            Role    `json:"role" validate:"required,oneof=main_admin admin moderator"`
	AssignedToEmail *string `json:"assigned_to_email" validate:"omitempty,email"`
}

// VideoCreateRequest is the body of POST /api/videos.
// ExpiresInDays of 0 or nil means the video never expires.
type VideoCreateRequest struct {
	VideoID       string  `json:"video_id" validate:"omitempty,max=191"`
	Name          string  `json:"name" validate:"required,max=255"`
	Link          string  `json:"link" validate:"required,url"`
	GroupID       string  `json:"group_id" validate:"required"`
	Description   *string `json:"description"`
	ExpiresInDays *int    `json:"expires_in_days" validate:"omitempty,gte=0,lte=3650"`
}

// VideoImportRequest is the body of POST /api/videos/import.
type VideoImportRequest struct {
	SourceURL     string  `json:"source_url" validate:"required,url"`
	Name          string  `json:"name" validate:"max=255"`
	GroupID       string  `json:"group_id" validate:"required"`
	Description   *string `json:"description"`
	ExpiresInDays *int    `json:"expires_in_days" validate:"omitempty,gte=0,lte=3650"`
}

// ActiveRequest toggles is_active on clients, access codes and videos.
type ActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// FeedbackCreateRequest is the body of POST /api/videos/:id/feedback.
type FeedbackCreateRequest struct {
	TimestampSeconds *float64 `json:"timestamp_seconds" validate:"required,gte=0"`
	Comment          string   `json:"comment" validate:"required,max=5000"`
}

// VideoQuery holds the optional post-filters of GET /api/videos.
type VideoQuery struct {
	Search  string `form:"search"`
	GroupID string `form:"group_id"`
}
