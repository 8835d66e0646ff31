package controllers

import "videoportalapi/models"

// Request/response models for Swagger documentation

// SessionResponse is returned by sign-in and by GET /api/session.
type SessionResponse struct {
	Token   string      `json:"token,omitempty" example:"3f2b8e0c-6f7a-4c43-9d8e-2b8a0f1d9c11"`
	Role    models.Role `json:"role" example:"client"`
	GroupID *string     `json:"group_id" example:"8d1e3c5a-0b7f-4e2a-9c6d-1f2e3d4c5b6a"`
}

// MessageResponse is a plain confirmation.
type MessageResponse struct {
	Message string `json:"message" example:"Video deleted"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
}
