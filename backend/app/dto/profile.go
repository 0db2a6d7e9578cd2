package dto

import "account-service/backend/app/models"

// UpdateProfileRequest fields are optional; absent fields are left unchanged.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

type ProfileResponse struct {
	User *models.User `json:"user"`
}

type UpdateProfileResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}
