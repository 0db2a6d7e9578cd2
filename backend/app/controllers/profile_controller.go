package controllers

import (
	"account-service/backend/app/dto"
	"account-service/backend/app/middleware"
	"account-service/backend/app/services"
	"encoding/json"
	"io"
	"net/http"
)

type ProfileController struct {
	Accounts *services.AccountService
}

func NewProfileController(accounts *services.AccountService) *ProfileController {
	return &ProfileController{Accounts: accounts}
}

func (c *ProfileController) Get(w http.ResponseWriter, r *http.Request) {
	u, err := c.Accounts.GetProfile(r.Context(), middleware.GetUser(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ProfileResponse{User: u})
}

func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetUser(r.Context())
	if identity == nil {
		writeError(w, r, services.ErrNotFound)
		return
	}
	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "Invalid request body"})
		return
	}
	u, err := c.Accounts.UpdateProfile(r.Context(), identity.ID, services.ProfileUpdate{Username: req.Username, Email: req.Email})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.UpdateProfileResponse{Message: "Profile updated successfully", User: u})
}
