package controllers

import (
	"account-service/backend/app/dto"
	"account-service/backend/app/services"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

type AuthController struct {
	Accounts *services.AccountService
}

func NewAuthController(accounts *services.AccountService) *AuthController {
	return &AuthController{Accounts: accounts}
}

func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: msgMissingFields})
		return
	}
	res, err := c.Accounts.Signup(r.Context(), services.SignupInput{
		Credentials: services.Credentials{Username: req.Username, Password: req.Password, Email: req.Email},
		JobRole:     req.JobRole,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TokenResponse{Message: "User registered", Token: res.Token})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: msgMissingFields})
		return
	}
	res, err := c.Accounts.Login(r.Context(), services.Credentials{Username: req.Username, Password: req.Password, Email: req.Email})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TokenResponse{Message: "User logged in", Token: res.Token})
}

const (
	msgMissingFields   = "Missing required fields"
	msgUsernameTooLong = "Username must be at most 50 characters"
	msgServerError     = "Server error"
)

// writeError maps service errors to a status and message. Anything unexpected
// is logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr) && verr.Rule == "max":
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: msgUsernameTooLong})
	case errors.Is(err, services.ErrValidation):
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: msgMissingFields})
	case errors.Is(err, services.ErrConflict):
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "User already exists"})
	case errors.Is(err, services.ErrUnknownAccount):
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "Invalid username or email"})
	case errors.Is(err, services.ErrWrongPassword):
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "Invalid password"})
	case errors.Is(err, services.ErrInvalidCredentials):
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "Invalid credentials"})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, dto.MessageResponse{Message: "User not found"})
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, dto.MessageResponse{Message: msgServerError})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
