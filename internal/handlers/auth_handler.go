package handlers

import (
	"net/http"

	"bazar-backend/internal/models"
	"bazar-backend/internal/services"

	"github.com/rs/zerolog"
)

type AuthHandler struct {
	userService *services.UserService
	logger      zerolog.Logger
}

func NewAuthHandler(userService *services.UserService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	resp, err := h.userService.SignUp(r.Context(), &req)
	if err != nil {
		h.logger.Debug().Err(err).Msg("Registration failed")
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	resp, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.logger.Warn().Str("email", req.Email).Msg("Login failed")
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}
