package handlers

import (
	"net/http"

	"bazar-backend/internal/models"
	"bazar-backend/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type ClientHandler struct {
	clientService *services.ClientService
	resetService  *services.ResetService
	logger        zerolog.Logger
}

func NewClientHandler(clientService *services.ClientService, resetService *services.ResetService, logger zerolog.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		resetService:  resetService,
		logger:        logger,
	}
}

func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req models.CreateClientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	resp, err := h.clientService.Create(r.Context(), &req)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, resp)
}

func (h *ClientHandler) GetClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientService.List(r.Context())
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.clientService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateClientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	client, err := h.clientService.Update(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.clientService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "Client deleted successfully"})
}

func (h *ClientHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	resp, err := h.clientService.Login(r.Context(), &req)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (h *ClientHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var req models.CheckEmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	exists, err := h.clientService.EmailExists(r.Context(), req.Email)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (h *ClientHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	if err := h.resetService.RequestReset(r.Context(), req.Email); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "Password reset email sent"})
}

func (h *ClientHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	if err := h.resetService.Redeem(r.Context(), mux.Vars(r)["token"], req.NewPassword); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "Password has been reset"})
}
