package handlers

import (
	"net/http"

	"bazar-backend/internal/middleware"
	"bazar-backend/internal/models"
	"bazar-backend/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// FavoritesHandler serves the favorites of the authenticated client. Routes
// are mounted behind middleware.Authentication.
type FavoritesHandler struct {
	favoritesService *services.FavoritesService
	logger           zerolog.Logger
}

func NewFavoritesHandler(favoritesService *services.FavoritesService, logger zerolog.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		favoritesService: favoritesService,
		logger:           logger,
	}
}

type favoritesResponse struct {
	Favorites []string `json:"favorites"`
}

func (h *FavoritesHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "Client not authenticated")
		return
	}

	products, err := h.favoritesService.List(r.Context(), clientID)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, products)
}

func (h *FavoritesHandler) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "Client not authenticated")
		return
	}

	isFavorite, err := h.favoritesService.Contains(r.Context(), clientID, mux.Vars(r)["productId"])
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"isFavorite": isFavorite})
}

func (h *FavoritesHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "Client not authenticated")
		return
	}

	var req models.FavoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	ids, err := h.favoritesService.Add(r.Context(), clientID, req.ProductID)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, favoritesResponse{Favorites: ids})
}

func (h *FavoritesHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "Client not authenticated")
		return
	}

	var req models.FavoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	ids, err := h.favoritesService.Remove(r.Context(), clientID, req.ProductID)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, favoritesResponse{Favorites: ids})
}
