package handlers

import (
	"net/http"

	"bazar-backend/internal/models"
	"bazar-backend/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type SaleHandler struct {
	saleService *services.SaleService
	logger      zerolog.Logger
}

func NewSaleHandler(saleService *services.SaleService, logger zerolog.Logger) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		logger:      logger,
	}
}

func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSaleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	sale, err := h.saleService.Create(r.Context(), &req)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, sale)
}

func (h *SaleHandler) GetSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.saleService.List(r.Context())
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sales)
}

func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.saleService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sale)
}

func (h *SaleHandler) UpdateSale(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSaleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	sale, err := h.saleService.Update(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sale)
}

func (h *SaleHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	if err := h.saleService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "Sale deleted successfully"})
}
