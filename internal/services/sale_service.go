package services

import (
	"context"
	"errors"
	"time"

	"bazar-backend/internal/apperr"
	"bazar-backend/internal/models"
	"bazar-backend/internal/store"

	"github.com/rs/zerolog"
)

type SaleService struct {
	sales    store.SaleRepository
	clients  store.ClientRepository
	products store.ProductRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewSaleService(sales store.SaleRepository, clients store.ClientRepository, products store.ProductRepository, logger zerolog.Logger) *SaleService {
	return &SaleService{
		sales:    sales,
		clients:  clients,
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

// Create records a sale between an existing client and product.
func (s *SaleService) Create(ctx context.Context, req *models.CreateSaleRequest) (*models.SaleDetails, error) {
	if err := checkID(req.ClientID); err != nil {
		return nil, err
	}
	if err := checkID(req.ProductID); err != nil {
		return nil, err
	}

	if _, err := s.clients.GetByID(ctx, req.ClientID); err != nil {
		return nil, translate(err, ErrClientNotFound, "failed to create sale")
	}
	if _, err := s.products.GetByID(ctx, req.ProductID); err != nil {
		return nil, translate(err, ErrProductNotFound, "failed to create sale")
	}

	sale := &models.Sale{
		ID:        models.NewID(),
		ClientID:  req.ClientID,
		ProductID: req.ProductID,
		Status:    models.SaleStatus(req.Status),
		SaleDate:  s.now().UTC(),
	}
	if err := s.sales.Create(ctx, sale); err != nil {
		s.logger.Error().Err(err).Msg("Error creating sale")
		return nil, translate(err, ErrSaleNotFound, "failed to create sale")
	}

	s.logger.Info().
		Str("sale_id", sale.ID).
		Str("client_id", sale.ClientID).
		Str("product_id", sale.ProductID).
		Msg("Sale created successfully")
	return s.resolve(ctx, sale)
}

func (s *SaleService) List(ctx context.Context) ([]models.SaleDetails, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing sales")
		return nil, translate(err, ErrSaleNotFound, "failed to list sales")
	}

	out := make([]models.SaleDetails, 0, len(sales))
	for i := range sales {
		d, err := s.resolve(ctx, &sales[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func (s *SaleService) Get(ctx context.Context, id string) (*models.SaleDetails, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrSaleNotFound, "failed to get sale")
	}
	return s.resolve(ctx, sale)
}

// Update applies the fields present in req. Referenced ids are checked for
// format only.
func (s *SaleService) Update(ctx context.Context, id string, req *models.UpdateSaleRequest) (*models.SaleDetails, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if req.ClientID != nil {
		if err := checkID(*req.ClientID); err != nil {
			return nil, err
		}
	}
	if req.ProductID != nil {
		if err := checkID(*req.ProductID); err != nil {
			return nil, err
		}
	}

	upd := models.SaleUpdate{
		ClientID:  req.ClientID,
		ProductID: req.ProductID,
		SaleDate:  req.SaleDate,
	}
	if req.Status != nil {
		status := models.SaleStatus(*req.Status)
		upd.Status = &status
	}

	sale, err := s.sales.Update(ctx, id, upd)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error().Err(err).Str("sale_id", id).Msg("Error updating sale")
		}
		return nil, translate(err, ErrSaleNotFound, "failed to update sale")
	}

	s.logger.Info().Str("sale_id", id).Msg("Sale updated successfully")
	return s.resolve(ctx, sale)
}

func (s *SaleService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.sales.Delete(ctx, id); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error().Err(err).Str("sale_id", id).Msg("Error deleting sale")
		}
		return translate(err, ErrSaleNotFound, "failed to delete sale")
	}

	s.logger.Info().Str("sale_id", id).Msg("Sale deleted successfully")
	return nil
}

// resolve attaches client and product summaries. A reference to a record that
// no longer exists resolves to nil.
func (s *SaleService) resolve(ctx context.Context, sale *models.Sale) (*models.SaleDetails, error) {
	d := &models.SaleDetails{Sale: *sale}

	client, err := s.clients.GetByID(ctx, sale.ClientID)
	switch {
	case err == nil:
		d.Client = &models.ClientSummary{ID: client.ID, Name: client.Name, Email: client.Email}
	case !errors.Is(err, store.ErrNotFound):
		s.logger.Error().Err(err).Str("sale_id", sale.ID).Msg("Error resolving sale client")
		return nil, apperr.Upstream("failed to read sale", err)
	}

	product, err := s.products.GetByID(ctx, sale.ProductID)
	switch {
	case err == nil:
		d.Product = &models.ProductSummary{ID: product.ID, Name: product.Name, Price: product.Price}
	case !errors.Is(err, store.ErrNotFound):
		s.logger.Error().Err(err).Str("sale_id", sale.ID).Msg("Error resolving sale product")
		return nil, apperr.Upstream("failed to read sale", err)
	}

	return d, nil
}
