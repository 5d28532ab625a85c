package services

import (
	"context"
	"errors"

	"bazar-backend/internal/apperr"
	"bazar-backend/internal/models"
	"bazar-backend/internal/store"

	"github.com/rs/zerolog"
)

var ErrAlreadyFavorite = apperr.Conflict("Product is already in favorites")

// FavoritesService manages the ordered set of products a client has marked.
type FavoritesService struct {
	clients  store.ClientRepository
	products store.ProductRepository
	logger   zerolog.Logger
}

func NewFavoritesService(clients store.ClientRepository, products store.ProductRepository, logger zerolog.Logger) *FavoritesService {
	return &FavoritesService{
		clients:  clients,
		products: products,
		logger:   logger,
	}
}

// Add appends productID to the client's favorites and returns the new list.
func (s *FavoritesService) Add(ctx context.Context, clientID, productID string) ([]string, error) {
	if err := checkID(clientID); err != nil {
		return nil, err
	}
	if err := checkID(productID); err != nil {
		return nil, err
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, translate(err, ErrProductNotFound, "failed to add favorite")
	}

	if err := s.clients.AddFavorite(ctx, clientID, productID); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return nil, apperr.Wrap(ErrAlreadyFavorite, err)
		case errors.Is(err, store.ErrNotFound):
			return nil, apperr.Wrap(ErrClientNotFound, err)
		}
		s.logger.Error().Err(err).Str("client_id", clientID).Msg("Error adding favorite")
		return nil, apperr.Upstream("failed to add favorite", err)
	}

	s.logger.Info().Str("client_id", clientID).Str("product_id", productID).Msg("Favorite added")
	return s.ids(ctx, clientID)
}

// Remove drops productID from the client's favorites. Removing a product that
// is not a favorite succeeds.
func (s *FavoritesService) Remove(ctx context.Context, clientID, productID string) ([]string, error) {
	if err := checkID(clientID); err != nil {
		return nil, err
	}
	if err := checkID(productID); err != nil {
		return nil, err
	}

	if err := s.clients.RemoveFavorite(ctx, clientID, productID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error().Err(err).Str("client_id", clientID).Msg("Error removing favorite")
		}
		return nil, translate(err, ErrClientNotFound, "failed to remove favorite")
	}

	s.logger.Info().Str("client_id", clientID).Str("product_id", productID).Msg("Favorite removed")
	return s.ids(ctx, clientID)
}

// List resolves the client's favorites in the order they were added. Ids
// whose product no longer exists are skipped.
func (s *FavoritesService) List(ctx context.Context, clientID string) ([]models.Product, error) {
	if err := checkID(clientID); err != nil {
		return nil, err
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, translate(err, ErrClientNotFound, "failed to list favorites")
	}

	products := make([]models.Product, 0, len(client.Favorites))
	for _, id := range client.Favorites {
		p, err := s.products.GetByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Debug().Str("client_id", clientID).Str("product_id", id).Msg("Skipping dangling favorite")
			continue
		}
		if err != nil {
			s.logger.Error().Err(err).Str("product_id", id).Msg("Error resolving favorite")
			return nil, apperr.Upstream("failed to list favorites", err)
		}
		products = append(products, *p)
	}
	return products, nil
}

func (s *FavoritesService) Contains(ctx context.Context, clientID, productID string) (bool, error) {
	if err := checkID(clientID); err != nil {
		return false, err
	}
	if err := checkID(productID); err != nil {
		return false, err
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return false, translate(err, ErrClientNotFound, "failed to check favorite")
	}
	return client.HasFavorite(productID), nil
}

func (s *FavoritesService) ids(ctx context.Context, clientID string) ([]string, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, translate(err, ErrClientNotFound, "failed to read favorites")
	}
	return client.Favorites, nil
}
