package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"bazar-backend/internal/apperr"
	"bazar-backend/internal/models"
	"bazar-backend/internal/store"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

var (
	ErrEmptyImage = apperr.Validation("Image file is empty")
	ErrNotAnImage = apperr.Validation("Uploaded file is not an image")
)

// ImageStore keeps product images in object storage.
type ImageStore interface {
	// Upload stores data and returns the object key and its public URL.
	Upload(ctx context.Context, filename, contentType string, data []byte) (key, url string, err error)
	Delete(ctx context.Context, key string) error
}

type ProductService struct {
	products store.ProductRepository
	clients  store.ClientRepository
	images   ImageStore
	logger   zerolog.Logger
	now      func() time.Time
}

func NewProductService(products store.ProductRepository, clients store.ClientRepository, images ImageStore, logger zerolog.Logger) *ProductService {
	return &ProductService{
		products: products,
		clients:  clients,
		images:   images,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *ProductService) Create(ctx context.Context, req *models.CreateProductRequest, img *models.ImageUpload) (*models.Product, error) {
	now := s.now().UTC()
	product := &models.Product{
		ID:          models.NewID(),
		Name:        req.Name,
		Description: req.Description,
		Status:      models.ProductStatus(req.Status),
		Category:    req.Category,
		State:       req.State,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	}

	if img != nil {
		key, url, err := s.upload(ctx, img)
		if err != nil {
			return nil, err
		}
		product.ImageKey, product.ImageURL = key, url
	}

	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Msg("Error creating product")
		s.discard(ctx, product.ImageKey)
		return nil, translate(err, ErrProductNotFound, "failed to create product")
	}

	s.logger.Info().Str("product_id", product.ID).Str("name", product.Name).Msg("Product created successfully")
	return product, nil
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing products")
		return nil, translate(err, ErrProductNotFound, "failed to list products")
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrProductNotFound, "failed to get product")
	}
	return product, nil
}

// Update applies the fields present in req. A new image is uploaded before
// the record is written and the previous image is removed afterwards; a
// failure removing the old object is logged and does not fail the update.
func (s *ProductService) Update(ctx context.Context, id string, req *models.UpdateProductRequest, img *models.ImageUpload) (*models.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	current, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrProductNotFound, "failed to update product")
	}

	upd := models.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		State:       req.State,
		Price:       req.Price,
		Discount:    req.Discount,
	}
	if req.Status != nil {
		status := models.ProductStatus(*req.Status)
		upd.Status = &status
	}

	var newKey string
	if img != nil {
		key, url, err := s.upload(ctx, img)
		if err != nil {
			return nil, err
		}
		newKey = key
		upd.ImageKey, upd.ImageURL = &key, &url
	}

	product, err := s.products.Update(ctx, id, upd, s.now().UTC())
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error().Err(err).Str("product_id", id).Msg("Error updating product")
		}
		s.discard(ctx, newKey)
		return nil, translate(err, ErrProductNotFound, "failed to update product")
	}

	if newKey != "" && current.ImageKey != "" && current.ImageKey != newKey {
		s.discard(ctx, current.ImageKey)
	}

	s.logger.Info().Str("product_id", id).Msg("Product updated successfully")
	return product, nil
}

// Delete removes the product, drops it from every client's favorites and
// deletes its image.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	product, err := s.products.Delete(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error().Err(err).Str("product_id", id).Msg("Error deleting product")
		}
		return translate(err, ErrProductNotFound, "failed to delete product")
	}

	if err := s.clients.RemoveProductFromFavorites(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("Error removing product from favorites")
		return apperr.Upstream("failed to delete product", err)
	}

	s.discard(ctx, product.ImageKey)

	s.logger.Info().Str("product_id", id).Msg("Product deleted successfully")
	return nil
}

func (s *ProductService) upload(ctx context.Context, img *models.ImageUpload) (string, string, error) {
	if len(img.Data) == 0 {
		return "", "", ErrEmptyImage
	}
	mt := mimetype.Detect(img.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", "", ErrNotAnImage
	}

	key, url, err := s.images.Upload(ctx, img.Filename, mt.String(), img.Data)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", img.Filename).Msg("Error uploading product image")
		return "", "", apperr.Upstream("failed to upload image", err)
	}
	return key, url, nil
}

// discard deletes an image that is no longer referenced. Failures only leave
// an orphaned object behind, so they are logged.
func (s *ProductService) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.logger.Error().Err(err).Str("image_key", key).Msg("Error deleting product image")
	}
}
