// Package store declares the persistence contracts the services run on.
// Backends live in the mongostore, sqlstore and memstore subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"bazar-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type ClientRepository interface {
	// Create inserts c. ErrDuplicate when the email is taken.
	Create(ctx context.Context, c *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	// Update applies the non-nil fields of u and returns the stored client.
	Update(ctx context.Context, id string, u models.ClientUpdate, at time.Time) (*models.Client, error)
	Delete(ctx context.Context, id string) error

	// SetResetTicket writes only the two ticket fields, replacing any
	// previous ticket.
	SetResetTicket(ctx context.Context, id, token string, expires time.Time) error
	// RedeemResetTicket atomically finds the client whose ticket equals token
	// and expires after now, stores passwordHash and clears the ticket.
	// ErrNotFound when no such ticket exists.
	RedeemResetTicket(ctx context.Context, token string, now time.Time, passwordHash string) (*models.Client, error)

	// AddFavorite appends productID to the client's favorites.
	// ErrNotFound for an unknown client, ErrDuplicate if already present.
	AddFavorite(ctx context.Context, clientID, productID string) error
	// RemoveFavorite drops productID from the client's favorites if present.
	RemoveFavorite(ctx context.Context, clientID, productID string) error
	// RemoveProductFromFavorites drops productID from every client.
	RemoveProductFromFavorites(ctx context.Context, productID string) error
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, u models.UserUpdate, at time.Time) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id string, u models.ProductUpdate, at time.Time) (*models.Product, error)
	// Delete removes the product and returns it as it was stored.
	Delete(ctx context.Context, id string) (*models.Product, error)
}

type SaleRepository interface {
	Create(ctx context.Context, s *models.Sale) error
	GetByID(ctx context.Context, id string) (*models.Sale, error)
	List(ctx context.Context) ([]models.Sale, error)
	Update(ctx context.Context, id string, u models.SaleUpdate) (*models.Sale, error)
	Delete(ctx context.Context, id string) error
}

// Store bundles the repositories of one backend.
type Store interface {
	Clients() ClientRepository
	Users() UserRepository
	Products() ProductRepository
	Sales() SaleRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
