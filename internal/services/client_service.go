package services

import (
	"context"
	"errors"
	"time"

	"bazar-backend/internal/config"
	"bazar-backend/internal/models"
	"bazar-backend/internal/store"

	"github.com/rs/zerolog"
)

type ClientService struct {
	clients store.ClientRepository
	hasher  PasswordHasher
	auth    *AuthService
	cfg     *config.Config
	logger  zerolog.Logger
	now     func() time.Time
}

func NewClientService(clients store.ClientRepository, hasher PasswordHasher, auth *AuthService, cfg *config.Config, logger zerolog.Logger) *ClientService {
	return &ClientService{
		clients: clients,
		hasher:  hasher,
		auth:    auth,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Create registers a client and signs a token for the new account.
func (s *ClientService) Create(ctx context.Context, req *models.CreateClientRequest) (*models.ClientAuthResponse, error) {
	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}

	_, err := s.clients.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		s.logger.Error().Err(err).Msg("Error checking existing client")
		return nil, translate(err, ErrClientNotFound, "failed to create client")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, translate(err, ErrClientNotFound, "failed to create client")
	}

	now := s.now().UTC()
	client := &models.Client{
		ID:           models.NewID(),
		Name:         req.Name,
		Email:        req.Email,
		PhoneNumber:  string(req.PhoneNumber),
		Address:      req.Address,
		PasswordHash: hash,
		Favorites:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		s.logger.Error().Err(err).Str("email", req.Email).Msg("Error creating client")
		return nil, translate(err, ErrClientNotFound, "failed to create client")
	}

	token, err := s.auth.GenerateToken(client.ID, s.cfg.ClientSignupTokenTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("client_id", client.ID).Str("email", client.Email).Msg("Client registered successfully")
	return &models.ClientAuthResponse{Token: token, Client: client}, nil
}

// Login checks the credentials of a client. An unknown email is reported as
// not found, a wrong password as unauthenticated.
func (s *ClientService) Login(ctx context.Context, req *models.LoginRequest) (*models.ClientAuthResponse, error) {
	client, err := s.clients.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error().Err(err).Msg("Error looking up client")
		}
		return nil, translate(err, ErrClientNotFound, "failed to log in")
	}

	if !s.hasher.Verify(client.PasswordHash, req.Password) {
		s.logger.Warn().Str("client_id", client.ID).Msg("Client login with wrong password")
		return nil, ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(client.ID, s.cfg.ClientLoginTokenTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("client_id", client.ID).Msg("Client logged in successfully")
	return &models.ClientAuthResponse{Token: token, Client: client}, nil
}

func (s *ClientService) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.clients.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		s.logger.Error().Err(err).Msg("Error checking client email")
		return false, translate(err, ErrClientNotFound, "failed to check email")
	}
}

func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing clients")
		return nil, translate(err, ErrClientNotFound, "failed to list clients")
	}
	return clients, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrClientNotFound, "failed to get client")
	}
	return client, nil
}

// Update applies the fields present in req. The password is rehashed only
// when the request carries one.
func (s *ClientService) Update(ctx context.Context, id string, req *models.UpdateClientRequest) (*models.Client, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	upd := models.ClientUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	}
	if req.PhoneNumber != nil {
		phone := string(*req.PhoneNumber)
		upd.PhoneNumber = &phone
	}
	if req.Password != nil {
		if err := checkPassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("Error hashing password")
			return nil, translate(err, ErrClientNotFound, "failed to update client")
		}
		upd.PasswordHash = &hash
	}

	client, err := s.clients.Update(ctx, id, upd, s.now().UTC())
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrDuplicate) {
			s.logger.Error().Err(err).Str("client_id", id).Msg("Error updating client")
		}
		return nil, translate(err, ErrClientNotFound, "failed to update client")
	}

	s.logger.Info().Str("client_id", id).Msg("Client updated successfully")
	return client, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error().Err(err).Str("client_id", id).Msg("Error deleting client")
		}
		return translate(err, ErrClientNotFound, "failed to delete client")
	}

	s.logger.Info().Str("client_id", id).Msg("Client deleted successfully")
	return nil
}
