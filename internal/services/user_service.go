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

type UserService struct {
	users  store.UserRepository
	hasher PasswordHasher
	auth   *AuthService
	cfg    *config.Config
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserService(users store.UserRepository, hasher PasswordHasher, auth *AuthService, cfg *config.Config, logger zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		auth:   auth,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}

	_, err := s.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		s.logger.Error().Err(err).Msg("Error checking existing user")
		return nil, translate(err, ErrUserNotFound, "failed to create user")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, translate(err, ErrUserNotFound, "failed to create user")
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           models.NewID(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, translate(err, ErrUserNotFound, "failed to create user")
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered successfully")
	return user, nil
}

// SignUp registers a user and opens a session for it.
func (s *UserService) SignUp(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	user, err := s.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	token, err := s.auth.GenerateToken(user.ID, s.cfg.AuthTokenTTL)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{User: user, Token: token}, nil
}

// Authenticate checks a user's credentials and issues a short-lived token.
// Unknown emails are reported as not found.
func (s *UserService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, translate(err, ErrUserNotFound, "failed to authenticate")
	}
	return s.issue(user, req.Password, s.cfg.UserTokenTTL)
}

// Login is the session login. It does not reveal whether the email exists.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Msg("Error finding user")
		return nil, translate(err, ErrUserNotFound, "failed to log in")
	}
	return s.issue(user, req.Password, s.cfg.AuthTokenTTL)
}

func (s *UserService) issue(user *models.User, password string, ttl time.Duration) (*models.AuthResponse, error) {
	if !s.hasher.Verify(user.PasswordHash, password) {
		s.logger.Warn().Str("user_id", user.ID).Msg("Invalid password attempt")
		return nil, ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(user.ID, ttl)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("User logged in successfully")
	return &models.AuthResponse{User: user, Token: token}, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying users")
		return nil, translate(err, ErrUserNotFound, "failed to list users")
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrUserNotFound, "failed to get user")
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	upd := models.UserUpdate{Name: req.Name, Email: req.Email}
	if req.Password != nil {
		if err := checkPassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("Error hashing password")
			return nil, translate(err, ErrUserNotFound, "failed to update user")
		}
		upd.PasswordHash = &hash
	}

	user, err := s.users.Update(ctx, id, upd, s.now().UTC())
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrDuplicate) {
			s.logger.Error().Err(err).Str("user_id", id).Msg("Error updating user")
		}
		return nil, translate(err, ErrUserNotFound, "failed to update user")
	}

	s.logger.Info().Str("user_id", id).Msg("User updated successfully")
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error().Err(err).Str("user_id", id).Msg("Error deleting user")
		}
		return translate(err, ErrUserNotFound, "failed to delete user")
	}

	s.logger.Info().Str("user_id", id).Msg("User deleted successfully")
	return nil
}
