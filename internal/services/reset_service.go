package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"bazar-backend/internal/apperr"
	"bazar-backend/internal/config"
	"bazar-backend/internal/store"

	"github.com/rs/zerolog"
)

const resetTokenBytes = 20

var ErrInvalidOrExpiredToken = apperr.Validation("Password reset token is invalid or has expired")

// Mailer delivers a plain-text message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type ResetService struct {
	clients store.ClientRepository
	hasher  PasswordHasher
	mailer  Mailer
	cfg     *config.Config
	logger  zerolog.Logger

	now    func() time.Time
	random io.Reader
}

func NewResetService(clients store.ClientRepository, hasher PasswordHasher, mailer Mailer, cfg *config.Config, logger zerolog.Logger) *ResetService {
	return &ResetService{
		clients: clients,
		hasher:  hasher,
		mailer:  mailer,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		random:  rand.Reader,
	}
}

// RequestReset issues a fresh ticket for the client registered under email
// and mails the reset link. Any earlier ticket stops being redeemable.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	client, err := s.clients.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error().Err(err).Msg("Error looking up client for password reset")
		}
		return translate(err, ErrClientNotFound, "failed to start password reset")
	}

	token, err := s.newToken()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error generating reset token")
		return apperr.Upstream("failed to start password reset", err)
	}

	expires := s.now().UTC().Add(s.cfg.ResetTokenTTL)
	if err := s.clients.SetResetTicket(ctx, client.ID, token, expires); err != nil {
		s.logger.Error().Err(err).Str("client_id", client.ID).Msg("Error storing reset ticket")
		return translate(err, ErrClientNotFound, "failed to start password reset")
	}

	link := s.cfg.FrontendURL + "/ResetPassword?token=" + url.QueryEscape(token)
	if err := s.mailer.Send(ctx, client.Email, "Password reset", resetBody(client.Name, link, s.cfg.ResetTokenTTL)); err != nil {
		s.logger.Error().Err(err).Str("client_id", client.ID).Msg("Error sending reset email")
		return apperr.Upstream("failed to send password reset email", err)
	}

	s.logger.Info().Str("client_id", client.ID).Time("expires", expires).Msg("Password reset requested")
	return nil
}

// Redeem sets a new password for the holder of token. The store matches token
// and expiry in the same write that clears the ticket, so a token redeems at
// most once.
func (s *ResetService) Redeem(ctx context.Context, token, newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}
	if token == "" {
		return ErrInvalidOrExpiredToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return apperr.Upstream("failed to reset password", err)
	}

	client, err := s.clients.RedeemResetTicket(ctx, token, s.now().UTC(), hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Wrap(ErrInvalidOrExpiredToken, err)
		}
		s.logger.Error().Err(err).Msg("Error redeeming reset ticket")
		return translate(err, ErrClientNotFound, "failed to reset password")
	}

	s.logger.Info().Str("client_id", client.ID).Msg("Password reset successfully")
	return nil
}

func (s *ResetService) newToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := io.ReadFull(s.random, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func resetBody(name, link string, ttl time.Duration) string {
	return fmt.Sprintf(`Hello %s,

You are receiving this email because a password reset was requested for your account.

Open the following link to choose a new password:

%s

The link is valid for %s. If you did not request a reset, ignore this email and your password will stay unchanged.
`, name, link, ttl)
}
