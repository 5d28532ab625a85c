// Package services holds the business rules behind the HTTP handlers. Every
// error a service returns is an *apperr.Error so handlers can map it onto a
// status code without inspecting storage errors.
package services

import (
	"errors"

	"bazar-backend/internal/apperr"
	"bazar-backend/internal/models"
	"bazar-backend/internal/store"
)

var (
	ErrClientNotFound  = apperr.NotFound("Client not found")
	ErrUserNotFound    = apperr.NotFound("User not found")
	ErrProductNotFound = apperr.NotFound("Product not found")
	ErrSaleNotFound    = apperr.NotFound("Sale not found")

	ErrEmailTaken         = apperr.Conflict("Email already registered")
	ErrInvalidCredentials = apperr.Unauthenticated("Invalid credentials")
	ErrInvalidID          = apperr.Validation("Invalid id")
	ErrEmptyPassword      = apperr.Validation("Password must not be empty")
	ErrPasswordTooLong    = apperr.Validation("Password must be at most 72 bytes")
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// translate maps a storage error onto the service error for the entity being
// handled. Anything unrecognised becomes an upstream failure with msg.
func translate(err error, notFound *apperr.Error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperr.Wrap(notFound, err)
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Wrap(ErrEmailTaken, err)
	default:
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return err
		}
		return apperr.Upstream(msg, err)
	}
}

func checkID(id string) error {
	if !models.ValidID(id) {
		return ErrInvalidID
	}
	return nil
}

func checkPassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}
