package models

import (
	"bytes"
	"encoding/json"
	"time"
)

type Client struct {
	ID                   string     `json:"_id" db:"id"`
	Name                 string     `json:"name" db:"name"`
	Email                string     `json:"email" db:"email"`
	PhoneNumber          string     `json:"phoneNumber" db:"phone_number"`
	Address              string     `json:"address,omitempty" db:"address"`
	PasswordHash         string     `json:"-" db:"password_hash"`
	ResetPasswordToken   *string    `json:"-" db:"reset_password_token"`
	ResetPasswordExpires *time.Time `json:"-" db:"reset_password_expires"`
	Favorites            []string   `json:"favorites" db:"-"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time  `json:"updatedAt" db:"updated_at"`
}

// HasResetTicket reports whether the client holds a reset ticket that is
// still valid at now.
func (c *Client) HasResetTicket(now time.Time) bool {
	return c.ResetPasswordToken != nil && c.ResetPasswordExpires != nil && now.Before(*c.ResetPasswordExpires)
}

// HasFavorite reports whether productID is in the client's favorites.
func (c *Client) HasFavorite(productID string) bool {
	for _, id := range c.Favorites {
		if id == productID {
			return true
		}
	}
	return false
}

// ClientUpdate lists the fields a write touches. A nil field is left alone.
type ClientUpdate struct {
	Name         *string
	Email        *string
	PhoneNumber  *string
	Address      *string
	PasswordHash *string
}

// PhoneNumber accepts both JSON strings and JSON numbers.
type PhoneNumber string

func (p *PhoneNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PhoneNumber(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = PhoneNumber(n.String())
	return nil
}

type CreateClientRequest struct {
	Name        string      `json:"name" validate:"required"`
	Email       string      `json:"email" validate:"required,email"`
	PhoneNumber PhoneNumber `json:"phoneNumber" validate:"required"`
	Address     string      `json:"address"`
	Password    string      `json:"password" validate:"required"`
}

type UpdateClientRequest struct {
	Name        *string      `json:"name,omitempty" validate:"omitempty,min=1"`
	Email       *string      `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *PhoneNumber `json:"phoneNumber,omitempty"`
	Address     *string      `json:"address,omitempty"`
	Password    *string      `json:"password,omitempty" validate:"omitempty,min=1"`
}

type CheckEmailRequest struct {
	Email string `json:"email" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required"`
}

type FavoriteRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type ClientAuthResponse struct {
	Token  string  `json:"token"`
	Client *Client `json:"client"`
}
