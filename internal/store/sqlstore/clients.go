package sqlstore

import (
	"context"
	"fmt"
	"time"

	"bazar-backend/internal/models"
	"bazar-backend/internal/store"

	"github.com/jmoiron/sqlx"
)

const clientColumns = "id, name, email, phone_number, address, password_hash, reset_password_token, reset_password_expires, created_at, updated_at"

type clientRepo struct {
	db *sqlx.DB
}

func (r *clientRepo) Create(ctx context.Context, c *models.Client) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO clients ("+clientColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		c.ID, c.Name, c.Email, c.PhoneNumber, c.Address, c.PasswordHash,
		c.ResetPasswordToken, c.ResetPasswordExpires, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return mapErr(err)
	}
	if c.Favorites == nil {
		c.Favorites = []string{}
	}
	return nil
}

func (r *clientRepo) get(ctx context.Context, where string, arg any) (*models.Client, error) {
	var c models.Client
	if err := r.db.GetContext(ctx, &c, "SELECT "+clientColumns+" FROM clients WHERE "+where, arg); err != nil {
		return nil, mapErr(err)
	}
	favorites, err := r.favorites(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Favorites = favorites
	return &c, nil
}

func (r *clientRepo) favorites(ctx context.Context, clientID string) ([]string, error) {
	ids := []string{}
	err := r.db.SelectContext(ctx, &ids, "SELECT product_id FROM client_favorites WHERE client_id = ? ORDER BY id", clientID)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	return ids, nil
}

func (r *clientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *clientRepo) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	return r.get(ctx, "email = ?", email)
}

func (r *clientRepo) List(ctx context.Context) ([]models.Client, error) {
	clients := []models.Client{}
	if err := r.db.SelectContext(ctx, &clients, "SELECT "+clientColumns+" FROM clients ORDER BY id"); err != nil {
		return nil, err
	}

	var rows []struct {
		ClientID  string `db:"client_id"`
		ProductID string `db:"product_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, "SELECT client_id, product_id FROM client_favorites ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	byClient := make(map[string][]string)
	for _, row := range rows {
		byClient[row.ClientID] = append(byClient[row.ClientID], row.ProductID)
	}
	for i := range clients {
		clients[i].Favorites = byClient[clients[i].ID]
		if clients[i].Favorites == nil {
			clients[i].Favorites = []string{}
		}
	}
	return clients, nil
}

func (r *clientRepo) Update(ctx context.Context, id string, u models.ClientUpdate, at time.Time) (*models.Client, error) {
	var set setClause
	if u.Name != nil {
		set.add("name", *u.Name)
	}
	if u.Email != nil {
		set.add("email", *u.Email)
	}
	if u.PhoneNumber != nil {
		set.add("phone_number", *u.PhoneNumber)
	}
	if u.Address != nil {
		set.add("address", *u.Address)
	}
	if u.PasswordHash != nil {
		set.add("password_hash", *u.PasswordHash)
	}
	set.add("updated_at", at)

	if err := set.update(ctx, r.db, "clients", id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *clientRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *clientRepo) SetResetTicket(ctx context.Context, id, token string, expires time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE clients SET reset_password_token = ?, reset_password_expires = ? WHERE id = ?",
		token, expires, id,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *clientRepo) RedeemResetTicket(ctx context.Context, token string, now time.Time, passwordHash string) (*models.Client, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.GetContext(ctx, &id,
		"SELECT id FROM clients WHERE reset_password_token = ? AND reset_password_expires > ? FOR UPDATE",
		token, now,
	)
	if err != nil {
		return nil, mapErr(err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE clients SET password_hash = ?, reset_password_token = NULL, reset_password_expires = NULL, updated_at = ? WHERE id = ?",
		passwordHash, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("redeem ticket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *clientRepo) exists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM clients WHERE id = ?", id); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *clientRepo) AddFavorite(ctx context.Context, clientID, productID string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO client_favorites (client_id, product_id) VALUES (?, ?)",
		clientID, productID,
	)
	return mapErr(err)
}

func (r *clientRepo) RemoveFavorite(ctx context.Context, clientID, productID string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM client_favorites WHERE client_id = ? AND product_id = ?",
		clientID, productID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return err
	}

	ok, err := r.exists(ctx, clientID)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}

func (r *clientRepo) RemoveProductFromFavorites(ctx context.Context, productID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM client_favorites WHERE product_id = ?", productID)
	return err
}
