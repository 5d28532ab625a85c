package sqlstore

import (
	"context"
	"fmt"
	"time"

	"bazar-backend/internal/models"

	"github.com/jmoiron/sqlx"
)

const (
	userColumns    = "id, name, email, password_hash, created_at, updated_at"
	productColumns = "id, name, description, status, category, state, price, discount, image_url, image_key, created_at, updated_at"
	saleColumns    = "id, client_id, product_id, status, sale_date"
)

type userRepo struct {
	db *sqlx.DB
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	return mapErr(err)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE email = ?", email); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, "SELECT "+userColumns+" FROM users ORDER BY id"); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Update(ctx context.Context, id string, u models.UserUpdate, at time.Time) (*models.User, error) {
	var set setClause
	if u.Name != nil {
		set.add("name", *u.Name)
	}
	if u.Email != nil {
		set.add("email", *u.Email)
	}
	if u.PasswordHash != nil {
		set.add("password_hash", *u.PasswordHash)
	}
	set.add("updated_at", at)

	if err := set.update(ctx, r.db, "users", id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

type productRepo struct {
	db *sqlx.DB
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO products ("+productColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.Name, p.Description, string(p.Status), p.Category, p.State,
		p.Price, p.Discount, p.ImageURL, p.ImageKey, p.CreatedAt, p.UpdatedAt,
	)
	return mapErr(err)
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.db.GetContext(ctx, &p, "SELECT "+productColumns+" FROM products WHERE id = ?", id); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, "SELECT "+productColumns+" FROM products ORDER BY id"); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) Update(ctx context.Context, id string, u models.ProductUpdate, at time.Time) (*models.Product, error) {
	var set setClause
	if u.Name != nil {
		set.add("name", *u.Name)
	}
	if u.Description != nil {
		set.add("description", *u.Description)
	}
	if u.Status != nil {
		set.add("status", string(*u.Status))
	}
	if u.Category != nil {
		set.add("category", *u.Category)
	}
	if u.State != nil {
		set.add("state", *u.State)
	}
	if u.Price != nil {
		set.add("price", *u.Price)
	}
	if u.Discount != nil {
		set.add("discount", *u.Discount)
	}
	if u.ImageURL != nil {
		set.add("image_url", *u.ImageURL)
	}
	if u.ImageKey != nil {
		set.add("image_key", *u.ImageKey)
	}
	set.add("updated_at", at)

	if err := set.update(ctx, r.db, "products", id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *productRepo) Delete(ctx context.Context, id string) (*models.Product, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var p models.Product
	if err := tx.GetContext(ctx, &p, "SELECT "+productColumns+" FROM products WHERE id = ? FOR UPDATE", id); err != nil {
		return nil, mapErr(err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &p, nil
}

type saleRepo struct {
	db *sqlx.DB
}

func (r *saleRepo) Create(ctx context.Context, s *models.Sale) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sales ("+saleColumns+") VALUES (?, ?, ?, ?, ?)",
		s.ID, s.ClientID, s.ProductID, string(s.Status), s.SaleDate,
	)
	return mapErr(err)
}

func (r *saleRepo) GetByID(ctx context.Context, id string) (*models.Sale, error) {
	var s models.Sale
	if err := r.db.GetContext(ctx, &s, "SELECT "+saleColumns+" FROM sales WHERE id = ?", id); err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

func (r *saleRepo) List(ctx context.Context) ([]models.Sale, error) {
	sales := []models.Sale{}
	if err := r.db.SelectContext(ctx, &sales, "SELECT "+saleColumns+" FROM sales ORDER BY id"); err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *saleRepo) Update(ctx context.Context, id string, u models.SaleUpdate) (*models.Sale, error) {
	var set setClause
	if u.ClientID != nil {
		set.add("client_id", *u.ClientID)
	}
	if u.ProductID != nil {
		set.add("product_id", *u.ProductID)
	}
	if u.Status != nil {
		set.add("status", string(*u.Status))
	}
	if u.SaleDate != nil {
		set.add("sale_date", *u.SaleDate)
	}
	if !set.empty() {
		if err := set.update(ctx, r.db, "sales", id); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *saleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sales WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
