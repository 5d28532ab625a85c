package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"bazar-backend/internal/models"
	"bazar-backend/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreWithMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "mysql")), mock
}

var clientCols = []string{"id", "name", "email", "phone_number", "address", "password_hash", "reset_password_token", "reset_password_expires", "created_at", "updated_at"}

func clientRow(id, email string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(clientCols).AddRow(id, "A", email, "1", "addr", "hash", nil, nil, now, now)
}

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(sql.ErrNoRows), store.ErrNotFound)
	assert.ErrorIs(t, mapErr(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}), store.ErrDuplicate)
	assert.ErrorIs(t, mapErr(&mysql.MySQLError{Number: 1452}), store.ErrNotFound)

	other := errors.New("db down")
	assert.Equal(t, other, mapErr(other))
}

func TestClientCreateDuplicate(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectExec(`^INSERT INTO clients`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.com'"})

	err := s.Clients().Create(context.Background(), &models.Client{ID: models.NewID(), Email: "a@x.com"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientGetByIDLoadsFavorites(t *testing.T) {
	s, mock := newStoreWithMock(t)
	id, p1, p2 := models.NewID(), models.NewID(), models.NewID()

	mock.ExpectQuery(`^SELECT .+ FROM clients WHERE id = \?$`).
		WithArgs(id).
		WillReturnRows(clientRow(id, "a@x.com"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT product_id FROM client_favorites WHERE client_id = ? ORDER BY id")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow(p1).AddRow(p2))

	c, err := s.Clients().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", c.Email)
	assert.Equal(t, []string{p1, p2}, c.Favorites)
	assert.Nil(t, c.ResetPasswordToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientGetByEmailNotFound(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(`^SELECT .+ FROM clients WHERE email = \?$`).
		WithArgs("nobody@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Clients().GetByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClientUpdateOnlyChangedColumns(t *testing.T) {
	s, mock := newStoreWithMock(t)
	id := models.NewID()
	name := "B"

	mock.ExpectExec(regexp.QuoteMeta("UPDATE clients SET name = ?, updated_at = ? WHERE id = ?")).
		WithArgs("B", sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := s.Clients().Update(context.Background(), id, models.ClientUpdate{Name: &name}, time.Now())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemResetTicket(t *testing.T) {
	s, mock := newStoreWithMock(t)
	id := models.NewID()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM clients WHERE reset_password_token = ? AND reset_password_expires > ? FOR UPDATE")).
		WithArgs("tok", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE clients SET password_hash = ?, reset_password_token = NULL, reset_password_expires = NULL, updated_at = ? WHERE id = ?")).
		WithArgs("new-hash", now, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`^SELECT .+ FROM clients WHERE id = \?$`).
		WithArgs(id).
		WillReturnRows(clientRow(id, "a@x.com"))
	mock.ExpectQuery(`^SELECT product_id FROM client_favorites`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}))

	c, err := s.Clients().RedeemResetTicket(context.Background(), "tok", now, "new-hash")
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemResetTicketNoMatch(t *testing.T) {
	s, mock := newStoreWithMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`^SELECT id FROM clients WHERE reset_password_token`).
		WithArgs("stale", now).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := s.Clients().RedeemResetTicket(context.Background(), "stale", now, "h")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddFavoriteDuplicate(t *testing.T) {
	s, mock := newStoreWithMock(t)
	cid, pid := models.NewID(), models.NewID()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO client_favorites (client_id, product_id) VALUES (?, ?)")).
		WithArgs(cid, pid).
		WillReturnError(&mysql.MySQLError{Number: 1062})

	assert.ErrorIs(t, s.Clients().AddFavorite(context.Background(), cid, pid), store.ErrDuplicate)
}

func TestAddFavoriteUnknownClient(t *testing.T) {
	s, mock := newStoreWithMock(t)
	cid, pid := models.NewID(), models.NewID()

	mock.ExpectExec(`^INSERT INTO client_favorites`).
		WithArgs(cid, pid).
		WillReturnError(&mysql.MySQLError{Number: 1452})

	assert.ErrorIs(t, s.Clients().AddFavorite(context.Background(), cid, pid), store.ErrNotFound)
}

func TestRemoveFavorite(t *testing.T) {
	cid, pid := models.NewID(), models.NewID()

	t.Run("absent product is a no-op", func(t *testing.T) {
		s, mock := newStoreWithMock(t)
		mock.ExpectExec(`^DELETE FROM client_favorites WHERE client_id = \? AND product_id = \?$`).
			WithArgs(cid, pid).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM clients WHERE id = ?")).
			WithArgs(cid).
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

		assert.NoError(t, s.Clients().RemoveFavorite(context.Background(), cid, pid))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown client", func(t *testing.T) {
		s, mock := newStoreWithMock(t)
		mock.ExpectExec(`^DELETE FROM client_favorites`).
			WithArgs(cid, pid).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`^SELECT COUNT`).
			WithArgs(cid).
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

		assert.ErrorIs(t, s.Clients().RemoveFavorite(context.Background(), cid, pid), store.ErrNotFound)
	})

	t.Run("removed", func(t *testing.T) {
		s, mock := newStoreWithMock(t)
		mock.ExpectExec(`^DELETE FROM client_favorites`).
			WithArgs(cid, pid).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Clients().RemoveFavorite(context.Background(), cid, pid))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductDeleteReturnsRow(t *testing.T) {
	s, mock := newStoreWithMock(t)
	id := models.NewID()
	now := time.Now()

	cols := []string{"id", "name", "description", "status", "category", "state", "price", "discount", "image_url", "image_key", "created_at", "updated_at"}
	mock.ExpectBegin()
	mock.ExpectQuery(`^SELECT .+ FROM products WHERE id = \? FOR UPDATE$`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(id, "chair", "wood", "available", "home", "new", "10.50", "0", "http://img", "products/k.png", now, now))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = ?")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, err := s.Products().Delete(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "products/k.png", p.ImageKey)
	assert.Equal(t, 10.5, p.Price)
	assert.Equal(t, models.ProductStatusAvailable, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleUpdateWithoutChangesOnlyReads(t *testing.T) {
	s, mock := newStoreWithMock(t)
	id := models.NewID()

	mock.ExpectQuery(`^SELECT .+ FROM sales WHERE id = \?$`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "product_id", "status", "sale_date"}).
			AddRow(id, models.NewID(), models.NewID(), "stay", time.Now()))

	sale, err := s.Sales().Update(context.Background(), id, models.SaleUpdate{})
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusStay, sale.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
