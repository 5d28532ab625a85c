package services

import (
	"context"
	"strings"
	"testing"

	"bazar-backend/internal/apperr"
	"bazar-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createClient(t *testing.T, f *fixture, email, password string) *models.Client {
	t.Helper()
	resp, err := f.clients.Create(context.Background(), &models.CreateClientRequest{
		Name:        "Ada",
		Email:       email,
		PhoneNumber: "5551234",
		Address:     "Main St 1",
		Password:    password,
	})
	require.NoError(t, err)
	return resp.Client
}

func TestClientCreateAndLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.clients.Create(ctx, &models.CreateClientRequest{
		Name: "Ada", Email: "a@x.io", PhoneNumber: "555", Password: "p1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.True(t, models.ValidID(resp.Client.ID))
	assert.NotEqual(t, "p1", resp.Client.PasswordHash)
	assert.Empty(t, resp.Client.Favorites)

	sub, err := f.auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Client.ID, sub)

	login, err := f.clients.Login(ctx, &models.LoginRequest{Email: "a@x.io", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, resp.Client.ID, login.Client.ID)
	sub, err = f.auth.ValidateToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Client.ID, sub)
}

func TestClientLoginFailures(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	createClient(t, f, "a@x.io", "p1")

	_, err := f.clients.Login(ctx, &models.LoginRequest{Email: "a@x.io", Password: "p2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	_, err = f.clients.Login(ctx, &models.LoginRequest{Email: "nobody@x.io", Password: "p1"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestClientCreateDuplicateEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	createClient(t, f, "a@x.io", "p1")

	_, err := f.clients.Create(context.Background(), &models.CreateClientRequest{
		Name: "Other", Email: "a@x.io", PhoneNumber: "1", Password: "p2",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestClientCreateEmptyPassword(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.clients.Create(context.Background(), &models.CreateClientRequest{Name: "A", Email: "a@x.io", PhoneNumber: "1"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestClientPasswordTooLong(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	long := strings.Repeat("x", 80)

	_, err := f.clients.Create(ctx, &models.CreateClientRequest{Name: "A", Email: "a@x.io", PhoneNumber: "1", Password: long})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	c := createClient(t, f, "b@x.io", strings.Repeat("x", 72))
	_, err = f.clients.Update(ctx, c.ID, &models.UpdateClientRequest{Password: &long})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestClientEmailExists(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	createClient(t, f, "a@x.io", "p1")

	ok, err := f.clients.EmailExists(ctx, "a@x.io")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.clients.EmailExists(ctx, "A@x.io")
	require.NoError(t, err)
	assert.False(t, ok, "email lookup is case-sensitive")
}

func TestClientUpdate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	c := createClient(t, f, "a@x.io", "p1")

	name := "Grace"
	phone := models.PhoneNumber("999")
	got, err := f.clients.Update(ctx, c.ID, &models.UpdateClientRequest{Name: &name, PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.Name)
	assert.Equal(t, "999", got.PhoneNumber)
	assert.Equal(t, c.PasswordHash, got.PasswordHash, "password untouched without a new one")

	_, err = f.clients.Login(ctx, &models.LoginRequest{Email: "a@x.io", Password: "p1"})
	require.NoError(t, err)

	pw := "p2"
	_, err = f.clients.Update(ctx, c.ID, &models.UpdateClientRequest{Password: &pw})
	require.NoError(t, err)
	_, err = f.clients.Login(ctx, &models.LoginRequest{Email: "a@x.io", Password: "p2"})
	require.NoError(t, err)
}

func TestClientUpdateErrors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	createClient(t, f, "a@x.io", "p1")
	b := createClient(t, f, "b@x.io", "p1")

	taken := "a@x.io"
	_, err := f.clients.Update(ctx, b.ID, &models.UpdateClientRequest{Email: &taken})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = f.clients.Update(ctx, "nope", &models.UpdateClientRequest{})
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = f.clients.Update(ctx, models.NewID(), &models.UpdateClientRequest{})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	empty := ""
	_, err = f.clients.Update(ctx, b.ID, &models.UpdateClientRequest{Password: &empty})
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestClientListGetDelete(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	a := createClient(t, f, "a@x.io", "p1")
	createClient(t, f, "b@x.io", "p1")

	list, err := f.clients.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	got, err := f.clients.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", got.Email)

	require.NoError(t, f.clients.Delete(ctx, a.ID))
	err = f.clients.Delete(ctx, a.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)

	list, err = f.clients.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
