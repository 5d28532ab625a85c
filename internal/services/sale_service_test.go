package services

import (
	"context"
	"testing"
	"time"

	"bazar-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleCreateResolvesReferences(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	c := createClient(t, f, "a@x.io", "p1")
	p := createProduct(t, f, "one")

	before := time.Now().UTC().Add(-time.Second)
	sale, err := f.sales.Create(ctx, &models.CreateSaleRequest{ClientID: c.ID, ProductID: p.ID, Status: "stay"})
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusStay, sale.Status)
	assert.True(t, sale.SaleDate.After(before))
	require.NotNil(t, sale.Client)
	assert.Equal(t, "a@x.io", sale.Client.Email)
	require.NotNil(t, sale.Product)
	assert.Equal(t, "one", sale.Product.Name)
	assert.Equal(t, 10.0, sale.Product.Price)

	list, err := f.sales.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, sale.ID, list[0].ID)
}

func TestSaleCreateUnknownReferences(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	c := createClient(t, f, "a@x.io", "p1")
	p := createProduct(t, f, "one")

	_, err := f.sales.Create(ctx, &models.CreateSaleRequest{ClientID: models.NewID(), ProductID: p.ID, Status: "stay"})
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = f.sales.Create(ctx, &models.CreateSaleRequest{ClientID: c.ID, ProductID: models.NewID(), Status: "stay"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.sales.Create(ctx, &models.CreateSaleRequest{ClientID: "x", ProductID: p.ID, Status: "stay"})
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestSaleUpdateAndDelete(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	c := createClient(t, f, "a@x.io", "p1")
	p := createProduct(t, f, "one")

	sale, err := f.sales.Create(ctx, &models.CreateSaleRequest{ClientID: c.ID, ProductID: p.ID, Status: "stay"})
	require.NoError(t, err)

	status := "finish"
	got, err := f.sales.Update(ctx, sale.ID, &models.UpdateSaleRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusFinish, got.Status)
	assert.Equal(t, c.ID, got.ClientID)

	bad := "zzz"
	_, err = f.sales.Update(ctx, sale.ID, &models.UpdateSaleRequest{ProductID: &bad})
	assert.ErrorIs(t, err, ErrInvalidID)

	require.NoError(t, f.sales.Delete(ctx, sale.ID))
	_, err = f.sales.Get(ctx, sale.ID)
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestSaleReadWithDeletedProduct(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	c := createClient(t, f, "a@x.io", "p1")
	p := createProduct(t, f, "one")

	sale, err := f.sales.Create(ctx, &models.CreateSaleRequest{ClientID: c.ID, ProductID: p.ID, Status: "cancel"})
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, p.ID))

	got, err := f.sales.Get(ctx, sale.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Client)
	assert.Nil(t, got.Product)
}
