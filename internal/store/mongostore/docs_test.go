package mongostore

import (
	"testing"
	"time"

	"bazar-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestClientDocRoundTrip(t *testing.T) {
	token := "abc"
	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Millisecond)
	c := &models.Client{
		ID:                   models.NewID(),
		Name:                 "A",
		Email:                "a@x.com",
		PhoneNumber:          "1",
		PasswordHash:         "hash",
		ResetPasswordToken:   &token,
		ResetPasswordExpires: &exp,
		Favorites:            []string{models.NewID(), models.NewID()},
	}

	doc, err := toClientDoc(c)
	require.NoError(t, err)
	assert.Equal(t, c.ID, doc.ID.Hex())
	assert.Equal(t, "hash", doc.Password)
	require.Len(t, doc.Favorites, 2)

	assert.Equal(t, c, doc.model())
}

func TestToClientDocRejectsBadFavorite(t *testing.T) {
	_, err := toClientDoc(&models.Client{ID: models.NewID(), Favorites: []string{"nope"}})
	assert.Error(t, err)
}

func TestClientUpdateDocOnlySetsChangedFields(t *testing.T) {
	at := time.Now()
	name := "B"

	set := clientUpdateDoc(models.ClientUpdate{Name: &name}, at)["$set"].(bson.M)
	assert.Equal(t, bson.M{"name": "B", "updatedAt": at}, set)

	hash := "h"
	set = clientUpdateDoc(models.ClientUpdate{PasswordHash: &hash}, at)["$set"].(bson.M)
	assert.Equal(t, "h", set["password"])
	assert.NotContains(t, set, "name")
}

func TestSaleUpdateDoc(t *testing.T) {
	status := models.SaleStatusFinish
	clientID := models.NewID()

	update, err := saleUpdateDoc(models.SaleUpdate{Status: &status, ClientID: &clientID})
	require.NoError(t, err)
	set := update["$set"].(bson.M)
	assert.Equal(t, "finish", set["status"])
	assert.IsType(t, bson.ObjectID{}, set["clientId"])

	bad := "bad"
	_, err = saleUpdateDoc(models.SaleUpdate{ProductID: &bad})
	assert.Error(t, err)
}

func TestByIDMalformed(t *testing.T) {
	_, err := byID("xyz")
	assert.Error(t, err)

	f, err := byID(models.NewID())
	require.NoError(t, err)
	assert.Contains(t, f, "_id")
}
