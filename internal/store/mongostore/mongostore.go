// Package mongostore is the MongoDB backend. Each entity lives in its own
// collection; favorites are an array of product ObjectIDs embedded in the
// client document so every favorites change is a single-document update.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"bazar-backend/internal/store"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	clientsCollection  = "clients"
	usersCollection    = "users"
	productsCollection = "products"
	salesCollection    = "sales"
)

type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	clients  *clientRepo
	users    *userRepo
	products *productRepo
	sales    *saleRepo
}

// Open connects to uri, verifies the connection and makes sure the unique
// indexes exist.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := New(client, dbName)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// New wraps an already connected client.
func New(client *mongo.Client, dbName string) *Store {
	db := client.Database(dbName)
	return &Store{
		client:   client,
		db:       db,
		clients:  &clientRepo{coll: db.Collection(clientsCollection)},
		users:    &userRepo{coll: db.Collection(usersCollection)},
		products: &productRepo{coll: db.Collection(productsCollection)},
		sales:    &saleRepo{coll: db.Collection(salesCollection)},
	}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := []struct {
		coll  string
		field string
	}{
		{clientsCollection, "email"},
		{usersCollection, "email"},
	}
	for _, idx := range unique {
		_, err := s.db.Collection(idx.coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: idx.field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("create %s.%s index: %w", idx.coll, idx.field, err)
		}
	}

	_, err := s.db.Collection(clientsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "resetPasswordToken", Value: 1}},
		Options: options.Index().SetSparse(true),
	})
	if err != nil {
		return fmt.Errorf("create reset token index: %w", err)
	}
	return nil
}

func (s *Store) Clients() store.ClientRepository   { return s.clients }
func (s *Store) Users() store.UserRepository       { return s.users }
func (s *Store) Products() store.ProductRepository { return s.products }
func (s *Store) Sales() store.SaleRepository       { return s.sales }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// mapErr turns driver errors into store errors.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrDuplicate
	default:
		return err
	}
}

// byID builds an _id filter. A malformed id can never match, so it reports
// not found.
func byID(id string) (bson.M, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}
	return bson.M{"_id": oid}, nil
}

var findOneAndUpdateAfter = options.FindOneAndUpdate().SetReturnDocument(options.After)

var sortByID = options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
