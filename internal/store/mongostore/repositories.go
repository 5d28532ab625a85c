package mongostore

import (
	"context"
	"fmt"
	"time"

	"bazar-backend/internal/models"
	"bazar-backend/internal/store"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type clientRepo struct {
	coll *mongo.Collection
}

func (r *clientRepo) Create(ctx context.Context, c *models.Client) error {
	if c.Favorites == nil {
		c.Favorites = []string{}
	}
	doc, err := toClientDoc(c)
	if err != nil {
		return fmt.Errorf("encode client: %w", err)
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return mapErr(err)
}

func (r *clientRepo) findOne(ctx context.Context, filter any) (*models.Client, error) {
	var doc clientDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *clientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, filter)
}

func (r *clientRepo) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *clientRepo) List(ctx context.Context) ([]models.Client, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, sortByID)
	if err != nil {
		return nil, err
	}
	var docs []clientDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Client, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].model())
	}
	return out, nil
}

func (r *clientRepo) Update(ctx context.Context, id string, u models.ClientUpdate, at time.Time) (*models.Client, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	var doc clientDoc
	err = r.coll.FindOneAndUpdate(ctx, filter, clientUpdateDoc(u, at), findOneAndUpdateAfter).Decode(&doc)
	if err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *clientRepo) Delete(ctx context.Context, id string) error {
	filter, err := byID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *clientRepo) SetResetTicket(ctx context.Context, id, token string, expires time.Time) error {
	filter, err := byID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": expires,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *clientRepo) RedeemResetTicket(ctx context.Context, token string, now time.Time, passwordHash string) (*models.Client, error) {
	filter := bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set":   bson.M{"password": passwordHash, "updatedAt": now},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
	}
	var doc clientDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, findOneAndUpdateAfter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *clientRepo) AddFavorite(ctx context.Context, clientID, productID string) error {
	cid, err := bson.ObjectIDFromHex(clientID)
	if err != nil {
		return store.ErrNotFound
	}
	pid, err := bson.ObjectIDFromHex(productID)
	if err != nil {
		return fmt.Errorf("decode product id: %w", err)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": cid, "favorites": bson.M{"$ne": pid}},
		bson.M{"$push": bson.M{"favorites": pid}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: either the client is gone or the product is already there.
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": cid})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return store.ErrDuplicate
}

func (r *clientRepo) RemoveFavorite(ctx context.Context, clientID, productID string) error {
	cid, err := bson.ObjectIDFromHex(clientID)
	if err != nil {
		return store.ErrNotFound
	}
	pid, err := bson.ObjectIDFromHex(productID)
	if err != nil {
		return fmt.Errorf("decode product id: %w", err)
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": cid}, bson.M{"$pull": bson.M{"favorites": pid}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *clientRepo) RemoveProductFromFavorites(ctx context.Context, productID string) error {
	pid, err := bson.ObjectIDFromHex(productID)
	if err != nil {
		return nil
	}
	_, err = r.coll.UpdateMany(ctx, bson.M{"favorites": pid}, bson.M{"$pull": bson.M{"favorites": pid}})
	return err
}

type userRepo struct {
	coll *mongo.Collection
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	doc, err := toUserDoc(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return mapErr(err)
}

func (r *userRepo) findOne(ctx context.Context, filter any) (*models.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, filter)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, sortByID)
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].model())
	}
	return out, nil
}

func (r *userRepo) Update(ctx context.Context, id string, u models.UserUpdate, at time.Time) (*models.User, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	var doc userDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, userUpdateDoc(u, at), findOneAndUpdateAfter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	filter, err := byID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

type productRepo struct {
	coll *mongo.Collection
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	doc, err := toProductDoc(p)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return mapErr(err)
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	var doc productDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *productRepo) List(ctx context.Context) ([]models.Product, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, sortByID)
	if err != nil {
		return nil, err
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].model())
	}
	return out, nil
}

func (r *productRepo) Update(ctx context.Context, id string, u models.ProductUpdate, at time.Time) (*models.Product, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	var doc productDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, productUpdateDoc(u, at), findOneAndUpdateAfter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *productRepo) Delete(ctx context.Context, id string) (*models.Product, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	var doc productDoc
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

type saleRepo struct {
	coll *mongo.Collection
}

func (r *saleRepo) Create(ctx context.Context, s *models.Sale) error {
	doc, err := toSaleDoc(s)
	if err != nil {
		return fmt.Errorf("encode sale: %w", err)
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return mapErr(err)
}

func (r *saleRepo) GetByID(ctx context.Context, id string) (*models.Sale, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	var doc saleDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *saleRepo) List(ctx context.Context) ([]models.Sale, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, sortByID)
	if err != nil {
		return nil, err
	}
	var docs []saleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Sale, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].model())
	}
	return out, nil
}

func (r *saleRepo) Update(ctx context.Context, id string, u models.SaleUpdate) (*models.Sale, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	update, err := saleUpdateDoc(u)
	if err != nil {
		return nil, fmt.Errorf("encode sale update: %w", err)
	}
	// MongoDB rejects an empty $set.
	if len(update["$set"].(bson.M)) == 0 {
		return r.GetByID(ctx, id)
	}
	var doc saleDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, findOneAndUpdateAfter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *saleRepo) Delete(ctx context.Context, id string) error {
	filter, err := byID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
