package mongostore

import (
	"time"

	"bazar-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type clientDoc struct {
	ID                   bson.ObjectID   `bson:"_id"`
	Name                 string          `bson:"name"`
	Email                string          `bson:"email"`
	PhoneNumber          string          `bson:"phoneNumber"`
	Address              string          `bson:"address,omitempty"`
	Password             string          `bson:"password"`
	ResetPasswordToken   *string         `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires *time.Time      `bson:"resetPasswordExpires,omitempty"`
	Favorites            []bson.ObjectID `bson:"favorites"`
	CreatedAt            time.Time       `bson:"createdAt"`
	UpdatedAt            time.Time       `bson:"updatedAt"`
}

func toClientDoc(c *models.Client) (*clientDoc, error) {
	oid, err := bson.ObjectIDFromHex(c.ID)
	if err != nil {
		return nil, err
	}
	favorites, err := toObjectIDs(c.Favorites)
	if err != nil {
		return nil, err
	}
	return &clientDoc{
		ID:                   oid,
		Name:                 c.Name,
		Email:                c.Email,
		PhoneNumber:          c.PhoneNumber,
		Address:              c.Address,
		Password:             c.PasswordHash,
		ResetPasswordToken:   c.ResetPasswordToken,
		ResetPasswordExpires: c.ResetPasswordExpires,
		Favorites:            favorites,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}, nil
}

func (d *clientDoc) model() *models.Client {
	favorites := make([]string, 0, len(d.Favorites))
	for _, f := range d.Favorites {
		favorites = append(favorites, f.Hex())
	}
	return &models.Client{
		ID:                   d.ID.Hex(),
		Name:                 d.Name,
		Email:                d.Email,
		PhoneNumber:          d.PhoneNumber,
		Address:              d.Address,
		PasswordHash:         d.Password,
		ResetPasswordToken:   d.ResetPasswordToken,
		ResetPasswordExpires: d.ResetPasswordExpires,
		Favorites:            favorites,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

func clientUpdateDoc(u models.ClientUpdate, at time.Time) bson.M {
	set := bson.M{"updatedAt": at}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.PhoneNumber != nil {
		set["phoneNumber"] = *u.PhoneNumber
	}
	if u.Address != nil {
		set["address"] = *u.Address
	}
	if u.PasswordHash != nil {
		set["password"] = *u.PasswordHash
	}
	return bson.M{"$set": set}
}

type userDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func toUserDoc(u *models.User) (*userDoc, error) {
	oid, err := bson.ObjectIDFromHex(u.ID)
	if err != nil {
		return nil, err
	}
	return &userDoc{
		ID:        oid,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, nil
}

func (d *userDoc) model() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func userUpdateDoc(u models.UserUpdate, at time.Time) bson.M {
	set := bson.M{"updatedAt": at}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.PasswordHash != nil {
		set["password"] = *u.PasswordHash
	}
	return bson.M{"$set": set}
}

type productDoc struct {
	ID          bson.ObjectID `bson:"_id"`
	Name        string        `bson:"name"`
	Description string        `bson:"description"`
	Status      string        `bson:"status"`
	Category    string        `bson:"category"`
	State       string        `bson:"state"`
	Price       float64       `bson:"price"`
	Discount    float64       `bson:"discount"`
	ImageURL    string        `bson:"imageUrl,omitempty"`
	ImageKey    string        `bson:"imageKey,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

func toProductDoc(p *models.Product) (*productDoc, error) {
	oid, err := bson.ObjectIDFromHex(p.ID)
	if err != nil {
		return nil, err
	}
	return &productDoc{
		ID:          oid,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		Category:    p.Category,
		State:       p.State,
		Price:       p.Price,
		Discount:    p.Discount,
		ImageURL:    p.ImageURL,
		ImageKey:    p.ImageKey,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func (d *productDoc) model() *models.Product {
	return &models.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Status:      models.ProductStatus(d.Status),
		Category:    d.Category,
		State:       d.State,
		Price:       d.Price,
		Discount:    d.Discount,
		ImageURL:    d.ImageURL,
		ImageKey:    d.ImageKey,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func productUpdateDoc(u models.ProductUpdate, at time.Time) bson.M {
	set := bson.M{"updatedAt": at}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Status != nil {
		set["status"] = string(*u.Status)
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.State != nil {
		set["state"] = *u.State
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Discount != nil {
		set["discount"] = *u.Discount
	}
	if u.ImageURL != nil {
		set["imageUrl"] = *u.ImageURL
	}
	if u.ImageKey != nil {
		set["imageKey"] = *u.ImageKey
	}
	return bson.M{"$set": set}
}

type saleDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	ClientID  bson.ObjectID `bson:"clientId"`
	ProductID bson.ObjectID `bson:"productId"`
	Status    string        `bson:"status"`
	SaleDate  time.Time     `bson:"saleDate"`
}

func toSaleDoc(s *models.Sale) (*saleDoc, error) {
	ids, err := toObjectIDs([]string{s.ID, s.ClientID, s.ProductID})
	if err != nil {
		return nil, err
	}
	return &saleDoc{
		ID:        ids[0],
		ClientID:  ids[1],
		ProductID: ids[2],
		Status:    string(s.Status),
		SaleDate:  s.SaleDate,
	}, nil
}

func (d *saleDoc) model() *models.Sale {
	return &models.Sale{
		ID:        d.ID.Hex(),
		ClientID:  d.ClientID.Hex(),
		ProductID: d.ProductID.Hex(),
		Status:    models.SaleStatus(d.Status),
		SaleDate:  d.SaleDate,
	}
}

func saleUpdateDoc(u models.SaleUpdate) (bson.M, error) {
	set := bson.M{}
	if u.ClientID != nil {
		oid, err := bson.ObjectIDFromHex(*u.ClientID)
		if err != nil {
			return nil, err
		}
		set["clientId"] = oid
	}
	if u.ProductID != nil {
		oid, err := bson.ObjectIDFromHex(*u.ProductID)
		if err != nil {
			return nil, err
		}
		set["productId"] = oid
	}
	if u.Status != nil {
		set["status"] = string(*u.Status)
	}
	if u.SaleDate != nil {
		set["saleDate"] = *u.SaleDate
	}
	return bson.M{"$set": set}, nil
}

func toObjectIDs(ids []string) ([]bson.ObjectID, error) {
	out := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := bson.ObjectIDFromHex(id)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}
