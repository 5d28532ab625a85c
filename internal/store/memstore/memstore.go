// Package memstore keeps every collection in process memory. It backs
// `DB_URI=memory://` for local runs and the service and handler tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"bazar-backend/internal/models"
	"bazar-backend/internal/store"
)

// table keeps rows by id and remembers insertion order for listing.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) all() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

type Store struct {
	mu       sync.Mutex
	clients  *table[models.Client]
	users    *table[models.User]
	products *table[models.Product]
	sales    *table[models.Sale]
}

func New() *Store {
	return &Store{
		clients:  newTable[models.Client](),
		users:    newTable[models.User](),
		products: newTable[models.Product](),
		sales:    newTable[models.Sale](),
	}
}

func (s *Store) Clients() store.ClientRepository   { return &clientRepo{s} }
func (s *Store) Users() store.UserRepository       { return &userRepo{s} }
func (s *Store) Products() store.ProductRepository { return &productRepo{s} }
func (s *Store) Sales() store.SaleRepository       { return &saleRepo{s} }

func (s *Store) Ping(ctx context.Context) error  { return nil }
func (s *Store) Close(ctx context.Context) error { return nil }

func cloneClient(c models.Client) *models.Client {
	out := c
	out.Favorites = append([]string(nil), c.Favorites...)
	if c.ResetPasswordToken != nil {
		tok := *c.ResetPasswordToken
		out.ResetPasswordToken = &tok
	}
	if c.ResetPasswordExpires != nil {
		exp := *c.ResetPasswordExpires
		out.ResetPasswordExpires = &exp
	}
	return &out
}

type clientRepo struct{ s *Store }

func (r *clientRepo) emailTaken(email, exceptID string) bool {
	for _, c := range r.s.clients.rows {
		if c.Email == email && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *clientRepo) Create(ctx context.Context, c *models.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(c.Email, "") {
		return store.ErrDuplicate
	}
	if c.Favorites == nil {
		c.Favorites = []string{}
	}
	r.s.clients.put(c.ID, *cloneClient(*c))
	return nil
}

func (r *clientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.clients.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneClient(c), nil
}

func (r *clientRepo) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.clients.rows {
		if c.Email == email {
			return cloneClient(c), nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *clientRepo) List(ctx context.Context) ([]models.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rows := r.s.clients.all()
	out := make([]models.Client, 0, len(rows))
	for _, c := range rows {
		out = append(out, *cloneClient(c))
	}
	return out, nil
}

func (r *clientRepo) Update(ctx context.Context, id string, u models.ClientUpdate, at time.Time) (*models.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.clients.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if u.Email != nil && r.emailTaken(*u.Email, id) {
		return nil, store.ErrDuplicate
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.PhoneNumber != nil {
		c.PhoneNumber = *u.PhoneNumber
	}
	if u.Address != nil {
		c.Address = *u.Address
	}
	if u.PasswordHash != nil {
		c.PasswordHash = *u.PasswordHash
	}
	c.UpdatedAt = at
	r.s.clients.put(id, c)
	return cloneClient(c), nil
}

func (r *clientRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.clients.remove(id) {
		return store.ErrNotFound
	}
	return nil
}

func (r *clientRepo) SetResetTicket(ctx context.Context, id, token string, expires time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.clients.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	c.ResetPasswordToken = &token
	c.ResetPasswordExpires = &expires
	r.s.clients.put(id, c)
	return nil
}

func (r *clientRepo) RedeemResetTicket(ctx context.Context, token string, now time.Time, passwordHash string) (*models.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, c := range r.s.clients.rows {
		if c.ResetPasswordToken == nil || *c.ResetPasswordToken != token || !c.HasResetTicket(now) {
			continue
		}
		c.PasswordHash = passwordHash
		c.ResetPasswordToken = nil
		c.ResetPasswordExpires = nil
		c.UpdatedAt = now
		r.s.clients.put(id, c)
		return cloneClient(c), nil
	}
	return nil, store.ErrNotFound
}

func (r *clientRepo) AddFavorite(ctx context.Context, clientID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.clients.rows[clientID]
	if !ok {
		return store.ErrNotFound
	}
	if c.HasFavorite(productID) {
		return store.ErrDuplicate
	}
	c.Favorites = append(append([]string(nil), c.Favorites...), productID)
	r.s.clients.put(clientID, c)
	return nil
}

func (r *clientRepo) RemoveFavorite(ctx context.Context, clientID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.clients.rows[clientID]
	if !ok {
		return store.ErrNotFound
	}
	c.Favorites = without(c.Favorites, productID)
	r.s.clients.put(clientID, c)
	return nil
}

func (r *clientRepo) RemoveProductFromFavorites(ctx context.Context, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, c := range r.s.clients.rows {
		if c.HasFavorite(productID) {
			c.Favorites = without(c.Favorites, productID)
			r.s.clients.put(id, c)
		}
	}
	return nil
}

func without(ids []string, drop string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

type userRepo struct{ s *Store }

func (r *userRepo) emailTaken(email, exceptID string) bool {
	for _, u := range r.s.users.rows {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(u.Email, "") {
		return store.ErrDuplicate
	}
	r.s.users.put(u.ID, *u)
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.users.all(), nil
}

func (r *userRepo) Update(ctx context.Context, id string, upd models.UserUpdate, at time.Time) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if upd.Email != nil && r.emailTaken(*upd.Email, id) {
		return nil, store.ErrDuplicate
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	u.UpdatedAt = at
	r.s.users.put(id, u)
	return &u, nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.users.remove(id) {
		return store.ErrNotFound
	}
	return nil
}

type productRepo struct{ s *Store }

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.products.put(p.ID, *p)
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.products.all(), nil
}

func (r *productRepo) Update(ctx context.Context, id string, u models.ProductUpdate, at time.Time) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.State != nil {
		p.State = *u.State
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Discount != nil {
		p.Discount = *u.Discount
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	if u.ImageKey != nil {
		p.ImageKey = *u.ImageKey
	}
	p.UpdatedAt = at
	r.s.products.put(id, p)
	return &p, nil
}

func (r *productRepo) Delete(ctx context.Context, id string) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	r.s.products.remove(id)
	return &p, nil
}

type saleRepo struct{ s *Store }

func (r *saleRepo) Create(ctx context.Context, sale *models.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.sales.put(sale.ID, *sale)
	return nil
}

func (r *saleRepo) GetByID(ctx context.Context, id string) (*models.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sale, ok := r.s.sales.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &sale, nil
}

func (r *saleRepo) List(ctx context.Context) ([]models.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.sales.all(), nil
}

func (r *saleRepo) Update(ctx context.Context, id string, u models.SaleUpdate) (*models.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sale, ok := r.s.sales.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if u.ClientID != nil {
		sale.ClientID = *u.ClientID
	}
	if u.ProductID != nil {
		sale.ProductID = *u.ProductID
	}
	if u.Status != nil {
		sale.Status = *u.Status
	}
	if u.SaleDate != nil {
		sale.SaleDate = *u.SaleDate
	}
	r.s.sales.put(id, sale)
	return &sale, nil
}

func (r *saleRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.sales.remove(id) {
		return store.ErrNotFound
	}
	return nil
}
