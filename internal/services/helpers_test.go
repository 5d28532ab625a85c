package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"bazar-backend/internal/config"
	"bazar-backend/internal/store/memstore"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:            "test-secret",
		ClientSignupTokenTTL: 3 * time.Hour,
		ClientLoginTokenTTL:  time.Hour,
		UserTokenTTL:         time.Hour,
		AuthTokenTTL:         8 * time.Hour,
		ResetTokenTTL:        time.Hour,
		FrontendURL:          "https://shop.example.com",
	}
}

func testHasher() BcryptHasher {
	return BcryptHasher{Cost: bcrypt.MinCost}
}

type sentMail struct {
	To, Subject, Body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type fakeImages struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
	seq       int
}

func newFakeImages() *fakeImages {
	return &fakeImages{objects: map[string][]byte{}}
}

func (f *fakeImages) Upload(ctx context.Context, filename, contentType string, data []byte) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", "", f.uploadErr
	}
	f.seq++
	key := fmt.Sprintf("products/%d-%s", f.seq, filename)
	f.objects[key] = data
	return key, "https://cdn.example.com/" + key, nil
}

func (f *fakeImages) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeImages) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

var errBoom = errors.New("boom")

// pngBytes is the smallest header mimetype recognises as image/png.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

type fixture struct {
	store    *memstore.Store
	auth     *AuthService
	mailer   *fakeMailer
	images   *fakeImages
	clients  *ClientService
	reset    *ResetService
	favs     *FavoritesService
	users    *UserService
	products *ProductService
	sales    *SaleService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := zerolog.Nop()
	cfg := testConfig()
	st := memstore.New()
	auth := NewAuthService(cfg.JWTSecret, log)
	h := testHasher()
	m := &fakeMailer{}
	img := newFakeImages()

	return &fixture{
		store:    st,
		auth:     auth,
		mailer:   m,
		images:   img,
		clients:  NewClientService(st.Clients(), h, auth, cfg, log),
		reset:    NewResetService(st.Clients(), h, m, cfg, log),
		favs:     NewFavoritesService(st.Clients(), st.Products(), log),
		users:    NewUserService(st.Users(), h, auth, cfg, log),
		products: NewProductService(st.Products(), st.Clients(), img, log),
		sales:    NewSaleService(st.Sales(), st.Clients(), st.Products(), log),
	}
}
