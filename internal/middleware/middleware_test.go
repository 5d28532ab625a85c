package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bazar-backend/internal/models"
	"bazar-backend/internal/services"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserID(r)
		if !ok {
			id = "anonymous"
		}
		w.Write([]byte(id))
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthentication(t *testing.T) {
	t.Parallel()

	auth := services.NewAuthService("secret", zerolog.Nop())
	id := models.NewID()
	valid, err := auth.GenerateToken(id, time.Hour)
	require.NoError(t, err)
	expired, err := auth.GenerateToken(id, -time.Minute)
	require.NoError(t, err)

	h := Authentication(auth, zerolog.Nop())(echoUser())

	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing", "", http.StatusUnauthorized, "missing_authorization"},
		{"bearer only", "Bearer ", http.StatusUnauthorized, "missing_authorization"},
		{"garbage", "Bearer nonsense", http.StatusUnauthorized, "invalid_token"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "token_expired"},
		{"valid", "Bearer " + valid, http.StatusOK, ""},
		{"bare token", valid, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/clients/favorites", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.code != "" {
				assert.Equal(t, tc.code, decodeError(t, rec).Error)
			} else {
				assert.Equal(t, id, rec.Body.String())
			}
		})
	}
}

func TestOptionalAuthentication(t *testing.T) {
	t.Parallel()

	auth := services.NewAuthService("secret", zerolog.Nop())
	id := models.NewID()
	valid, err := auth.GenerateToken(id, time.Hour)
	require.NoError(t, err)

	h := OptionalAuthentication(auth, zerolog.Nop())(echoUser())

	for header, want := range map[string]string{
		"":                "anonymous",
		"Bearer broken":   "anonymous",
		"Bearer " + valid: id,
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, want, rec.Body.String())
	}
}

func TestRequestLoggingAssignsRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	h := RequestLogging(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	_, err := ksuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id", seen)
}

func TestRateLimiter(t *testing.T) {
	t.Parallel()

	h := NewRateLimiter(0, 2).Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestValidation(t *testing.T) {
	t.Parallel()

	h := RequestValidation("application/json", "multipart/form-data")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	cases := []struct {
		method, contentType, body string
		status                    int
	}{
		{http.MethodPost, "application/json; charset=utf-8", "{}", http.StatusOK},
		{http.MethodPut, "multipart/form-data; boundary=x", "--x--", http.StatusOK},
		{http.MethodPost, "text/plain", "hi", http.StatusUnsupportedMediaType},
		{http.MethodPost, "", "hi", http.StatusUnsupportedMediaType},
		{http.MethodPost, "", "", http.StatusOK},
		{http.MethodGet, "text/plain", "", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, "/api/clients", strings.NewReader(tc.body))
		if tc.contentType != "" {
			req.Header.Set("Content-Type", tc.contentType)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tc.status, rec.Code, "%s %q", tc.method, tc.contentType)
	}
}

func TestErrorHandlingRecoversPanics(t *testing.T) {
	t.Parallel()

	h := ErrorHandling(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeError(t, rec).Error)
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	h := SecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
