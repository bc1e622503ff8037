package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyengine/internal/service"
)

func TestRequireSession(t *testing.T) {
	auth := service.NewAuthService("secret", time.Hour)
	mw := NewAuthMiddleware(auth)

	var gotID, gotLocale string
	r := mux.NewRouter()
	r.Handle("/forms/{id}", mw.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetSessionID(r.Context())
		gotLocale = GetLocale(r.Context())
	})))

	token, err := auth.GenerateSessionToken("s1", "pt")
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"bearer", "/forms/s1", "Bearer " + token, http.StatusOK},
		{"query param", "/forms/s1?token=" + token, "", http.StatusOK},
		{"missing", "/forms/s1", "", http.StatusUnauthorized},
		{"garbage", "/forms/s1", "Bearer nope", http.StatusUnauthorized},
		{"other session", "/forms/s2", "Bearer " + token, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	assert.Equal(t, "s1", gotID)
	assert.Equal(t, "pt", gotLocale)
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(0.001, 2)
	defer l.Stop()
	h := l.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/submit", nil)
		req.Header.Set("X-Real-IP", ip)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("1.1.1.1").Code)
	assert.Equal(t, http.StatusOK, do("1.1.1.1").Code)
	rec := do("1.1.1.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do("2.2.2.2").Code, "limits are per IP")
}
