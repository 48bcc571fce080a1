package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/campus-api/utils/cache"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestVerifyToken(t *testing.T) {
	var gotAuth, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Principal{ID: "user-1", Email: "a@example.com", Role: "STUDENT"})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, ServiceKey: "service-key"})
	token := signedToken(t, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	principal, err := client.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", principal.ID)
	assert.Equal(t, "a@example.com", principal.Email)
	assert.Equal(t, "Bearer "+token, gotAuth)
	assert.Equal(t, "service-key", gotKey)
}

func TestVerifyTokenRejectsMalformedLocally(t *testing.T) {
	// The server must never be reached for a token that does not even parse
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider should not be contacted")
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, ServiceKey: "service-key"})

	_, err := client.VerifyToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsExpiredLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider should not be contacted")
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, ServiceKey: "service-key"})
	token := signedToken(t, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := client.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenProviderRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, ServiceKey: "service-key"})
	token := signedToken(t, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := client.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, ServiceKey: "service-key"})
	token := signedToken(t, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := client.VerifyToken(context.Background(), token)
	require.Error(t, err)
	// A provider outage is not the caller's fault
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenCacheBoundToCredential(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCache, err := cache.NewRedisCache("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { redisCache.Close() })

	claims := jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	legit := signedToken(t, claims)

	// Same claims, signed with a different key: the provider would reject it
	forgedToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	forged, err := forgedToken.SignedString([]byte("attacker-secret"))
	require.NoError(t, err)
	require.NotEqual(t, legit, forged)

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("Authorization") != "Bearer "+legit {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Principal{ID: "user-1", Email: "a@example.com"})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, ServiceKey: "service-key", Cache: redisCache})

	principal, err := client.VerifyToken(context.Background(), legit)
	require.NoError(t, err)
	assert.Equal(t, "user-1", principal.ID)
	assert.Equal(t, 1, calls)

	// The exact same credential is served from cache
	principal, err = client.VerifyToken(context.Background(), legit)
	require.NoError(t, err)
	assert.Equal(t, "user-1", principal.ID)
	assert.Equal(t, 1, calls)

	// A different credential with the same subject must not hit the cached
	// principal; it goes to the provider, which rejects it
	_, err = client.VerifyToken(context.Background(), forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, 2, calls)
}

func TestVerifyTokenRejectsEmptyPrincipal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Principal{})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, ServiceKey: "service-key"})
	token := signedToken(t, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := client.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
