package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	users map[string]string
}

func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	f := &fakeServer{users: map[string]string{}}

	mux := chi.NewRouter()
	mux.Post("/api/register", func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		_ = json.NewDecoder(r.Body).Decode(&c)
		if len(c.Password) < 8 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"password too short"}`))
			return
		}
		if _, ok := f.users[c.Username]; ok {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"username already taken"}`))
			return
		}
		f.users[c.Username] = c.Password
		w.WriteHeader(http.StatusCreated)
	})
	mux.Post("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		_ = json.NewDecoder(r.Body).Decode(&c)
		if pw, ok := f.users[c.Username]; !ok || pw != c.Password {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(Token{AccessToken: "tok-" + c.Username, TokenType: "Bearer", ExpiresAt: time.Unix(1700000000, 0).UTC()})
	})
	mux.Get("/api/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-alice" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(Identity{Username: "alice"})
	})
	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"busy"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Flow(t *testing.T) {
	srv := newFakeServer(t)
	c := NewClient(srv.URL+"/", time.Second)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "alice", []byte("long-enough")))
	assert.ErrorIs(t, c.Register(ctx, "alice", []byte("long-enough")), ErrConflict)
	assert.ErrorIs(t, c.Register(ctx, "bob", []byte("short")), ErrRejected)

	_, err := c.Login(ctx, "alice", []byte("wrong-password"))
	assert.ErrorIs(t, err, ErrUnauthorized)

	tok, err := c.Login(ctx, "alice", []byte("long-enough"))
	require.NoError(t, err)
	assert.Equal(t, "tok-alice", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)

	id, err := c.Me(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)

	_, err = c.Me(ctx, "forged")
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = c.Ping(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorContains(t, err, "busy")
}

func TestClient_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	err := c.Register(context.Background(), "alice", []byte("long-enough"))
	assert.ErrorIs(t, err, ErrUnavailable)
}
