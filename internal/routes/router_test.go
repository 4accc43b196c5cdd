package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rideshare-backend/internal/config"
	"rideshare-backend/internal/infrastructure/cache"
	"rideshare-backend/internal/metrics"
	"rideshare-backend/internal/testutil"
	"rideshare-backend/pkg/utils"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	utils.PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { utils.PasswordCost = bcrypt.DefaultCost })

	mr := miniredis.RunT(t)
	client := cache.NewClient(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		JWT:       config.JWTConfig{Secret: "test-secret", AccessExpiryMinutes: 5, RefreshExpiryHours: 1},
		RateLimit: config.RateLimitConfig{GeneralRPS: 1000, GeneralBurst: 1000},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}, AllowedMethods: []string{"GET", "POST"}},
		Storage:   config.StorageConfig{MaxImageBytes: 5 << 20},
		Metrics:   config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := SetupRoutes(ctx, Dependencies{
		Config:    cfg,
		DB:        testutil.NewDB(t),
		Blacklist: cache.NewTokenBlacklist(client),
		Metrics:   metrics.New(),
	})
	return &api{t: t, router: router}
}

func (a *api) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.serve(req)
}

func (a *api) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

type tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    struct {
		ID uint `json:"id"`
	} `json:"user"`
}

func (a *api) register(name string) tokens {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/v1/user/register", "", map[string]interface{}{
		"email":    name + "@example.com",
		"username": name,
		"password": "Secret#123",
		"role":     "driver",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var tk tokens
	require.NoError(a.t, json.Unmarshal(env.Data, &tk))
	require.NotEmpty(a.t, tk.Access)
	require.NotEmpty(a.t, tk.Refresh)
	return tk
}

func TestHealthAndMetrics(t *testing.T) {
	a := newAPI(t)

	w, _ := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rideshare_http_requests_total")
}

func TestProfileLookup_ReservedUsernames(t *testing.T) {
	a := newAPI(t)

	for _, name := range []string{"history", "trajet", "myreservation", "mycomments"} {
		w, env := a.do(http.MethodPost, "/api/v1/user/register", "", map[string]interface{}{
			"email":    name + "@example.com",
			"username": name,
			"password": "Secret#123",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
		assert.Contains(t, env.Details, "username", name)
	}

	historian := a.register("historian")

	w, env := a.do(http.MethodGet, "/api/v1/user/historian", historian.Access, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var profile struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "historian", profile.Username)

	renamed := "history"
	w, env = a.do(http.MethodPatch, "/api/v1/user/update", historian.Access, map[string]interface{}{"username": renamed})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Details, "username")
}

func TestCreateListing_TitleWithSlash(t *testing.T) {
	a := newAPI(t)
	driver := a.register("driver")

	w, env := a.do(http.MethodPost, "/api/v1/posts/creat_post", driver.Access, map[string]interface{}{
		"title": "Paris/Lyon 8h", "depart_time": "08:00", "arrival_time": "12:30",
		"depart_place": "Paris", "arrival_place": "Lyon", "price": 25,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Details, "title")
}

func TestAuthFlow(t *testing.T) {
	a := newAPI(t)
	alice := a.register("alice")

	w, env := a.do(http.MethodPost, "/api/v1/user/register", "", map[string]interface{}{
		"email": "alice@example.com", "username": "alice2", "password": "Secret#123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Details, "email")

	w, _ = a.do(http.MethodPost, "/api/v1/token", "", map[string]string{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = a.do(http.MethodPost, "/api/v1/token", "", map[string]string{"email": "alice@example.com", "password": "Secret#123"})
	require.Equal(t, http.StatusOK, w.Code)
	var login tokens
	require.NoError(t, json.Unmarshal(env.Data, &login))

	w, env = a.do(http.MethodPost, "/api/v1/token/refresh", "", map[string]string{"refresh": login.Refresh})
	require.Equal(t, http.StatusOK, w.Code)
	var rotated tokens
	require.NoError(t, json.Unmarshal(env.Data, &rotated))

	w, _ = a.do(http.MethodPost, "/api/v1/token/refresh", "", map[string]string{"refresh": login.Refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "refresh tokens rotate once")

	w, _ = a.do(http.MethodGet, "/api/v1/user/alice", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = a.do(http.MethodGet, "/api/v1/user/alice", alice.Access, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodPost, "/api/v1/user/logout", alice.Access, map[string]string{"refresh": alice.Refresh})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodGet, "/api/v1/user/alice", alice.Access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "access token is blacklisted after logout")
}

func TestReservationFlow(t *testing.T) {
	a := newAPI(t)
	driver := a.register("driver")
	rider := a.register("rider")
	stranger := a.register("stranger")

	w, env := a.do(http.MethodPost, "/api/v1/posts/creat_post", driver.Access, map[string]interface{}{
		"title": "Paris to Lyon", "depart_time": "08:00", "arrival_time": "12:30",
		"depart_place": "Paris", "arrival_place": "Lyon", "price": 25, "seats": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post struct {
		ID       uint `json:"id"`
		Reserved bool `json:"reserved"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &post))

	w, env = a.do(http.MethodGet, "/api/v1/posts/find/Paris/Lyon", rider.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &found))
	assert.Len(t, found, 1)

	w, env = a.do(http.MethodGet, "/api/v1/posts/find/paris/Lyon", rider.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &found))
	assert.Empty(t, found)

	price := map[string]interface{}{"price": 30}
	w, _ = a.do(http.MethodPatch, fmt.Sprintf("/api/v1/posts/updateid/%d", post.ID), rider.Access, price)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = a.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/reservationid/%d", post.ID), rider.Access, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = a.do(http.MethodPost, "/api/v1/posts/reservation/Paris%20to%20Lyon", stranger.Access, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "this trip is already reserved", env.Error)

	w, env = a.do(http.MethodGet, "/api/v1/user/history", rider.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []struct {
		Listing struct {
			Title string `json:"title"`
			Owner string `json:"owner"`
		} `json:"listing"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "driver", history[0].Listing.Owner)

	w, env = a.do(http.MethodGet, "/api/v1/user/myreservation", driver.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Len(t, history, 1)

	w, _ = a.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/reservation_annuleid/%d", post.ID), stranger.Access, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = a.do(http.MethodPost, "/api/v1/posts/reservation_annule/Paris%20to%20Lyon", rider.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = a.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/reservation_annuleid/%d", post.ID), driver.Access, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "this trip is not reserved", env.Error)

	w, _ = a.do(http.MethodPost, "/api/v1/posts/reservationid/999", rider.Access, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = a.do(http.MethodGet, "/api/v1/posts/id/abc", rider.Access, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(http.MethodDelete, "/api/v1/user/delete/rider", driver.Access, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = a.do(http.MethodDelete, "/api/v1/user/delete/driver", driver.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/id/%d", post.ID), rider.Access, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRatingFlow(t *testing.T) {
	a := newAPI(t)
	alice := a.register("alice")
	bob := a.register("bob")

	w, _ := a.do(http.MethodPost, "/api/v1/user/comments/creat/bob", alice.Access, map[string]interface{}{
		"title": "Smooth ride", "rating": 4, "comment": "Friendly driver",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = a.do(http.MethodPost, "/api/v1/user/comments/creatmail/bob@example.com", alice.Access, map[string]interface{}{
		"title": "Late", "rating": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := a.do(http.MethodPost, "/api/v1/user/comments/creat/bob", alice.Access, map[string]interface{}{
		"title": "Off the scale", "rating": 9,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Details, "rating")

	w, _ = a.do(http.MethodPost, "/api/v1/user/comments/creat/nobody", alice.Access, map[string]interface{}{
		"title": "x", "rating": 1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = a.do(http.MethodGet, "/api/v1/user/comments/bob", alice.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var received struct {
		Average float64 `json:"average"`
		Count   int64   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &received))
	assert.Equal(t, int64(2), received.Count)
	assert.InDelta(t, 3.0, received.Average, 0.001)

	w, env = a.do(http.MethodGet, "/api/v1/user/mycomments", bob.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &received))
	assert.Equal(t, int64(2), received.Count)

	w, _ = a.do(http.MethodPatch, "/api/v1/user/comments/update/bob", alice.Access, map[string]interface{}{"rating": 5})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodPatch, "/api/v1/user/comments/update/alice", bob.Access, map[string]interface{}{"rating": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = a.do(http.MethodDelete, "/api/v1/user/comments/delete/bob", alice.Access, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodDelete, "/api/v1/user/comments/delete/bob", alice.Access, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadImage_StorageDisabled(t *testing.T) {
	a := newAPI(t)
	alice := a.register("alice")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/images/avatar", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+alice.Access)

	w, _ := a.serve(req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
