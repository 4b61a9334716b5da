package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gdugdh24/kindred-backend/internal/config"
	"github.com/gdugdh24/kindred-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gdugdh24/kindred-backend/internal/infrastructure/container"
	"github.com/gdugdh24/kindred-backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-test-secret-test-secret"

type api struct {
	t   *testing.T
	app *container.Container
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0, Env: "test"},
		JWT:     config.JWTConfig{AccessSecret: testSecret},
		Storage: config.StorageConfig{Type: config.StorageMemory},
		Discovery: config.DiscoveryConfig{
			DefaultRadiusKm:  30,
			MaxRadiusKm:      500,
			PageSize:         50,
			DailyLikeLimit:   20,
			QuotaWindow:      24 * time.Hour,
			QuotaRetryDelay:  time.Minute,
			StoreTimeout:     5 * time.Second,
			DefaultListLimit: 20,
		},
	}
	require.NoError(t, cfg.Validate())

	app, err := container.NewContainer(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return &api{t: t, app: app}
}

// seed stores an approved profile at the given coordinates.
func (a *api) seed(name string, lat, lon float64) uuid.UUID {
	a.t.Helper()
	p := &domain.Profile{
		UserID:         uuid.New(),
		DisplayName:    name,
		Latitude:       &lat,
		Longitude:      &lon,
		ProfileVisible: true,
		Status:         domain.ProfileStatusApproved,
	}
	require.NoError(a.t, a.app.Store.Profiles.Create(context.Background(), p))
	return p.UserID
}

func (a *api) do(method, path string, as uuid.UUID, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != uuid.Nil {
		token, err := middleware.SignToken(testSecret, as, time.Hour)
		require.NoError(a.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.app.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type likeBody struct {
	Matched bool   `json:"matched"`
	State   string `json:"state"`
}

type cardList struct {
	Matches []struct {
		UserID uuid.UUID `json:"user_id"`
	} `json:"matches"`
}

func TestHealthAndAuth(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/health", uuid.Nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodHead, "/health", uuid.Nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/v1/matches", uuid.Nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMutualLikeCreatesMatch(t *testing.T) {
	a := newAPI(t)
	ada := a.seed("Ada", 41.0082, 28.9784)
	bora := a.seed("Bora", 41.0422, 29.0083)

	w := a.do(http.MethodPost, "/api/v1/swipe/like", ada, map[string]any{"target_user_id": bora})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode[likeBody](t, w)
	assert.False(t, first.Matched)
	assert.Equal(t, "liked", first.State)

	w = a.do(http.MethodGet, "/api/v1/likes/received", bora, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ada.String())

	w = a.do(http.MethodPost, "/api/v1/swipe/like", bora, map[string]any{"target_user_id": ada})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	second := decode[likeBody](t, w)
	assert.True(t, second.Matched)
	assert.Equal(t, "matched", second.State)

	w = a.do(http.MethodGet, "/api/v1/swipe/state/"+bora.String(), ada, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"matched"}`, w.Body.String())

	w = a.do(http.MethodGet, "/api/v1/matches", ada, nil)
	require.Equal(t, http.StatusOK, w.Code)
	matches := decode[cardList](t, w)
	require.Len(t, matches.Matches, 1)
	assert.Equal(t, bora, matches.Matches[0].UserID)

	// Repeating the like is idempotent.
	w = a.do(http.MethodPost, "/api/v1/swipe/like", bora, map[string]any{"target_user_id": ada})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[likeBody](t, w).Matched)

	w = a.do(http.MethodGet, "/api/v1/notifications", ada, nil)
	require.Equal(t, http.StatusOK, w.Code)
	notifications := decode[struct {
		Notifications []struct {
			ID   uuid.UUID `json:"id"`
			Type string    `json:"type"`
		} `json:"notifications"`
	}](t, w)
	require.Len(t, notifications.Notifications, 1)
	assert.Equal(t, "match", notifications.Notifications[0].Type)

	w = a.do(http.MethodPost, "/api/v1/notifications/"+notifications.Notifications[0].ID.String()+"/read", ada, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodPost, "/api/v1/notifications/"+uuid.NewString()+"/read", ada, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSwipeErrors(t *testing.T) {
	a := newAPI(t)
	ada := a.seed("Ada", 41.0082, 28.9784)
	bora := a.seed("Bora", 41.0422, 29.0083)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"self like", "/api/v1/swipe/like", map[string]any{"target_user_id": ada}, http.StatusBadRequest},
		{"unknown target", "/api/v1/swipe/like", map[string]any{"target_user_id": uuid.New()}, http.StatusNotFound},
		{"missing target", "/api/v1/swipe/like", map[string]any{}, http.StatusBadRequest},
		{"malformed target", "/api/v1/swipe/pass", map[string]any{"target_user_id": "nope"}, http.StatusBadRequest},
		{"like", "/api/v1/swipe/like", map[string]any{"target_user_id": bora}, http.StatusOK},
		{"pass after like", "/api/v1/swipe/pass", map[string]any{"target_user_id": bora}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(http.MethodPost, tt.path, ada, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	w := a.do(http.MethodGet, "/api/v1/swipe/state/not-a-uuid", ada, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLikeQuota(t *testing.T) {
	a := newAPI(t)
	viewer := a.seed("Viewer", 41.0082, 28.9784)

	for i := 0; i < 20; i++ {
		target := a.seed(fmt.Sprintf("Target %d", i), 41.0082, 28.9784)
		w := a.do(http.MethodPost, "/api/v1/swipe/like", viewer, map[string]any{"target_user_id": target})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	extra := a.seed("Extra", 41.0082, 28.9784)
	w := a.do(http.MethodPost, "/api/v1/swipe/like", viewer, map[string]any{"target_user_id": extra})
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Greater(t, retryAfter, 23*60*60)

	body := decode[struct {
		ResetAt *time.Time `json:"reset_at"`
	}](t, w)
	require.NotNil(t, body.ResetAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *body.ResetAt, time.Minute)

	w = a.do(http.MethodGet, "/api/v1/swipe/quota", viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	quota := decode[struct {
		Limit     int `json:"limit"`
		Used      int `json:"used"`
		Remaining int `json:"remaining"`
	}](t, w)
	assert.Equal(t, 20, quota.Limit)
	assert.Equal(t, 20, quota.Used)
	assert.Equal(t, 0, quota.Remaining)

	// Passing is never limited.
	w = a.do(http.MethodPost, "/api/v1/swipe/pass", viewer, map[string]any{"target_user_id": extra})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDiscoverCandidates(t *testing.T) {
	a := newAPI(t)
	viewer := a.seed("Viewer", 41.0082, 28.9784)
	near := a.seed("Near", 41.0422, 29.0083)
	liked := a.seed("Liked", 41.0100, 28.9800)
	ankara := a.seed("Ankara", 39.9334, 32.8597)

	w := a.do(http.MethodPost, "/api/v1/swipe/like", viewer, map[string]any{"target_user_id": liked})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/v1/discover/candidates", viewer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[struct {
		RadiusKm   float64 `json:"radius_km"`
		Candidates []struct {
			Profile struct {
				UserID uuid.UUID `json:"user_id"`
			} `json:"profile"`
			DistanceKm float64 `json:"distance_km"`
		} `json:"candidates"`
	}](t, w)
	assert.Equal(t, 30.0, resp.RadiusKm)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, near, resp.Candidates[0].Profile.UserID)
	assert.InDelta(t, 4.8, resp.Candidates[0].DistanceKm, 0.5)

	w = a.do(http.MethodGet, "/api/v1/discover/candidates?radius_km=400", viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ankara.String())
	assert.NotContains(t, w.Body.String(), liked.String())

	w = a.do(http.MethodGet, "/api/v1/discover/candidates?radius_km=-1", viewer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.do(http.MethodGet, "/api/v1/discover/candidates?limit=1000", viewer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileLifecycle(t *testing.T) {
	a := newAPI(t)
	newcomer := uuid.New()
	other := a.seed("Other", 41.0082, 28.9784)

	w := a.do(http.MethodGet, "/api/v1/profile/me", newcomer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	minor := time.Now().AddDate(-16, 0, 0).Format(time.RFC3339)
	w = a.do(http.MethodPost, "/api/v1/profile", newcomer, map[string]any{
		"display_name": "Cem",
		"birth_date":   minor,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/api/v1/profile", newcomer, map[string]any{
		"display_name": "Cem",
		"latitude":     41.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	adult := time.Now().AddDate(-25, 0, 0).Format(time.RFC3339)
	w = a.do(http.MethodPost, "/api/v1/profile", newcomer, map[string]any{
		"display_name": "Cem",
		"birth_date":   adult,
		"latitude":     41.0082,
		"longitude":    28.9784,
		"interests":    []string{"sailing", "jazz"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"pending"`)

	w = a.do(http.MethodPost, "/api/v1/profile", newcomer, map[string]any{"display_name": "Cem"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Pending profiles cannot discover or swipe.
	w = a.do(http.MethodGet, "/api/v1/discover/candidates", newcomer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = a.do(http.MethodPost, "/api/v1/swipe/like", newcomer, map[string]any{"target_user_id": other})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPut, "/api/v1/profile/me", newcomer, map[string]any{"bio": "hello", "profile_visible": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/v1/profile/me", newcomer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[struct {
		Bio          string   `json:"bio"`
		Age          int      `json:"age"`
		InterestList []string `json:"interest_list"`
	}](t, w)
	assert.Equal(t, "hello", me.Bio)
	assert.Equal(t, 25, me.Age)
	assert.Equal(t, []string{"sailing", "jazz"}, me.InterestList)

	w = a.do(http.MethodGet, "/api/v1/profile/"+other.String(), newcomer, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFriendsAndBlocks(t *testing.T) {
	a := newAPI(t)
	ada := a.seed("Ada", 41.0082, 28.9784)
	bora := a.seed("Bora", 41.0422, 29.0083)
	cem := a.seed("Cem", 41.0422, 29.0083)

	w := a.do(http.MethodPost, "/api/v1/friends/requests", ada, map[string]any{"to_user_id": bora})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = a.do(http.MethodPost, "/api/v1/friends/requests", ada, map[string]any{"to_user_id": bora})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodGet, "/api/v1/friends/requests/incoming", bora, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ada.String())

	w = a.do(http.MethodPost, "/api/v1/friends/requests/"+ada.String()+"/accept", bora, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"accepted"`)

	w = a.do(http.MethodGet, "/api/v1/matches", ada, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), bora.String())

	w = a.do(http.MethodPost, "/api/v1/friends/requests/"+cem.String()+"/reject", ada, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPost, "/api/v1/blocks", cem, map[string]any{"user_id": ada})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/v1/profile/"+cem.String(), ada, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = a.do(http.MethodPost, "/api/v1/swipe/like", ada, map[string]any{"target_user_id": cem})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = a.do(http.MethodPost, "/api/v1/friends/requests", ada, map[string]any{"to_user_id": cem})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodGet, "/api/v1/blocks", cem, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ada.String())

	w = a.do(http.MethodDelete, "/api/v1/blocks/"+ada.String(), cem, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodGet, "/api/v1/profile/"+cem.String(), ada, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
