package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"videoportalapi/models"
	"videoportalapi/pkg/apperr"
	"videoportalapi/services/access"
	"videoportalapi/services/catalog"
	"videoportalapi/services/session"
	"videoportalapi/services/visibility"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func memRegistry() *session.Registry {
	var mu sync.Mutex
	stores := map[string]*memStore{}
	return session.NewRegistryWithStores(func(token string) session.Store {
		mu.Lock()
		defer mu.Unlock()
		s, ok := stores[token]
		if !ok {
			s = &memStore{data: map[string]string{}}
			stores[token] = s
		}
		return s
	})
}

// codeResolver resolves codes from a fixed table.
type codeResolver map[string]models.Identity

func (r codeResolver) Resolve(_ context.Context, code string) (models.Identity, error) {
	if code == "" {
		return models.Identity{}, apperr.Validation("code is required")
	}
	id, ok := r[code]
	if !ok {
		return models.Identity{}, apperr.InvalidCredential(access.InvalidCodeMessage)
	}
	return id, nil
}

type stubVideos struct {
	catalog.VideoService
	items   []catalog.VideoItem
	lastQ   visibility.Query
	lastBy  models.Identity
	created *models.Video
}

func (s *stubVideos) ListVisible(_ context.Context, id models.Identity, q visibility.Query) ([]catalog.VideoItem, error) {
	s.lastBy, s.lastQ = id, q
	return s.items, nil
}

func (s *stubVideos) Create(_ context.Context, by models.Identity, req models.VideoCreateRequest) (*models.Video, error) {
	s.lastBy = by
	s.created = &models.Video{ID: "v-new", VideoID: req.VideoID, Name: req.Name, Link: req.Link, GroupID: req.GroupID, IsActive: true}
	return s.created, nil
}

func (s *stubVideos) Delete(_ context.Context, id string) error {
	if id != "v1" {
		return apperr.NotFound("Video not found")
	}
	return nil
}

type stubFeedback struct {
	catalog.FeedbackService
}

func (stubFeedback) Add(_ context.Context, by models.Identity, videoID string, req models.FeedbackCreateRequest) (*models.Feedback, error) {
	if !by.Role.CanLeaveFeedback() {
		return nil, apperr.Forbidden("Only clients can leave feedback")
	}
	return &models.Feedback{ID: "f1", VideoID: videoID, ClientCode: by.Code, TimestampSeconds: *req.TimestampSeconds, Comment: req.Comment}, nil
}

type stubGroups struct {
	catalog.GroupService
	forced bool
}

func (s *stubGroups) List(context.Context) ([]models.Group, error) {
	return []models.Group{{ID: "g1", Name: "Group One", AccessCode: "G1"}}, nil
}

func (s *stubGroups) Delete(_ context.Context, _ string, force bool) error {
	s.forced = force
	return nil
}

var groupID = "g1"

type harness struct {
	router *gin.Engine
	videos *stubVideos
	groups *stubGroups
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &harness{videos: &stubVideos{}, groups: &stubGroups{}}
	SetSessionServices(codeResolver{
		"7016565502": {Role: models.RoleMainAdmin, Code: "7016565502"},
		"MOD1":       {Role: models.RoleModerator, Code: "MOD1"},
		"G1":         {Role: models.RoleClient, Code: "G1", GroupID: &groupID},
	}, memRegistry())
	SetLoginRateLimiter(nil)
	SetVideoServices(h.videos, stubFeedback{}, catalog.NewBroker())
	SetGroupService(h.groups)
	SetHealthCheck(nil)

	r := gin.New()
	RegisterHealthRoutes(r)
	api := r.Group("/api")
	RegisterSessionRoutes(api)
	RegisterVideoRoutes(api)
	RegisterGroupRoutes(api)
	h.router = r
	return h
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) login(t *testing.T, code string) string {
	t.Helper()
	w := h.do(t, http.MethodPost, "/api/session", "", gin.H{"code": code})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}
