package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"portfolio-backend-go/internal/config"
	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/services"
	"portfolio-backend-go/internal/storage"
	"portfolio-backend-go/internal/storage/memory"
)

type recordingDeliverer struct {
	mu  sync.Mutex
	got []services.ContactSubmission
	err error
}

func (d *recordingDeliverer) Deliver(ctx context.Context, submission services.ContactSubmission) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.got = append(d.got, submission)
	return nil
}

func (d *recordingDeliverer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.got)
}

type testEnv struct {
	server    *Server
	store     *memory.Store
	handler   http.Handler
	deliverer *recordingDeliverer
	admin     string
	editor    string
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:            "test-secret",
		JWTIssuer:            "portfolio",
		AccessTTLSeconds:     3600,
		CacheTTLSeconds:      60,
		ContactRatePerMinute: 100,
	}
}

func newTestEnv(t *testing.T, cfg config.Config) *testEnv {
	t.Helper()
	return newWrappedTestEnv(t, cfg, nil)
}

// newWrappedTestEnv serves the API from wrap(store) when wrap is set, while
// mutation counts still come from the underlying memory store.
func newWrappedTestEnv(t *testing.T, cfg config.Config, wrap func(*memory.Store) storage.Storage) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := memory.New()
	require.NoError(t, store.InitializeDatabase(ctx, storage.AdminSeed{
		Username: "admin", Password: "admin123", SiteTitle: "Test Portfolio",
	}))
	editor, err := store.Users().Create(ctx, models.UserInput{Username: "editor", Password: "editor"})
	require.NoError(t, err)
	admin, err := store.Users().GetByUsername(ctx, "admin")
	require.NoError(t, err)

	deliverer := &recordingDeliverer{}
	hub := services.NewMetricsHub()
	go hub.Run(ctx)
	var served storage.Storage = store
	if wrap != nil {
		served = wrap(store)
	}
	server := NewServer(served, cfg, zap.NewNop(), deliverer, hub, services.NewMetricsHistory(10))

	adminToken, _, err := server.Tokens.CreateAccessToken(admin)
	require.NoError(t, err)
	editorToken, _, err := server.Tokens.CreateAccessToken(editor)
	require.NoError(t, err)

	return &testEnv{
		server:    server,
		store:     store,
		handler:   server.Router(ctx),
		deliverer: deliverer,
		admin:     adminToken,
		editor:    editorToken,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch value := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(value))
	default:
		raw, err := json.Marshal(value)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestWriteRoutesRejectedBeforeStorage(t *testing.T) {
	env := newTestEnv(t, testConfig())
	project, err := env.store.Projects().Create(context.Background(), models.ProjectInput{Title: "existing"})
	require.NoError(t, err)
	before := env.store.Mutations()

	writes := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodPost, "/api/projects", map[string]any{"title": "new"}},
		{http.MethodPut, "/api/projects/" + itoa(project.ID), map[string]any{"title": "changed"}},
		{http.MethodDelete, "/api/projects/" + itoa(project.ID), nil},
		{http.MethodPost, "/api/projects/reorder", map[string]any{"projectIds": []int{project.ID}}},
		{http.MethodPut, "/api/settings", map[string]any{"radius": 4}},
		{http.MethodPost, "/api/skill-categories", "not even json"},
	}
	for _, write := range writes {
		rr := env.do(t, write.method, write.path, "", write.body)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", write.method, write.path)
		assert.Equal(t, msgUnauthorized, decode[ErrorResponse](t, rr).Message)

		rr = env.do(t, write.method, write.path, env.editor, write.body)
		assert.Equal(t, http.StatusForbidden, rr.Code, "%s %s", write.method, write.path)
		assert.Equal(t, msgForbidden, decode[ErrorResponse](t, rr).Message)
	}
	assert.Equal(t, before, env.store.Mutations())

	rr := env.do(t, http.MethodPost, "/api/projects", "not-a-token", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProjectCRUD(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rr := env.do(t, http.MethodPost, "/api/projects", env.admin, map[string]any{
		"title":        "Portfolio",
		"technologies": []string{"go", "chi"},
		"featured":     true,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[models.Project](t, rr)
	assert.NotZero(t, created.ID)
	assert.Equal(t, models.StringList{"go", "chi"}, created.Technologies)
	assert.Nil(t, created.Period)

	rr = env.do(t, http.MethodGet, "/api/projects/"+itoa(created.ID), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created, decode[models.Project](t, rr))

	rr = env.do(t, http.MethodPut, "/api/projects/"+itoa(created.ID), env.admin, map[string]any{"period": "2024"})
	require.Equal(t, http.StatusOK, rr.Code)
	updated := decode[models.Project](t, rr)
	require.NotNil(t, updated.Period)
	assert.Equal(t, "2024", *updated.Period)
	assert.Equal(t, "Portfolio", updated.Title)

	rr = env.do(t, http.MethodPut, "/api/projects/"+itoa(created.ID), env.admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, updated, decode[models.Project](t, rr))

	rr = env.do(t, http.MethodDelete, "/api/projects/"+itoa(created.ID), env.admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[SuccessResponse](t, rr).Success)

	rr = env.do(t, http.MethodGet, "/api/projects/"+itoa(created.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Project not found", decode[ErrorResponse](t, rr).Message)

	rr = env.do(t, http.MethodDelete, "/api/projects/"+itoa(created.ID), env.admin, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestInvalidRequests(t *testing.T) {
	env := newTestEnv(t, testConfig())
	before := env.store.Mutations()

	rr := env.do(t, http.MethodGet, "/api/projects/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid id", decode[ErrorResponse](t, rr).Message)

	rr = env.do(t, http.MethodPost, "/api/projects", env.admin, `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, services.InvalidDataMessage, decode[ErrorResponse](t, rr).Message)

	rr = env.do(t, http.MethodPost, "/api/experience", env.admin, map[string]any{"title": "Engineer"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode[ErrorResponse](t, rr)
	assert.Equal(t, services.InvalidDataMessage, body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "company", body.Errors[0].Field)

	rr = env.do(t, http.MethodPut, "/api/settings", env.admin, map[string]any{"variant": "neon", "radius": 99})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Len(t, decode[ErrorResponse](t, rr).Errors, 2)

	assert.Equal(t, before, env.store.Mutations())
}

func TestReorderProjects(t *testing.T) {
	env := newTestEnv(t, testConfig())
	ctx := context.Background()
	var ids []int
	for _, title := range []string{"one", "two", "three"} {
		project, err := env.store.Projects().Create(ctx, models.ProjectInput{Title: title})
		require.NoError(t, err)
		ids = append(ids, project.ID)
	}

	rr := env.do(t, http.MethodPost, "/api/projects/reorder", env.admin, map[string]any{
		"projectIds": []int{ids[2], ids[0], ids[1]},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	reordered := decode[[]models.Project](t, rr)
	require.Len(t, reordered, 3)
	for position, want := range []int{ids[2], ids[0], ids[1]} {
		assert.Equal(t, want, reordered[position].ID)
		assert.Equal(t, position, reordered[position].DisplayOrder)
	}

	before := env.store.Mutations()
	rr = env.do(t, http.MethodPost, "/api/projects/reorder", env.admin, map[string]any{
		"projectIds": []int{ids[2], ids[0], 999},
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Project with ID 999 not found", decode[ErrorResponse](t, rr).Message)

	rr = env.do(t, http.MethodPost, "/api/projects/reorder", env.admin, map[string]any{"projectIds": "1,2,3"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "projectIds must be an array", decode[ErrorResponse](t, rr).Message)

	rr = env.do(t, http.MethodPost, "/api/projects/reorder", env.admin, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, before, env.store.Mutations())

	rr = env.do(t, http.MethodGet, "/api/projects", "", nil)
	listed := decode[[]models.Project](t, rr)
	assert.Equal(t, ids[2], listed[0].ID)
}

func TestReorderOtherKindsUseIDs(t *testing.T) {
	env := newTestEnv(t, testConfig())
	ctx := context.Background()
	first, err := env.store.Education().Create(ctx, models.EducationInput{Degree: "BSc", Institution: "U"})
	require.NoError(t, err)
	second, err := env.store.Education().Create(ctx, models.EducationInput{Degree: "MSc", Institution: "U"})
	require.NoError(t, err)

	rr := env.do(t, http.MethodPost, "/api/education/reorder", env.admin, map[string]any{"ids": []int{second.ID, first.ID}})
	require.Equal(t, http.StatusOK, rr.Code)
	listed := decode[[]models.Education](t, rr)
	assert.Equal(t, second.ID, listed[0].ID)
}

func TestSkillsAndCategories(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rr := env.do(t, http.MethodPost, "/api/skill-categories", env.admin, map[string]any{"name": "Backend", "icon": "server"})
	require.Equal(t, http.StatusCreated, rr.Code)
	backend := decode[models.SkillCategory](t, rr)
	rr = env.do(t, http.MethodPost, "/api/skill-categories", env.admin, map[string]any{"name": "Frontend", "icon": "layout"})
	require.Equal(t, http.StatusCreated, rr.Code)
	frontend := decode[models.SkillCategory](t, rr)

	rr = env.do(t, http.MethodPost, "/api/skills", env.admin, map[string]any{"name": "Go", "level": 90, "categoryId": backend.ID})
	require.Equal(t, http.StatusCreated, rr.Code)
	goSkill := decode[models.Skill](t, rr)
	rr = env.do(t, http.MethodPost, "/api/skills", env.admin, map[string]any{"name": "CSS", "level": 60, "categoryId": frontend.ID})
	require.Equal(t, http.StatusCreated, rr.Code)
	cssSkill := decode[models.Skill](t, rr)

	rr = env.do(t, http.MethodPost, "/api/skills", env.admin, map[string]any{"name": "Rust", "level": 50, "categoryId": 4242})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode[ErrorResponse](t, rr)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "categoryId", body.Errors[0].Field)

	rr = env.do(t, http.MethodPost, "/api/skills", env.admin, map[string]any{"name": "Rust", "level": 150, "categoryId": backend.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/skills?categoryId="+itoa(backend.ID), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []models.Skill{goSkill}, decode[[]models.Skill](t, rr))

	rr = env.do(t, http.MethodGet, "/api/skills?categoryId=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodDelete, "/api/skill-categories/"+itoa(frontend.ID), env.admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = env.do(t, http.MethodGet, "/api/skills/"+itoa(cssSkill.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Skill not found", decode[ErrorResponse](t, rr).Message)

	rr = env.do(t, http.MethodGet, "/api/skills", "", nil)
	assert.Equal(t, []models.Skill{goSkill}, decode[[]models.Skill](t, rr))
}

func TestSingletons(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rr := env.do(t, http.MethodGet, "/api/settings", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	seeded := decode[models.PortfolioSettings](t, rr)
	assert.NotZero(t, seeded.ID)
	assert.Equal(t, "Test Portfolio", seeded.SiteTitle)

	rr = env.do(t, http.MethodPut, "/api/settings", env.admin, map[string]any{"primary": "#112233", "appearance": "dark"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[models.PortfolioSettings](t, rr)
	assert.Equal(t, seeded.ID, updated.ID)
	assert.Equal(t, "#112233", updated.Primary)
	assert.Equal(t, "dark", updated.Appearance)
	assert.Equal(t, "professional", updated.Variant)

	rr = env.do(t, http.MethodGet, "/api/about", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	about := decode[models.AboutContent](t, rr)
	assert.Zero(t, about.ID)
	assert.JSONEq(t, `{"id":0,"journeyText":null,"quote":null,"expertiseItems":[],"traits":[]}`, rr.Body.String())

	rr = env.do(t, http.MethodPut, "/api/about", env.admin, map[string]any{"traits": []string{"curious"}})
	require.Equal(t, http.StatusOK, rr.Code)
	first := decode[models.AboutContent](t, rr)
	rr = env.do(t, http.MethodPut, "/api/about", env.admin, map[string]any{"quote": "ship it"})
	require.Equal(t, http.StatusOK, rr.Code)
	second := decode[models.AboutContent](t, rr)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.StringList{"curious"}, second.Traits)

	rr = env.do(t, http.MethodPut, "/api/contact-info", env.admin, map[string]any{"github": "https://github.com/me"})
	require.Equal(t, http.StatusOK, rr.Code)
	info := decode[models.ContactInfo](t, rr)
	require.NotNil(t, info.Github)
	assert.Nil(t, info.Email)
}

func TestContact(t *testing.T) {
	env := newTestEnv(t, testConfig())
	before := env.store.Mutations()

	rr := env.do(t, http.MethodPost, "/api/contact", "", map[string]any{
		"name": "Ada", "email": "not-an-email", "message": "Hello",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, msgInvalidEmail, decode[ErrorResponse](t, rr).Message)
	assert.Zero(t, env.deliverer.count())

	rr = env.do(t, http.MethodPost, "/api/contact", "", map[string]any{"email": "ada@example.com"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, msgMissingFields, decode[ErrorResponse](t, rr).Message)
	assert.Zero(t, env.deliverer.count())

	rr = env.do(t, http.MethodPost, "/api/contact", "", map[string]any{
		"name": "Ada", "email": "ada@example.com", "subject": "Hi", "message": "Hello",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, SuccessResponse{Success: true, Message: "Message received!"}, decode[SuccessResponse](t, rr))
	require.Equal(t, 1, env.deliverer.count())
	assert.Equal(t, "Ada", env.deliverer.got[0].Message.Name)

	env.deliverer.err = errors.New("smtp down")
	rr = env.do(t, http.MethodPost, "/api/contact", "", map[string]any{
		"name": "Ada", "email": "ada@example.com", "message": "Hello again",
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to send message. Please try again later.", decode[ErrorResponse](t, rr).Message)
	assert.NotContains(t, rr.Body.String(), "smtp")

	assert.Equal(t, before, env.store.Mutations())
}

func TestContactRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.ContactRatePerMinute = 2
	env := newTestEnv(t, cfg)
	msg := map[string]any{"name": "Ada", "email": "ada@example.com", "message": "Hello"}

	for i := 0; i < 2; i++ {
		rr := env.do(t, http.MethodPost, "/api/contact", "", msg)
		require.Equal(t, http.StatusOK, rr.Code)
	}
	rr := env.do(t, http.MethodPost, "/api/contact", "", msg)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, 2, env.deliverer.count())
}

func TestResponseCacheFlushedByWrites(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rr := env.do(t, http.MethodGet, "/api/experience", "", nil)
	assert.Equal(t, "MISS", rr.Header().Get("X-Cache"))
	rr = env.do(t, http.MethodGet, "/api/experience", "", nil)
	assert.Equal(t, "HIT", rr.Header().Get("X-Cache"))
	assert.JSONEq(t, "[]", rr.Body.String())

	rr = env.do(t, http.MethodPost, "/api/experience", env.admin, map[string]any{"title": "Engineer", "company": "Acme"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/experience", "", nil)
	assert.Equal(t, "MISS", rr.Header().Get("X-Cache"))
	assert.Len(t, decode[[]models.Experience](t, rr), 1)
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rr := env.do(t, http.MethodPost, "/api/login", "", map[string]any{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/login", "", map[string]any{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, rr.Code)
	login := decode[LoginResponse](t, rr)
	assert.True(t, login.User.IsAdmin)
	assert.NotContains(t, rr.Body.String(), "admin123")

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", decode[models.User](t, rec).Username)

	req = httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(`{"title":"via cookie"}`))
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rr = env.do(t, http.MethodGet, "/api/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/logout", login.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie {
			assert.Empty(t, c.Value)
		}
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, testConfig())
	rr := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = env.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestMetricsRoutes(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.server.History.Add(services.MetricSample{CapturedAt: time.Now().UTC(), SystemCpuLoad: 0.5})

	rr := env.do(t, http.MethodGet, "/api/admin/metrics/history", env.editor, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = env.do(t, http.MethodGet, "/api/admin/metrics/history", env.admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[MetricsHistoryResponse](t, rr).Items, 1)

	rr = env.do(t, http.MethodGet, "/ws/metrics", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = env.do(t, http.MethodGet, "/ws/metrics?token="+env.editor, "", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	ts := httptest.NewServer(env.handler)
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/metrics?token=" + env.admin
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.server.MetricsHub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
	env.server.MetricsHub.Broadcast(services.MetricSample{SystemCpuLoad: 0.25})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var sample services.MetricSample
	require.NoError(t, conn.ReadJSON(&sample))
	assert.Equal(t, 0.25, sample.SystemCpuLoad)
}

func itoa(value int) string {
	raw, _ := json.Marshal(value)
	return string(raw)
}

type failingStore struct {
	*memory.Store
	err error
}

func (f failingStore) Projects() storage.ProjectStore {
	return failingProjects{ProjectStore: f.Store.Projects(), err: f.err}
}

func (f failingStore) Settings() storage.SettingsStore {
	return failingSettings{SettingsStore: f.Store.Settings(), err: f.err}
}

type failingProjects struct {
	storage.ProjectStore
	err error
}

func (f failingProjects) List(ctx context.Context) ([]models.Project, error) {
	return nil, f.err
}

func (f failingProjects) Create(ctx context.Context, in models.ProjectInput) (models.Project, error) {
	return models.Project{}, f.err
}

func (f failingProjects) Reorder(ctx context.Context, ids []int) ([]models.Project, error) {
	return nil, f.err
}

type failingSettings struct {
	storage.SettingsStore
	err error
}

func (f failingSettings) Get(ctx context.Context) (models.PortfolioSettings, error) {
	return models.PortfolioSettings{}, f.err
}

func (f failingSettings) Upsert(ctx context.Context, patch models.PortfolioSettingsPatch) (models.PortfolioSettings, error) {
	return models.PortfolioSettings{}, f.err
}

func TestBackendFailuresAnswerGenericMessage(t *testing.T) {
	cause := errors.New("pq: password authentication failed for postgres://portfolio:s3cret@db:5432/portfolio")
	env := newWrappedTestEnv(t, testConfig(), func(store *memory.Store) storage.Storage {
		return failingStore{Store: store, err: cause}
	})

	tests := []struct {
		name    string
		method  string
		path    string
		admin   bool
		body    interface{}
		message string
	}{
		{"list", http.MethodGet, "/api/projects", false, nil, "Failed to fetch projects"},
		{"create", http.MethodPost, "/api/projects", true, map[string]any{"title": "Site"}, "Failed to create project"},
		{"reorder", http.MethodPost, "/api/projects/reorder", true, map[string]any{"projectIds": []int{1}}, "Failed to reorder projects"},
		{"singleton get", http.MethodGet, "/api/settings", false, nil, "Failed to fetch settings"},
		{"singleton put", http.MethodPut, "/api/settings", true, map[string]any{"radius": 4}, "Failed to update settings"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token := ""
			if tc.admin {
				token = env.admin
			}
			rr := env.do(t, tc.method, tc.path, token, tc.body)
			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.JSONEq(t, `{"message":"`+tc.message+`"}`, rr.Body.String())
			assert.NotContains(t, rr.Body.String(), "s3cret")
			assert.NotContains(t, rr.Body.String(), "pq:")
		})
	}
}

func TestPatchNullClearsOptionalFields(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rr := env.do(t, http.MethodPost, "/api/projects", env.admin, map[string]any{
		"title": "Site", "period": "2024", "description": "old", "image": "/a.png", "featured": true,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	project := decode[models.Project](t, rr)

	rr = env.do(t, http.MethodPut, "/api/projects/"+itoa(project.ID), env.admin, `{"description":null,"image":null,"featured":null}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	cleared := decode[models.Project](t, rr)
	assert.Nil(t, cleared.Description)
	assert.Nil(t, cleared.Image)
	assert.Nil(t, cleared.Featured)
	require.NotNil(t, cleared.Period)
	assert.Equal(t, "2024", *cleared.Period)

	rr = env.do(t, http.MethodPut, "/api/projects/"+itoa(project.ID), env.admin, map[string]any{"image": strings.Repeat("x", 256)})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodPut, "/api/contact-info", env.admin, map[string]any{"email": "me@example.com", "phone": "555"})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = env.do(t, http.MethodPut, "/api/contact-info", env.admin, `{"email":null}`)
	require.Equal(t, http.StatusOK, rr.Code)
	info := decode[models.ContactInfo](t, rr)
	assert.Nil(t, info.Email)
	require.NotNil(t, info.Phone)
	assert.Equal(t, "555", *info.Phone)
}

func TestIDsOutsideColumnRangeAreRejected(t *testing.T) {
	env := newTestEnv(t, testConfig())
	category, err := env.store.SkillCategories().Create(context.Background(), models.SkillCategoryInput{Name: "Backend", Icon: "server"})
	require.NoError(t, err)

	rr := env.do(t, http.MethodGet, "/api/projects/2147483648", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid id", decode[ErrorResponse](t, rr).Message)

	rr = env.do(t, http.MethodDelete, "/api/projects/99999999999", env.admin, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/projects/2147483647", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/skills?categoryId=2147483648", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/skills", env.admin, map[string]any{"name": "Go", "level": 90, "categoryId": 3000000000})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode[ErrorResponse](t, rr)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "categoryId", body.Errors[0].Field)

	rr = env.do(t, http.MethodPut, "/api/skill-categories/"+itoa(category.ID), env.admin, map[string]any{"displayOrder": 3000000000})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

type gatedStore struct {
	*memory.Store
	experience *gatedExperience
}

func (g gatedStore) Experience() storage.ExperienceStore { return g.experience }

// gatedExperience holds its first List call after reading until release is
// closed.
type gatedExperience struct {
	storage.ExperienceStore
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (g *gatedExperience) List(ctx context.Context) ([]models.Experience, error) {
	items, err := g.ExperienceStore.List(ctx)
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.read)
		<-g.release
	}
	return items, err
}

func TestResponseCacheDropsReadOverlappingWrite(t *testing.T) {
	gate := &gatedExperience{read: make(chan struct{}), release: make(chan struct{})}
	env := newWrappedTestEnv(t, testConfig(), func(store *memory.Store) storage.Storage {
		gate.ExperienceStore = store.Experience()
		return gatedStore{Store: store, experience: gate}
	})

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- env.do(t, http.MethodGet, "/api/experience", "", nil)
	}()
	<-gate.read

	rr := env.do(t, http.MethodPost, "/api/experience", env.admin, map[string]any{"title": "Engineer", "company": "Acme"})
	require.Equal(t, http.StatusCreated, rr.Code)
	close(gate.release)

	stale := <-done
	assert.JSONEq(t, "[]", stale.Body.String())

	rr = env.do(t, http.MethodGet, "/api/experience", "", nil)
	assert.Equal(t, "MISS", rr.Header().Get("X-Cache"))
	assert.Len(t, decode[[]models.Experience](t, rr), 1)

	rr = env.do(t, http.MethodGet, "/api/experience", "", nil)
	assert.Equal(t, "HIT", rr.Header().Get("X-Cache"))
	assert.Len(t, decode[[]models.Experience](t, rr), 1)
}

func sendContact(env *testEnv, forwardedFor string) *httptest.ResponseRecorder {
	body := `{"name":"Ada","email":"ada@example.com","message":"Hello"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	return rr
}

func TestContactRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	cfg := testConfig()
	cfg.ContactRatePerMinute = 1
	env := newTestEnv(t, cfg)

	assert.Equal(t, http.StatusOK, sendContact(env, "198.51.100.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, sendContact(env, "198.51.100.2").Code)
	require.Equal(t, 1, env.deliverer.count())
	assert.Equal(t, "192.0.2.1", env.deliverer.got[0].RemoteIP)
}

func TestContactRateLimitReadsForwardedForBehindTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.ContactRatePerMinute = 1
	cfg.TrustedProxies = []string{"192.0.2.0/24"}
	env := newTestEnv(t, cfg)

	assert.Equal(t, http.StatusOK, sendContact(env, "198.51.100.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, sendContact(env, "198.51.100.1").Code)
	assert.Equal(t, http.StatusOK, sendContact(env, "198.51.100.2").Code)
	require.Equal(t, 2, env.deliverer.count())
	assert.Equal(t, "198.51.100.1", env.deliverer.got[0].RemoteIP)
}
