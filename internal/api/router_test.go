package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/taskboard/task-manager/internal/core/domain"
	"github.com/taskboard/task-manager/internal/core/service"
)

const (
	routerKey    = "0123456789abcdef0123456789abcdef"
	routerIssuer = "task-manager-api"
)

// ── in-memory stores ──────────────────────────────────────────────────────────

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*domain.User
}

func (m *memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	cp := *u
	m.byID[u.ID] = &cp
	return &cp, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

type memTasks struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]*domain.Task
}

func (m *memTasks) Create(_ context.Context, t *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t.ID = m.seq
	cp := *t
	m.byID[t.ID] = &cp
	return nil
}

func (m *memTasks) FindByID(_ context.Context, id int64) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.byID[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrTaskNotFound
}

func (m *memTasks) ListByOwner(_ context.Context, userID string) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Task{}
	for _, t := range m.byID {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memTasks) Update(_ context.Context, t *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.byID[t.ID]
	if !ok || existing.UserID != t.UserID {
		return domain.ErrTaskNotFound
	}
	cp := *t
	m.byID[t.ID] = &cp
	return nil
}

func (m *memTasks) Delete(_ context.Context, id int64, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.byID[id]
	if !ok || existing.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(m.byID, id)
	return nil
}

// ── harness ───────────────────────────────────────────────────────────────────

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	tokens, err := service.NewTokenService(routerKey, routerIssuer, 24*time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	users := &memUsers{byID: map[string]*domain.User{}}
	tasks := &memTasks{byID: map[int64]*domain.Task{}}
	log := zerolog.Nop()

	return NewRouter(Dependencies{
		Logger:         log,
		AuthService:    service.NewAuthService(users, tokens, domain.PolicyStrict, log),
		TaskService:    service.NewTaskService(tasks, users, nil, log),
		Tokens:         tokens,
		AllowedOrigins: []string{"*"},
		Registry:       prometheus.NewRegistry(),
	})
}

func call(t *testing.T, e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()
	rec := call(t, e, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "password": "Str0ng!pass",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register %s: %d %s", email, rec.Code, rec.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Token == "" {
		t.Fatalf("register %s: no token in %s", email, rec.Body.String())
	}
	return body.Token
}

type taskBody struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
	UserID      string `json:"userId"`
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestRouter_TaskLifecycle(t *testing.T) {
	e := newTestRouter(t)
	token := register(t, e, "alice@example.com")

	rec := call(t, e, http.MethodPost, "/tasks", token, map[string]string{
		"title": "Buy milk", "description": "2 litres", "category": "errands",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var created taskBody
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	if created.ID == 0 || created.IsCompleted || created.UserID == "" {
		t.Fatalf("unexpected task %+v", created)
	}
	path := "/tasks/" + strconv.FormatInt(created.ID, 10)

	rec = call(t, e, http.MethodPut, path, token, map[string]any{
		"title": "Buy oat milk", "description": "2 litres", "category": "errands", "isCompleted": true,
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}

	rec = call(t, e, http.MethodGet, "/tasks", token, nil)
	var list []taskBody
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}
	if len(list) != 1 || list[0].Title != "Buy oat milk" || !list[0].IsCompleted {
		t.Fatalf("unexpected list %+v", list)
	}

	if rec = call(t, e, http.MethodDelete, path, token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body.String())
	}
	if rec = call(t, e, http.MethodGet, path, token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", rec.Code)
	}
}

func TestRouter_ForeignTaskLooksMissing(t *testing.T) {
	e := newTestRouter(t)
	alice := register(t, e, "alice@example.com")
	bob := register(t, e, "bob@example.com")

	rec := call(t, e, http.MethodPost, "/tasks", alice, map[string]string{
		"title": "Secret", "description": "alice only", "category": "private",
	})
	var created taskBody
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	path := "/tasks/" + strconv.FormatInt(created.ID, 10)

	foreign := call(t, e, http.MethodGet, path, bob, nil)
	missing := call(t, e, http.MethodGet, "/tasks/999", bob, nil)
	if foreign.Code != http.StatusNotFound || missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404/404, got %d/%d", foreign.Code, missing.Code)
	}
	if foreign.Body.String() != missing.Body.String() {
		t.Fatalf("foreign and missing bodies differ: %q vs %q", foreign.Body.String(), missing.Body.String())
	}

	update := map[string]any{"title": "x", "description": "x", "category": "x", "isCompleted": true}
	if rec := call(t, e, http.MethodPut, path, bob, update); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign update: %d", rec.Code)
	}
	if rec := call(t, e, http.MethodDelete, path, bob, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign delete: %d", rec.Code)
	}

	rec = call(t, e, http.MethodGet, "/tasks", bob, nil)
	if rec.Body.String() != "[]\n" {
		t.Fatalf("bob should see no tasks, got %s", rec.Body.String())
	}
	if rec := call(t, e, http.MethodGet, path, alice, nil); rec.Code != http.StatusOK {
		t.Fatalf("owner get: %d", rec.Code)
	}
}

func TestRouter_ProtectedRoutesRequireValidToken(t *testing.T) {
	e := newTestRouter(t)
	register(t, e, "alice@example.com")

	past := time.Now().Add(-48 * time.Hour)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, service.Claims{
		UserID: "someone",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice@example.com",
			Issuer:    routerIssuer,
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(24 * time.Hour)),
		},
	}).SignedString([]byte(routerKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	routes := []struct{ method, path string }{
		{http.MethodGet, "/tasks"},
		{http.MethodPost, "/tasks"},
		{http.MethodGet, "/tasks/1"},
		{http.MethodPut, "/tasks/1"},
		{http.MethodDelete, "/tasks/1"},
	}
	for _, token := range []string{"", expired, "not-a-jwt"} {
		for _, r := range routes {
			if rec := call(t, e, r.method, r.path, token, nil); rec.Code != http.StatusUnauthorized {
				t.Errorf("%s %s with token %.10q: expected 401, got %d", r.method, r.path, token, rec.Code)
			}
		}
	}
}

func TestRouter_AuthErrors(t *testing.T) {
	e := newTestRouter(t)
	register(t, e, "alice@example.com")

	rec := call(t, e, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "Alice@Example.com", "password": "Str0ng!pass",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: %d %s", rec.Code, rec.Body.String())
	}

	wrongPassword := call(t, e, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "Wr0ng!pass",
	})
	unknown := call(t, e, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "Str0ng!pass",
	})
	if wrongPassword.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassword.Code, unknown.Code)
	}
	if wrongPassword.Body.String() != unknown.Body.String() {
		t.Fatalf("login failures must be indistinguishable: %q vs %q", wrongPassword.Body.String(), unknown.Body.String())
	}

	rec = call(t, e, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "Str0ng!pass",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_PaddedEmailRegistersAndLogsIn(t *testing.T) {
	e := newTestRouter(t)

	rec := call(t, e, http.MethodPost, "/auth/register", "", map[string]string{
		"email": " B@X.com ", "password": "Str0ng!pass",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("padded register: %d %s", rec.Code, rec.Body.String())
	}

	rec = call(t, e, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "b@x.com", "password": "Str0ng!pass",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login with normalised email: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	e := newTestRouter(t)

	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		if rec := call(t, e, http.MethodGet, path, "", nil); rec.Code != http.StatusOK {
			t.Errorf("GET %s: %d", path, rec.Code)
		}
	}
	if rec := call(t, e, http.MethodGet, "/swagger/index.html", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("swagger should be disabled, got %d", rec.Code)
	}
}
