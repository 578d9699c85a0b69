package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"
	"golang.org/x/crypto/bcrypt"

	"github.com/steelvault/project-dashboard/internal/api/handler"
	"github.com/steelvault/project-dashboard/internal/api/metrics"
	"github.com/steelvault/project-dashboard/internal/api/middleware"
	"github.com/steelvault/project-dashboard/internal/core/gate"
	"github.com/steelvault/project-dashboard/internal/core/schema"
	"github.com/steelvault/project-dashboard/internal/core/service"
	"github.com/steelvault/project-dashboard/internal/infrastructure/db/memory"
)

func hash(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func newTestRouter(t *testing.T, loginBurst int) *echo.Echo {
	t.Helper()
	store := memory.NewStore()
	store.Seed("Client", schema.Row{"id": int64(1), "name": "Acme Steel", "createdAt": time.Now().AddDate(0, -1, 0)})
	store.Seed("User",
		schema.Row{"id": int64(1), "name": "Ana Admin", "email": "ana@example.com", "password": hash(t, "s3cret"), "userType": "admin"},
		schema.Row{"id": int64(2), "name": "Eli Lead", "email": "eli@example.com", "password": hash(t, "pw"), "userType": "employee"},
		schema.Row{"id": int64(3), "name": "Cleo Client", "email": "cleo@example.com", "password": hash(t, "pw"), "userType": "client", "clientId": int64(1)},
	)
	store.Seed("Project",
		schema.Row{"id": int64(10), "name": "North Tower", "clientId": int64(1), "solTLId": int64(2), "status": "Live", "createdAt": time.Now()},
		schema.Row{"id": int64(11), "name": "Other Co Depot", "clientId": int64(2), "status": "IN_PROGRESS", "createdAt": time.Now()},
	)

	log := zerolog.Nop()
	reg := prometheus.NewRegistry()
	m := metrics.NewCollector(reg)
	resolver := schema.Default()
	instrumented := service.NewInstrumentedStore(store, m)
	team := service.NewTeamService(instrumented, resolver, log)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{Rate: 0.001, Burst: loginBurst, CleanupInterval: time.Minute}, log)
	t.Cleanup(limiter.Stop)

	return NewRouter(Dependencies{
		Auth:      service.NewAuthService(instrumented, memory.NewSessionStore(), resolver, service.AuthConfig{JWTSecret: "test-secret"}, log, m),
		Dashboard: service.NewDashboardService(instrumented, resolver, log, m),
		Projects:  service.NewProjectService(instrumented, resolver, log),
		Clients:   service.NewClientService(instrumented, resolver, team, log),
		Team:      team,

		Gate:           gate.New("/login", "/"),
		Metrics:        m,
		Registry:       reg,
		LoginLimiter:   limiter,
		Checks:         map[string]handler.Check{"store": store.Ping},
		OtherThreshold: 5,
		Log:            log,
	})
}

func do(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login response %s: %v", rec.Body.String(), err)
	}
	return resp.Token
}

func TestRouter_PublicRoutes(t *testing.T) {
	e := newTestRouter(t, 10)

	if rec := do(e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("/health: %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("/health/ready: %d %s", rec.Code, rec.Body.String())
	}
	rec := do(e, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "dashboard_") {
		t.Fatalf("/metrics: %d", rec.Code)
	}
}

func TestRouter_AnonymousIsSentToLogin(t *testing.T) {
	e := newTestRouter(t, 10)

	rec := do(e, http.MethodGet, "/v1/projects", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body middleware.Denial
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Redirect != "/login" || body.From != "/v1/projects" {
		t.Fatalf("unexpected denial %+v", body)
	}

	if rec := do(e, http.MethodPost, "/v1/admin/projects", "", `{}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous admin call: expected 401, got %d", rec.Code)
	}
}

func TestRouter_WrongPassword(t *testing.T) {
	e := newTestRouter(t, 10)

	rec := do(e, http.MethodPost, "/auth/login", "", `{"email":"ana@example.com","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "invalid credentials") {
		t.Fatalf("expected 401 invalid credentials, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_EmployeeIsForbiddenFromAdmin(t *testing.T) {
	e := newTestRouter(t, 10)
	token := login(t, e, "eli@example.com", "pw")

	if rec := do(e, http.MethodGet, "/v1/projects", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("employee list: expected 200, got %d", rec.Code)
	}
	rec := do(e, http.MethodPost, "/v1/admin/projects", token, `{"name":"X","solProjectNo":"S","clientId":1}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redirect":"/"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRouter_AdminCreatesProject(t *testing.T) {
	e := newTestRouter(t, 10)
	token := login(t, e, "ana@example.com", "s3cret")

	rec := do(e, http.MethodPost, "/v1/admin/projects", token, `{"name":"South Annex","solProjectNo":"SOL-7","clientId":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/v1/admin/projects", token, `{"name":"No client"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/v1/projects/999", token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_ClientSeesOwnProjectsOnly(t *testing.T) {
	e := newTestRouter(t, 10)
	token := login(t, e, "cleo@example.com", "pw")

	rec := do(e, http.MethodGet, "/v1/projects", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var projects []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &projects); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(projects) != 1 || projects[0]["name"] != "North Tower" {
		t.Fatalf("unexpected projects %v", projects)
	}
	if rec := do(e, http.MethodGet, "/v1/projects/11", token, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign project: expected 404, got %d", rec.Code)
	}
}

func TestRouter_LogoutEndsSession(t *testing.T) {
	e := newTestRouter(t, 10)
	token := login(t, e, "ana@example.com", "s3cret")

	if rec := do(e, http.MethodGet, "/auth/session", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("session: expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodPost, "/auth/logout", token, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/auth/session", token, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("after logout: expected 401, got %d", rec.Code)
	}
	if rec := do(e, http.MethodPost, "/auth/logout", "", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("anonymous logout: expected 204, got %d", rec.Code)
	}
}

func TestRouter_LoginRateLimited(t *testing.T) {
	e := newTestRouter(t, 2)

	body := `{"email":"ana@example.com","password":"nope"}`
	for i := 0; i < 2; i++ {
		if rec := do(e, http.MethodPost, "/auth/login", "", body); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i, rec.Code)
		}
	}
	rec := do(e, http.MethodPost, "/auth/login", "", body)
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected 429 with Retry-After, got %d", rec.Code)
	}
}

func TestRouter_DashboardOverview(t *testing.T) {
	e := newTestRouter(t, 10)
	token := login(t, e, "ana@example.com", "s3cret")

	rec := do(e, http.MethodGet, "/v1/dashboard/overview", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["totalProjects"] != 2 || resp["activeProjects"] != 2 {
		t.Fatalf("unexpected overview %v", resp)
	}
}


func TestRouter_LoginIgnoresProfileInBody(t *testing.T) {
	e := newTestRouter(t, 10)

	rec := do(e, http.MethodPost, "/auth/login", "", `{"email":"ana@example.com","password":"s3cret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin login: expected 200, got %d", rec.Code)
	}
	var admin struct {
		Token   string `json:"token"`
		Profile string `json:"profile"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &admin); err != nil || admin.Profile == "" {
		t.Fatalf("admin login response %s: %v", rec.Body.String(), err)
	}

	rec = do(e, http.MethodPost, "/auth/login", "",
		`{"email":"cleo@example.com","password":"pw","profile":"`+admin.Profile+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("client login: expected 200, got %d", rec.Code)
	}
	var client struct {
		Profile string `json:"profile"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &client); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if client.Profile == admin.Profile {
		t.Fatalf("client login reused the admin profile %q", admin.Profile)
	}

	rec = do(e, http.MethodGet, "/auth/session", admin.Token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin session: expected 200, got %d", rec.Code)
	}
	var session struct {
		User struct {
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if session.User.Name != "Ana Admin" || session.User.Role != "admin" {
		t.Fatalf("admin session was replaced: %s", rec.Body.String())
	}
	if rec := do(e, http.MethodGet, "/v1/admin/client-pms", admin.Token, ""); rec.Code != http.StatusOK {
		t.Fatalf("admin route: expected 200, got %d", rec.Code)
	}
}

func TestRouter_EveryRouteIsDocumented(t *testing.T) {
	e := newTestRouter(t, 10)

	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("read swagger doc: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("decode swagger doc: %v", err)
	}

	for _, r := range e.Routes() {
		if r.Method == echo.RouteNotFound || r.Path == "/metrics" || strings.HasPrefix(r.Path, "/swagger") {
			continue
		}
		parts := strings.Split(r.Path, "/")
		for i, p := range parts {
			if strings.HasPrefix(p, ":") {
				parts[i] = "{" + p[1:] + "}"
			}
		}
		path := strings.Join(parts, "/")
		if _, ok := doc.Paths[path][strings.ToLower(r.Method)]; !ok {
			t.Errorf("%s %s missing from the swagger document", r.Method, path)
		}
	}
}
