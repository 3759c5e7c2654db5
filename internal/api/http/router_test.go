package http

import (
	"bytes"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/calllog-service/internal/api/http/handlers"
	"github.com/spec-kit/calllog-service/internal/auth"
	"github.com/spec-kit/calllog-service/internal/config"
	"github.com/spec-kit/calllog-service/internal/events"
	"github.com/spec-kit/calllog-service/internal/money"
	"github.com/spec-kit/calllog-service/internal/observability"
	"github.com/spec-kit/calllog-service/internal/period"
	"github.com/spec-kit/calllog-service/internal/repository"
	"github.com/spec-kit/calllog-service/internal/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := repository.NewMemoryStore()
	sessionStore := auth.NewMemorySessionStore()
	sessions := auth.NewSessionManager(auth.NewTokenManager("test-secret", 60), sessionStore, logger, false)
	calendar := period.NewCalendar(nil, time.UTC)
	dispatcher := events.NewInMemoryDispatcher()

	dashboard := service.NewDashboardService(service.DashboardDependencies{
		Store:      store,
		Calendar:   calendar,
		Formatter:  money.NewFormatter("R"),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	employees := service.NewEmployeeService(service.EmployeeDependencies{
		Store:      store,
		Calendar:   calendar,
		Dispatcher: dispatcher,
		Logger:     logger,
		BcryptCost: bcrypt.MinCost,
	})
	authService := service.NewAuthService(config.AuthConfig{
		SessionTTLMinutes: 60,
		AdminName:         "admin",
		AdminPassword:     "2025",
	}, service.AuthDependencies{
		Store:      store,
		Sessions:   sessionStore,
		Calendar:   calendar,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	settings := service.NewSettingsService(store, dispatcher, logger)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:    handlers.NewHealthHandler("calllog-service", "test", map[string]handlers.Pinger{"postgres": nil, "store": store}),
		Auth:      handlers.NewAuthHandler(authService, settings, sessions),
		Dashboard: handlers.NewDashboardHandler(dashboard),
		Admin: handlers.NewAdminHandler(handlers.AdminDependencies{
			Dashboard: dashboard,
			Employees: employees,
			Settings:  settings,
			Sessions:  sessions,
		}),
		Sessions: sessions,
		Metrics:  metrics,
	})
	return app
}

// client replays the session cookie between requests.
type client struct {
	t      *testing.T
	app    *fiber.App
	cookie *nethttp.Cookie
}

type response struct {
	status   int
	location string
	body     map[string]any
	raw      string
	cookies  []*nethttp.Cookie
}

func (c *client) do(method, path string, payload any) response {
	c.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(c.t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

func (c *client) form(path string, values url.Values) response {
	c.t.Helper()
	req := httptest.NewRequest(nethttp.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req)
}

func (c *client) send(req *nethttp.Request) response {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	out := response{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		raw:      string(raw),
		cookies:  resp.Cookies(),
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(raw, &out.body))
	}
	for _, ck := range out.cookies {
		if ck.Name == auth.CookieName && ck.Value != "" {
			c.cookie = ck
		}
	}
	return out
}

func (r response) data() map[string]any {
	data, _ := r.body["data"].(map[string]any)
	return data
}

func (r response) errorMessage() string {
	e, _ := r.body["error"].(map[string]any)
	msg, _ := e["message"].(string)
	return msg
}

func loggedIn(t *testing.T, app *fiber.App, name, password string) *client {
	t.Helper()
	c := &client{t: t, app: app}
	resp := c.do(nethttp.MethodPost, "/login", map[string]string{"employee_name": name, "password": password})
	require.Equal(t, nethttp.StatusOK, resp.status, resp.raw)
	require.NotNil(t, c.cookie)
	return c
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t)
	c := &client{t: t, app: app}

	resp := c.do(nethttp.MethodGet, "/health/live", nil)
	assert.Equal(t, nethttp.StatusOK, resp.status)
	assert.Equal(t, "alive", resp.body["status"])

	resp = c.do(nethttp.MethodGet, "/health/ready", nil)
	assert.Equal(t, nethttp.StatusOK, resp.status)
	deps := resp.body["dependencies"].(map[string]any)
	assert.Equal(t, "not_configured", deps["postgres"])
	assert.Equal(t, "ok", deps["store"])
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)
	c := &client{t: t, app: app}
	c.do(nethttp.MethodGet, "/health/live", nil)

	resp := c.do(nethttp.MethodGet, "/metrics", nil)
	assert.Equal(t, nethttp.StatusOK, resp.status)
	assert.Contains(t, resp.raw, "calllog_http_requests_total")
}

func TestLoginPageShowsBanner(t *testing.T) {
	app := newTestApp(t)
	c := &client{t: t, app: app}

	resp := c.do(nethttp.MethodGet, "/login", nil)
	assert.Equal(t, nethttp.StatusOK, resp.status)
	assert.Equal(t, "Please log in to continue.", resp.data()["login_message"])
	assert.Equal(t, false, resp.data()["authenticated"])
}

func TestAnonymousDashboardRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	c := &client{t: t, app: app}

	resp := c.do(nethttp.MethodGet, "/dashboard", nil)
	assert.Equal(t, nethttp.StatusSeeOther, resp.status)
	assert.Equal(t, "/login", resp.location)

	resp = c.do(nethttp.MethodGet, "/admin/dashboard", nil)
	assert.Equal(t, nethttp.StatusSeeOther, resp.status)
	assert.Equal(t, "/login", resp.location)
	assert.Equal(t, "Admin access required", resp.errorMessage())
}

func TestBadLoginIsUnauthorized(t *testing.T) {
	app := newTestApp(t)
	c := &client{t: t, app: app}

	resp := c.do(nethttp.MethodPost, "/login", map[string]string{"employee_name": "admin", "password": "nope"})
	assert.Equal(t, nethttp.StatusUnauthorized, resp.status)
	assert.Equal(t, "Invalid Admin Credentials", resp.errorMessage())
	assert.Nil(t, c.cookie)
}

func TestAdminImpersonationFlow(t *testing.T) {
	app := newTestApp(t)
	admin := loggedIn(t, app, "Admin", "2025")

	resp := admin.do(nethttp.MethodPost, "/admin/users", map[string]string{"name": "Jane", "password": "pw"})
	require.Equal(t, nethttp.StatusCreated, resp.status, resp.raw)
	janeID := int64(resp.data()["id"].(float64))

	resp = admin.do(nethttp.MethodPost, "/admin/users", map[string]string{"name": "jane", "password": "pw"})
	assert.Equal(t, nethttp.StatusBadRequest, resp.status)
	assert.Equal(t, "An employee with that name already exists.", resp.errorMessage())

	resp = admin.do(nethttp.MethodGet, "/dashboard", nil)
	assert.Equal(t, nethttp.StatusSeeOther, resp.status)
	assert.Equal(t, "/admin/dashboard", resp.location)
	assert.Equal(t, "Select an employee to view from the admin dashboard.", resp.errorMessage())

	resp = admin.do(nethttp.MethodGet, "/admin/impersonate/1", nil)
	require.Equal(t, nethttp.StatusOK, resp.status, resp.raw)
	assert.Equal(t, "Viewing dashboard as Jane", resp.body["message"])

	resp = admin.do(nethttp.MethodGet, "/dashboard", nil)
	require.Equal(t, nethttp.StatusOK, resp.status, resp.raw)
	assert.Equal(t, true, resp.data()["is_admin"])
	assert.Equal(t, "Jane", resp.data()["viewing_employee"].(map[string]any)["name"])

	resp = admin.do(nethttp.MethodPost, "/dashboard", map[string]string{
		"person_name":    "Buyer",
		"person_number":  "0829998888",
		"answered":       "yes",
		"outcome":        "Viewing booked",
		"property_value": "R 2,500",
	})
	require.Equal(t, nethttp.StatusCreated, resp.status, resp.raw)
	assert.EqualValues(t, janeID, resp.data()["employee_id"])

	month := period.NewCalendar(nil, time.UTC).Current().Token()
	resp = admin.do(nethttp.MethodGet, "/admin/dashboard?month="+month, nil)
	require.Equal(t, nethttp.StatusOK, resp.status, resp.raw)
	data := resp.data()
	assert.EqualValues(t, 1, data["month_yes"])
	assert.EqualValues(t, 2500, data["month_total_value"])
	assert.Equal(t, "R 2,500", data["month_total_value_display"])
	chart := data["monthly_value_chart"].(map[string]any)
	assert.Equal(t, []any{"Jane"}, chart["labels"])
	assert.Equal(t, []any{2500.0}, chart["values"])

	resp = admin.do(nethttp.MethodGet, "/admin/dashboard/employee/1", nil)
	require.Equal(t, nethttp.StatusOK, resp.status)
	assert.EqualValues(t, 1, resp.data()["yes_count"])
	assert.EqualValues(t, 1, resp.data()["total_calls"])

	resp = admin.do(nethttp.MethodPost, "/admin/users/1/delete", nil)
	require.Equal(t, nethttp.StatusOK, resp.status, resp.raw)

	resp = admin.do(nethttp.MethodGet, "/dashboard", nil)
	assert.Equal(t, nethttp.StatusSeeOther, resp.status)
	assert.Equal(t, "/admin/dashboard", resp.location)

	resp = admin.do(nethttp.MethodGet, "/admin/dashboard/employee/1", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.status)
}

func TestStopImpersonation(t *testing.T) {
	app := newTestApp(t)
	admin := loggedIn(t, app, "admin", "2025")
	admin.do(nethttp.MethodPost, "/admin/users", map[string]string{"name": "Jane", "password": "pw"})
	admin.do(nethttp.MethodGet, "/admin/impersonate/1", nil)

	resp := admin.do(nethttp.MethodGet, "/admin/stop-impersonation", nil)
	assert.Equal(t, nethttp.StatusOK, resp.status)
	assert.Equal(t, "/admin/dashboard", resp.body["redirect"])

	resp = admin.do(nethttp.MethodGet, "/dashboard", nil)
	assert.Equal(t, nethttp.StatusSeeOther, resp.status)
}

func TestEmployeeDashboardAndLogout(t *testing.T) {
	app := newTestApp(t)
	admin := loggedIn(t, app, "admin", "2025")
	admin.do(nethttp.MethodPost, "/admin/users", map[string]string{"name": "Sipho", "password": "pw"})

	employee := &client{t: t, app: app}
	resp := employee.form("/login", url.Values{"employee_name": {"Sipho"}, "password": {"pw"}})
	require.Equal(t, nethttp.StatusOK, resp.status, resp.raw)
	assert.Equal(t, "/dashboard", resp.data()["redirect"])

	resp = employee.form("/dashboard", url.Values{
		"person_name":   {"Seller"},
		"person_number": {"0831112222"},
		"outcome":       {"Not interested"},
	})
	require.Equal(t, nethttp.StatusCreated, resp.status, resp.raw)
	assert.Equal(t, false, resp.data()["answered"])
	assert.Nil(t, resp.data()["property_value"])

	resp = employee.do(nethttp.MethodPost, "/dashboard", map[string]string{"person_name": "x"})
	assert.Equal(t, nethttp.StatusBadRequest, resp.status)

	resp = employee.do(nethttp.MethodGet, "/dashboard", nil)
	require.Equal(t, nethttp.StatusOK, resp.status)
	assert.Len(t, resp.data()["calls"], 1)
	assert.Len(t, resp.data()["call_dates"], 1)
	assert.Equal(t, false, resp.data()["is_admin"])

	resp = employee.do(nethttp.MethodGet, "/dashboard?date=2024-13-40", nil)
	require.Equal(t, nethttp.StatusOK, resp.status)
	assert.Equal(t, []any{}, resp.data()["calls"])

	resp = employee.do(nethttp.MethodGet, "/admin/users", nil)
	assert.Equal(t, nethttp.StatusSeeOther, resp.status)
	assert.Equal(t, "/login", resp.location)

	resp = admin.do(nethttp.MethodGet, "/admin/logs", nil)
	require.Equal(t, nethttp.StatusOK, resp.status)
	logs := resp.body["data"].([]any)
	require.Len(t, logs, 1)
	assert.Equal(t, "1", logs[0].(map[string]any)["employee_id"])

	resp = admin.do(nethttp.MethodGet, "/admin/users", nil)
	require.Equal(t, nethttp.StatusOK, resp.status)
	users := resp.body["data"].([]any)
	require.Len(t, users, 1)
	assert.EqualValues(t, 1, users[0].(map[string]any)["call_total"])
	assert.NotNil(t, users[0].(map[string]any)["last_login"])

	resp = employee.do(nethttp.MethodPost, "/logout", nil)
	assert.Equal(t, nethttp.StatusOK, resp.status)

	resp = employee.do(nethttp.MethodGet, "/dashboard", nil)
	assert.Equal(t, nethttp.StatusSeeOther, resp.status, "the old cookie no longer resolves to a session")
	assert.Equal(t, "/login", resp.location)
}

func TestAdminSettings(t *testing.T) {
	app := newTestApp(t)
	admin := loggedIn(t, app, "admin", "2025")

	resp := admin.do(nethttp.MethodPost, "/admin/settings", map[string]string{"login_message": "Sales meeting at 10"})
	require.Equal(t, nethttp.StatusOK, resp.status)

	anon := &client{t: t, app: app}
	resp = anon.do(nethttp.MethodGet, "/login", nil)
	assert.Equal(t, "Sales meeting at 10", resp.data()["login_message"])

	resp = admin.do(nethttp.MethodGet, "/admin/settings", nil)
	assert.Equal(t, "Sales meeting at 10", resp.data()["login_message"])
}

func TestUnknownRoutesAndIDs(t *testing.T) {
	app := newTestApp(t)
	admin := loggedIn(t, app, "admin", "2025")

	resp := admin.do(nethttp.MethodGet, "/nope", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.status)
	assert.Equal(t, "NOT_FOUND", resp.body["error"].(map[string]any)["code"])

	resp = admin.do(nethttp.MethodGet, "/admin/impersonate/abc", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.status)

	resp = admin.do(nethttp.MethodGet, "/admin/impersonate/99", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.status)

	resp = admin.do(nethttp.MethodPost, "/admin/users/99/delete", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.status)
}
