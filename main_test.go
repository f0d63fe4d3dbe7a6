package main

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mfgdash/internal/config"
	"mfgdash/internal/database"
	"mfgdash/internal/logger"
	"mfgdash/internal/models"
	"mfgdash/internal/services"
	"mfgdash/internal/sessions"
)

// MockPublisher is a mock implementation of the RabbitMQ client.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(eventType string, payload interface{}) error {
	args := m.Called(eventType, payload)
	return args.Error(0)
}

var csrfField = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		AppEnv:         "test",
		AppPort:        ":0",
		SecretKey:      "test-secret",
		CSRFEnabled:    true,
		SessionTTL:     time.Hour,
		DatabaseDriver: config.DriverSQLite,
		DatabaseDSN:    filepath.Join(t.TempDir(), "app.db"),
		JWTSecret:      "test_jwt_secret",
		TokenTTL:       time.Hour,
		SeedData:       true,
		AdminEmail:     "admin@example.com",
		AdminPassword:  "AdminPass123!",
		LoginRateLimit: 100,
		LoginRateBurst: 100,
	}
}

func newTestApp(t *testing.T, cfg *config.Config, publisher services.Publisher) (*fiber.App, *gorm.DB) {
	t.Helper()
	logger.Set(zap.NewNop())

	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, seed(context.Background(), cfg, db))
	return NewApp(cfg, db, publisher), db
}

type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]*http.Cookie
	token   string
}

func (b *browser) do(method, path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	}
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}

	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	for _, ck := range resp.Cookies() {
		if ck.Value == "" || ck.MaxAge < 0 || (!ck.Expires.IsZero() && ck.Expires.Before(time.Now())) {
			delete(b.cookies, ck.Name)
			continue
		}
		b.cookies[ck.Name] = ck
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)

	if m := csrfField.FindStringSubmatch(string(raw)); m != nil {
		b.token = m[1]
	}
	return resp, string(raw)
}

// submit posts a form with the token scraped from the last rendered page.
func (b *browser) submit(path string, form url.Values) *http.Response {
	form.Set("_csrf", b.token)
	resp, _ := b.do(http.MethodPost, path, form)
	return resp
}

func TestHealthCheck(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t), nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"status":"healthy"`)
}

func TestUnauthenticatedAPIAccess(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t), nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCSRFProtectsForms(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t), nil)
	b := &browser{t: t, app: app, cookies: map[string]*http.Cookie{}}

	resp, _ := b.do(http.MethodPost, "/login", url.Values{"email": {"user@example.com"}, "password": {"UserPass123!"}})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	b.do(http.MethodGet, "/login", nil)
	require.NotEmpty(t, b.token)

	resp = b.submit("/login", url.Values{"email": {"user@example.com"}, "password": {"UserPass123!"}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get(fiber.HeaderLocation))

	sessionCookie, ok := b.cookies[sessions.CookieName]
	require.True(t, ok)
	_, err := uuid.Parse(sessionCookie.Value)
	assert.Error(t, err, "session id travels encrypted")
}

func TestCheckoutPublishesOrderCreated(t *testing.T) {
	publisher := new(MockPublisher)
	publisher.On("Publish", services.EventOrderCreated, mock.MatchedBy(func(ev services.OrderEvent) bool {
		return ev.Total == "59.00" && ev.Status == string(models.StatusPending)
	})).Return(nil).Once()

	app, db := newTestApp(t, testConfig(t), publisher)
	b := &browser{t: t, app: app, cookies: map[string]*http.Cookie{}}

	b.do(http.MethodGet, "/login", nil)
	b.submit("/login", url.Values{"email": {"user@example.com"}, "password": {"UserPass123!"}})

	var bracket, gear models.Product
	require.NoError(t, db.Where("sku = ?", "P-1001").First(&bracket).Error)
	require.NoError(t, db.Where("sku = ?", "P-1002").First(&gear).Error)

	b.do(http.MethodGet, "/products", nil)
	b.submit("/products", url.Values{"product_id": {itoa(bracket.ID)}, "quantity": {"2"}})
	b.submit("/products", url.Values{"product_id": {itoa(gear.ID)}, "quantity": {"1"}})

	_, page := b.do(http.MethodGet, "/order/review", nil)
	assert.Contains(t, page, "59.00")

	resp := b.submit("/order/review", url.Values{})
	assert.Equal(t, "/dashboard", resp.Header.Get(fiber.HeaderLocation))
	publisher.AssertExpectations(t)
}

func TestLoginThrottled(t *testing.T) {
	cfg := testConfig(t)
	cfg.CSRFEnabled = false
	cfg.LoginRateLimit = 0.001
	cfg.LoginRateBurst = 2
	app, _ := newTestApp(t, cfg, nil)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=x%40y.com&password=wrong"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{fiber.StatusUnauthorized, fiber.StatusUnauthorized, fiber.StatusTooManyRequests}, codes)
}

func TestSeedIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	_, db := newTestApp(t, cfg, nil)
	require.NoError(t, seed(context.Background(), cfg, db))

	var users, products int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Product{}).Count(&products)
	assert.EqualValues(t, 2, users)
	assert.EqualValues(t, 5, products)

	var admin models.User
	require.NoError(t, db.Where("email = ?", cfg.AdminEmail).First(&admin).Error)
	assert.True(t, admin.IsAdmin())
}

func TestCookieKey(t *testing.T) {
	raw, err := base64.StdEncoding.DecodeString(cookieKey("secret"))
	require.NoError(t, err)
	assert.Len(t, raw, 32)
	assert.NotEqual(t, cookieKey("secret"), cookieKey("other"))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
