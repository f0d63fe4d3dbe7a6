package views

import (
	"bytes"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mfgdash/internal/models"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "59.00", Money(decimal.RequireFromString("59")))
	assert.Equal(t, "0.00", Money(decimal.Zero))
	assert.Equal(t, "12.35", Money(decimal.RequireFromString("12.345")))
}

func TestTemplatesRender(t *testing.T) {
	engine := New()
	require.NoError(t, engine.Load())

	user := &models.User{ID: 1, Name: "Ada", Email: "ada@example.com", Role: models.RoleAdmin}
	order := models.Order{
		ID:        9,
		User:      *user,
		Status:    models.StatusShipped,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Items: []models.OrderItem{
			{Quantity: 2, UnitPrice: decimal.RequireFromString("12.50"), Product: models.Product{SKU: "P-1001"}},
		},
	}

	var buf bytes.Buffer
	err := engine.Render(&buf, "order_detail", fiber.Map{
		"User":     user,
		"Order":    order,
		"Statuses": models.OrderStatuses,
		"CSRF":     "tok",
	}, Layout)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `<dd class="col-sm-9" id="order-status">Shipped</dd>`)
	assert.Contains(t, out, `<th class="text-end" id="order-total">25.00</th>`)
	assert.Contains(t, out, `<option value="Shipped" selected>`)
	assert.Contains(t, out, `name="_csrf" value="tok"`)
	assert.Contains(t, out, `href="/admin"`)
}

func TestLayoutForAnonymousVisitor(t *testing.T) {
	engine := New()

	var buf bytes.Buffer
	require.NoError(t, engine.Render(&buf, "login", fiber.Map{
		"Form":    fiber.Map{},
		"Errors":  map[string]string{"email": "Invalid email address."},
		"Flashes": []fiber.Map{{"Category": "danger", "Message": "Invalid credentials."}},
	}, Layout))

	out := buf.String()
	assert.Contains(t, out, `href="/register"`)
	assert.NotContains(t, out, `href="/logout"`)
	assert.Contains(t, out, `alert-danger`)
	assert.Contains(t, out, "Invalid email address.")
}
