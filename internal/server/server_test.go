package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flrdepot/crm-backend/internal/config"
	"github.com/flrdepot/crm-backend/internal/db/dbtest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t *testing.T
	h http.Handler
}

func newClient(t *testing.T) *apiClient {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:             "test-secret",
		JWTTTL:                time.Hour,
		LowStockThreshold:     10,
		ComplaintWarningHours: 24,
	}
	srv := New(dbtest.Open(t), cfg, nil, "abc123", "2026-01-01")
	return &apiClient{t: t, h: srv.Handler()}
}

func (c *apiClient) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	return rec
}

func (c *apiClient) decode(rec *httptest.ResponseRecorder, dst interface{}) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func (c *apiClient) login(email, password string) string {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	c.decode(rec, &out)
	require.NotEmpty(c.t, out.Token)
	return out.Token
}

func (c *apiClient) register(body map[string]interface{}) uint64 {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/auth/register", "", body)
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		ID uint64 `json:"id"`
	}
	c.decode(rec, &out)
	return out.ID
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestHealthz(t *testing.T) {
	c := newClient(t)
	rec := c.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"git_sha":"abc123"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	c := newClient(t)
	for _, path := range []string{"/api/products", "/api/orders", "/api/reports/stock", "/api/alerts"} {
		rec := c.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := c.do(http.MethodGet, "/api/orders", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	c := newClient(t)
	c.register(map[string]interface{}{"name": "Ann", "email": "ann@example.com", "password": "secret1"})

	rec := c.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ann@example.com", "password": "nope123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPost, "/api/auth/register", "", map[string]interface{}{"name": "Ann", "email": "ann@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrderFlowOverHTTP(t *testing.T) {
	c := newClient(t)
	c.register(map[string]interface{}{"name": "Admin", "email": "admin@example.com", "password": "secret1", "role": "ADMIN"})
	admin := c.login("admin@example.com", "secret1")

	rec := c.do(http.MethodPost, "/api/products", admin, map[string]interface{}{"name": "Rose bunch", "unit_price": "12.50", "stock_quantity": 40})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product struct {
		ID uint64 `json:"id"`
	}
	c.decode(rec, &product)

	rec = c.do(http.MethodPost, "/api/retailers", admin, map[string]interface{}{"name": "Corner Florist"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var retailer struct {
		ID uint64 `json:"id"`
	}
	c.decode(rec, &retailer)

	rec = c.do(http.MethodPost, "/api/orders", admin, map[string]interface{}{
		"retailer_id": retailer.ID,
		"items":       []map[string]interface{}{{"product_id": product.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order struct {
		ID          uint64          `json:"id"`
		Status      string          `json:"status"`
		TotalAmount decimal.Decimal `json:"total_amount"`
		Items       []struct {
			LineTotal decimal.Decimal `json:"line_total"`
		} `json:"items"`
	}
	c.decode(rec, &order)
	assert.Equal(t, "PENDING", order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("25")), order.TotalAmount.String())
	require.Len(t, order.Items, 1)

	rec = c.do(http.MethodPost, "/api/orders", admin, map[string]interface{}{"retailer_id": retailer.ID, "items": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/orders", admin, map[string]interface{}{
		"retailer_id": retailer.ID,
		"items":       []map[string]interface{}{{"product_id": 9999, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var eb errorBody
	c.decode(rec, &eb)
	assert.Equal(t, "not_found", eb.Error.Code)

	c.register(map[string]interface{}{
		"name": "Shop", "email": "shop@example.com", "password": "secret1",
		"role": "RETAILER", "retailer_id": retailer.ID,
	})
	shop := c.login("shop@example.com", "secret1")

	rec = c.do(http.MethodGet, "/api/orders", shop, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []struct {
		ID           uint64 `json:"id"`
		RetailerName string `json:"retailer_name"`
	}
	c.decode(rec, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Corner Florist", rows[0].RetailerName)

	rec = c.do(http.MethodGet, "/api/retailers", shop, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", order.ID), shop, map[string]string{"status": "APPROVED"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", order.ID), admin, map[string]string{"status": "APPROVED"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPatch, "/api/orders/9999/status", admin, map[string]string{"status": "APPROVED"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodGet, "/api/alerts?type=order_status_change", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var alerts []struct {
		Type    string  `json:"type"`
		OrderID *uint64 `json:"order_id"`
	}
	c.decode(rec, &alerts)
	require.Len(t, alerts, 1)
	require.NotNil(t, alerts[0].OrderID)
	assert.Equal(t, order.ID, *alerts[0].OrderID)
}

func TestReportsValidateDates(t *testing.T) {
	c := newClient(t)
	c.register(map[string]interface{}{"name": "Staff", "email": "staff@example.com", "password": "secret1"})
	staff := c.login("staff@example.com", "secret1")

	rec := c.do(http.MethodGet, "/api/reports/sales?from=2026-13-01", staff, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodGet, "/api/reports/sales?from=2026-02-01&to=2026-01-01", staff, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodGet, "/api/reports/sales", staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestNotificationSummaryUsesQueryThresholds(t *testing.T) {
	c := newClient(t)
	c.register(map[string]interface{}{"name": "Staff", "email": "staff@example.com", "password": "secret1"})
	staff := c.login("staff@example.com", "secret1")

	for _, p := range []map[string]interface{}{
		{"name": "Tulips", "unit_price": "3", "stock_quantity": 0},
		{"name": "Lilies", "unit_price": "4", "stock_quantity": 4},
		{"name": "Orchids", "unit_price": "9", "stock_quantity": 50},
	} {
		rec := c.do(http.MethodPost, "/api/products", staff, p)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := c.do(http.MethodGet, "/api/notifications/low-stock?threshold=5", staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var low struct {
		Count     int   `json:"count"`
		Threshold int64 `json:"threshold"`
		Products  []struct {
			Name     string `json:"name"`
			Severity string `json:"severity"`
		} `json:"products"`
	}
	c.decode(rec, &low)
	assert.Equal(t, 2, low.Count)
	assert.Equal(t, int64(5), low.Threshold)
	require.Len(t, low.Products, 2)
	assert.Equal(t, "Tulips", low.Products[0].Name)
	assert.Equal(t, "critical", low.Products[0].Severity)

	rec = c.do(http.MethodGet, "/api/notifications", staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		LowStock struct {
			Threshold int64 `json:"threshold"`
			Count     int   `json:"count"`
		} `json:"low_stock"`
		LongPending struct {
			WarningHours float64 `json:"warning_hours"`
		} `json:"long_pending_complaints"`
	}
	c.decode(rec, &summary)
	assert.Equal(t, int64(10), summary.LowStock.Threshold)
	assert.Equal(t, 2, summary.LowStock.Count)
	assert.Equal(t, 24.0, summary.LongPending.WarningHours)
}
