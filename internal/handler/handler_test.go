package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"retail-backoffice/internal/events"
	"retail-backoffice/internal/metrics"
	"retail-backoffice/internal/middleware"
	"retail-backoffice/internal/model"
	"retail-backoffice/internal/repository/memory"
	"retail-backoffice/internal/service"
	"retail-backoffice/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testServer struct {
	app      *fiber.App
	metrics  *metrics.Metrics
	store    *memory.Store
	customer *model.Customer
	seller   *model.Employee
	admin    *model.Employee
	picker   *model.Employee
	product  *model.Product
}

func newTestServer(t *testing.T, authRequired bool) *testServer {
	t.Helper()
	ctx := context.Background()
	log := zaptest.NewLogger(t)
	s := &testServer{store: memory.NewStore(), metrics: metrics.New()}

	s.customer = &model.Customer{Name: "Jordan Avery"}
	require.NoError(t, s.store.Customers().Create(ctx, s.customer))

	s.seller = &model.Employee{Name: "Sam Rivera", Location: model.LocationStore, Roles: model.RoleSet{model.RoleSalesperson}}
	s.admin = &model.Employee{Name: "Store Manager", Location: model.LocationStore, Roles: model.RoleSet{model.RoleAdmin}}
	s.picker = &model.Employee{Name: "Alex Picker", Location: model.LocationWarehouse, Roles: model.RoleSet{model.RoleFulfillment}}
	for _, e := range []*model.Employee{s.seller, s.admin, s.picker} {
		require.NoError(t, e.SetPIN("1234"))
		require.NoError(t, s.store.Employees().Create(ctx, e))
	}

	s.product = &model.Product{
		ProductType:          "Road Bike",
		Name:                 "Velocity Pro",
		Supplier:             "Velocity Cycles",
		CostPrice:            decimal.RequireFromString("800"),
		RetailPrice:          decimal.RequireFromString("1150"),
		CommissionPercentage: decimal.RequireFromString("10"),
	}
	require.NoError(t, s.store.Products().Create(ctx, s.product))

	authService := service.NewAuthService(s.store.Employees(), jwt.NewIssuer("handler-test", time.Hour), log)
	h := Handlers{
		Sales: NewSaleHandler(service.NewSaleService(
			s.store.Customers(), s.store.Employees(), s.store.Products(), s.store.Inventories(), s.store.Sales(),
			events.Nop, s.metrics, log,
		)),
		Inventory: NewInventoryHandler(service.NewInventoryService(s.store.Products(), s.store.Inventories(), events.Nop, s.metrics, log)),
		Products:  NewProductHandler(service.NewProductService(s.store.Products(), log)),
		Customers: NewCustomerHandler(service.NewCustomerService(s.store.Customers())),
		Employees: NewEmployeeHandler(service.NewEmployeeService(s.store.Employees(), log)),
		Reports:   NewReportHandler(service.NewReportService(s.store.Sales(), s.store.Employees())),
		Auth:      NewAuthHandler(authService),
	}

	s.app = NewApp(AppOptions{Name: "test"}, log, s.metrics)
	RegisterRoutes(s.app, h, middleware.NewGuards(authService, authRequired))
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (s *testServer) login(t *testing.T, e *model.Employee) string {
	t.Helper()
	resp, body := s.do(t, http.MethodPost, "/auth/login", fiber.Map{"employeeId": e.ID, "pin": "1234"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out service.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

func (s *testServer) saleBody(price string) fiber.Map {
	return fiber.Map{
		"customerId":       s.customer.ID,
		"soldByEmployeeId": s.seller.ID,
		"productId":        s.product.ID,
		"salePrice":        price,
		"saleChannel":      "Walk-in",
		"location":         "Store",
	}
}

func decodeError(t *testing.T, body []byte) ErrorResponse {
	t.Helper()
	var env ErrorResponse
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func TestCreateSale_Created(t *testing.T) {
	s := newTestServer(t, false)

	resp, body := s.do(t, http.MethodPut, "/inventory/"+s.product.ID.String(), fiber.Map{"location": "STORE", "quantity": 2}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = s.do(t, http.MethodPost, "/sales", s.saleBody("1150.00"), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var sale model.SaleResponse
	require.NoError(t, json.Unmarshal(body, &sale))
	assert.Equal(t, model.SaleFulfilled, sale.Status)
	assert.Equal(t, "115.00", sale.CommissionAmount)
	assert.Equal(t, "Walk-in", sale.SaleChannel)
	assert.Equal(t, model.LocationStore, sale.Location)
	assert.Equal(t, "/sales/"+sale.ID.String(), resp.Header.Get(fiber.HeaderLocation))

	resp, body = s.do(t, http.MethodGet, "/sales/"+sale.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched model.SaleResponse
	require.NoError(t, json.Unmarshal(body, &fetched))
	assert.Equal(t, sale.ID, fetched.ID)

	resp, body = s.do(t, http.MethodGet, "/inventory/"+s.product.ID.String()+"?location=store", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []model.InventoryResponse
	require.NoError(t, json.Unmarshal(body, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Quantity)
}

func TestCreateSale_Errors(t *testing.T) {
	s := newTestServer(t, false)

	t.Run("unknown customer", func(t *testing.T) {
		body := s.saleBody("10")
		ghost := uuid.New()
		body["customerId"] = ghost
		resp, raw := s.do(t, http.MethodPost, "/sales", body, "")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		env := decodeError(t, raw)
		assert.Equal(t, http.StatusNotFound, env.StatusCode)
		assert.Contains(t, env.Message, ghost.String())
		assert.Equal(t, "/sales", env.Path)
		assert.False(t, env.Timestamp.IsZero())
	})

	t.Run("bad price", func(t *testing.T) {
		resp, raw := s.do(t, http.MethodPost, "/sales", s.saleBody("12,50"), "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, decodeError(t, raw).Message, "salePrice")
	})

	t.Run("bad location", func(t *testing.T) {
		body := s.saleBody("10")
		body["location"] = "Moon"
		resp, raw := s.do(t, http.MethodPost, "/sales", body, "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.NotEmpty(t, decodeError(t, raw).Errors)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewBufferString("{"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := s.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown sale", func(t *testing.T) {
		resp, _ := s.do(t, http.MethodGet, "/sales/"+uuid.NewString(), nil, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed id", func(t *testing.T) {
		resp, raw := s.do(t, http.MethodGet, "/sales/not-a-uuid", nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "/sales/not-a-uuid", decodeError(t, raw).Path)
	})

	t.Run("bad filter", func(t *testing.T) {
		resp, _ := s.do(t, http.MethodGet, "/sales?status=LOST", nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("fulfillment not implemented", func(t *testing.T) {
		resp, raw := s.do(t, http.MethodPost, "/sales/"+uuid.NewString()+"/fulfillment", nil, "")
		require.Equal(t, http.StatusNotImplemented, resp.StatusCode)
		assert.Equal(t, http.StatusNotImplemented, decodeError(t, raw).StatusCode)
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, raw := s.do(t, http.MethodGet, "/nowhere", nil, "")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "/nowhere", decodeError(t, raw).Path)
	})
}

func TestListSales(t *testing.T) {
	s := newTestServer(t, false)

	for _, date := range []string{"2024-05-01T10:00:00Z", "2024-06-01T10:00:00Z"} {
		body := s.saleBody("99.90")
		body["saleDate"] = date
		resp, raw := s.do(t, http.MethodPost, "/sales", body, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	}

	resp, raw := s.do(t, http.MethodGet, "/sales?startDate=2024-05-15&status=pending", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sales []model.SaleResponse
	require.NoError(t, json.Unmarshal(raw, &sales))
	require.Len(t, sales, 1)
	assert.Equal(t, "99.90", sales[0].SalePrice)

	resp, raw = s.do(t, http.MethodGet, "/reports/commissions?year=2024&quarter=2", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report service.CommissionReport
	require.NoError(t, json.Unmarshal(raw, &report))
	require.Len(t, report.Employees, 1)
	assert.Equal(t, "19.98", report.Employees[0].TotalCommission)

	resp, _ = s.do(t, http.MethodGet, "/reports/commissions?year=2024", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateInventory_Errors(t *testing.T) {
	s := newTestServer(t, false)

	resp, _ := s.do(t, http.MethodPut, "/inventory/"+uuid.NewString(), fiber.Map{"location": "STORE", "quantity": 1}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPut, "/inventory/"+s.product.ID.String(), fiber.Map{"location": "STORE", "quantity": -3}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/inventory/"+s.product.ID.String()+"?location=attic", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGuards(t *testing.T) {
	s := newTestServer(t, true)

	resp, raw := s.do(t, http.MethodPost, "/sales", s.saleBody("10"), "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, decodeError(t, raw).StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/sales", s.saleBody("10"), "garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	pickerToken := s.login(t, s.picker)
	resp, _ = s.do(t, http.MethodPost, "/sales", s.saleBody("10"), pickerToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	sellerToken := s.login(t, s.seller)
	resp, raw = s.do(t, http.MethodPost, "/sales", s.saleBody("10"), sellerToken)
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	inventory := fiber.Map{"location": "STORE", "quantity": 5}
	resp, _ = s.do(t, http.MethodPut, "/inventory/"+s.product.ID.String(), inventory, sellerToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminToken := s.login(t, s.admin)
	resp, _ = s.do(t, http.MethodPut, "/inventory/"+s.product.ID.String(), inventory, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// reads stay open
	resp, _ = s.do(t, http.MethodGet, "/sales", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = s.do(t, http.MethodGet, "/auth/me", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), s.admin.ID.String())

	resp, _ = s.do(t, http.MethodGet, "/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_WrongPIN(t *testing.T) {
	s := newTestServer(t, true)

	resp, raw := s.do(t, http.MethodPost, "/auth/login", fiber.Map{"employeeId": s.seller.ID, "pin": "9999"}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, service.ErrInvalidCredentials.Error(), decodeError(t, raw).Message)
}

func TestProducts(t *testing.T) {
	s := newTestServer(t, false)

	resp, raw := s.do(t, http.MethodPost, "/products", fiber.Map{
		"productType":          "Helmet",
		"name":                 "Aero Shell",
		"supplier":             "Velocity Cycles",
		"costPrice":            "40",
		"retailPrice":          "89.5",
		"commissionPercentage": "5",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var product model.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &product))
	assert.Equal(t, "89.50", product.RetailPrice)

	resp, _ = s.do(t, http.MethodGet, "/products/"+product.ID.String(), nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = s.do(t, http.MethodGet, "/customers/"+s.customer.ID.String(), nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = s.do(t, http.MethodGet, "/employees?role=ADMIN", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsRecordRenderedStatus(t *testing.T) {
	s := newTestServer(t, false)

	s.do(t, http.MethodGet, "/sales/"+uuid.NewString(), nil, "")
	s.do(t, http.MethodGet, "/health", nil, "")

	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.HTTPRequestsTotal.WithLabelValues("GET", "/sales/:id", "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")))
}
