package httptransport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediswift/order/internal/dal/memory"
	"github.com/mediswift/order/internal/service/models/order"
	"github.com/mediswift/order/internal/service/services/catalogsvc"
	"github.com/mediswift/order/internal/service/services/ordersvc"
)

func setupTransport(t *testing.T) *HTTPTransport {
	t.Helper()
	store := memory.NewStore()

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(memory.NewOrderRepository(store)),
		ordersvc.WithOutboxRepository(memory.NewOutboxRepository(store)),
		ordersvc.WithTxManager(memory.NewTxManager(store)),
	)
	catalogSvc := catalogsvc.MustNewCatalogService(
		catalogsvc.WithCatalogRepository(memory.NewCatalogRepository(store)),
	)

	transport := NewHTTPTransport(orderSvc, catalogSvc)
	transport.RegisterRoutes()

	return transport
}

func doJSON(t *testing.T, h *HTTPTransport, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Handler().ServeHTTP(w, req)

	return w
}

func createOrderBody() map[string]any {
	return map[string]any{
		"userId": "u1",
		"items": []map[string]any{
			{"productId": "1", "quantity": 2, "price": 599},
		},
		"totalAmount": 1198,
	}
}

func TestListProductsEndpoint(t *testing.T) {
	h := setupTransport(t)

	w := doJSON(t, h, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Len(t, products, 8)
}

func TestGetProductEndpoint(t *testing.T) {
	h := setupTransport(t)

	w := doJSON(t, h, http.MethodGet, "/api/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var p map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "Paracetamol 500mg", p["name"])

	w = doJSON(t, h, http.MethodGet, "/api/products/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPharmaciesEndpoint(t *testing.T) {
	h := setupTransport(t)

	w := doJSON(t, h, http.MethodGet, "/api/pharmacies", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var pharmacies []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pharmacies))
	assert.Len(t, pharmacies, 5)
}

func TestCreateAndGetOrder(t *testing.T) {
	h := setupTransport(t)

	w := doJSON(t, h, http.MethodPost, "/api/orders", createOrderBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var created order.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, order.StatusPending, created.Status)
	assert.Equal(t, 10, created.Progress)

	w = doJSON(t, h, http.MethodGet, "/api/orders/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched order.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
}

func TestCreateOrder_BadRequest(t *testing.T) {
	h := setupTransport(t)

	body := createOrderBody()
	delete(body, "userId")
	w := doJSON(t, h, http.MethodPost, "/api/orders", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = createOrderBody()
	body["totalAmount"] = 1
	w = doJSON(t, h, http.MethodPost, "/api/orders", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	h := setupTransport(t)

	w := doJSON(t, h, http.MethodGet, "/api/orders/nonexistent", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOrdersEndpoint(t *testing.T) {
	h := setupTransport(t)

	// userId is mandatory
	w := doJSON(t, h, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/orders", createOrderBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/orders?userId=u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []order.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)

	// unknown query parameters are tolerated
	w = doJSON(t, h, http.MethodGet, "/api/orders?userId=u1&utm_source=mailer", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)

	w = doJSON(t, h, http.MethodGet, "/api/orders?userId=u2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Empty(t, orders)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	h := setupTransport(t)

	w := doJSON(t, h, http.MethodPost, "/api/orders", createOrderBody())
	require.Equal(t, http.StatusCreated, w.Code)
	var created order.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// unknown status name
	w = doJSON(t, h, http.MethodPatch, "/api/orders/"+created.ID+"/status", map[string]any{"status": "Refunded"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// skipping a lifecycle step conflicts
	w = doJSON(t, h, http.MethodPatch, "/api/orders/"+created.ID+"/status", map[string]any{"status": "Shipped"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, h, http.MethodPatch, "/api/orders/"+created.ID+"/status", map[string]any{"status": "Processing"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated order.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, order.StatusProcessing, updated.Status)
	assert.Equal(t, 30, updated.Progress)
}

func TestTrackOrderEndpoint(t *testing.T) {
	h := setupTransport(t)

	w := doJSON(t, h, http.MethodPost, "/api/orders", createOrderBody())
	require.Equal(t, http.StatusCreated, w.Code)
	var created order.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, h, http.MethodGet, "/api/orders/"+created.ID+"/tracking", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tracking struct {
		OrderID  string `json:"orderId"`
		Status   string `json:"status"`
		Progress int    `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tracking))
	assert.Equal(t, created.ID, tracking.OrderID)
	assert.Equal(t, "Pending", tracking.Status)
	assert.Equal(t, 10, tracking.Progress)

	w = doJSON(t, h, http.MethodGet, "/api/orders/nonexistent/tracking", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
