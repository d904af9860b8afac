package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tillpos/config"
	"tillpos/internal/till"
)

func newTestServer(t *testing.T) (*Server, *gin.Engine, *till.Till) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tll := till.New()
	meatID, err := tll.Inventory.AddItem("Meat", "kg", decimal.NewFromInt(2))
	require.NoError(t, err)
	itemID, err := tll.Catalog.AddMenuItem("Burger", decimal.NewFromInt(90))
	require.NoError(t, err)
	require.NoError(t, tll.Catalog.SetRecipeEntry(itemID, &tll.Inventory, meatID, decimal.NewFromFloat(0.2)))

	cfg := config.Config{
		ShopName:  "TUX",
		EditorPIN: "0512",
		JWTSecret: "test-secret",
		JWTTTL:    3600000000000,
	}

	srv := New(tll, nil, cfg)
	return srv, srv.Router(), tll
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp APIResponse
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "text/plain; charset=utf-8" {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func TestHTTP_CheckoutFlow(t *testing.T) {
	_, r, tll := newTestServer(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/shift/start", gin.H{"worker": "Hassan"}, nil)
	require.Equal(t, http.StatusOK, w.Code, resp.Message)

	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/cart/lines", gin.H{"item_id": 1}, nil)
	require.Equal(t, http.StatusOK, w.Code, resp.Message)

	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/checkout", gin.H{
		"worker": "Hassan", "payment": "Cash", "order_type": "Take-Away",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, resp.Message)
	assert.True(t, resp.Success)

	require.Len(t, tll.Ledger.Orders, 1)
	meat, _ := tll.Inventory.Item("meat")
	assert.True(t, meat.Qty.Equal(decimal.NewFromFloat(1.8)))
}

func TestHTTP_CheckoutWithoutShiftReturnsConflict(t *testing.T) {
	_, r, _ := newTestServer(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/cart/lines", gin.H{"item_id": 1}, nil)
	require.Equal(t, http.StatusOK, w.Code, resp.Message)

	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/checkout", gin.H{
		"worker": "Hassan", "payment": "Cash", "order_type": "Take-Away",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, string(till.ErrCodeNoActiveShift), resp.Error)
}

func TestHTTP_VoidThenReceiptRefused(t *testing.T) {
	_, r, _ := newTestServer(t)

	doJSON(t, r, http.MethodPost, "/api/v1/shift/start", gin.H{"worker": "Hassan"}, nil)
	doJSON(t, r, http.MethodPost, "/api/v1/cart/lines", gin.H{"item_id": 1}, nil)
	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/checkout", gin.H{
		"worker": "Hassan", "payment": "Cash", "order_type": "Take-Away",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, resp.Message)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/orders/1/receipt", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Order #1")

	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/orders/1/void", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, resp.Message)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/orders/1/receipt", nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHTTP_CatalogRequiresEditorToken(t *testing.T) {
	_, r, _ := newTestServer(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/catalog/menu", gin.H{"name": "Fries", "price": 30}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/auth/editor", gin.H{"pin": "0000"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/auth/editor", gin.H{"pin": "0512"}, nil)
	require.Equal(t, http.StatusOK, w.Code, resp.Message)
	token := resp.Data.(map[string]interface{})["token"].(string)

	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/catalog/menu",
		gin.H{"name": "Fries", "price": 30},
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code, resp.Message)
	assert.True(t, resp.Success)
}

func TestHTTP_AdminScopeDoesNotOpenEditorRoutes(t *testing.T) {
	_, r, _ := newTestServer(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/auth/admin", gin.H{"admin_no": 1, "pin": "1111"}, nil)
	require.Equal(t, http.StatusOK, w.Code, resp.Message)
	token := resp.Data.(map[string]interface{})["token"].(string)

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/catalog/menu",
		gin.H{"name": "Fries", "price": 30},
		map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/api/v1/bank", nil,
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code, resp.Message)
}

func TestHTTP_SyncUnavailableWithoutEngine(t *testing.T) {
	_, r, _ := newTestServer(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/sync/status", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, string(till.ErrCodeSyncFailure), resp.Error)
}

func TestHTTP_PinRotation(t *testing.T) {
	_, r, tll := newTestServer(t)

	w, resp := doJSON(t, r, http.MethodPut, "/api/v1/pins/2", gin.H{
		"current_pin": "1111", "new_pin": "9999",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, string(till.ErrCodeNotAuthorized), resp.Error)

	w, resp = doJSON(t, r, http.MethodPut, "/api/v1/pins/2", gin.H{
		"current_pin": "2222", "new_pin": "9999",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, resp.Message)
	require.NoError(t, tll.Pins.Verify(2, "9999"))
}
