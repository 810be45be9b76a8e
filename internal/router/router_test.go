package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tejcart/internal/config"
	"tejcart/internal/gateway"
	"tejcart/internal/ledger"
	"tejcart/internal/model"
	"tejcart/internal/order"
	"tejcart/internal/payment"
)

const testSecret = "test_key_secret"

type fakeGateway struct{}

func (fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (gateway.Order, error) {
	return gateway.Order{ID: "order_G1", Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

func (fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return gateway.VerifySignature(orderID, paymentID, signature, testSecret)
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	buyer  model.Buyer
	seller model.Seller
	prod   model.Product
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Product{},
		&model.Payment{},
		&model.Order{},
		&model.Buyer{},
		&model.BuyerOrderRef{},
		&model.Seller{},
		&model.SellerOrderEntry{},
	))

	seller := model.Seller{
		Username:    "ravi",
		SellerTitle: "Ravi Textiles",
		Email:       "ravi@example.com",
		Phone:       "8888888888",
		AuthToken:   "seller-token",
	}
	require.NoError(t, db.Create(&seller).Error)

	buyer := model.Buyer{
		Username:  "anu",
		Email:     "anu@example.com",
		Phone:     "9999999999",
		AuthToken: "buyer-token",
	}
	require.NoError(t, db.Create(&buyer).Error)

	stock := int64(2)
	prod := model.Product{
		Title:        "Cotton Kurta",
		Price:        49900,
		Category:     "Clothing",
		StockStatus:  model.StockInStock,
		StockCount:   &stock,
		DeliveryDays: 4,
		SellerTitle:  seller.SellerTitle,
		SellerID:     seller.ID,
	}
	require.NoError(t, db.Create(&prod).Error)

	payments := payment.NewService(db, fakeGateway{})
	ledgers := ledger.NewPropagator(db)
	orders := order.NewService(db, payments, ledgers, nil)

	// Unreachable Redis: the rate limiter fails open, which is also the
	// behavior under an outage in production.
	rdb := rd.NewClient(&rd.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})

	cfg := config.AppConfig{OrderRateLimit: 1000, OrderRateWindow: time.Second}

	r := gin.New()
	Setup(r, db, rdb, payments, orders, ledgers, cfg)

	return &testEnv{db: db, router: r, buyer: buyer, seller: seller, prod: prod}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func orderBody(productID uint, gatewayOrderID string) map[string]any {
	return map[string]any{
		"product_id":        productID,
		"razorpay_order_id": gatewayOrderID,
		"quantity":          1,
		"delivery_address": map[string]any{
			"name":    "Anu",
			"phone":   "9999999999",
			"email":   "anu@example.com",
			"street":  "12 MG Road",
			"area":    "Begumpet",
			"city":    "Hyderabad",
			"state":   "Telangana",
			"pincode": "500016",
		},
	}
}

func TestPlaceOrderRequiresAuth(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/orders", "", orderBody(e.prod.ID, ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodPost, "/api/orders", "wrong-token", orderBody(e.prod.ID, ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPlaceOrderHappyPath(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.db.Create(&model.Payment{
		RazorpayOrderID: "order_G1",
		Amount:          49900,
		Currency:        "INR",
		Status:          model.PaymentCaptured,
	}).Error)

	w := e.do(t, http.MethodPost, "/api/orders", "buyer-token", orderBody(e.prod.ID, "order_G1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.OrderNo)
	assert.Equal(t, "captured", resp.Data.PaymentStatus)

	// The order is retrievable with payment and product joined.
	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%d", resp.Data.ID), "buyer-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var getResp struct {
		Data model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &getResp))
	require.NotNil(t, getResp.Data.Payment)
	assert.Equal(t, "order_G1", getResp.Data.Payment.RazorpayOrderID)
}

func TestPlaceOrderOutOfStock(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.db.Model(&model.Product{}).Where("id = ?", e.prod.ID).
		Update("stock_count", 0).Error)

	w := e.do(t, http.MethodPost, "/api/orders", "buyer-token", orderBody(e.prod.ID, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/orders", "buyer-token", orderBody(9999, ""))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrderNotFound(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/api/orders/424242", "buyer-token", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMyOrders(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/orders", "buyer-token", orderBody(e.prod.ID, ""))
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodGet, "/api/orders/mine", "buyer-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}

func TestInitiatePayment(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/payments", "buyer-token", map[string]any{
		"amount":   50000,
		"currency": "INR",
		"contact":  "9999999999",
		"email":    "anu@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data gateway.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "order_G1", resp.Data.ID)

	var p model.Payment
	require.NoError(t, e.db.First(&p, "razorpay_order_id = ?", "order_G1").Error)
	assert.Equal(t, model.PaymentCreated, p.Status)
}

func TestUpdatePayment(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.db.Create(&model.Payment{
		RazorpayOrderID: "order_G1",
		Amount:          50000,
		Currency:        "INR",
		Status:          model.PaymentCreated,
	}).Error)

	sig := gateway.Sign("order_G1", "pay_123", testSecret)
	w := e.do(t, http.MethodPost, "/api/payments/update", "buyer-token", map[string]any{
		"razorpay_order_id":   "order_G1",
		"razorpay_payment_id": "pay_123",
		"razorpay_signature":  sig,
		"status":              "captured",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var p model.Payment
	require.NoError(t, e.db.First(&p, "razorpay_order_id = ?", "order_G1").Error)
	assert.Equal(t, model.PaymentCaptured, p.Status)
}

func TestUpdatePaymentBadSignature(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.db.Create(&model.Payment{
		RazorpayOrderID: "order_G1",
		Amount:          50000,
		Currency:        "INR",
		Status:          model.PaymentCreated,
	}).Error)

	w := e.do(t, http.MethodPost, "/api/payments/update", "buyer-token", map[string]any{
		"razorpay_order_id":   "order_G1",
		"razorpay_payment_id": "pay_123",
		"razorpay_signature":  "deadbeef",
		"status":              "captured",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var p model.Payment
	require.NoError(t, e.db.First(&p, "razorpay_order_id = ?", "order_G1").Error)
	assert.Equal(t, model.PaymentCreated, p.Status)
}

func TestUpdatePaymentUnknownOrder(t *testing.T) {
	e := newTestEnv(t)
	sig := gateway.Sign("order_missing", "pay_123", testSecret)
	w := e.do(t, http.MethodPost, "/api/payments/update", "buyer-token", map[string]any{
		"razorpay_order_id":   "order_missing",
		"razorpay_payment_id": "pay_123",
		"razorpay_signature":  sig,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSellerOrdersLedger(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/orders", "buyer-token", orderBody(e.prod.ID, ""))
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodGet, "/api/sellerOrders/orders", "seller-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []model.SellerOrderEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "anu@example.com", resp.Data[0].BuyerEmail)

	// Buyer tokens are not seller tokens.
	w = e.do(t, http.MethodGet, "/api/sellerOrders/orders", "buyer-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateProduct(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/products", "seller-token", map[string]any{
		"title":         "Silk Saree",
		"price":         129900,
		"category":      "Clothing",
		"stock_status":  "In Stock",
		"stock_count":   10,
		"delivery_days": 6,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var p model.Product
	require.NoError(t, e.db.First(&p, "title = ?", "Silk Saree").Error)
	assert.Equal(t, e.seller.ID, p.SellerID)
	assert.Equal(t, e.seller.SellerTitle, p.SellerTitle)
}

func TestCreateProductRequiresStockCountWhenInStock(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/products", "seller-token", map[string]any{
		"title":         "Silk Saree",
		"price":         129900,
		"stock_status":  "In Stock",
		"delivery_days": 6,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProductsIsPublic(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []model.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}
