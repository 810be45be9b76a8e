package router

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"tejcart/internal/config"
	"tejcart/internal/ledger"
	"tejcart/internal/middleware"
	"tejcart/internal/model"
	"tejcart/internal/order"
	"tejcart/internal/payment"
)

// Setup registers all HTTP routes.
func Setup(r *gin.Engine, db *gorm.DB, rdb *rd.Client, payments *payment.Service, orders *order.Service, ledgers *ledger.Propagator, cfg config.AppConfig) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "pong"})
	})

	// Catalog
	r.GET("/api/products", listProducts(db))
	r.POST("/api/products", middleware.SellerAuth(db), createProduct(db))

	// Payments
	r.POST("/api/payments", middleware.BuyerAuth(db), initiatePayment(payments))
	r.POST("/api/payments/update", middleware.BuyerAuth(db), updatePayment(payments))

	// Orders
	r.POST("/api/orders",
		middleware.BuyerAuth(db),
		middleware.RedisRateLimit(rdb, cfg.OrderRateLimit, cfg.OrderRateWindow),
		placeOrder(orders))
	r.GET("/api/orders/mine", middleware.BuyerAuth(db), myOrders(orders))
	r.GET("/api/orders/:id", middleware.BuyerAuth(db), getOrder(orders))

	// Seller ledger
	r.GET("/api/sellerOrders/orders", middleware.SellerAuth(db), sellerOrders(ledgers))
}

// fail maps service errors onto the JSON envelope.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrOrderNotFound),
		errors.Is(err, model.ErrPaymentNotFound),
		errors.Is(err, model.ErrSellerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrOutOfStock),
		errors.Is(err, model.ErrSignatureInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrPaymentConflict),
		errors.Is(err, model.ErrPlacementInProgress):
		status = http.StatusConflict
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, model.ErrGateway):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"code": status, "msg": err.Error()})
}

// listProducts returns the catalog.
func listProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var list []model.Product
		if err := db.Find(&list).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "data": list})
	}
}

// createProduct lists a product under the authenticated seller.
func createProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		seller, ok := middleware.SellerFrom(c)
		if !ok {
			fail(c, model.ErrUnauthorized)
			return
		}
		var req struct {
			Title        string `json:"title" binding:"required"`
			Price        int64  `json:"price" binding:"required,min=1"`
			Category     string `json:"category"`
			StockStatus  string `json:"stock_status" binding:"required,oneof='In Stock' 'Out-of-stock' 'Getting Ready'"`
			StockCount   *int64 `json:"stock_count" binding:"omitempty,min=0"`
			DeliveryDays int    `json:"delivery_days" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}
		if req.StockStatus == model.StockInStock && req.StockCount == nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "stock_count is required for in-stock products"})
			return
		}
		p := &model.Product{
			Title:        req.Title,
			Price:        req.Price,
			Category:     req.Category,
			StockStatus:  req.StockStatus,
			StockCount:   req.StockCount,
			DeliveryDays: req.DeliveryDays,
			SellerTitle:  seller.SellerTitle,
			SellerID:     seller.ID,
		}
		if err := db.Create(p).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "data": p})
	}
}

// initiatePayment creates a gateway order plus the local payment record and
// returns the gateway order descriptor for the client checkout flow.
func initiatePayment(payments *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Amount   int64  `json:"amount" binding:"required,min=1"` // paise
			Currency string `json:"currency" binding:"omitempty,len=3"`
			Contact  string `json:"contact"`
			Email    string `json:"email" binding:"omitempty,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}
		remote, err := payments.Initiate(c.Request.Context(), req.Amount, req.Currency, req.Contact, req.Email)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "data": remote})
	}
}

// updatePayment runs the signed gateway confirmation through the payment
// state machine.
func updatePayment(payments *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
			RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
			RazorpaySignature string `json:"razorpay_signature" binding:"required"`
			Status            string `json:"status" binding:"omitempty,oneof=captured failed declined refunded"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}
		p, err := payments.Confirm(c.Request.Context(), req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, req.Status)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "data": p})
	}
}

type addressReq struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Street  string `json:"street" binding:"required"`
	Area    string `json:"area" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Pincode string `json:"pincode" binding:"required"`
}

// placeOrder is the order placement entry point.
func placeOrder(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer, ok := middleware.BuyerFrom(c)
		if !ok {
			fail(c, model.ErrUnauthorized)
			return
		}
		var req struct {
			ProductID       uint       `json:"product_id" binding:"required,min=1"`
			RazorpayOrderID string     `json:"razorpay_order_id"`
			Quantity        int        `json:"quantity" binding:"omitempty,min=1,max=10"`
			DeliveryAddress addressReq `json:"delivery_address" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}

		o, err := orders.PlaceOrder(c.Request.Context(), buyer.ID, order.PlaceOrderRequest{
			ProductID:       req.ProductID,
			RazorpayOrderID: req.RazorpayOrderID,
			Quantity:        req.Quantity,
			Address: model.DeliveryAddress{
				Name:    req.DeliveryAddress.Name,
				Phone:   req.DeliveryAddress.Phone,
				Email:   req.DeliveryAddress.Email,
				Street:  req.DeliveryAddress.Street,
				Area:    req.DeliveryAddress.Area,
				City:    req.DeliveryAddress.City,
				State:   req.DeliveryAddress.State,
				Pincode: req.DeliveryAddress.Pincode,
			},
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"code": 0, "data": o})
	}
}

// getOrder returns one of the buyer's orders with payment and product joined.
func getOrder(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer, ok := middleware.BuyerFrom(c)
		if !ok {
			fail(c, model.ErrUnauthorized)
			return
		}
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "invalid order id"})
			return
		}
		o, err := orders.GetOrder(c.Request.Context(), buyer.ID, uint(id))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "data": o})
	}
}

// myOrders lists all orders of the authenticated buyer.
func myOrders(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer, ok := middleware.BuyerFrom(c)
		if !ok {
			fail(c, model.ErrUnauthorized)
			return
		}
		list, err := orders.ListBuyerOrders(c.Request.Context(), buyer.ID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "data": list})
	}
}

// sellerOrders returns the seller's denormalized order ledger.
func sellerOrders(ledgers *ledger.Propagator) gin.HandlerFunc {
	return func(c *gin.Context) {
		seller, ok := middleware.SellerFrom(c)
		if !ok {
			fail(c, model.ErrUnauthorized)
			return
		}
		entries, err := ledgers.SellerEntries(c.Request.Context(), seller.ID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "data": entries})
	}
}
