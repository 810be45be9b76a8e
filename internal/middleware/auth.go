package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tejcart/internal/model"
)

// Context keys set by the auth middleware.
const (
	CtxBuyer  = "buyer"
	CtxSeller = "seller"
)

// BuyerAuth resolves the bearer token to a buyer and aborts with 401 when the
// token is missing or unknown.
func BuyerAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "missing auth token"})
			return
		}
		var b model.Buyer
		if err := db.First(&b, "auth_token = ?", token).Error; err != nil {
			status := http.StatusUnauthorized
			msg := model.ErrUnauthorized.Error()
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				status = http.StatusInternalServerError
				msg = err.Error()
			}
			c.AbortWithStatusJSON(status, gin.H{"code": status, "msg": msg})
			return
		}
		c.Set(CtxBuyer, b)
		c.Next()
	}
}

// SellerAuth is the seller-side counterpart of BuyerAuth.
func SellerAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "missing auth token"})
			return
		}
		var s model.Seller
		if err := db.First(&s, "auth_token = ?", token).Error; err != nil {
			status := http.StatusUnauthorized
			msg := model.ErrUnauthorized.Error()
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				status = http.StatusInternalServerError
				msg = err.Error()
			}
			c.AbortWithStatusJSON(status, gin.H{"code": status, "msg": msg})
			return
		}
		c.Set(CtxSeller, s)
		c.Next()
	}
}

// BuyerFrom returns the authenticated buyer placed by BuyerAuth.
func BuyerFrom(c *gin.Context) (model.Buyer, bool) {
	v, ok := c.Get(CtxBuyer)
	if !ok {
		return model.Buyer{}, false
	}
	b, ok := v.(model.Buyer)
	return b, ok
}

// SellerFrom returns the authenticated seller placed by SellerAuth.
func SellerFrom(c *gin.Context) (model.Seller, bool) {
	v, ok := c.Get(CtxSeller)
	if !ok {
		return model.Seller{}, false
	}
	s, ok := v.(model.Seller)
	return s, ok
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return strings.TrimSpace(c.GetHeader("X-Auth-Token"))
}
