package model

import "errors"

// Sentinel errors shared by the services; the router maps them to HTTP statuses.
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrSellerNotFound      = errors.New("seller not found")
	ErrOutOfStock          = errors.New("product out of stock")
	ErrSignatureInvalid    = errors.New("payment signature mismatch")
	ErrPaymentConflict     = errors.New("payment already in a different terminal state")
	ErrPlacementInProgress = errors.New("an order for this payment is already being placed")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrGateway             = errors.New("payment gateway failure")
)
