package redis

import "fmt"

// PlacementLockKey marks a gateway order with an in-flight placement.
func PlacementLockKey(razorpayOrderID string) string {
	return fmt.Sprintf("tejcart:order:placing:%s", razorpayOrderID)
}

// RateLimitBuyerKey is the sliding-window rate limit key for a buyer.
func RateLimitBuyerKey(buyerID uint) string {
	return fmt.Sprintf("tejcart:rate_limit:buyer:%d", buyerID)
}

// RateLimitIPKey is the rate limit fallback key when no buyer is resolved.
func RateLimitIPKey(ip string) string {
	return fmt.Sprintf("tejcart:rate_limit:ip:%s", ip)
}
