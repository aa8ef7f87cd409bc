package models

import "errors"

// Common errors used throughout the application
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrItemNotFound       = errors.New("cart item not found")
	ErrNoBookableItems    = errors.New("no bookable items in cart")
	ErrVoucherRejected    = errors.New("voucher code rejected")
	ErrMissingSession     = errors.New("checkout session missing or malformed")
	ErrSessionExpired     = errors.New("checkout session expired")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPaymentNotReceived = errors.New("payment not yet received")
)
