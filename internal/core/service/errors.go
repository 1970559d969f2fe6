package service

import (
	"errors"
)

// Validation failures. Each one aborts the operation before anything is
// written; the message is meant to be shown to the person who acted.
var (
	ErrMissingFields      = errors.New("please fill in all required fields")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("new passwords do not match")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidRefund      = errors.New("invalid refund status")
	ErrRefundRegression   = errors.New("refund status can only move forward")
	ErrRefundNotAllowed   = errors.New("refunds can only be requested for completed orders")
	ErrRatingRequired     = errors.New("please select a star rating")
	ErrEmptyCheckout      = errors.New("your cart is empty")
	ErrGuestDetails       = errors.New("you have to fill up first before proceed to check out")
	ErrAdminExists        = errors.New("admin with this email already exists")
	ErrSelfDelete         = errors.New("cannot delete your own admin account")
	ErrInvalidProduct     = errors.New("invalid product data")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrUnknownProduct     = errors.New("product is no longer available")
)

// ErrNotLoggedIn is returned by storefront operations that act on the
// signed-in customer when nobody is signed in.
var ErrNotLoggedIn = errors.New("please log in to continue")

var validationErrors = []error{
	ErrMissingFields, ErrEmailTaken, ErrInvalidCredentials, ErrPasswordMismatch,
	ErrPasswordTooShort, ErrInvalidStatus, ErrInvalidRefund, ErrRefundRegression,
	ErrRefundNotAllowed, ErrRatingRequired, ErrEmptyCheckout, ErrGuestDetails,
	ErrAdminExists, ErrSelfDelete, ErrInvalidProduct, ErrInvalidQuantity,
	ErrUnknownProduct,
}

// IsValidation reports whether err is one of the user-facing validation
// failures above.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
