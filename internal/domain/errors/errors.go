package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// State-policy errors.
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrAlreadyTerminal        = errors.New("order is in a terminal status")
	ErrPastCancellationWindow = errors.New("cancellation window has passed")
	ErrTokenNotRedeemed       = errors.New("pickup token has not been redeemed")

	// Concurrency-conflict errors.
	ErrSlotFull         = errors.New("pickup slot is fully booked")
	ErrTokenAlreadyUsed = errors.New("pickup token already used")

	// Validation errors.
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidQuantity      = errors.New("item quantity must be positive")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
	ErrInvalidPickupTime    = errors.New("invalid pickup date or time")
	ErrMenuItemUnavailable  = errors.New("menu item is not available")
	ErrInvalidMenuItem      = errors.New("menu item fields are invalid")
	ErrInvalidCapacity      = errors.New("slot capacity must be positive")

	ErrSlotUnavailable    = errors.New("pickup slot unavailable, order was not created")
	ErrSlotNotEmpty       = errors.New("pickup slot has active bookings")
	ErrOrderNotRedeemable = errors.New("order cannot be redeemed")
)

// CashOnPickupError explains why a cart is not eligible for cash on pickup.
// Callers are expected to fall back to another payment method.
type CashOnPickupError struct {
	Reason string
}

func (e *CashOnPickupError) Error() string {
	return "cash on pickup not eligible: " + e.Reason
}
