package model

import "time"

// OrderStatus describes order preparation lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// transitions is the single source of truth for legal status changes.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transitions are possible from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo reports whether moving from s to target is legal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Label returns the customer-facing name of the status.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Not Yet Started Preparing"
	case OrderStatusConfirmed:
		return "Confirmed"
	case OrderStatusPreparing:
		return "Preparation Started"
	case OrderStatusReady:
		return "Ready for Pickup"
	case OrderStatusCompleted:
		return "Completed"
	case OrderStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// Description returns the customer-facing explanation of the status.
func (s OrderStatus) Description() string {
	switch s {
	case OrderStatusPending:
		return "Your order has been received and is waiting to be prepared"
	case OrderStatusConfirmed:
		return "Your order has been confirmed"
	case OrderStatusPreparing:
		return "The kitchen is currently preparing your order"
	case OrderStatusReady:
		return "Your order is ready for pickup"
	case OrderStatusCompleted:
		return "Order has been picked up"
	case OrderStatusCancelled:
		return "This order has been cancelled"
	}
	return ""
}

// PaymentMethod describes how an order is paid for.
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodWallet       PaymentMethod = "wallet"
	PaymentMethodCashOnPickup PaymentMethod = "cash_on_pickup"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodWallet, PaymentMethodCashOnPickup:
		return true
	}
	return false
}

// RefundStatus describes the processing state of a refund.
type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusProcessed RefundStatus = "processed"
)

// Order describes a pre-order placed by a student for canteen pickup.
type Order struct {
	ID                  string
	UserID              string
	TotalAmount         float64
	Status              OrderStatus
	PickupDate          string // YYYY-MM-DD
	PickupTime          string // HH:MM
	PickupSlot          string
	PaymentMethod       PaymentMethod
	PaymentToken        *string
	PaymentCompleted    bool
	QRCode              *string
	TokenUsed           bool
	SpecialInstructions *string
	CancellationReason  *string
	RefundAmount        *float64
	RefundStatus        *RefundStatus
	CancelledAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// OrderItem is a line of an order with the unit price snapshotted at order time.
type OrderItem struct {
	ID             string
	OrderID        string
	MenuItemID     string
	Quantity       int
	Price          float64
	Customizations map[string]string
	CreatedAt      time.Time
}

// CartItem is a checkout request line; prices are never taken from the client.
type CartItem struct {
	MenuItemID     string
	Quantity       int
	Customizations map[string]string
}
