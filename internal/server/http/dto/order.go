package dto

import "time"

// CartItemRequest is one checkout cart line.
type CartItemRequest struct {
	MenuItemID     string            `json:"menuItemId"`
	Quantity       int               `json:"quantity"`
	Customizations map[string]string `json:"customizations,omitempty"`
}

// CheckoutRequest describes an order placement payload.
type CheckoutRequest struct {
	Items               []CartItemRequest `json:"items"`
	PickupDate          string            `json:"pickupDate"`
	PickupTime          string            `json:"pickupTime"`
	PaymentMethod       string            `json:"paymentMethod"`
	SpecialInstructions string            `json:"specialInstructions,omitempty"`
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID                  string              `json:"id"`
	Status              string              `json:"status"`
	StatusLabel         string              `json:"statusLabel"`
	StatusDescription   string              `json:"statusDescription"`
	TotalAmount         float64             `json:"totalAmount"`
	PickupDate          string              `json:"pickupDate"`
	PickupTime          string              `json:"pickupTime"`
	PaymentMethod       string              `json:"paymentMethod"`
	PaymentCompleted    bool                `json:"paymentCompleted"`
	PaymentToken        *string             `json:"paymentToken,omitempty"`
	QRCode              *string             `json:"qrCode,omitempty"`
	TokenUsed           bool                `json:"tokenUsed"`
	SpecialInstructions *string             `json:"specialInstructions,omitempty"`
	CancellationReason  *string             `json:"cancellationReason,omitempty"`
	RefundAmount        *float64            `json:"refundAmount,omitempty"`
	RefundStatus        *string             `json:"refundStatus,omitempty"`
	CancelledAt         *time.Time          `json:"cancelledAt,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	Items               []OrderItemResponse `json:"items,omitempty"`
}

// OrderItemResponse is a line of an order.
type OrderItemResponse struct {
	MenuItemID     string            `json:"menuItemId"`
	Quantity       int               `json:"quantity"`
	Price          float64           `json:"price"`
	Customizations map[string]string `json:"customizations,omitempty"`
}

// CancelRequest carries an optional cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RefundPreviewResponse shows the refund a cancellation would produce now.
type RefundPreviewResponse struct {
	Percentage int     `json:"percentage"`
	Amount     float64 `json:"amount"`
}

// UpdateStatusRequest carries the target status for a staff transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CashEligibilityRequest carries cart lines for a cash-on-pickup check.
type CashEligibilityRequest struct {
	Items []CartItemRequest `json:"items"`
}

// CashEligibilityResponse reports whether cash on pickup is allowed.
type CashEligibilityResponse struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// NotificationResponse is an in-app notification entry.
type NotificationResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}
