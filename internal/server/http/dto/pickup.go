package dto

// RedeemRequest carries a pickup token or scanned QR payload.
type RedeemRequest struct {
	Identifier string `json:"identifier"`
}

// PickupLookupResponse is the staff view of an order found by token.
type PickupLookupResponse struct {
	Order OrderResponse `json:"order"`
}
