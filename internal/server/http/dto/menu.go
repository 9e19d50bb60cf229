package dto

// MenuItemResponse represents a purchasable item.
type MenuItemResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	IsAvailable bool    `json:"isAvailable"`
}

// CreateMenuItemRequest describes a new menu item.
type CreateMenuItemRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	IsAvailable *bool   `json:"isAvailable,omitempty"`
}
