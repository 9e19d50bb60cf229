package model

import "time"

// MenuItem is a purchasable canteen item.
type MenuItem struct {
	ID          string
	Name        string
	Description *string
	Price       float64
	Category    string
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
