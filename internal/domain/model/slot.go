package model

import "time"

// PickupSlot is a bookable (date, time-of-day) bucket with limited capacity.
type PickupSlot struct {
	ID              string
	Date            string // YYYY-MM-DD
	TimeSlot        string // HH:MM label, e.g. "14:30"
	MaxCapacity     int
	CurrentBookings int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Available reports whether the slot can take another booking.
func (s PickupSlot) Available() bool {
	return s.CurrentBookings < s.MaxCapacity
}

// SlotAvailability is the user-facing availability summary for a slot.
type SlotAvailability struct {
	AvailableSlots int
	MaxCapacity    int
	IsAvailable    bool
}
