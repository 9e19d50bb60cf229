package dto

// SlotResponse represents a pickup slot.
type SlotResponse struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	TimeSlot        string `json:"timeSlot"`
	MaxCapacity     int    `json:"maxCapacity"`
	CurrentBookings int    `json:"currentBookings"`
	Available       bool   `json:"available"`
}

// AvailabilityResponse summarizes remaining capacity for one slot.
type AvailabilityResponse struct {
	AvailableSlots int  `json:"availableSlots"`
	MaxCapacity    int  `json:"maxCapacity"`
	IsAvailable    bool `json:"isAvailable"`
}

// CreateSlotRequest describes a new pickup slot.
type CreateSlotRequest struct {
	Date        string `json:"date"`
	TimeSlot    string `json:"timeSlot"`
	MaxCapacity int    `json:"maxCapacity"`
}

// UpdateCapacityRequest changes a slot's maximum capacity.
type UpdateCapacityRequest struct {
	MaxCapacity int `json:"maxCapacity"`
}
