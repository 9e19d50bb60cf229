package usecase

import (
	"time"

	domainErrors "github.com/campuseats/canteen/internal/domain/errors"
)

const pickupDateLayout = "2006-01-02"

// PickupAt combines pickup date and time into a point in time. Time accepts
// both HH:MM and HH:MM:SS, matching what slot labels and clients send.
func PickupAt(pickupDate, pickupTime string, loc *time.Location) (time.Time, error) {
	layout := pickupDateLayout + " 15:04"
	if len(pickupTime) == 8 {
		layout = pickupDateLayout + " 15:04:05"
	}
	t, err := time.ParseInLocation(layout, pickupDate+" "+pickupTime, loc)
	if err != nil {
		return time.Time{}, domainErrors.ErrInvalidPickupTime
	}
	return t, nil
}

// CanCancel reports whether now is still more than window before pickup.
func CanCancel(pickupDate, pickupTime string, now time.Time, window time.Duration) (bool, error) {
	pickup, err := PickupAt(pickupDate, pickupTime, now.Location())
	if err != nil {
		return false, err
	}
	return pickup.Sub(now) > window, nil
}
