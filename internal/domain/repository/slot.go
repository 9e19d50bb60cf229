package repository

import (
	"context"

	"github.com/campuseats/canteen/internal/domain/model"
)

// SlotRepository manages pickup slot capacity.
//
// Reserve must be a single atomic conditional increment: the capacity check and
// the increment happen in one statement, never as separate read and write calls.
// Release decrements floored at zero; releasing an empty or missing slot is a
// no-op so retried compensations stay safe.
type SlotRepository interface {
	Get(ctx context.Context, date, timeSlot string) (*model.PickupSlot, error)
	GetByID(ctx context.Context, id string) (*model.PickupSlot, error)
	List(ctx context.Context, startDate, endDate string) ([]model.PickupSlot, error)
	Reserve(ctx context.Context, date, timeSlot string, defaultCapacity int, lazyCreate bool) (*model.PickupSlot, error)
	Release(ctx context.Context, date, timeSlot string) error
	Create(ctx context.Context, date, timeSlot string, maxCapacity int) (*model.PickupSlot, error)
	UpdateCapacity(ctx context.Context, id string, maxCapacity int) (*model.PickupSlot, error)
	Delete(ctx context.Context, id string) error
}
