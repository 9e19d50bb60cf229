package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/campuseats/canteen/internal/domain/errors"
	"github.com/campuseats/canteen/internal/domain/model"
	"github.com/campuseats/canteen/internal/domain/repository"
)

// SlotUseCase manages pickup slot capacity and availability.
type SlotUseCase struct {
	slots      repository.SlotRepository
	defaultCap int
	lazyCreate bool
}

// NewSlotUseCase constructs SlotUseCase with the slot materialization policy.
func NewSlotUseCase(slots repository.SlotRepository, defaultCap int, lazyCreate bool) *SlotUseCase {
	if defaultCap <= 0 {
		defaultCap = 10
	}
	return &SlotUseCase{slots: slots, defaultCap: defaultCap, lazyCreate: lazyCreate}
}

// CheckAvailability reports remaining capacity for a (date, time slot) pair.
// An unmaterialized slot counts as fully open under the lazy policy and as
// closed under the fail-closed policy.
func (u *SlotUseCase) CheckAvailability(ctx context.Context, date, timeSlot string) (*model.SlotAvailability, error) {
	slot, err := u.slots.Get(ctx, date, timeSlot)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			if u.lazyCreate {
				return &model.SlotAvailability{AvailableSlots: u.defaultCap, MaxCapacity: u.defaultCap, IsAvailable: true}, nil
			}
			return &model.SlotAvailability{}, nil
		}
		return nil, err
	}

	available := slot.MaxCapacity - slot.CurrentBookings
	if available < 0 {
		available = 0
	}
	return &model.SlotAvailability{
		AvailableSlots: available,
		MaxCapacity:    slot.MaxCapacity,
		IsAvailable:    slot.Available(),
	}, nil
}

// Reserve books one place in the slot. Fails with ErrSlotFull when capacity is
// exhausted; under the fail-closed policy an unmaterialized slot is ErrNotFound.
func (u *SlotUseCase) Reserve(ctx context.Context, date, timeSlot string) (*model.PickupSlot, error) {
	return u.slots.Reserve(ctx, date, timeSlot, u.defaultCap, u.lazyCreate)
}

// Release returns one place to the slot. Safe to call repeatedly.
func (u *SlotUseCase) Release(ctx context.Context, date, timeSlot string) error {
	return u.slots.Release(ctx, date, timeSlot)
}

// List returns slots within the inclusive date range; empty bounds are open.
func (u *SlotUseCase) List(ctx context.Context, startDate, endDate string) ([]model.PickupSlot, error) {
	return u.slots.List(ctx, startDate, endDate)
}

// CreateSlot materializes a slot administratively.
func (u *SlotUseCase) CreateSlot(ctx context.Context, date, timeSlot string, maxCapacity int) (*model.PickupSlot, error) {
	if maxCapacity <= 0 {
		maxCapacity = u.defaultCap
	}
	return u.slots.Create(ctx, date, timeSlot, maxCapacity)
}

// UpdateCapacity changes a slot's maximum capacity. Lowering it below the
// current booking count is allowed; existing bookings are kept and new
// reservations are blocked until bookings drop below the new cap.
func (u *SlotUseCase) UpdateCapacity(ctx context.Context, id string, maxCapacity int) (*model.PickupSlot, error) {
	if maxCapacity <= 0 {
		return nil, domainErrors.ErrInvalidCapacity
	}
	return u.slots.UpdateCapacity(ctx, id, maxCapacity)
}

// DeleteSlot removes a slot; fails with ErrSlotNotEmpty while bookings exist.
func (u *SlotUseCase) DeleteSlot(ctx context.Context, id string) error {
	return u.slots.Delete(ctx, id)
}
