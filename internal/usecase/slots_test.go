package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	domainErrors "github.com/campuseats/canteen/internal/domain/errors"
	"github.com/campuseats/canteen/internal/domain/model"
	testhelpers "github.com/campuseats/canteen/internal/test"
	"github.com/campuseats/canteen/internal/usecase"
)

func TestCheckAvailabilityExistingSlot(t *testing.T) {
	repo := testhelpers.NewSlotRepositoryStub()
	repo.Seed(model.PickupSlot{ID: "s1", Date: "2026-09-01", TimeSlot: "12:30", MaxCapacity: 10, CurrentBookings: 4})
	uc := usecase.NewSlotUseCase(repo, 10, true)

	avail, err := uc.CheckAvailability(context.Background(), "2026-09-01", "12:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avail.AvailableSlots != 6 || avail.MaxCapacity != 10 || !avail.IsAvailable {
		t.Fatalf("unexpected availability %+v", avail)
	}
}

func TestCheckAvailabilityUnmaterializedLazy(t *testing.T) {
	uc := usecase.NewSlotUseCase(testhelpers.NewSlotRepositoryStub(), 10, true)

	avail, err := uc.CheckAvailability(context.Background(), "2026-09-01", "12:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avail.AvailableSlots != 10 || avail.MaxCapacity != 10 || !avail.IsAvailable {
		t.Fatalf("lazy policy must treat missing slots as fully open, got %+v", avail)
	}
}

func TestCheckAvailabilityUnmaterializedFailClosed(t *testing.T) {
	uc := usecase.NewSlotUseCase(testhelpers.NewSlotRepositoryStub(), 10, false)

	avail, err := uc.CheckAvailability(context.Background(), "2026-09-01", "12:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avail.AvailableSlots != 0 || avail.IsAvailable {
		t.Fatalf("fail-closed policy must treat missing slots as closed, got %+v", avail)
	}
}

func TestCheckAvailabilityOverbookedSlot(t *testing.T) {
	repo := testhelpers.NewSlotRepositoryStub()
	// Capacity was lowered below existing bookings.
	repo.Seed(model.PickupSlot{ID: "s1", Date: "2026-09-01", TimeSlot: "12:30", MaxCapacity: 3, CurrentBookings: 5})
	uc := usecase.NewSlotUseCase(repo, 10, true)

	avail, err := uc.CheckAvailability(context.Background(), "2026-09-01", "12:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avail.AvailableSlots != 0 || avail.IsAvailable {
		t.Fatalf("overbooked slot must report zero availability, got %+v", avail)
	}
}

func TestReserveMaterializesLazily(t *testing.T) {
	repo := testhelpers.NewSlotRepositoryStub()
	uc := usecase.NewSlotUseCase(repo, 2, true)

	slot, err := uc.Reserve(context.Background(), "2026-09-01", "12:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot.MaxCapacity != 2 || slot.CurrentBookings != 1 {
		t.Fatalf("unexpected slot %+v", slot)
	}
}

func TestReserveFailClosedMissingSlot(t *testing.T) {
	uc := usecase.NewSlotUseCase(testhelpers.NewSlotRepositoryStub(), 2, false)

	if _, err := uc.Reserve(context.Background(), "2026-09-01", "12:30"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReserveNeverExceedsCapacity(t *testing.T) {
	repo := testhelpers.NewSlotRepositoryStub()
	repo.Seed(model.PickupSlot{ID: "s1", Date: "2026-09-01", TimeSlot: "12:30", MaxCapacity: 5})
	uc := usecase.NewSlotUseCase(repo, 5, true)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		full      int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Reserve(context.Background(), "2026-09-01", "12:30")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domainErrors.ErrSlotFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 5 {
		t.Fatalf("expected exactly 5 successful reservations, got %d", succeeded)
	}
	if full != attempts-5 {
		t.Fatalf("expected %d ErrSlotFull, got %d", attempts-5, full)
	}
}

func TestReleaseIsFlooredAtZero(t *testing.T) {
	repo := testhelpers.NewSlotRepositoryStub()
	repo.Seed(model.PickupSlot{ID: "s1", Date: "2026-09-01", TimeSlot: "12:30", MaxCapacity: 5, CurrentBookings: 1})
	uc := usecase.NewSlotUseCase(repo, 5, true)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := uc.Release(ctx, "2026-09-01", "12:30"); err != nil {
			t.Fatalf("release %d failed: %v", i, err)
		}
	}
	slot, err := repo.Get(ctx, "2026-09-01", "12:30")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if slot.CurrentBookings != 0 {
		t.Fatalf("expected bookings floored at zero, got %d", slot.CurrentBookings)
	}

	// Releasing a slot that never existed is a no-op as well.
	if err := uc.Release(ctx, "2026-09-02", "12:30"); err != nil {
		t.Fatalf("release of missing slot must be a no-op, got %v", err)
	}
}

func TestCreateSlotDefaultsCapacity(t *testing.T) {
	repo := testhelpers.NewSlotRepositoryStub()
	uc := usecase.NewSlotUseCase(repo, 7, true)

	slot, err := uc.CreateSlot(context.Background(), "2026-09-01", "12:30", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot.MaxCapacity != 7 {
		t.Fatalf("expected default capacity 7, got %d", slot.MaxCapacity)
	}

	if _, err := uc.CreateSlot(context.Background(), "2026-09-01", "12:30", 5); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateCapacity(t *testing.T) {
	repo := testhelpers.NewSlotRepositoryStub()
	repo.Seed(model.PickupSlot{ID: "s1", Date: "2026-09-01", TimeSlot: "12:30", MaxCapacity: 10, CurrentBookings: 8})
	uc := usecase.NewSlotUseCase(repo, 10, true)

	ctx := context.Background()
	if _, err := uc.UpdateCapacity(ctx, "s1", 0); !errors.Is(err, domainErrors.ErrInvalidCapacity) {
		t.Fatalf("expected ErrInvalidCapacity, got %v", err)
	}

	// Lowering below current bookings is allowed; existing bookings stay.
	slot, err := uc.UpdateCapacity(ctx, "s1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot.MaxCapacity != 5 || slot.CurrentBookings != 8 {
		t.Fatalf("unexpected slot after lowering %+v", slot)
	}
	if slot.Available() {
		t.Fatal("overbooked slot must not accept new reservations")
	}
}
