package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/campuseats/canteen/internal/config"
	"github.com/campuseats/canteen/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewMenuUseCase,
	NewTokenUseCase,
	newSlotUseCase,
	newLifecycleUseCase,
	newCheckoutUseCase,
)

func newSlotUseCase(slots repository.SlotRepository, cfg *config.Config) *SlotUseCase {
	return NewSlotUseCase(slots, cfg.DefaultSlotCap, cfg.LazySlotCreate)
}

func newLifecycleUseCase(orders repository.OrderRepository, cfg *config.Config) *LifecycleUseCase {
	return NewLifecycleUseCase(orders, cfg.CancelWindow)
}

func newCheckoutUseCase(orders repository.OrderRepository, menu repository.MenuRepository, slots *SlotUseCase, logger *slog.Logger) *CheckoutUseCase {
	return NewCheckoutUseCase(orders, menu, slots, logger)
}
