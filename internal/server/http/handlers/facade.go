package handlers

import (
	"context"

	"github.com/campuseats/canteen/internal/domain/model"
	"github.com/campuseats/canteen/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, email, fullName, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (string, model.UserRole, error)
	Profile(ctx context.Context, userID string) (*model.User, error)
}

// MenuFacade exposes the menu catalogue.
type MenuFacade interface {
	Menu(ctx context.Context) ([]model.MenuItem, error)
	CreateMenuItem(ctx context.Context, item model.MenuItem) (*model.MenuItem, error)
}

// OrderFacade encapsulates student order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, p usecase.PlaceOrderParams) (*model.Order, error)
	ValidateCashOnPickup(ctx context.Context, items []model.CartItem) (bool, string, error)
	Orders(ctx context.Context, userID string) ([]model.Order, error)
	Order(ctx context.Context, orderID, userID string) (*model.Order, error)
	OrderItems(ctx context.Context, orderID string) ([]model.OrderItem, error)
	CancelOrder(ctx context.Context, orderID, userID, reason string) (*model.Order, error)
	RefundPreview(ctx context.Context, orderID, userID string) (*usecase.RefundPreview, error)
	Notifications(ctx context.Context, userID string) ([]model.Notification, error)
}

// SlotFacade provides pickup slot visibility and administration.
type SlotFacade interface {
	SlotAvailability(ctx context.Context, date, timeSlot string) (*model.SlotAvailability, error)
	Slots(ctx context.Context, startDate, endDate string) ([]model.PickupSlot, error)
	CreateSlot(ctx context.Context, date, timeSlot string, maxCapacity int) (*model.PickupSlot, error)
	UpdateSlotCapacity(ctx context.Context, id string, maxCapacity int) (*model.PickupSlot, error)
	DeleteSlot(ctx context.Context, id string) error
}

// StaffFacade groups canteen-side order management operations.
type StaffFacade interface {
	OrdersByPickupDate(ctx context.Context, date string) ([]model.Order, error)
	OrderItems(ctx context.Context, orderID string) ([]model.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
	CancelOrderByStaff(ctx context.Context, orderID, reason string) (*model.Order, error)
	LookupPickup(ctx context.Context, identifier string) (*model.Order, error)
	RedeemPickup(ctx context.Context, identifier string) (*model.Order, error)
}

// CanteenFacade aggregates the full set of operations used across handlers.
type CanteenFacade interface {
	AuthFacade
	MenuFacade
	OrderFacade
	SlotFacade
	StaffFacade
}
