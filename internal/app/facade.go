package app

import (
	"context"

	"github.com/campuseats/canteen/internal/adapter/mailer"
	"github.com/campuseats/canteen/internal/domain/model"
	"github.com/campuseats/canteen/internal/domain/repository"
	"github.com/campuseats/canteen/internal/usecase"
)

// StatusSender delivers order status notifications to users.
type StatusSender interface {
	SendStatusChange(ctx context.Context, msg mailer.StatusChangeMessage) error
}

// CanteenFacade is the single application entry point used by transport and
// worker layers.
type CanteenFacade struct {
	auth      *usecase.AuthUseCase
	menu      *usecase.MenuUseCase
	checkout  *usecase.CheckoutUseCase
	lifecycle *usecase.LifecycleUseCase
	tokens    *usecase.TokenUseCase
	slots     *usecase.SlotUseCase
	notes     repository.NotificationRepository
	sender    StatusSender
}

func NewCanteenFacade(
	auth *usecase.AuthUseCase,
	menu *usecase.MenuUseCase,
	checkout *usecase.CheckoutUseCase,
	lifecycle *usecase.LifecycleUseCase,
	tokens *usecase.TokenUseCase,
	slots *usecase.SlotUseCase,
	notes repository.NotificationRepository,
	sender StatusSender,
) *CanteenFacade {
	return &CanteenFacade{
		auth:      auth,
		menu:      menu,
		checkout:  checkout,
		lifecycle: lifecycle,
		tokens:    tokens,
		slots:     slots,
		notes:     notes,
		sender:    sender,
	}
}

func (f *CanteenFacade) Register(ctx context.Context, email, fullName, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, email, fullName, password)
	return token, err
}

func (f *CanteenFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *CanteenFacade) ParseToken(token string) (string, model.UserRole, error) {
	return f.auth.ParseToken(token)
}

func (f *CanteenFacade) Profile(ctx context.Context, userID string) (*model.User, error) {
	return f.auth.GetByID(ctx, userID)
}

func (f *CanteenFacade) Menu(ctx context.Context) ([]model.MenuItem, error) {
	return f.menu.ListAvailable(ctx)
}

func (f *CanteenFacade) CreateMenuItem(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
	return f.menu.Create(ctx, item)
}

func (f *CanteenFacade) PlaceOrder(ctx context.Context, p usecase.PlaceOrderParams) (*model.Order, error) {
	return f.checkout.PlaceOrder(ctx, p)
}

func (f *CanteenFacade) ValidateCashOnPickup(ctx context.Context, items []model.CartItem) (bool, string, error) {
	return f.checkout.ValidateCashOnPickup(ctx, items)
}

func (f *CanteenFacade) Orders(ctx context.Context, userID string) ([]model.Order, error) {
	return f.lifecycle.ListByUser(ctx, userID)
}

func (f *CanteenFacade) Order(ctx context.Context, orderID, userID string) (*model.Order, error) {
	return f.lifecycle.GetForUser(ctx, orderID, userID)
}

func (f *CanteenFacade) OrderItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	return f.lifecycle.Items(ctx, orderID)
}

func (f *CanteenFacade) OrdersByPickupDate(ctx context.Context, date string) ([]model.Order, error) {
	return f.lifecycle.ListByPickupDate(ctx, date)
}

func (f *CanteenFacade) CancelOrder(ctx context.Context, orderID, userID, reason string) (*model.Order, error) {
	return f.lifecycle.CancelByUser(ctx, orderID, userID, reason)
}

func (f *CanteenFacade) CancelOrderByStaff(ctx context.Context, orderID, reason string) (*model.Order, error) {
	return f.lifecycle.CancelByStaff(ctx, orderID, reason)
}

func (f *CanteenFacade) RefundPreview(ctx context.Context, orderID, userID string) (*usecase.RefundPreview, error) {
	return f.lifecycle.Refund(ctx, orderID, userID)
}

func (f *CanteenFacade) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	return f.lifecycle.RequestTransition(ctx, orderID, status)
}

func (f *CanteenFacade) LookupPickup(ctx context.Context, identifier string) (*model.Order, error) {
	return f.tokens.Lookup(ctx, identifier)
}

func (f *CanteenFacade) RedeemPickup(ctx context.Context, identifier string) (*model.Order, error) {
	return f.tokens.RedeemAndComplete(ctx, identifier)
}

func (f *CanteenFacade) SlotAvailability(ctx context.Context, date, timeSlot string) (*model.SlotAvailability, error) {
	return f.slots.CheckAvailability(ctx, date, timeSlot)
}

func (f *CanteenFacade) Slots(ctx context.Context, startDate, endDate string) ([]model.PickupSlot, error) {
	return f.slots.List(ctx, startDate, endDate)
}

func (f *CanteenFacade) CreateSlot(ctx context.Context, date, timeSlot string, maxCapacity int) (*model.PickupSlot, error) {
	return f.slots.CreateSlot(ctx, date, timeSlot, maxCapacity)
}

func (f *CanteenFacade) UpdateSlotCapacity(ctx context.Context, id string, maxCapacity int) (*model.PickupSlot, error) {
	return f.slots.UpdateCapacity(ctx, id, maxCapacity)
}

func (f *CanteenFacade) DeleteSlot(ctx context.Context, id string) error {
	return f.slots.DeleteSlot(ctx, id)
}

func (f *CanteenFacade) Notifications(ctx context.Context, userID string) ([]model.Notification, error) {
	return f.notes.ListByUser(ctx, userID)
}

func (f *CanteenFacade) PendingNotifications(ctx context.Context, limit int) ([]model.Notification, error) {
	return f.notes.SelectUndelivered(ctx, limit)
}

func (f *CanteenFacade) DeliverStatusChange(ctx context.Context, note model.Notification) error {
	return f.sender.SendStatusChange(ctx, mailer.StatusChangeMessage{
		OrderID:   note.OrderID,
		UserID:    note.UserID,
		NewStatus: string(note.NewStatus),
		OldStatus: string(note.OldStatus),
	})
}

func (f *CanteenFacade) MarkNotificationDelivered(ctx context.Context, id string) error {
	return f.notes.MarkDelivered(ctx, id)
}
