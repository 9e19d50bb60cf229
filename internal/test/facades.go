package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/campuseats/canteen/internal/adapter/mailer"
	"github.com/campuseats/canteen/internal/domain/model"
	"github.com/campuseats/canteen/internal/usecase"
)

// MenuFacadeStub serves a configurable menu.
type MenuFacadeStub struct {
	MenuFn       func(context.Context) ([]model.MenuItem, error)
	CreateItemFn func(context.Context, model.MenuItem) (*model.MenuItem, error)
}

// Menu returns configured items or a one-item default.
func (s MenuFacadeStub) Menu(ctx context.Context) ([]model.MenuItem, error) {
	if s.MenuFn != nil {
		return s.MenuFn(ctx)
	}
	return []model.MenuItem{{ID: "item-1", Name: "Veg Sandwich", Price: 45, Category: "snacks", IsAvailable: true}}, nil
}

// CreateMenuItem delegates to override or echoes the item back.
func (s MenuFacadeStub) CreateMenuItem(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
	if s.CreateItemFn != nil {
		return s.CreateItemFn(ctx, item)
	}
	if item.ID == "" {
		item.ID = "item-1"
	}
	return &item, nil
}

// OrderFacadeStub provides controllable behaviour for student order endpoints.
type OrderFacadeStub struct {
	PlaceOrderFn    func(context.Context, usecase.PlaceOrderParams) (*model.Order, error)
	ValidateCashFn  func(context.Context, []model.CartItem) (bool, string, error)
	OrdersFn        func(context.Context, string) ([]model.Order, error)
	OrderFn         func(context.Context, string, string) (*model.Order, error)
	OrderItemsFn    func(context.Context, string) ([]model.OrderItem, error)
	CancelFn        func(context.Context, string, string, string) (*model.Order, error)
	RefundFn        func(context.Context, string, string) (*usecase.RefundPreview, error)
	NotificationsFn func(context.Context, string) ([]model.Notification, error)
}

// PlaceOrder delegates to provided function or returns a pending order.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, p usecase.PlaceOrderParams) (*model.Order, error) {
	if s.PlaceOrderFn != nil {
		return s.PlaceOrderFn(ctx, p)
	}
	return &model.Order{ID: "order-1", UserID: p.UserID, Status: model.OrderStatusPending}, nil
}

// ValidateCashOnPickup reports configured eligibility.
func (s OrderFacadeStub) ValidateCashOnPickup(ctx context.Context, items []model.CartItem) (bool, string, error) {
	if s.ValidateCashFn != nil {
		return s.ValidateCashFn(ctx, items)
	}
	return true, "", nil
}

// Orders returns predefined orders for given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID string) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{{ID: "order-1", UserID: userID, Status: model.OrderStatusPending}}, nil
}

// Order returns a single predefined order.
func (s OrderFacadeStub) Order(ctx context.Context, orderID, userID string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID, userID)
	}
	return &model.Order{ID: orderID, UserID: userID, Status: model.OrderStatusPending}, nil
}

// OrderItems returns predefined order lines.
func (s OrderFacadeStub) OrderItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	if s.OrderItemsFn != nil {
		return s.OrderItemsFn(ctx, orderID)
	}
	return []model.OrderItem{{OrderID: orderID, MenuItemID: "item-1", Quantity: 1, Price: 45}}, nil
}

// CancelOrder delegates to provided function or returns a cancelled order.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, orderID, userID, reason string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID, userID, reason)
	}
	return &model.Order{ID: orderID, UserID: userID, Status: model.OrderStatusCancelled}, nil
}

// RefundPreview returns configured refund calculation.
func (s OrderFacadeStub) RefundPreview(ctx context.Context, orderID, userID string) (*usecase.RefundPreview, error) {
	if s.RefundFn != nil {
		return s.RefundFn(ctx, orderID, userID)
	}
	return &usecase.RefundPreview{Percentage: 100, Amount: 45}, nil
}

// Notifications returns stored notifications for the user.
func (s OrderFacadeStub) Notifications(ctx context.Context, userID string) ([]model.Notification, error) {
	if s.NotificationsFn != nil {
		return s.NotificationsFn(ctx, userID)
	}
	return []model.Notification{{ID: "note-1", UserID: userID, OrderID: "order-1", Type: model.NotificationTypeOrderUpdate}}, nil
}

// SlotFacadeStub simulates slot visibility and administration.
type SlotFacadeStub struct {
	AvailabilityFn   func(context.Context, string, string) (*model.SlotAvailability, error)
	SlotsFn          func(context.Context, string, string) ([]model.PickupSlot, error)
	CreateSlotFn     func(context.Context, string, string, int) (*model.PickupSlot, error)
	UpdateCapacityFn func(context.Context, string, int) (*model.PickupSlot, error)
	DeleteSlotFn     func(context.Context, string) error
}

// SlotAvailability returns configured availability or a free slot.
func (s SlotFacadeStub) SlotAvailability(ctx context.Context, date, timeSlot string) (*model.SlotAvailability, error) {
	if s.AvailabilityFn != nil {
		return s.AvailabilityFn(ctx, date, timeSlot)
	}
	return &model.SlotAvailability{AvailableSlots: 10, MaxCapacity: 10, IsAvailable: true}, nil
}

// Slots returns configured slot list.
func (s SlotFacadeStub) Slots(ctx context.Context, startDate, endDate string) ([]model.PickupSlot, error) {
	if s.SlotsFn != nil {
		return s.SlotsFn(ctx, startDate, endDate)
	}
	return []model.PickupSlot{{ID: "slot-1", Date: startDate, TimeSlot: "12:30", MaxCapacity: 10}}, nil
}

// CreateSlot delegates to override or returns the described slot.
func (s SlotFacadeStub) CreateSlot(ctx context.Context, date, timeSlot string, maxCapacity int) (*model.PickupSlot, error) {
	if s.CreateSlotFn != nil {
		return s.CreateSlotFn(ctx, date, timeSlot, maxCapacity)
	}
	return &model.PickupSlot{ID: "slot-1", Date: date, TimeSlot: timeSlot, MaxCapacity: maxCapacity}, nil
}

// UpdateSlotCapacity delegates to override or returns the updated slot.
func (s SlotFacadeStub) UpdateSlotCapacity(ctx context.Context, id string, maxCapacity int) (*model.PickupSlot, error) {
	if s.UpdateCapacityFn != nil {
		return s.UpdateCapacityFn(ctx, id, maxCapacity)
	}
	return &model.PickupSlot{ID: id, MaxCapacity: maxCapacity}, nil
}

// DeleteSlot delegates to override or succeeds.
func (s SlotFacadeStub) DeleteSlot(ctx context.Context, id string) error {
	if s.DeleteSlotFn != nil {
		return s.DeleteSlotFn(ctx, id)
	}
	return nil
}

// StaffFacadeStub simulates canteen-side order management.
type StaffFacadeStub struct {
	OrdersByDateFn func(context.Context, string) ([]model.Order, error)
	UpdateStatusFn func(context.Context, string, model.OrderStatus) (*model.Order, error)
	StaffCancelFn  func(context.Context, string, string) (*model.Order, error)
	LookupFn       func(context.Context, string) (*model.Order, error)
	RedeemFn       func(context.Context, string) (*model.Order, error)
}

// OrdersByPickupDate returns configured day queue.
func (s StaffFacadeStub) OrdersByPickupDate(ctx context.Context, date string) ([]model.Order, error) {
	if s.OrdersByDateFn != nil {
		return s.OrdersByDateFn(ctx, date)
	}
	return []model.Order{{ID: "order-1", PickupDate: date, Status: model.OrderStatusPending}}, nil
}

// UpdateOrderStatus delegates to override or echoes the transition.
func (s StaffFacadeStub) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, status)
	}
	return &model.Order{ID: orderID, Status: status}, nil
}

// CancelOrderByStaff delegates to override or returns a cancelled order.
func (s StaffFacadeStub) CancelOrderByStaff(ctx context.Context, orderID, reason string) (*model.Order, error) {
	if s.StaffCancelFn != nil {
		return s.StaffCancelFn(ctx, orderID, reason)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusCancelled}, nil
}

// LookupPickup returns a ready order for the identifier.
func (s StaffFacadeStub) LookupPickup(ctx context.Context, identifier string) (*model.Order, error) {
	if s.LookupFn != nil {
		return s.LookupFn(ctx, identifier)
	}
	return &model.Order{ID: "order-1", Status: model.OrderStatusReady}, nil
}

// RedeemPickup returns a completed order for the identifier.
func (s StaffFacadeStub) RedeemPickup(ctx context.Context, identifier string) (*model.Order, error) {
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, identifier)
	}
	return &model.Order{ID: "order-1", Status: model.OrderStatusCompleted, TokenUsed: true}, nil
}

// NotificationDelivery stores information about delivery invocations.
type NotificationDelivery struct {
	Note model.Notification
}

// WorkerFacadeStub mimics dispatcher interactions with the application facade.
type WorkerFacadeStub struct {
	Batches   [][]model.Notification
	PendingFn func(context.Context, int) ([]model.Notification, error)
	DeliverFn func(context.Context, model.Notification) error
	MarkFn    func(context.Context, string) error

	Deliveries []NotificationDelivery
	Marked     []string

	mu               sync.Mutex
	pendingCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// PendingNotifications returns batches from configured queue.
func (s *WorkerFacadeStub) PendingNotifications(ctx context.Context, limit int) ([]model.Notification, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.pendingCallCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// DeliverStatusChange records delivery requests.
func (s *WorkerFacadeStub) DeliverStatusChange(ctx context.Context, note model.Notification) error {
	if s.DeliverFn != nil {
		return s.DeliverFn(ctx, note)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deliveries = append(s.Deliveries, NotificationDelivery{Note: note})
	return nil
}

// MarkNotificationDelivered records completed deliveries.
func (s *WorkerFacadeStub) MarkNotificationDelivered(ctx context.Context, id string) error {
	if s.MarkFn != nil {
		return s.MarkFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Marked = append(s.Marked, id)
	return nil
}

// SenderStub captures outgoing status change messages.
type SenderStub struct {
	SendFn func(context.Context, mailer.StatusChangeMessage) error

	mu   sync.Mutex
	Sent []mailer.StatusChangeMessage
}

// SendStatusChange records the message or delegates to the override.
func (s *SenderStub) SendStatusChange(ctx context.Context, msg mailer.StatusChangeMessage) error {
	if s.SendFn != nil {
		return s.SendFn(ctx, msg)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, msg)
	return nil
}

// Messages returns a copy of recorded messages.
func (s *SenderStub) Messages() []mailer.StatusChangeMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]mailer.StatusChangeMessage, len(s.Sent))
	copy(out, s.Sent)
	return out
}

// CanteenFacadeStub aggregates facade dependencies for HTTP layer tests.
type CanteenFacadeStub struct {
	AuthFacadeStub
	MenuFacadeStub
	OrderFacadeStub
	SlotFacadeStub
	StaffFacadeStub
}
