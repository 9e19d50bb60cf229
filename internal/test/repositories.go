package test

import (
	"context"
	"fmt"
	"sync"

	domainErrors "github.com/campuseats/canteen/internal/domain/errors"
	"github.com/campuseats/canteen/internal/domain/model"
	"github.com/campuseats/canteen/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[string]*model.User
	Next  int
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[string]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) error {
	if s.Err != nil {
		return s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[string]*model.User)
	}
	if _, exists := s.Users[user.Email]; exists {
		return domainErrors.ErrAlreadyExists
	}
	if user.ID == "" {
		if s.Next == 0 {
			s.Next = 1
		}
		user.ID = fmt.Sprintf("user-%d", s.Next)
		s.Next++
	}
	s.Users[user.Email] = user
	s.ByID[user.ID] = user
	return nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// StatusUpdateCall stores information about UpdateStatus invocations.
type StatusUpdateCall struct {
	OrderID string
	From    model.OrderStatus
	To      model.OrderStatus
	Note    *model.Notification
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn            func(context.Context, *model.Order, []model.OrderItem) error
	GetByIDFn           func(context.Context, string) (*model.Order, error)
	ItemsByOrderFn      func(context.Context, string) ([]model.OrderItem, error)
	ListByUserFn        func(context.Context, string) ([]model.Order, error)
	ListByPickupDateFn  func(context.Context, string) ([]model.Order, error)
	FindByTokenFn       func(context.Context, string) (*model.Order, error)
	UpdateStatusFn      func(context.Context, string, model.OrderStatus, model.OrderStatus, *model.Notification) error
	CancelFn            func(context.Context, repository.CancelOrderParams, *model.Notification) error
	CompleteWithTokenFn func(context.Context, string, *model.Notification) error

	Orders      []model.Order
	Items       map[string][]model.OrderItem
	Created     []*model.Order
	UpdateCalls []StatusUpdateCall
	CancelCalls []repository.CancelOrderParams
	Completed   []string
}

// Create tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order, items []model.OrderItem) error {
	s.Created = append(s.Created, order)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order, items)
	}
	s.Orders = append(s.Orders, *order)
	if s.Items == nil {
		s.Items = make(map[string][]model.OrderItem)
	}
	s.Items[order.ID] = items
	return nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ItemsByOrder returns configured order lines.
func (s *OrderRepositoryStub) ItemsByOrder(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	if s.ItemsByOrderFn != nil {
		return s.ItemsByOrderFn(ctx, orderID)
	}
	return s.Items[orderID], nil
}

// ListByUser returns orders from configured slice.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	var out []model.Order
	for _, o := range s.Orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// ListByPickupDate returns orders scheduled for the given day.
func (s *OrderRepositoryStub) ListByPickupDate(ctx context.Context, date string) ([]model.Order, error) {
	if s.ListByPickupDateFn != nil {
		return s.ListByPickupDateFn(ctx, date)
	}
	var out []model.Order
	for _, o := range s.Orders {
		if o.PickupDate == date {
			out = append(out, o)
		}
	}
	return out, nil
}

// FindByToken matches orders by payment token or QR payload.
func (s *OrderRepositoryStub) FindByToken(ctx context.Context, identifier string) (*model.Order, error) {
	if s.FindByTokenFn != nil {
		return s.FindByTokenFn(ctx, identifier)
	}
	for _, o := range s.Orders {
		if o.PaymentToken != nil && *o.PaymentToken == identifier {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateStatus records update requests and mutates stored orders.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID string, from, to model.OrderStatus, note *model.Notification) error {
	s.UpdateCalls = append(s.UpdateCalls, StatusUpdateCall{OrderID: orderID, From: from, To: to, Note: note})
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, from, to, note)
	}
	for i := range s.Orders {
		if s.Orders[i].ID == orderID {
			if s.Orders[i].Status != from {
				return domainErrors.ErrInvalidTransition
			}
			s.Orders[i].Status = to
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// Cancel records cancellation requests and mutates stored orders.
func (s *OrderRepositoryStub) Cancel(ctx context.Context, p repository.CancelOrderParams, note *model.Notification) error {
	s.CancelCalls = append(s.CancelCalls, p)
	if s.CancelFn != nil {
		return s.CancelFn(ctx, p, note)
	}
	for i := range s.Orders {
		if s.Orders[i].ID == p.OrderID {
			if s.Orders[i].Status.Terminal() {
				return domainErrors.ErrAlreadyTerminal
			}
			refund := p.RefundAmount
			status := model.RefundStatusPending
			cancelledAt := p.CancelledAt
			s.Orders[i].Status = model.OrderStatusCancelled
			s.Orders[i].RefundAmount = &refund
			s.Orders[i].RefundStatus = &status
			s.Orders[i].CancellationReason = p.Reason
			s.Orders[i].CancelledAt = &cancelledAt
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// CompleteWithToken records redemption requests and mutates stored orders.
func (s *OrderRepositoryStub) CompleteWithToken(ctx context.Context, orderID string, note *model.Notification) error {
	s.Completed = append(s.Completed, orderID)
	if s.CompleteWithTokenFn != nil {
		return s.CompleteWithTokenFn(ctx, orderID, note)
	}
	for i := range s.Orders {
		if s.Orders[i].ID == orderID {
			if s.Orders[i].TokenUsed {
				return domainErrors.ErrTokenAlreadyUsed
			}
			if s.Orders[i].Status != model.OrderStatusReady {
				return domainErrors.ErrInvalidTransition
			}
			s.Orders[i].Status = model.OrderStatusCompleted
			s.Orders[i].TokenUsed = true
			s.Orders[i].PaymentCompleted = true
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// SlotRepositoryStub keeps slots in-memory guarded by a mutex so concurrent
// reservation tests exercise the capacity invariant.
type SlotRepositoryStub struct {
	ReserveFn func(context.Context, string, string, int, bool) (*model.PickupSlot, error)
	ReleaseFn func(context.Context, string, string) error

	mu       sync.Mutex
	Slots    map[string]*model.PickupSlot
	Next     int
	Releases []string
}

// NewSlotRepositoryStub constructs stub with initialized map.
func NewSlotRepositoryStub() *SlotRepositoryStub {
	return &SlotRepositoryStub{Slots: make(map[string]*model.PickupSlot), Next: 1}
}

func slotKey(date, timeSlot string) string {
	return date + "/" + timeSlot
}

// Seed stores a slot for subsequent operations.
func (s *SlotRepositoryStub) Seed(slot model.PickupSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Slots == nil {
		s.Slots = make(map[string]*model.PickupSlot)
	}
	stored := slot
	s.Slots[slotKey(slot.Date, slot.TimeSlot)] = &stored
}

// Get fetches a slot by date and time label.
func (s *SlotRepositoryStub) Get(ctx context.Context, date, timeSlot string) (*model.PickupSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot, ok := s.Slots[slotKey(date, timeSlot)]; ok {
		copied := *slot
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches a slot by identifier.
func (s *SlotRepositoryStub) GetByID(ctx context.Context, id string) (*model.PickupSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range s.Slots {
		if slot.ID == id {
			copied := *slot
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// List returns all stored slots within the date range.
func (s *SlotRepositoryStub) List(ctx context.Context, startDate, endDate string) ([]model.PickupSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.PickupSlot
	for _, slot := range s.Slots {
		if slot.Date >= startDate && slot.Date <= endDate {
			out = append(out, *slot)
		}
	}
	return out, nil
}

// Reserve performs the conditional increment under the stub mutex.
func (s *SlotRepositoryStub) Reserve(ctx context.Context, date, timeSlot string, defaultCapacity int, lazyCreate bool) (*model.PickupSlot, error) {
	if s.ReserveFn != nil {
		return s.ReserveFn(ctx, date, timeSlot, defaultCapacity, lazyCreate)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := slotKey(date, timeSlot)
	slot, ok := s.Slots[key]
	if !ok {
		if !lazyCreate {
			return nil, domainErrors.ErrNotFound
		}
		slot = &model.PickupSlot{
			ID:          fmt.Sprintf("slot-%d", s.Next),
			Date:        date,
			TimeSlot:    timeSlot,
			MaxCapacity: defaultCapacity,
		}
		s.Next++
		s.Slots[key] = slot
	}
	if slot.CurrentBookings >= slot.MaxCapacity {
		return nil, domainErrors.ErrSlotFull
	}
	slot.CurrentBookings++
	copied := *slot
	return &copied, nil
}

// Release decrements bookings floored at zero.
func (s *SlotRepositoryStub) Release(ctx context.Context, date, timeSlot string) error {
	if s.ReleaseFn != nil {
		return s.ReleaseFn(ctx, date, timeSlot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Releases = append(s.Releases, slotKey(date, timeSlot))
	if slot, ok := s.Slots[slotKey(date, timeSlot)]; ok && slot.CurrentBookings > 0 {
		slot.CurrentBookings--
	}
	return nil
}

// Create registers a new slot.
func (s *SlotRepositoryStub) Create(ctx context.Context, date, timeSlot string, maxCapacity int) (*model.PickupSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := slotKey(date, timeSlot)
	if _, exists := s.Slots[key]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	slot := &model.PickupSlot{
		ID:          fmt.Sprintf("slot-%d", s.Next),
		Date:        date,
		TimeSlot:    timeSlot,
		MaxCapacity: maxCapacity,
	}
	s.Next++
	s.Slots[key] = slot
	copied := *slot
	return &copied, nil
}

// UpdateCapacity changes a slot's maximum capacity.
func (s *SlotRepositoryStub) UpdateCapacity(ctx context.Context, id string, maxCapacity int) (*model.PickupSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range s.Slots {
		if slot.ID == id {
			slot.MaxCapacity = maxCapacity
			copied := *slot
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Delete removes a slot by identifier.
func (s *SlotRepositoryStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, slot := range s.Slots {
		if slot.ID == id {
			delete(s.Slots, key)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// MenuRepositoryStub serves menu items from a fixed slice.
type MenuRepositoryStub struct {
	ItemsList []model.MenuItem
	CreateFn  func(context.Context, *model.MenuItem) error
	Err       error
}

// Create stores the item or delegates to override.
func (s *MenuRepositoryStub) Create(ctx context.Context, item *model.MenuItem) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, item)
	}
	if s.Err != nil {
		return s.Err
	}
	s.ItemsList = append(s.ItemsList, *item)
	return nil
}

// GetByIDs returns stored items matching the requested identifiers.
func (s *MenuRepositoryStub) GetByIDs(ctx context.Context, ids []string) ([]model.MenuItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.MenuItem
	for _, id := range ids {
		for _, it := range s.ItemsList {
			if it.ID == id {
				out = append(out, it)
				break
			}
		}
	}
	return out, nil
}

// ListAvailable returns items flagged as available.
func (s *MenuRepositoryStub) ListAvailable(ctx context.Context) ([]model.MenuItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.MenuItem
	for _, it := range s.ItemsList {
		if it.IsAvailable {
			out = append(out, it)
		}
	}
	return out, nil
}

// NotificationRepositoryStub keeps outbox rows in-memory.
type NotificationRepositoryStub struct {
	Notes     []model.Notification
	Delivered []string
	Err       error
}

// ListByUser returns notifications addressed to the given user.
func (s *NotificationRepositoryStub) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Notification
	for _, n := range s.Notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

// SelectUndelivered returns up to limit undelivered rows.
func (s *NotificationRepositoryStub) SelectUndelivered(ctx context.Context, limit int) ([]model.Notification, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Notification
	for _, n := range s.Notes {
		if !n.Delivered {
			out = append(out, n)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// MarkDelivered flags a row delivered.
func (s *NotificationRepositoryStub) MarkDelivered(ctx context.Context, id string) error {
	if s.Err != nil {
		return s.Err
	}
	s.Delivered = append(s.Delivered, id)
	for i := range s.Notes {
		if s.Notes[i].ID == id {
			s.Notes[i].Delivered = true
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

var (
	_ repository.UserRepository         = (*UserRepositoryStub)(nil)
	_ repository.OrderRepository        = (*OrderRepositoryStub)(nil)
	_ repository.SlotRepository         = (*SlotRepositoryStub)(nil)
	_ repository.MenuRepository         = (*MenuRepositoryStub)(nil)
	_ repository.NotificationRepository = (*NotificationRepositoryStub)(nil)
)
