package usecase

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/campuseats/canteen/internal/domain/errors"
	"github.com/campuseats/canteen/internal/domain/model"
	"github.com/campuseats/canteen/internal/domain/repository"
)

// RefundPreview is shown to the user before a cancellation is confirmed.
type RefundPreview struct {
	Percentage int
	Amount     float64
}

// LifecycleUseCase governs order status transitions, cancellation policy and
// the outbox notifications every transition emits.
type LifecycleUseCase struct {
	orders       repository.OrderRepository
	cancelWindow time.Duration
	now          func() time.Time
}

// NewLifecycleUseCase constructs LifecycleUseCase.
func NewLifecycleUseCase(orders repository.OrderRepository, cancelWindow time.Duration) *LifecycleUseCase {
	return &LifecycleUseCase{orders: orders, cancelWindow: cancelWindow, now: time.Now}
}

func statusNotification(order *model.Order, to model.OrderStatus) *model.Notification {
	return &model.Notification{
		UserID:    order.UserID,
		OrderID:   order.ID,
		Title:     "Order " + to.Label(),
		Message:   to.Description(),
		Type:      model.NotificationTypeOrderUpdate,
		OldStatus: order.Status,
		NewStatus: to,
	}
}

// RequestTransition moves an order to target following the transition graph.
// Requesting the current status again is a no-op success and emits nothing.
// Transitions to completed must go through RedeemAndComplete; without a
// redeemed token they fail. Transitions to cancelled go through Cancel so the
// refund fields are always written together with the status.
func (u *LifecycleUseCase) RequestTransition(ctx context.Context, orderID string, target model.OrderStatus) (*model.Order, error) {
	if !target.Valid() {
		return nil, domainErrors.ErrInvalidTransition
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == target {
		return order, nil
	}

	if order.Status.Terminal() {
		return nil, domainErrors.ErrAlreadyTerminal
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s to %s", domainErrors.ErrInvalidTransition, order.Status, target)
	}

	switch target {
	case model.OrderStatusCancelled:
		return u.cancel(ctx, order, nil)
	case model.OrderStatusCompleted:
		if !order.TokenUsed {
			return nil, domainErrors.ErrTokenNotRedeemed
		}
	}

	if err := u.orders.UpdateStatus(ctx, orderID, order.Status, target, statusNotification(order, target)); err != nil {
		return nil, err
	}
	return u.orders.GetByID(ctx, orderID)
}

// Refund computes the refund preview for cancelling the order right now.
func (u *LifecycleUseCase) Refund(ctx context.Context, orderID, userID string) (*RefundPreview, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if userID != "" && order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	pct, err := RefundPercentage(order.Status)
	if err != nil {
		return nil, err
	}
	return &RefundPreview{Percentage: pct, Amount: RefundAmount(order.TotalAmount, pct)}, nil
}

// CancelByUser cancels the user's own order. The time-window gate applies
// before the state machine is consulted.
func (u *LifecycleUseCase) CancelByUser(ctx context.Context, orderID, userID string, reason string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}

	ok, err := CanCancel(order.PickupDate, order.PickupTime, u.now(), u.cancelWindow)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domainErrors.ErrPastCancellationWindow
	}

	return u.cancelChecked(ctx, order, reason)
}

// CancelByStaff cancels any order on behalf of canteen staff. Staff are not
// bound by the user-facing time window.
func (u *LifecycleUseCase) CancelByStaff(ctx context.Context, orderID string, reason string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return u.cancelChecked(ctx, order, reason)
}

func (u *LifecycleUseCase) cancelChecked(ctx context.Context, order *model.Order, reason string) (*model.Order, error) {
	if order.Status.Terminal() {
		return nil, domainErrors.ErrAlreadyTerminal
	}
	if !order.Status.CanTransitionTo(model.OrderStatusCancelled) {
		return nil, domainErrors.ErrInvalidTransition
	}
	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	return u.cancel(ctx, order, reasonPtr)
}

func (u *LifecycleUseCase) cancel(ctx context.Context, order *model.Order, reason *string) (*model.Order, error) {
	pct, err := RefundPercentage(order.Status)
	if err != nil {
		return nil, err
	}

	params := repository.CancelOrderParams{
		OrderID:      order.ID,
		FromStatus:   order.Status,
		RefundAmount: RefundAmount(order.TotalAmount, pct),
		Reason:       reason,
		CancelledAt:  u.now(),
	}
	if err := u.orders.Cancel(ctx, params, statusNotification(order, model.OrderStatusCancelled)); err != nil {
		return nil, err
	}
	return u.orders.GetByID(ctx, order.ID)
}

// Orders and items for user-facing history.

func (u *LifecycleUseCase) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

func (u *LifecycleUseCase) ListByPickupDate(ctx context.Context, date string) ([]model.Order, error) {
	return u.orders.ListByPickupDate(ctx, date)
}

// GetForUser returns the order only when it belongs to the given user.
func (u *LifecycleUseCase) GetForUser(ctx context.Context, orderID, userID string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

func (u *LifecycleUseCase) Items(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	return u.orders.ItemsByOrder(ctx, orderID)
}
