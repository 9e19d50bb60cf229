package repository

import (
	"context"
	"time"

	"github.com/campuseats/canteen/internal/domain/model"
)

// CancelOrderParams carries everything a cancellation writes in one transaction.
type CancelOrderParams struct {
	OrderID      string
	FromStatus   model.OrderStatus
	RefundAmount float64
	Reason       *string
	CancelledAt  time.Time
}

// OrderRepository describes persistence operations with orders.
//
// UpdateStatus, Cancel and CompleteWithToken are guarded conditional updates:
// the status (and token_used) check and the write happen in a single statement
// so concurrent callers cannot both observe the precondition. Each of them also
// inserts the outbox notification row inside the same transaction.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order, items []model.OrderItem) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ItemsByOrder(ctx context.Context, orderID string) ([]model.OrderItem, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	ListByPickupDate(ctx context.Context, date string) ([]model.Order, error)
	FindByToken(ctx context.Context, identifier string) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, from, to model.OrderStatus, note *model.Notification) error
	Cancel(ctx context.Context, p CancelOrderParams, note *model.Notification) error
	CompleteWithToken(ctx context.Context, orderID string, note *model.Notification) error
}
