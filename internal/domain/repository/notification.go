package repository

import (
	"context"

	"github.com/campuseats/canteen/internal/domain/model"
)

// NotificationRepository provides access to the notification outbox.
//
// SelectUndelivered claims a batch for delivery (FOR UPDATE SKIP LOCKED and an
// attempt counter bump) so concurrent dispatchers never pick the same row.
type NotificationRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.Notification, error)
	SelectUndelivered(ctx context.Context, limit int) ([]model.Notification, error)
	MarkDelivered(ctx context.Context, id string) error
}
