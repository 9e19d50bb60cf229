package usecase

import (
	"context"
	"strings"
	"time"

	domainErrors "github.com/campuseats/canteen/internal/domain/errors"
	"github.com/campuseats/canteen/internal/domain/model"
	"github.com/campuseats/canteen/internal/domain/repository"
	"github.com/campuseats/canteen/internal/pkg/pickuptoken"
)

// TokenUseCase resolves scanned pickup tokens and redeems them exactly once.
type TokenUseCase struct {
	orders repository.OrderRepository
	now    func() time.Time
}

// NewTokenUseCase constructs TokenUseCase.
func NewTokenUseCase(orders repository.OrderRepository) *TokenUseCase {
	return &TokenUseCase{orders: orders, now: time.Now}
}

// Lookup resolves an order from either the raw pickup token or the full QR
// payload string scanned at the counter.
func (u *TokenUseCase) Lookup(ctx context.Context, identifier string) (*model.Order, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, domainErrors.ErrNotFound
	}

	if orderID, token, ok := pickuptoken.ParseQRPayload(identifier); ok {
		order, err := u.orders.GetByID(ctx, orderID)
		if err == nil && order.PaymentToken != nil &&
			pickuptoken.Normalize(*order.PaymentToken) == pickuptoken.Normalize(token) {
			return order, nil
		}
		// Fall through to direct matching when the embedded id is stale.
		identifier = token
	}

	return u.orders.FindByToken(ctx, pickuptoken.Normalize(identifier))
}

// RedeemAndComplete redeems the order's pickup token and marks the order
// completed atomically. A second concurrent redemption of the same order gets
// ErrTokenAlreadyUsed.
func (u *TokenUseCase) RedeemAndComplete(ctx context.Context, identifier string) (*model.Order, error) {
	order, err := u.Lookup(ctx, identifier)
	if err != nil {
		return nil, err
	}

	note := &model.Notification{
		UserID:    order.UserID,
		OrderID:   order.ID,
		Title:     "Order Completed",
		Message:   "Your order has been picked up successfully. Thank you!",
		Type:      model.NotificationTypeOrderUpdate,
		OldStatus: order.Status,
		NewStatus: model.OrderStatusCompleted,
	}
	if err := u.orders.CompleteWithToken(ctx, order.ID, note); err != nil {
		return nil, err
	}
	return u.orders.GetByID(ctx, order.ID)
}
