package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/campuseats/canteen/internal/domain/errors"
	"github.com/campuseats/canteen/internal/domain/model"
	"github.com/campuseats/canteen/internal/domain/repository"
	"github.com/campuseats/canteen/internal/pkg/pickuptoken"
)

const (
	// Cash on pickup is restricted to low-risk carts: snacks only, two items max.
	cashOnPickupCategory    = "snacks"
	cashOnPickupMaxQuantity = 2
)

// PlaceOrderParams carries a checkout request.
type PlaceOrderParams struct {
	UserID              string
	Items               []model.CartItem
	PickupDate          string
	PickupTime          string
	PaymentMethod       model.PaymentMethod
	SpecialInstructions string
}

// CheckoutUseCase composes cart validation, slot reservation, order creation
// and token issuance into one compensated sequence.
type CheckoutUseCase struct {
	orders repository.OrderRepository
	menu   repository.MenuRepository
	slots  *SlotUseCase
	logger *slog.Logger
	now    func() time.Time
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(orders repository.OrderRepository, menu repository.MenuRepository, slots *SlotUseCase, logger *slog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{orders: orders, menu: menu, slots: slots, logger: logger, now: time.Now}
}

// orderLine pairs a cart line with its authoritative menu item.
type orderLine struct {
	item     model.MenuItem
	quantity int
	custom   map[string]string
}

func (u *CheckoutUseCase) resolveLines(ctx context.Context, items []model.CartItem) ([]orderLine, error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, domainErrors.ErrInvalidQuantity
		}
		ids = append(ids, it.MenuItemID)
	}

	menuItems, err := u.menu.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.MenuItem, len(menuItems))
	for _, m := range menuItems {
		byID[m.ID] = m
	}

	lines := make([]orderLine, 0, len(items))
	for _, it := range items {
		m, ok := byID[it.MenuItemID]
		if !ok || !m.IsAvailable {
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrMenuItemUnavailable, it.MenuItemID)
		}
		lines = append(lines, orderLine{item: m, quantity: it.Quantity, custom: it.Customizations})
	}
	return lines, nil
}

// validateCashOnPickup enforces the low-risk cart rule for cash payment.
func validateCashOnPickup(lines []orderLine) error {
	totalQuantity := 0
	for _, l := range lines {
		if l.item.Category != cashOnPickupCategory {
			return &domainErrors.CashOnPickupError{
				Reason: fmt.Sprintf("%q is not a snack item; cash on pickup is limited to snacks", l.item.Name),
			}
		}
		totalQuantity += l.quantity
	}
	if totalQuantity > cashOnPickupMaxQuantity {
		return &domainErrors.CashOnPickupError{
			Reason: fmt.Sprintf("cart has %d items; cash on pickup allows at most %d", totalQuantity, cashOnPickupMaxQuantity),
		}
	}
	return nil
}

// ValidateCashOnPickup lets the checkout page grey out the cash option before
// the order is submitted. Returns the human-readable reason when ineligible.
func (u *CheckoutUseCase) ValidateCashOnPickup(ctx context.Context, items []model.CartItem) (bool, string, error) {
	if len(items) == 0 {
		return false, domainErrors.ErrEmptyCart.Error(), nil
	}
	lines, err := u.resolveLines(ctx, items)
	if err != nil {
		return false, "", err
	}
	if err := validateCashOnPickup(lines); err != nil {
		var eligErr *domainErrors.CashOnPickupError
		if errors.As(err, &eligErr) {
			return false, eligErr.Reason, nil
		}
		return false, "", err
	}
	return true, "", nil
}

// PlaceOrder validates the cart, reserves the pickup slot, and creates the
// order with snapshot items and a pickup token. The total is always re-derived
// server-side from the authoritative menu prices. If order creation fails
// after the slot was reserved, the reservation is released.
func (u *CheckoutUseCase) PlaceOrder(ctx context.Context, p PlaceOrderParams) (*model.Order, error) {
	if len(p.Items) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}
	if !p.PaymentMethod.Valid() {
		return nil, domainErrors.ErrInvalidPaymentMethod
	}
	if _, err := PickupAt(p.PickupDate, p.PickupTime, time.Local); err != nil {
		return nil, err
	}

	lines, err := u.resolveLines(ctx, p.Items)
	if err != nil {
		return nil, err
	}

	if p.PaymentMethod == model.PaymentMethodCashOnPickup {
		if err := validateCashOnPickup(lines); err != nil {
			return nil, err
		}
	}

	slot, err := u.slots.Reserve(ctx, p.PickupDate, p.PickupTime)
	if err != nil {
		if errors.Is(err, domainErrors.ErrSlotFull) || errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrSlotUnavailable
		}
		return nil, err
	}

	order, items, err := u.buildOrder(p, lines)
	if err == nil {
		err = u.orders.Create(ctx, order, items)
	}
	if err != nil {
		// Compensate: the slot must not stay reserved for an order that was
		// never created.
		if releaseErr := u.slots.Release(ctx, slot.Date, slot.TimeSlot); releaseErr != nil {
			u.logger.Error("release slot after failed checkout",
				slog.String("date", slot.Date),
				slog.String("slot", slot.TimeSlot),
				slog.String("error", releaseErr.Error()))
		}
		return nil, err
	}

	return order, nil
}

func (u *CheckoutUseCase) buildOrder(p PlaceOrderParams, lines []orderLine) (*model.Order, []model.OrderItem, error) {
	now := u.now()
	orderID := uuid.NewString()

	token, err := pickuptoken.New(now)
	if err != nil {
		return nil, nil, err
	}
	qr, err := pickuptoken.QRPayload(orderID, token, now)
	if err != nil {
		return nil, nil, err
	}

	var total float64
	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		total += l.item.Price * float64(l.quantity)
		items = append(items, model.OrderItem{
			ID:             uuid.NewString(),
			OrderID:        orderID,
			MenuItemID:     l.item.ID,
			Quantity:       l.quantity,
			Price:          l.item.Price,
			Customizations: l.custom,
		})
	}

	order := &model.Order{
		ID:            orderID,
		UserID:        p.UserID,
		TotalAmount:   round2(total),
		Status:        model.OrderStatusPending,
		PickupDate:    p.PickupDate,
		PickupTime:    p.PickupTime,
		PickupSlot:    p.PickupTime,
		PaymentMethod: p.PaymentMethod,
		PaymentToken:  &token,
		// Card and wallet payments are captured at checkout; cash settles at
		// the counter.
		PaymentCompleted: p.PaymentMethod != model.PaymentMethodCashOnPickup,
		QRCode:           &qr,
	}
	if p.SpecialInstructions != "" {
		instructions := p.SpecialInstructions
		order.SpecialInstructions = &instructions
	}
	return order, items, nil
}
