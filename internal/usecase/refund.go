package usecase

import (
	"math"

	domainErrors "github.com/campuseats/canteen/internal/domain/errors"
	"github.com/campuseats/canteen/internal/domain/model"
)

// refundPercentages keys refund policy off the status at cancellation time.
// Terminal statuses are deliberately absent: cancellation is illegal there.
var refundPercentages = map[model.OrderStatus]int{
	model.OrderStatusPending:   100,
	model.OrderStatusConfirmed: 100,
	model.OrderStatusPreparing: 50,
	model.OrderStatusReady:     0,
}

// RefundPercentage returns the refund percent for cancelling an order that is
// currently in the given status. Pure and deterministic for auditability.
func RefundPercentage(status model.OrderStatus) (int, error) {
	if status.Terminal() {
		return 0, domainErrors.ErrAlreadyTerminal
	}
	pct, ok := refundPercentages[status]
	if !ok {
		return 0, domainErrors.ErrInvalidTransition
	}
	return pct, nil
}

// RefundAmount computes the refunded amount to cent precision.
func RefundAmount(total float64, percent int) float64 {
	return round2(total * float64(percent) / 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
