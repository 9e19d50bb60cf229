package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/campuseats/canteen/internal/domain/errors"
	"github.com/campuseats/canteen/internal/domain/model"
	"github.com/campuseats/canteen/internal/server/http/dto"
	"github.com/campuseats/canteen/internal/usecase"
)

// OrderHandler manages student-facing order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Checkout handles POST /api/user/orders.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), usecase.PlaceOrderParams{
		UserID:              CurrentUserID(c),
		Items:               toCartItems(req.Items),
		PickupDate:          req.PickupDate,
		PickupTime:          req.PickupTime,
		PaymentMethod:       model.PaymentMethod(req.PaymentMethod),
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		var cashErr *domainErrors.CashOnPickupError
		switch {
		case errors.Is(err, domainErrors.ErrEmptyCart),
			errors.Is(err, domainErrors.ErrInvalidQuantity),
			errors.Is(err, domainErrors.ErrInvalidPaymentMethod),
			errors.Is(err, domainErrors.ErrInvalidPickupTime):
			c.Status(http.StatusBadRequest)
		case errors.As(err, &cashErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": cashErr.Error()})
		case errors.Is(err, domainErrors.ErrMenuItemUnavailable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, domainErrors.ErrSlotUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// List handles GET /api/user/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/user/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID := c.Param("id")

	order, err := h.facade.Order(c.Request.Context(), orderID, CurrentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	items, err := h.facade.OrderItems(c.Request.Context(), order.ID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	resp := toOrderResponse(*order)
	resp.Items = toOrderItemResponses(items)
	c.JSON(http.StatusOK, resp)
}

// Cancel handles POST /api/user/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID := c.Param("id")

	var req dto.CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
	}

	order, err := h.facade.CancelOrder(c.Request.Context(), orderID, CurrentUserID(c), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrAlreadyTerminal),
			errors.Is(err, domainErrors.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, domainErrors.ErrPastCancellationWindow):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// RefundPreview handles GET /api/user/orders/:id/refund.
func (h *OrderHandler) RefundPreview(c *gin.Context) {
	orderID := c.Param("id")

	preview, err := h.facade.RefundPreview(c.Request.Context(), orderID, CurrentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrAlreadyTerminal):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, dto.RefundPreviewResponse{
		Percentage: preview.Percentage,
		Amount:     preview.Amount,
	})
}

// CashEligibility handles POST /api/user/cart/cash-eligibility.
func (h *OrderHandler) CashEligibility(c *gin.Context) {
	var req dto.CashEligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	eligible, reason, err := h.facade.ValidateCashOnPickup(c.Request.Context(), toCartItems(req.Items))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrEmptyCart),
			errors.Is(err, domainErrors.ErrInvalidQuantity):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrMenuItemUnavailable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, dto.CashEligibilityResponse{Eligible: eligible, Reason: reason})
}

// Notifications handles GET /api/user/notifications.
func (h *OrderHandler) Notifications(c *gin.Context) {
	notes, err := h.facade.Notifications(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(notes) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.NotificationResponse, 0, len(notes))
	for _, n := range notes {
		response = append(response, dto.NotificationResponse{
			ID:        n.ID,
			OrderID:   n.OrderID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}
