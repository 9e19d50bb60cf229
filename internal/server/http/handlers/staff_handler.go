package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/campuseats/canteen/internal/domain/errors"
	"github.com/campuseats/canteen/internal/domain/model"
	"github.com/campuseats/canteen/internal/server/http/dto"
)

// StaffHandler manages canteen-side endpoints: order queue, status changes,
// pickup redemption, slot and menu administration.
type StaffHandler struct {
	facade CanteenFacade
}

// NewStaffHandler constructs StaffHandler.
func NewStaffHandler(facade CanteenFacade) *StaffHandler {
	return &StaffHandler{facade: facade}
}

// Orders handles GET /api/staff/orders.
func (h *StaffHandler) Orders(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	orders, err := h.facade.OrdersByPickupDate(c.Request.Context(), date)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}

	c.JSON(http.StatusOK, response)
}

// UpdateStatus handles PATCH /api/staff/orders/:id/status.
func (h *StaffHandler) UpdateStatus(c *gin.Context) {
	orderID := c.Param("id")

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	target := model.OrderStatus(req.Status)
	if !target.Valid() {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), orderID, target)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrAlreadyTerminal),
			errors.Is(err, domainErrors.ErrInvalidTransition),
			errors.Is(err, domainErrors.ErrTokenNotRedeemed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Cancel handles POST /api/staff/orders/:id/cancel.
func (h *StaffHandler) Cancel(c *gin.Context) {
	orderID := c.Param("id")

	var req dto.CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
	}

	order, err := h.facade.CancelOrderByStaff(c.Request.Context(), orderID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrAlreadyTerminal),
			errors.Is(err, domainErrors.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// LookupPickup handles GET /api/staff/pickup.
func (h *StaffHandler) LookupPickup(c *gin.Context) {
	identifier := c.Query("token")
	if identifier == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.LookupPickup(c.Request.Context(), identifier)
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
	c.JSON(http.StatusOK, dto.PickupLookupResponse{Order: resp})
}

// RedeemPickup handles POST /api/staff/pickup/redeem.
func (h *StaffHandler) RedeemPickup(c *gin.Context) {
	var req dto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Identifier == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.RedeemPickup(c.Request.Context(), req.Identifier)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrTokenAlreadyUsed),
			errors.Is(err, domainErrors.ErrOrderNotRedeemable),
			errors.Is(err, domainErrors.ErrAlreadyTerminal),
			errors.Is(err, domainErrors.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// CreateSlot handles POST /api/staff/slots.
func (h *StaffHandler) CreateSlot(c *gin.Context) {
	var req dto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Date == "" || req.TimeSlot == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	slot, err := h.facade.CreateSlot(c.Request.Context(), req.Date, req.TimeSlot, req.MaxCapacity)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toSlotResponse(*slot))
}

// UpdateSlotCapacity handles PATCH /api/staff/slots/:id.
func (h *StaffHandler) UpdateSlotCapacity(c *gin.Context) {
	slotID := c.Param("id")

	var req dto.UpdateCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	slot, err := h.facade.UpdateSlotCapacity(c.Request.Context(), slotID, req.MaxCapacity)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCapacity):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toSlotResponse(*slot))
}

// DeleteSlot handles DELETE /api/staff/slots/:id.
func (h *StaffHandler) DeleteSlot(c *gin.Context) {
	slotID := c.Param("id")

	if err := h.facade.DeleteSlot(c.Request.Context(), slotID); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrSlotNotEmpty):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateMenuItem handles POST /api/staff/menu.
func (h *StaffHandler) CreateMenuItem(c *gin.Context) {
	var req dto.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	item := model.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	created, err := h.facade.CreateMenuItem(c.Request.Context(), item)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidMenuItem):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.MenuItemResponse{
		ID:          created.ID,
		Name:        created.Name,
		Description: created.Description,
		Price:       created.Price,
		Category:    created.Category,
		IsAvailable: created.IsAvailable,
	})
}
