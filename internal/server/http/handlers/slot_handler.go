package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/campuseats/canteen/internal/domain/errors"
	"github.com/campuseats/canteen/internal/server/http/dto"
)

// SlotHandler serves pickup slot availability to students.
type SlotHandler struct {
	facade SlotFacade
}

// NewSlotHandler constructs SlotHandler.
func NewSlotHandler(facade SlotFacade) *SlotHandler {
	return &SlotHandler{facade: facade}
}

// Availability handles GET /api/slots/availability.
func (h *SlotHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	timeSlot := c.Query("time")
	if date == "" || timeSlot == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	avail, err := h.facade.SlotAvailability(c.Request.Context(), date, timeSlot)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, dto.AvailabilityResponse{
		AvailableSlots: avail.AvailableSlots,
		MaxCapacity:    avail.MaxCapacity,
		IsAvailable:    avail.IsAvailable,
	})
}

// List handles GET /api/slots.
func (h *SlotHandler) List(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" || endDate == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	slots, err := h.facade.Slots(c.Request.Context(), startDate, endDate)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.SlotResponse, 0, len(slots))
	for _, s := range slots {
		response = append(response, toSlotResponse(s))
	}

	c.JSON(http.StatusOK, response)
}
