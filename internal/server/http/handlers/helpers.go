package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campuseats/canteen/internal/domain/model"
	"github.com/campuseats/canteen/internal/server/http/dto"
	"github.com/campuseats/canteen/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) string {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return ""
	}
	id, _ := val.(string)
	return id
}

// CurrentUserRole extracts authenticated user role from context.
func CurrentUserRole(c *gin.Context) model.UserRole {
	val, ok := c.Get(middleware.UserRoleContextKey)
	if !ok {
		return ""
	}
	role, _ := val.(model.UserRole)
	return role
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:                  order.ID,
		Status:              string(order.Status),
		StatusLabel:         order.Status.Label(),
		StatusDescription:   order.Status.Description(),
		TotalAmount:         order.TotalAmount,
		PickupDate:          order.PickupDate,
		PickupTime:          order.PickupTime,
		PaymentMethod:       string(order.PaymentMethod),
		PaymentCompleted:    order.PaymentCompleted,
		PaymentToken:        order.PaymentToken,
		QRCode:              order.QRCode,
		TokenUsed:           order.TokenUsed,
		SpecialInstructions: order.SpecialInstructions,
		CancellationReason:  order.CancellationReason,
		RefundAmount:        order.RefundAmount,
		CancelledAt:         order.CancelledAt,
		CreatedAt:           order.CreatedAt,
	}
	if order.RefundStatus != nil {
		status := string(*order.RefundStatus)
		resp.RefundStatus = &status
	}
	return resp
}

func toOrderItemResponses(items []model.OrderItem) []dto.OrderItemResponse {
	out := make([]dto.OrderItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.OrderItemResponse{
			MenuItemID:     it.MenuItemID,
			Quantity:       it.Quantity,
			Price:          it.Price,
			Customizations: it.Customizations,
		})
	}
	return out
}

func toCartItems(items []dto.CartItemRequest) []model.CartItem {
	out := make([]model.CartItem, 0, len(items))
	for _, it := range items {
		out = append(out, model.CartItem{
			MenuItemID:     it.MenuItemID,
			Quantity:       it.Quantity,
			Customizations: it.Customizations,
		})
	}
	return out
}

func toSlotResponse(slot model.PickupSlot) dto.SlotResponse {
	return dto.SlotResponse{
		ID:              slot.ID,
		Date:            slot.Date,
		TimeSlot:        slot.TimeSlot,
		MaxCapacity:     slot.MaxCapacity,
		CurrentBookings: slot.CurrentBookings,
		Available:       slot.Available(),
	}
}
