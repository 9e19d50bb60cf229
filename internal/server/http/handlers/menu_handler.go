package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuseats/canteen/internal/server/http/dto"
)

// MenuHandler serves the menu catalogue.
type MenuHandler struct {
	facade MenuFacade
}

// NewMenuHandler constructs MenuHandler.
func NewMenuHandler(facade MenuFacade) *MenuHandler {
	return &MenuHandler{facade: facade}
}

// List handles GET /api/menu.
func (h *MenuHandler) List(c *gin.Context) {
	items, err := h.facade.Menu(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.MenuItemResponse, 0, len(items))
	for _, it := range items {
		response = append(response, dto.MenuItemResponse{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			Category:    it.Category,
			IsAvailable: it.IsAvailable,
		})
	}

	c.JSON(http.StatusOK, response)
}
