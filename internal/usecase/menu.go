package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/campuseats/canteen/internal/domain/errors"
	"github.com/campuseats/canteen/internal/domain/model"
	"github.com/campuseats/canteen/internal/domain/repository"
)

// MenuUseCase manages the canteen menu catalogue.
type MenuUseCase struct {
	menu repository.MenuRepository
}

// NewMenuUseCase constructs MenuUseCase.
func NewMenuUseCase(menu repository.MenuRepository) *MenuUseCase {
	return &MenuUseCase{menu: menu}
}

// ListAvailable returns items currently offered for ordering.
func (u *MenuUseCase) ListAvailable(ctx context.Context) ([]model.MenuItem, error) {
	return u.menu.ListAvailable(ctx)
}

// Create adds a new menu item.
func (u *MenuUseCase) Create(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" || item.Price <= 0 || item.Category == "" {
		return nil, domainErrors.ErrInvalidMenuItem
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := u.menu.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
