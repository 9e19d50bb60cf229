package repository

import (
	"context"

	"github.com/campuseats/canteen/internal/domain/model"
)

// MenuRepository describes persistence operations with menu items.
type MenuRepository interface {
	Create(ctx context.Context, item *model.MenuItem) error
	GetByIDs(ctx context.Context, ids []string) ([]model.MenuItem, error)
	ListAvailable(ctx context.Context) ([]model.MenuItem, error)
}
