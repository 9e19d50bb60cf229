package repository

import (
	"context"

	"github.com/campuseats/canteen/internal/domain/model"
)

// UserRepository describes persistence operations for user profiles.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}
