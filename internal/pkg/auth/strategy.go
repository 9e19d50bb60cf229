package auth

import (
	"time"

	"github.com/campuseats/canteen/internal/domain/model"
)

type Strategy interface {
	IssueToken(userID string, role model.UserRole) (string, error)
	ParseToken(token string) (string, model.UserRole, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
