package test

import (
	"context"
	"errors"

	"github.com/campuseats/canteen/internal/domain/model"
	pkgAuth "github.com/campuseats/canteen/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(string, model.UserRole) (string, error)
	ParseFn func(string) (string, model.UserRole, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(userID string, role model.UserRole) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(userID, role)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (string, model.UserRole, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "user-1", model.RoleStudent, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// TokenParserStub implements middleware token parsing contract.
type TokenParserStub struct {
	ID      string
	Role    model.UserRole
	Err     error
	ParseFn func(string) (string, model.UserRole, error)
}

// ParseToken either delegates to override or returns predefined result.
func (s TokenParserStub) ParseToken(token string) (string, model.UserRole, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return "", "", s.Err
	}
	role := s.Role
	if role == "" {
		role = model.RoleStudent
	}
	return s.ID, role, nil
}

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (string, model.UserRole, error)
	ProfileFn      func(context.Context, string) (*model.User, error)
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, email, fullName, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, email, fullName, password)
	}
	return "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return "token", nil
}

// ParseToken returns stored identifier for authenticated user.
func (s AuthFacadeStub) ParseToken(token string) (string, model.UserRole, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "user-1", model.RoleStudent, nil
}

// Profile returns configured profile response.
func (s AuthFacadeStub) Profile(ctx context.Context, userID string) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, userID)
	}
	return &model.User{ID: userID, Email: "student@campus.edu", Role: model.RoleStudent}, nil
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
