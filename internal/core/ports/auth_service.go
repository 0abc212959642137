package ports

import (
	"context"

	"github.com/packbroker/supply-system/internal/core/domain"
)

// AuthService implements registration and credential exchange.
type AuthService interface {
	Register(ctx context.Context, fullName, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// UserService exposes read operations over registered users.
type UserService interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
