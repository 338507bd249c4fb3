package ports

import (
	"context"

	"github.com/cra-adv/cra-backend/internal/core/domain"
)

// UserRepository defines the identity-store operations the auth core and the
// user management endpoints depend on.
type UserRepository interface {
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByLogin(ctx context.Context, login string) (bool, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.User, error)
}
