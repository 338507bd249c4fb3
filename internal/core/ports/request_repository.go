package ports

import (
	"context"
	"time"

	"github.com/cra-adv/cra-backend/internal/core/domain"
)

// RequestRepository persists legal-case requests (solicitações).
type RequestRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Request, error)
	Create(ctx context.Context, request *domain.Request) (*domain.Request, error)
	UpdateStatus(ctx context.Context, id int64, status string, concludedAt *time.Time) error
	List(ctx context.Context) ([]domain.Request, error)
}
