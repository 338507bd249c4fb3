package ports

import (
	"context"

	"github.com/cra-adv/cra-backend/internal/core/domain"
)

// CreateRequestInput carries the fields for opening a new legal request.
type CreateRequestInput struct {
	UserID          int64
	CorrespondentID *int64
	Subject         string
	Observation     string
}

// RequestService handles legal-request operations, including the
// concluded-status guard evaluated against the caller's roles.
type RequestService interface {
	Create(ctx context.Context, input CreateRequestInput) (*domain.Request, error)
	Get(ctx context.Context, id int64) (*domain.Request, error)
	List(ctx context.Context) ([]domain.Request, error)
	SetStatus(ctx context.Context, id int64, status string, callerRoles []string) (*domain.Request, error)
}
