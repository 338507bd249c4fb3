package ports

import (
	"context"

	"github.com/cra-adv/cra-backend/internal/core/domain"
)

// CorrespondentRepository resolves correspondent entities users may link to.
type CorrespondentRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Correspondent, error)
	Create(ctx context.Context, correspondent *domain.Correspondent) (*domain.Correspondent, error)
	List(ctx context.Context) ([]domain.Correspondent, error)
}
