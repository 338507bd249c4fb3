package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cra-adv/cra-backend/internal/core/domain"
	"github.com/cra-adv/cra-backend/internal/core/ports"
)

// RequestService implements legal-request operations. Status changes run the
// concluded-status guard against the caller's roles before touching storage.
type RequestService struct {
	requests ports.RequestRepository
	log      zerolog.Logger
}

func NewRequestService(requests ports.RequestRepository, log zerolog.Logger) *RequestService {
	return &RequestService{requests: requests, log: log}
}

func (s *RequestService) Create(ctx context.Context, input ports.CreateRequestInput) (*domain.Request, error) {
	request := &domain.Request{
		UserID:          input.UserID,
		CorrespondentID: input.CorrespondentID,
		Subject:         input.Subject,
		Observation:     input.Observation,
		Status:          domain.StatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	created, err := s.requests.Create(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return created, nil
}

func (s *RequestService) Get(ctx context.Context, id int64) (*domain.Request, error) {
	return s.requests.FindByID(ctx, id)
}

func (s *RequestService) List(ctx context.Context) ([]domain.Request, error) {
	return s.requests.List(ctx)
}

// SetStatus moves a request to another status. A request already concluded
// may only be changed by a caller holding ADMIN or ADVOGADO.
func (s *RequestService) SetStatus(ctx context.Context, id int64, status string, callerRoles []string) (*domain.Request, error) {
	if !domain.IsKnownStatus(status) {
		return nil, domain.ErrStatusNotFound
	}

	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !request.StatusChangeAllowed(callerRoles) {
		s.log.Warn().Int64("request_id", id).Strs("roles", callerRoles).
			Msg("status change on concluded request denied")
		return nil, domain.ErrForbidden
	}

	var concludedAt *time.Time
	if status == domain.StatusConcluded {
		now := time.Now().UTC()
		concludedAt = &now
	}

	if err := s.requests.UpdateStatus(ctx, id, status, concludedAt); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	request.Status = status
	request.ConcludedAt = concludedAt
	return request, nil
}
