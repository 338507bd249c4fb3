package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cra-adv/cra-backend/internal/core/domain"
	"github.com/cra-adv/cra-backend/internal/core/ports"
)

type stubRequestRepo struct {
	requests map[int64]*domain.Request
	nextID   int64
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{requests: make(map[int64]*domain.Request)}
}

func (r *stubRequestRepo) FindByID(_ context.Context, id int64) (*domain.Request, error) {
	if req, ok := r.requests[id]; ok {
		clone := *req
		return &clone, nil
	}
	return nil, domain.ErrRequestNotFound
}

func (r *stubRequestRepo) Create(_ context.Context, request *domain.Request) (*domain.Request, error) {
	r.nextID++
	clone := *request
	clone.ID = r.nextID
	r.requests[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubRequestRepo) UpdateStatus(_ context.Context, id int64, status string, concludedAt *time.Time) error {
	req, ok := r.requests[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	req.Status = status
	req.ConcludedAt = concludedAt
	return nil
}

func (r *stubRequestRepo) List(_ context.Context) ([]domain.Request, error) {
	var out []domain.Request
	for _, req := range r.requests {
		out = append(out, *req)
	}
	return out, nil
}

func seedRequest(t *testing.T, repo *stubRequestRepo, status string) *domain.Request {
	t.Helper()
	created, err := repo.Create(context.Background(), &domain.Request{
		UserID:  1,
		Subject: "Audiência de conciliação",
		Status:  status,
	})
	if err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return created
}

func TestRequestService_SetStatus(t *testing.T) {
	repo := newStubRequestRepo()
	svc := NewRequestService(repo, zerolog.Nop())
	created := seedRequest(t, repo, domain.StatusPending)

	updated, err := svc.SetStatus(context.Background(), created.ID, domain.StatusInProgress, []string{domain.RoleCorrespondent})
	if err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	if updated.Status != domain.StatusInProgress {
		t.Fatalf("status not updated: %s", updated.Status)
	}
	if updated.ConcludedAt != nil {
		t.Fatalf("non-concluded status must not set conclusion time")
	}
}

func TestRequestService_ConcludeSetsTimestamp(t *testing.T) {
	repo := newStubRequestRepo()
	svc := NewRequestService(repo, zerolog.Nop())
	created := seedRequest(t, repo, domain.StatusInProgress)

	updated, err := svc.SetStatus(context.Background(), created.ID, domain.StatusConcluded, []string{domain.RoleCorrespondent})
	if err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	if updated.ConcludedAt == nil {
		t.Fatalf("conclusion time not set")
	}
}

func TestRequestService_ConcludedGuard(t *testing.T) {
	repo := newStubRequestRepo()
	svc := NewRequestService(repo, zerolog.Nop())
	created := seedRequest(t, repo, domain.StatusConcluded)

	// A correspondent may not touch a concluded request.
	_, err := svc.SetStatus(context.Background(), created.ID, domain.StatusInProgress, []string{domain.RoleCorrespondent})
	if err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Admins and lawyers may reopen it.
	for _, role := range []string{domain.RoleAdmin, domain.RoleLawyer} {
		repo.requests[created.ID].Status = domain.StatusConcluded
		updated, err := svc.SetStatus(context.Background(), created.ID, domain.StatusInProgress, []string{role})
		if err != nil {
			t.Fatalf("%s: SetStatus returned error: %v", role, err)
		}
		if updated.Status != domain.StatusInProgress {
			t.Fatalf("%s: status not updated", role)
		}
	}
}

func TestRequestService_UnknownStatus(t *testing.T) {
	repo := newStubRequestRepo()
	svc := NewRequestService(repo, zerolog.Nop())
	created := seedRequest(t, repo, domain.StatusPending)

	if _, err := svc.SetStatus(context.Background(), created.ID, "Arquivada", []string{domain.RoleAdmin}); err != domain.ErrStatusNotFound {
		t.Fatalf("expected ErrStatusNotFound, got %v", err)
	}
}

func TestRequestService_Create(t *testing.T) {
	repo := newStubRequestRepo()
	svc := NewRequestService(repo, zerolog.Nop())

	created, err := svc.Create(context.Background(), ports.CreateRequestInput{
		UserID:  42,
		Subject: "Protocolo de petição",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Status != domain.StatusPending {
		t.Fatalf("new request must start pending, got %s", created.Status)
	}
	if created.ID == 0 {
		t.Fatalf("id not assigned")
	}
}
