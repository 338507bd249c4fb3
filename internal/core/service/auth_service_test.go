package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cra-adv/cra-backend/internal/core/domain"
	"github.com/cra-adv/cra-backend/internal/core/ports"
	"github.com/cra-adv/cra-backend/internal/core/token"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	if u, ok := r.users[login]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByLogin(_ context.Context, login string) (bool, error) {
	_, ok := r.users[login]
	return ok, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Login]; exists {
		return nil, domain.ErrDuplicateLogin
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = r.nextID
	r.users[created.Login] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id int64, active bool) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Active = active
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) Delete(ctx context.Context, id int64) error {
	return r.SetActive(ctx, id, false)
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type stubCorrespondentRepo struct {
	correspondents map[int64]*domain.Correspondent
}

func newStubCorrespondentRepo() *stubCorrespondentRepo {
	return &stubCorrespondentRepo{correspondents: make(map[int64]*domain.Correspondent)}
}

func (r *stubCorrespondentRepo) FindByID(_ context.Context, id int64) (*domain.Correspondent, error) {
	if c, ok := r.correspondents[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, domain.ErrUnknownCorrespondent
}

func (r *stubCorrespondentRepo) Create(_ context.Context, c *domain.Correspondent) (*domain.Correspondent, error) {
	r.correspondents[c.ID] = c
	return c, nil
}

func (r *stubCorrespondentRepo) List(_ context.Context) ([]domain.Correspondent, error) {
	var out []domain.Correspondent
	for _, c := range r.correspondents {
		out = append(out, *c)
	}
	return out, nil
}

func newTestAuthService(users *stubUserRepo, correspondents *stubCorrespondentRepo) (*AuthService, *token.Codec) {
	codec := token.NewCodec("craTestSecretKeyLongEnoughForHmacSha256Signing!!", zerolog.Nop())
	hasher := NewPasswordHasher(0)
	return NewAuthService(users, correspondents, codec, hasher, time.Hour, 24*time.Hour, zerolog.Nop()), codec
}

func registerAdmin(t *testing.T, svc *AuthService) *ports.SessionPair {
	t.Helper()
	pair, err := svc.Register(context.Background(), ports.RegisterInput{
		Login:    "admin",
		Password: "admin123",
		FullName: "Administrador",
		Type:     domain.TypeAdmin,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return pair
}

func TestAuthService_Register_AdminGetsAdminRole(t *testing.T) {
	svc, codec := newTestAuthService(newStubUserRepo(), newStubCorrespondentRepo())

	pair := registerAdmin(t, svc)
	if len(pair.Roles) != 1 || pair.Roles[0] != domain.RoleAdmin {
		t.Fatalf("expected [ROLE_ADMIN], got %v", pair.Roles)
	}
	if pair.User.PasswordHash == "admin123" {
		t.Fatalf("password stored unhashed")
	}

	subject, err := codec.Subject(pair.Token)
	if err != nil {
		t.Fatalf("minted token invalid: %v", err)
	}
	if subject != "admin" {
		t.Fatalf("unexpected subject %q", subject)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, codec := newTestAuthService(newStubUserRepo(), newStubCorrespondentRepo())
	registerAdmin(t, svc)

	pair, err := svc.Login(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	subject, err := codec.Subject(pair.Token)
	if err != nil || subject != "admin" {
		t.Fatalf("bad access token: subject=%q err=%v", subject, err)
	}
	isRefresh, err := codec.IsRefresh(pair.RefreshToken)
	if err != nil || !isRefresh {
		t.Fatalf("refresh token not marked refresh: %v", err)
	}
	if pair.ExpiresAt.Before(time.Now()) {
		t.Fatalf("access token already expired")
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	users := newStubUserRepo()
	svc, _ := newTestAuthService(users, newStubCorrespondentRepo())
	registerAdmin(t, svc)

	_, wrongPassword := svc.Login(context.Background(), "admin", "nope")
	_, unknownLogin := svc.Login(context.Background(), "ghost", "nope")

	if wrongPassword != domain.ErrBadCredentials {
		t.Fatalf("wrong password: expected ErrBadCredentials, got %v", wrongPassword)
	}
	if unknownLogin != domain.ErrBadCredentials {
		t.Fatalf("unknown login: expected ErrBadCredentials, got %v", unknownLogin)
	}

	// Deactivated accounts fail the same way.
	users.users["admin"].Active = false
	if _, err := svc.Login(context.Background(), "admin", "admin123"); err != domain.ErrBadCredentials {
		t.Fatalf("inactive user: expected ErrBadCredentials, got %v", err)
	}
}

func TestAuthService_Register_DuplicateLogin(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo(), newStubCorrespondentRepo())
	registerAdmin(t, svc)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Login:    "admin",
		Password: "other",
		FullName: "Outro",
		Type:     domain.TypeLawyer,
	})
	if err != domain.ErrDuplicateLogin {
		t.Fatalf("expected ErrDuplicateLogin, got %v", err)
	}
}

func TestAuthService_Register_UnknownCorrespondent(t *testing.T) {
	users := newStubUserRepo()
	svc, _ := newTestAuthService(users, newStubCorrespondentRepo())

	missing := int64(999)
	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Login:           "corr",
		Password:        "secret1",
		FullName:        "Correspondente",
		Type:            domain.TypeCorrespondent,
		CorrespondentID: &missing,
	})
	if err != domain.ErrUnknownCorrespondent {
		t.Fatalf("expected ErrUnknownCorrespondent, got %v", err)
	}
	if len(users.users) != 0 {
		t.Fatalf("no identity should be persisted on failure, got %d", len(users.users))
	}
}

func TestAuthService_Register_LinkedCorrespondent(t *testing.T) {
	correspondents := newStubCorrespondentRepo()
	correspondents.correspondents[7] = &domain.Correspondent{ID: 7, Name: "Silva & Silva"}
	svc, _ := newTestAuthService(newStubUserRepo(), correspondents)

	id := int64(7)
	pair, err := svc.Register(context.Background(), ports.RegisterInput{
		Login:           "corr",
		Password:        "secret1",
		FullName:        "Correspondente",
		Type:            domain.TypeCorrespondent,
		CorrespondentID: &id,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if pair.User.CorrespondentID == nil || *pair.User.CorrespondentID != 7 {
		t.Fatalf("correspondent link lost: %+v", pair.User)
	}
	if len(pair.Roles) != 1 || pair.Roles[0] != domain.RoleCorrespondent {
		t.Fatalf("expected [ROLE_CORRESPONDENTE], got %v", pair.Roles)
	}
}

func TestAuthService_Refresh_RotatesPair(t *testing.T) {
	svc, codec := newTestAuthService(newStubUserRepo(), newStubCorrespondentRepo())
	first := registerAdmin(t, svc)

	rotated, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if subject, _ := codec.Subject(rotated.Token); subject != "admin" {
		t.Fatalf("rotated pair has wrong subject %q", subject)
	}
	if isRefresh, _ := codec.IsRefresh(rotated.RefreshToken); !isRefresh {
		t.Fatalf("rotated refresh token not marked refresh")
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo(), newStubCorrespondentRepo())
	pair := registerAdmin(t, svc)

	if _, err := svc.Refresh(context.Background(), pair.Token); err != domain.ErrNotRefreshToken {
		t.Fatalf("expected ErrNotRefreshToken, got %v", err)
	}
}

func TestAuthService_Refresh_InactiveUser(t *testing.T) {
	users := newStubUserRepo()
	svc, _ := newTestAuthService(users, newStubCorrespondentRepo())
	pair := registerAdmin(t, svc)

	// Deactivate while the refresh token is still unexpired.
	users.users["admin"].Active = false

	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != domain.ErrInactiveUser {
		t.Fatalf("expected ErrInactiveUser, got %v", err)
	}
}

func TestAuthService_Refresh_UnknownUser(t *testing.T) {
	users := newStubUserRepo()
	svc, _ := newTestAuthService(users, newStubCorrespondentRepo())
	pair := registerAdmin(t, svc)

	delete(users.users, "admin")

	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo(), newStubCorrespondentRepo())

	_, err := svc.Refresh(context.Background(), "garbage")
	if err == nil {
		t.Fatalf("expected error for garbage token")
	}
}
