package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/requestdata"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type fakeUserTokenRepo struct {
	tokens map[uuid.UUID]*types.UserToken
}

func newFakeUserTokenRepo() *fakeUserTokenRepo {
	return &fakeUserTokenRepo{tokens: map[uuid.UUID]*types.UserToken{}}
}

func (f *fakeUserTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *types.UserToken) (*types.UserToken, error) {
	f.tokens[token.UserID] = token
	return token, nil
}

func (f *fakeUserTokenRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserToken, error) {
	return f.tokens[userID], nil
}

func (f *fakeUserTokenRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	delete(f.tokens, userID)
	return nil
}

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo, *fakeUserTokenRepo) {
	t.Helper()
	userRepo := &fakeUserRepo{}
	tokenRepo := newFakeUserTokenRepo()
	svc := NewAuthService(
		newTestDB(t), newTestLogger(t),
		userRepo, tokenRepo, nil,
		"test-secret", time.Hour, 24*time.Hour,
	)
	return svc, userRepo, tokenRepo
}

func TestRegisterLowercasesEmailAndHashesPassword(t *testing.T) {
	svc, userRepo, _ := newAuthFixture(t)

	user := &types.User{Email: " Jane.Doe@Example.COM ", Password: "hunter22"}
	if err := svc.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "jane.doe@example.com" {
		t.Fatalf("email: want=jane.doe@example.com got=%s", user.Email)
	}
	if user.Password == "hunter22" {
		t.Fatal("password must be hashed before storage")
	}
	if len(userRepo.users) != 1 {
		t.Fatalf("stored users: want=1 got=%d", len(userRepo.users))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	first := &types.User{Email: "jane@example.com", Password: "hunter22"}
	if err := svc.RegisterUser(context.Background(), first); err != nil {
		t.Fatalf("first register: %v", err)
	}
	second := &types.User{Email: "JANE@example.com", Password: "other-pass"}
	if err := svc.RegisterUser(context.Background(), second); err == nil {
		t.Fatal("duplicate email: want=error got=nil")
	}
}

func TestLoginIssuesUsableAccessToken(t *testing.T) {
	svc, _, tokenRepo := newAuthFixture(t)

	user := &types.User{Email: "jane@example.com", Password: "hunter22"}
	if err := svc.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("register: %v", err)
	}

	access, refresh, err := svc.LoginUser(context.Background(), "jane@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("login must return both tokens")
	}
	if tokenRepo.tokens[user.ID] == nil {
		t.Fatal("refresh token must be persisted")
	}

	ctx, err := svc.SetContextFromToken(context.Background(), access)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("request data: want user %s got=%+v", user.ID, rd)
	}
	if rd.Email != "jane@example.com" {
		t.Fatalf("email claim: got=%s", rd.Email)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	user := &types.User{Email: "jane@example.com", Password: "hunter22"}
	if err := svc.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.LoginUser(context.Background(), "jane@example.com", "wrong"); err == nil {
		t.Fatal("wrong password: want=error got=nil")
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, tokenRepo := newAuthFixture(t)

	user := &types.User{Email: "jane@example.com", Password: "hunter22"}
	if err := svc.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, refresh, err := svc.LoginUser(context.Background(), "jane@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	ctx := authedContext(user.ID, user.Email, false)
	access2, refresh2, err := svc.RefreshUser(ctx, refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access2 == "" || refresh2 == "" || refresh2 == refresh {
		t.Fatalf("refresh must rotate: old=%s new=%s", refresh, refresh2)
	}

	// The old token is gone; replaying it fails.
	if _, _, err := svc.RefreshUser(ctx, refresh); err == nil {
		t.Fatal("replayed refresh token: want=error got=nil")
	}
	if tokenRepo.tokens[user.ID].RefreshToken != refresh2 {
		t.Fatal("stored token must be the rotated one")
	}
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	if _, err := svc.SetContextFromToken(context.Background(), "not-a-jwt"); err == nil {
		t.Fatal("garbage token: want=error got=nil")
	}
}
