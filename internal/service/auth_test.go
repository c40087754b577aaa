package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/alpsupport/ticketdesk/internal/models"
	"github.com/alpsupport/ticketdesk/internal/repository"
	"github.com/alpsupport/ticketdesk/internal/service"
	"github.com/alpsupport/ticketdesk/internal/token"
)

type mockUserRepo struct {
	CreateFunc         func(ctx context.Context, u *models.User, hash string) (*models.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, string, error)
	GetByIDFunc        func(ctx context.Context, id string) (*models.User, error)
	ListByRoleFunc     func(ctx context.Context, role models.Role) ([]models.User, error)
	UpdateFunc         func(ctx context.Context, id, name, email, phone string) (*models.User, error)
	DeleteFunc         func(ctx context.Context, id string) error
	UpdatePasswordFunc func(ctx context.Context, id, hash string) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *models.User, hash string) (*models.User, error) {
	return m.CreateFunc(ctx, u, hash)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	return m.GetByEmailFunc(ctx, email)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockUserRepo) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return m.ListByRoleFunc(ctx, role)
}
func (m *mockUserRepo) Update(ctx context.Context, id, name, email, phone string) (*models.User, error) {
	return m.UpdateFunc(ctx, id, name, email, phone)
}
func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}
func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.UpdatePasswordFunc(ctx, id, hash)
}

func TestRegister_Validation(t *testing.T) {
	svc := service.NewAuthService(&mockUserRepo{}, "secret", time.Hour)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		role     models.Role
	}{
		{"empty name", "", "a@x.com", "secret1", models.RoleClient},
		{"empty email", "Ann", "", "secret1", models.RoleClient},
		{"short password", "Ann", "a@x.com", "abc", models.RoleClient},
		{"unknown role", "Ann", "a@x.com", "secret1", "Supervisor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.userName, tt.email, "", tt.password, tt.role)
			if err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	var gotHash string
	repo := &mockUserRepo{
		CreateFunc: func(_ context.Context, u *models.User, hash string) (*models.User, error) {
			gotHash = hash
			u.ID = "u1"
			return u, nil
		},
	}
	svc := service.NewAuthService(repo, "secret", time.Hour)

	u, err := svc.Register(context.Background(), "Ann", "Ann@X.com", "555", "secret1", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != models.RoleClient {
		t.Errorf("role = %q; want Client default", u.Role)
	}
	if u.Email != "ann@x.com" {
		t.Errorf("email = %q; want lowercased", u.Email)
	}
	if bcrypt.CompareHashAndPassword([]byte(gotHash), []byte("secret1")) != nil {
		t.Error("stored hash does not match password")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	repo := &mockUserRepo{
		GetByEmailFunc: func(context.Context, string) (*models.User, string, error) {
			return &models.User{ID: "u1", Role: models.RoleAdmin}, string(hash), nil
		},
	}
	svc := service.NewAuthService(repo, "secret", time.Hour)

	_, _, err := svc.Login(context.Background(), "a@x.com", "wrong")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("err = %v; want ErrInvalidCredentials", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &mockUserRepo{
		GetByEmailFunc: func(context.Context, string) (*models.User, string, error) {
			return nil, "", repository.ErrNotFound
		},
	}
	svc := service.NewAuthService(repo, "secret", time.Hour)

	_, _, err := svc.Login(context.Background(), "nobody@x.com", "pw")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("err = %v; want ErrInvalidCredentials", err)
	}
}

func TestLogin_IssuesToken(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("p"), bcrypt.MinCost)
	repo := &mockUserRepo{
		GetByEmailFunc: func(context.Context, string) (*models.User, string, error) {
			return &models.User{ID: "u1", Role: models.RoleAdmin}, string(hash), nil
		},
	}
	svc := service.NewAuthService(repo, "secret", time.Hour)

	tok, u, err := svc.Login(context.Background(), "a@x.com", "p")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != "u1" {
		t.Errorf("user = %+v", u)
	}
	claims, err := token.Parse("secret", tok)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != models.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestChangePassword_TooShort(t *testing.T) {
	svc := service.NewAuthService(&mockUserRepo{}, "secret", time.Hour)
	if err := svc.ChangePassword(context.Background(), "u1", "abc"); err == nil {
		t.Fatal("expected validation error")
	}
}
