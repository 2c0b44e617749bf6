package service_test

import (
	"errors"
	"testing"
	"time"

	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/service"
	"agritrack-api/internal/testutil"
	"agritrack-api/pkg/jwt"

	"github.com/google/uuid"
)

func newAuth(t *testing.T) (service.AuthService, *jwt.Manager, *testutil.Recorder) {
	t.Helper()
	db := testutil.NewDB(t)
	tokens := jwt.NewManager("test-secret", time.Hour)
	rec := &testutil.Recorder{}
	return service.NewAuthService(repository.NewUserRepo(db), tokens, rec), tokens, rec
}

func TestRegisterIssuesToken(t *testing.T) {
	auth, tokens, rec := newAuth(t)

	resp, err := auth.Register(&service.RegisterRequest{FullName: "Juan Dela Cruz", Email: "A@Gmail.com ", Password: "secret1"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Email != "a@gmail.com" || resp.User.Role != model.RoleUser {
		t.Errorf("user = %+v", resp.User)
	}
	claims, err := tokens.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if claims.UserID != resp.User.ID || claims.Role != "user" {
		t.Errorf("claims = %+v", claims)
	}
	if got := rec.Actions(); len(got) != 1 || got[0] != model.ActionRegister {
		t.Errorf("audit = %v", got)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _, _ := newAuth(t)
	req := func(name string) *service.RegisterRequest {
		return &service.RegisterRequest{FullName: name, Email: "a@gmail.com", Password: "secret1"}
	}

	if _, err := auth.Register(req("First"), ""); err != nil {
		t.Fatal(err)
	}
	_, err := auth.Register(req("Second"), "")
	if !errors.Is(err, service.ErrEmailExists) {
		t.Fatalf("err = %v, want ErrEmailExists", err)
	}
	if err.Error() != "User already exists with this email" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestRegisterDuplicateName(t *testing.T) {
	auth, _, _ := newAuth(t)

	if _, err := auth.Register(&service.RegisterRequest{FullName: "Maria", Email: "m1@x.com", Password: "secret1"}, ""); err != nil {
		t.Fatal(err)
	}
	_, err := auth.Register(&service.RegisterRequest{FullName: "Maria", Email: "m2@x.com", Password: "secret1"}, "")
	if !errors.Is(err, service.ErrNameExists) {
		t.Fatalf("err = %v, want ErrNameExists", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	auth, _, _ := newAuth(t)

	tests := []struct {
		name string
		req  service.RegisterRequest
	}{
		{"short password", service.RegisterRequest{FullName: "A", Email: "a@x.com", Password: "123"}},
		{"bad email", service.RegisterRequest{FullName: "A", Email: "not-an-email", Password: "secret1"}},
		{"bad role", service.RegisterRequest{FullName: "A", Email: "a@x.com", Password: "secret1", Role: "root"}},
		{"missing name", service.RegisterRequest{Email: "a@x.com", Password: "secret1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := auth.Register(&req, "")
			var ve *service.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	auth, tokens, rec := newAuth(t)
	reg, err := auth.Register(&service.RegisterRequest{FullName: "Admin", Email: "admin@x.com", Password: "secret1", Role: "admin"}, "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := auth.Login(&service.LoginRequest{Email: "admin@x.com", Password: "wrong-pass"}, ""); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := auth.Login(&service.LoginRequest{Email: "nobody@x.com", Password: "secret1"}, ""); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v", err)
	}

	resp, err := auth.Login(&service.LoginRequest{Email: "ADMIN@x.com", Password: "secret1"}, "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User.ID != reg.User.ID || resp.User.LastLoginAt == nil {
		t.Errorf("user = %+v", resp.User)
	}
	if claims, err := tokens.ValidateToken(resp.Token); err != nil || claims.Role != "admin" {
		t.Errorf("claims = %+v err = %v", claims, err)
	}

	var failed int
	for _, e := range rec.Entries() {
		if e.Action == model.ActionLogin && e.Status == model.ActivityFailed {
			failed++
		}
	}
	if failed != 2 {
		t.Errorf("failed login entries = %d, want 2", failed)
	}
}

func TestVerifyUnknownUser(t *testing.T) {
	auth, _, _ := newAuth(t)
	reg, err := auth.Register(&service.RegisterRequest{FullName: "A", Email: "a@x.com", Password: "secret1"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Verify(reg.User.ID); err != nil {
		t.Errorf("verify: %v", err)
	}
	if _, err := auth.Verify(uuid.New()); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("verify unknown id: err = %v", err)
	}
}

func TestEnsureAdminAndResetPassword(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepo(db)

	created, err := service.EnsureAdmin(users, "Root", "root@x.com", "secret1")
	if err != nil || !created {
		t.Fatalf("first seed: created=%v err=%v", created, err)
	}
	created, err = service.EnsureAdmin(users, "Root", "root@x.com", "secret1")
	if err != nil || created {
		t.Fatalf("second seed: created=%v err=%v", created, err)
	}

	if err := service.ResetPassword(users, "root@x.com", "newsecret"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	u, _ := users.FindByEmail("root@x.com")
	if !u.IsAdmin() || !u.CheckPassword("newsecret") || u.CheckPassword("secret1") {
		t.Errorf("unexpected state after reset: admin=%v", u.IsAdmin())
	}
	if err := service.ResetPassword(users, "ghost@x.com", "newsecret"); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("reset unknown: err = %v", err)
	}
}
