package service_test

import (
	"errors"
	"testing"

	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/service"
	"agritrack-api/internal/testutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestUpdateUser(t *testing.T) {
	db := testutil.NewDB(t)
	rec := &testutil.Recorder{}
	users := service.NewUserService(repository.NewUserRepo(db), rec)
	juan := testutil.CreateUser(t, db, "Juan Dela Cruz", "juan@farm.ph", model.RoleUser)
	testutil.CreateUser(t, db, "Maria Santos", "maria@farm.ph", model.RoleUser)
	actor := service.Actor{Email: "admin@farm.ph"}

	updated, err := users.UpdateUser(juan.ID, &service.UpdateUserRequest{Email: " JUAN2@farm.ph ", Role: "admin"}, actor)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Email != "juan2@farm.ph" || updated.Role != model.RoleAdmin {
		t.Errorf("updated = %+v", updated)
	}

	tests := []struct {
		name string
		req  service.UpdateUserRequest
		want error
	}{
		{"email taken", service.UpdateUserRequest{Email: "maria@farm.ph"}, service.ErrEmailExists},
		{"name taken", service.UpdateUserRequest{FullName: "Maria Santos"}, service.ErrNameExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := users.UpdateUser(juan.ID, &tt.req, actor); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := users.UpdateUser(uuid.New(), &service.UpdateUserRequest{Role: "user"}, actor); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("unknown user: err = %v", err)
	}
	if got := rec.Actions(); len(got) != 1 || got[0] != model.ActionUpdateUser {
		t.Errorf("audit = %v", got)
	}
}

// flakyUsers wraps a real repository and injects failures.
type flakyUsers struct {
	repository.UserRepository
	lookupErr error
	updateErr error
}

func (f *flakyUsers) FindByEmail(email string) (*model.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.UserRepository.FindByEmail(email)
}

func (f *flakyUsers) Update(user *model.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.UserRepository.Update(user)
}

func TestUpdateUserStorageErrors(t *testing.T) {
	db := testutil.NewDB(t)
	juan := testutil.CreateUser(t, db, "Juan Dela Cruz", "juan@farm.ph", model.RoleUser)

	down := errors.New("connection reset")
	repo := &flakyUsers{UserRepository: repository.NewUserRepo(db), lookupErr: down}
	users := service.NewUserService(repo, nil)
	if _, err := users.UpdateUser(juan.ID, &service.UpdateUserRequest{Email: "new@farm.ph"}, service.SystemActor); !errors.Is(err, down) {
		t.Errorf("lookup failure: err = %v, want %v", err, down)
	}

	// unique index hit after the lookup passed
	repo.lookupErr = nil
	repo.updateErr = gorm.ErrDuplicatedKey
	_, err := users.UpdateUser(juan.ID, &service.UpdateUserRequest{Email: "new@farm.ph"}, service.SystemActor)
	if !errors.Is(err, service.ErrEmailExists) {
		t.Errorf("email race: err = %v", err)
	}
	_, err = users.UpdateUser(juan.ID, &service.UpdateUserRequest{FullName: "Juan Luna"}, service.SystemActor)
	if !errors.Is(err, service.ErrNameExists) {
		t.Errorf("name race: err = %v", err)
	}
}
