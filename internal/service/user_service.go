package service

import (
	"errors"
	"fmt"
	"strings"

	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
	UpdateUser(id uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.UserResponse, error)
}

type UpdateUserRequest struct {
	FullName string `json:"fullName" validate:"omitempty,max=255"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type userService struct {
	userRepo repository.UserRepository
	sideEffects
}

func NewUserService(userRepo repository.UserRepository, audit ActivityRecorder) UserService {
	return &userService{userRepo: userRepo, sideEffects: sideEffects{audit: audit}}
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	out := make([]model.UserResponse, len(users))
	for i := range users {
		out[i] = users[i].ToResponse()
	}
	return out, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateUser(id uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.UserResponse, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	emailChanged := req.Email != "" && req.Email != user.Email
	if emailChanged {
		if err := s.ensureFree(s.userRepo.FindByEmail, req.Email, user.ID, ErrEmailExists); err != nil {
			return nil, err
		}
		user.Email = req.Email
	}
	if req.FullName != "" && req.FullName != user.FullName {
		if err := s.ensureFree(s.userRepo.FindByName, req.FullName, user.ID, ErrNameExists); err != nil {
			return nil, err
		}
		user.FullName = req.FullName
	}
	if req.Role != "" {
		user.Role = model.Role(req.Role)
	}
	user.UpdatedBy = actor.Ref()

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// a concurrent write took the value after the lookup
			if emailChanged {
				return nil, ErrEmailExists
			}
			return nil, ErrNameExists
		}
		return nil, err
	}

	s.record(actor, model.ActionUpdateUser, "user", user.ID.String(),
		fmt.Sprintf("Updated user %s (role %s)", user.FullName, user.Role), model.ActivitySuccess)

	resp := user.ToResponse()
	return &resp, nil
}

// ensureFree reports taken when value belongs to another user. Lookup
// failures other than not-found are returned as is.
func (s *userService) ensureFree(find func(string) (*model.User, error), value string, self uuid.UUID, taken error) error {
	other, err := find(value)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != self {
		return taken
	}
	return nil
}
