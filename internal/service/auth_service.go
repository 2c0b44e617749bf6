package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/pkg/jwt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(req *RegisterRequest, ip string) (*AuthResponse, error)
	Login(req *LoginRequest, ip string) (*AuthResponse, error)
	Verify(userID uuid.UUID) (*model.UserResponse, error)
}

type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	sideEffects
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, audit ActivityRecorder) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		sideEffects: sideEffects{audit: audit},
	}
}

func (s *authService) Register(req *RegisterRequest, ip string) (*AuthResponse, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	role := model.RoleUser
	if req.Role != "" {
		role = model.Role(req.Role)
	}

	// 1. Uniqueness of email and name
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByName(req.FullName); err == nil {
		return nil, ErrNameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 2. Create
	user := &model.User{
		FullName: req.FullName,
		Email:    req.Email,
		Role:     role,
	}
	user.CreatedBy = "self"
	user.UpdatedBy = "self"
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	// 3. Issue token
	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	actor := Actor{ID: user.ID, Email: user.Email, Role: user.Role, IP: ip}
	s.record(actor, model.ActionRegister, "user", user.ID.String(),
		fmt.Sprintf("Registered %s account for %s", user.Role, user.FullName), model.ActivitySuccess)

	return &AuthResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *authService) Login(req *LoginRequest, ip string) (*AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.record(Actor{Email: req.Email, IP: ip}, model.ActionLogin, "user", "",
				"Login attempt for unknown email", model.ActivityFailed)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	actor := Actor{ID: user.ID, Email: user.Email, Role: user.Role, IP: ip}
	if !user.CheckPassword(req.Password) {
		s.record(actor, model.ActionLogin, "user", user.ID.String(), "Invalid password", model.ActivityFailed)
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	s.record(actor, model.ActionLogin, "user", user.ID.String(), "User logged in", model.ActivitySuccess)

	return &AuthResponse{Token: token, User: user.ToResponse()}, nil
}

// Verify confirms the token's subject still exists.
func (s *authService) Verify(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}
