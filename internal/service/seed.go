package service

import (
	"errors"
	"strings"

	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"

	"gorm.io/gorm"
)

// EnsureAdmin creates an admin account with the given credentials unless a
// user with that email exists. It reports whether an account was created.
func EnsureAdmin(userRepo repository.UserRepository, fullName, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}
	if _, err := userRepo.FindByEmail(email); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if len(password) < 6 {
		return false, validationErrorf("admin password must be at least 6 characters")
	}

	admin := &model.User{FullName: fullName, Email: email, Role: model.RoleAdmin}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(password); err != nil {
		return false, err
	}
	if err := userRepo.Create(admin); err != nil {
		return false, err
	}
	return true, nil
}

// ResetPassword rehashes the password of an existing user.
func ResetPassword(userRepo repository.UserRepository, email, password string) error {
	if len(password) < 6 {
		return validationErrorf("password must be at least 6 characters")
	}
	user, err := userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	return userRepo.UpdatePassword(user.ID, user.Password)
}
