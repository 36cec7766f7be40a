package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskflow/backend/internal/models"
	"taskflow/backend/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

type RegistrationRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type RegisterService interface {
	RegisterUser(ctx context.Context, req RegistrationRequest) (*models.User, error)
}

type RegisterServiceImpl struct {
	users      UserStore
	bcryptCost int
}

func NewRegisterService(users UserStore, bcryptCost int) *RegisterServiceImpl {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &RegisterServiceImpl{users: users, bcryptCost: bcryptCost}
}

func (s *RegisterServiceImpl) RegisterUser(ctx context.Context, req RegistrationRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	errs := checkStruct(req)
	if _, failed := errs.Fields["password"]; !failed && req.Password != req.PasswordConfirmation {
		errs.Add("password", "The password field confirmation does not match.")
	}
	if _, failed := errs.Fields["email"]; !failed && req.Email != "" {
		taken, err := s.users.EmailExists(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("email", "The email has already been taken.")
		}
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fieldError("email", "The email has already been taken.")
		}
		return nil, err
	}
	return user, nil
}

func VerifyPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}
