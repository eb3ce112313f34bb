package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/openlearn/learnportal-be/repository"
	"github.com/openlearn/learnportal-be/types"
	"github.com/openlearn/learnportal-be/utils"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type UserService interface {
	Authenticate(ctx context.Context, username, password string) (*types.User, error)
	CreateUser(ctx context.Context, user *types.User, password string) error
}

type userService struct {
	repo repository.UserRepo
}

func NewUserService(repo repository.UserRepo) UserService {
	return &userService{
		repo: repo,
	}
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*types.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, user *types.User, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = types.UserRoleUser
	}
	user.PasswordHash = hash
	user.CreatedAt = time.Now().Unix()
	user.UpdatedAt = time.Now().Unix()

	return s.repo.CreateUser(ctx, user)
}
