package service

import (
	"context"
	"strings"

	"sharebox/internal/domain"
	"sharebox/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewUserService(store domain.Store, logger *zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

func (s *UserService) Add(ctx context.Context, user models.User) (*models.User, error) {
	if strings.TrimSpace(user.Email) == "" {
		return nil, ErrEmailRequired
	}
	taken, err := s.store.EmailTaken(ctx, user.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailExists
	}

	user.ID = 0
	if err := s.store.CreateUser(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Patch(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		taken, err := s.store.EmailTaken(ctx, *patch.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailExists
		}
		user.Email = *patch.Email
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteUser(ctx, id)
}

func (s *UserService) All(ctx context.Context) ([]*models.User, error) {
	return s.store.AllUsers(ctx)
}
