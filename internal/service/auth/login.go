package auth

import (
	"context"
	"cozytown_backend/internal/model"
	"cozytown_backend/pkg/pass"
	"errors"
)

func (s *serv) Login(ctx context.Context, user *model.User) (*model.AuthData, error) {
	// Получение пользователя из бд по логину
	stored, err := s.userRepo.GetUserByLogin(ctx, user.Login)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidPassword
		}
		return nil, err
	}

	if !pass.VerifyPassword(stored.Password, user.Password) {
		return nil, model.ErrInvalidPassword
	}

	return s.openSession(ctx, stored.ID)
}

func (s *serv) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.ListUsers(ctx)
}
