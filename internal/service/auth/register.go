package auth

import (
	"context"
	"cozytown_backend/internal/model"
	"cozytown_backend/pkg/pass"
	"cozytown_backend/pkg/token"
	"time"
)

func (s *serv) Register(ctx context.Context, user *model.User) (*model.AuthData, error) {
	if user.Login == "" || len(user.Password) < 8 {
		return nil, model.ErrInvalidUser
	}

	// Хэширование пароля пользователя
	passwordHash, err := pass.HashPassword(user.Password)
	if err != nil {
		return nil, err
	}
	user.Password = passwordHash
	user.Coins = s.startingCoins

	var data *model.AuthData

	// Пользователь и его первая сессия создаются в одной транзакции
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		user.ID, err = s.userRepo.CreateUser(ctx, user)
		if err != nil {
			return err
		}

		data, err = s.openSession(ctx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// openSession - сессия, refresh токен (в БД только хэш) и access токен
func (s *serv) openSession(ctx context.Context, userID int) (*model.AuthData, error) {
	sessionID := generateSessionID()

	refreshToken, refreshHash, err := token.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	err = s.authRepo.CreateSession(ctx,
		&model.Session{
			ID:          sessionID,
			UserID:      userID,
			RefreshHash: refreshHash,
			ExpiresAt:   time.Now().Add(s.jwtConfig.RefreshTokenDuration()),
		})
	if err != nil {
		return nil, err
	}

	accessToken, err := token.GenerateAccessToken(
		userID,
		sessionID,
		s.jwtConfig.AccessTokenSecretKey(),
		s.jwtConfig.AccessTokenDuration())
	if err != nil {
		return nil, err
	}

	return &model.AuthData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}
