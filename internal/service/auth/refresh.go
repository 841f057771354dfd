package auth

import (
	"context"
	"cozytown_backend/internal/model"
	"cozytown_backend/pkg/token"
	"time"
)

func (s *serv) Refresh(ctx context.Context, data *model.AuthData) (string, error) {
	session, err := s.authRepo.GetSession(ctx, data.SessionID)
	if err != nil {
		return "", err
	}
	// Просроченная сессия считается закрытой
	if session.Expired(time.Now()) {
		return "", model.ErrSessionNotFound
	}

	if !token.VerifyRefreshToken(data.RefreshToken, session.RefreshHash) {
		return "", model.ErrInvalidToken
	}

	user, err := s.authRepo.GetUserBySessionID(ctx, data.SessionID)
	if err != nil {
		return "", err
	}

	return token.GenerateAccessToken(
		user.ID,
		data.SessionID,
		s.jwtConfig.AccessTokenSecretKey(),
		s.jwtConfig.AccessTokenDuration())
}

func (s *serv) Logout(ctx context.Context, sessionID string) error {
	return s.authRepo.DeleteSession(ctx, sessionID)
}
