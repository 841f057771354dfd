package auth

import (
	"cozytown_backend/internal/config"
	"cozytown_backend/internal/repository"
	"cozytown_backend/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
)

type serv struct {
	txManager     trm.Manager
	userRepo      repository.UserRepository
	authRepo      repository.AuthRepository
	jwtConfig     config.JWTConfig
	startingCoins int
}

func NewAuthService(
	txManager trm.Manager,
	userRepo repository.UserRepository,
	authRepo repository.AuthRepository,
	jwtConfig config.JWTConfig,
	startingCoins int,
) service.AuthService {
	return &serv{
		txManager:     txManager,
		userRepo:      userRepo,
		authRepo:      authRepo,
		jwtConfig:     jwtConfig,
		startingCoins: startingCoins,
	}
}

func generateSessionID() string {
	return uuid.NewString()
}
