package service

import (
	"context"
	"cozytown_backend/internal/model"
)

type TileService interface {
	ListTiles(ctx context.Context) ([]model.Tile, error)
	GetTile(ctx context.Context, id string) (*model.Tile, error)
	Suggestion(ctx context.Context, tileID string, userID int) (*model.Suggestion, error)
	Contribute(ctx context.Context, c model.Contribution) (*model.ContributionResult, error)
	Progress(ctx context.Context) (*model.MapProgress, error)
	SeedGrid(ctx context.Context) (created int, err error)
}

type AuthService interface {
	Register(ctx context.Context, user *model.User) (*model.AuthData, error)
	Login(ctx context.Context, user *model.User) (*model.AuthData, error)
	Refresh(ctx context.Context, data *model.AuthData) (newAccessToken string, err error)
	Logout(ctx context.Context, sessionID string) error
	ListUsers(ctx context.Context) ([]model.User, error)
}

type PushService interface {
	PublicKey() string
	Subscribe(ctx context.Context, userID int, raw []byte) (created bool, err error)
	Send(ctx context.Context, userID int, msg model.PushMessage) (*model.PushReport, error)
}
