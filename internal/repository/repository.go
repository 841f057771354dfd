package repository

import (
	"context"
	"cozytown_backend/internal/model"
)

type AuthRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetUserBySessionID(ctx context.Context, sessionID string) (*model.User, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (id int, err error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	GetBalance(ctx context.Context, id int) (int, error)
	// GetBalanceForUpdate блокирует строку пользователя до конца транзакции
	GetBalanceForUpdate(ctx context.Context, id int) (int, error)
	// DebitBalance списывает amount, только если баланса хватает.
	// Возвращает новый баланс или model.ErrInsufficientBalance
	DebitBalance(ctx context.Context, id int, amount int) (int, error)
}

type TileRepository interface {
	GetTile(ctx context.Context, id string) (*model.Tile, error)
	// GetTileForUpdate блокирует строку тайла до конца транзакции
	GetTileForUpdate(ctx context.Context, id string) (*model.Tile, error)
	// ListTiles возвращает тайлы по строкам (y), затем по столбцам (x)
	ListTiles(ctx context.Context) ([]model.Tile, error)
	// UpdateContributions - compare-and-swap по ранее прочитанным слотам.
	// Если слоты уже изменились, возвращает model.ErrConflict
	UpdateContributions(ctx context.Context, upd model.TileUpdate) error
	// CreateTile создает тайл, если клетка (x, y) еще не занята
	CreateTile(ctx context.Context, tile *model.Tile) (created bool, err error)
}

type PushRepository interface {
	// SaveSubscription - upsert по (user_id, endpoint), подписка снова становится активной
	SaveSubscription(ctx context.Context, sub *model.PushSubscription) (created bool, err error)
	ActiveSubscriptions(ctx context.Context, userID int) ([]model.PushSubscription, error)
	DeactivateSubscription(ctx context.Context, id string) error
}
