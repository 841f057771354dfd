package tile

import (
	"context"
	"cozytown_backend/internal/config"
	"cozytown_backend/internal/model"
	"cozytown_backend/internal/repository"
	"cozytown_backend/internal/service"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/cenkalti/backoff/v4"
)

// Сколько ждем отправки пуша об открытии тайла
const notifyTimeout = 10 * time.Second

// Notifier - доставка пуш-уведомлений вкладчикам
type Notifier interface {
	Send(ctx context.Context, userID int, msg model.PushMessage) (*model.PushReport, error)
}

// Publisher - рассылка нового состояния тайла подписчикам живой карты
type Publisher interface {
	Publish(tile model.Tile)
}

type serv struct {
	txManager trm.Manager
	tileRepo  repository.TileRepository
	userRepo  repository.UserRepository
	mapCfg    config.MapConfig
	retry     retryPolicy
	notifier  Notifier
	publisher Publisher
}

type Deps struct {
	TxManager trm.Manager
	TileRepo  repository.TileRepository
	UserRepo  repository.UserRepository
	MapCfg    config.MapConfig
	RetryCfg  config.RetryConfig
	Notifier  Notifier  // может быть nil
	Publisher Publisher // может быть nil
}

// NewTileService - сервис карты и вкладов в тайлы
func NewTileService(deps Deps) service.TileService {
	s := &serv{
		txManager: deps.TxManager,
		tileRepo:  deps.TileRepo,
		userRepo:  deps.UserRepo,
		mapCfg:    deps.MapCfg,
		notifier:  deps.Notifier,
		publisher: deps.Publisher,
		retry:     retryPolicy{attempts: 1},
	}
	if deps.RetryCfg != nil {
		s.retry = retryPolicy{
			attempts:  deps.RetryCfg.Attempts(),
			baseDelay: deps.RetryCfg.BaseDelay(),
			maxDelay:  deps.RetryCfg.MaxDelay(),
		}
	}
	return s
}

// retryPolicy - сколько раз и с какой паузой повторяем коммит
type retryPolicy struct {
	attempts  int
	baseDelay time.Duration
	maxDelay  time.Duration
}

// backOff - экспоненциальная пауза между попытками, не больше attempts попыток всего
func (p retryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.baseDelay
	b.Multiplier = 2
	b.MaxInterval = p.maxDelay
	b.MaxElapsedTime = 0
	b.Reset()

	retries := 0
	if p.attempts > 1 {
		retries = p.attempts - 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}
