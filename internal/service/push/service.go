package push

import (
	"context"
	"cozytown_backend/internal/model"
	"cozytown_backend/internal/repository"
	"cozytown_backend/internal/service"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Сколько подписок одного пользователя обрабатываем параллельно
const sendConcurrency = 8

// Sender - транспорт доставки пуша до одной подписки.
// Если подписка больше не существует, возвращает model.ErrSubscriptionGone
type Sender interface {
	Send(ctx context.Context, sub model.PushSubscription, payload []byte) error
}

type serv struct {
	repo      repository.PushRepository
	sender    Sender
	publicKey string
	schema    *jsonschema.Schema
}

func NewPushService(repo repository.PushRepository, sender Sender, publicKey string) service.PushService {
	return &serv{
		repo:      repo,
		sender:    sender,
		publicKey: publicKey,
		schema:    jsonschema.MustCompileString("subscription.json", subscriptionSchema),
	}
}

// PublicKey - VAPID ключ, которым клиент подписывается на пуши
func (s *serv) PublicKey() string {
	return s.publicKey
}
