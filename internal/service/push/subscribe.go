package push

import (
	"context"
	"cozytown_backend/internal/model"
	"encoding/json"
	"fmt"
)

// Формат PushSubscription.toJSON() из браузера
const subscriptionSchema = `{
  "type": "object",
  "required": ["endpoint", "keys"],
  "properties": {
    "endpoint": {"type": "string", "pattern": "^https://"},
    "expirationTime": {"type": ["number", "null"]},
    "keys": {
      "type": "object",
      "required": ["p256dh", "auth"],
      "properties": {
        "p256dh": {"type": "string", "minLength": 1},
        "auth": {"type": "string", "minLength": 1}
      }
    }
  }
}`

type subscriptionJSON struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// Subscribe - проверяет подписку по схеме и сохраняет ее за пользователем
func (s *serv) Subscribe(ctx context.Context, userID int, raw []byte) (bool, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false, fmt.Errorf("%w: %v", model.ErrInvalidSubscription, err)
	}
	if err := s.schema.Validate(doc); err != nil {
		return false, fmt.Errorf("%w: %v", model.ErrInvalidSubscription, err)
	}

	var parsed subscriptionJSON
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return false, fmt.Errorf("%w: %v", model.ErrInvalidSubscription, err)
	}

	return s.repo.SaveSubscription(ctx, &model.PushSubscription{
		UserID:   userID,
		Endpoint: parsed.Endpoint,
		Keys: model.PushKeys{
			P256dh: parsed.Keys.P256dh,
			Auth:   parsed.Keys.Auth,
		},
	})
}
