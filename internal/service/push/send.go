package push

import (
	"context"
	"cozytown_backend/internal/model"
	"encoding/json"
	"errors"
	"log"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

type notificationPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	Badge string `json:"badge"`
}

// Send - доставка сообщения на все активные подписки пользователя.
// Ошибка одной подписки не мешает остальным; исчезнувшие подписки деактивируются
func (s *serv) Send(ctx context.Context, userID int, msg model.PushMessage) (*model.PushReport, error) {
	if msg.Title == "" || msg.Body == "" {
		return nil, errors.New("title and body are required")
	}

	subs, err := s.repo.ActiveSubscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, model.ErrNoSubscriptions
	}

	payload, err := json.Marshal(notificationPayload{
		Title: msg.Title,
		Body:  msg.Body,
		Icon:  "/icon.png",
		Badge: "/badge.png",
	})
	if err != nil {
		return nil, err
	}

	var success atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sendConcurrency)
	for _, sub := range subs {
		g.Go(func() error {
			err := s.sender.Send(gctx, sub, payload)
			if err == nil {
				success.Add(1)
				return nil
			}

			log.Printf("push to subscription %s failed: %v", sub.ID, err)
			if errors.Is(err, model.ErrSubscriptionGone) {
				if derr := s.repo.DeactivateSubscription(gctx, sub.ID); derr != nil {
					log.Printf("deactivate subscription %s: %v", sub.ID, derr)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	return &model.PushReport{
		Total:   len(subs),
		Success: int(success.Load()),
	}, nil
}
