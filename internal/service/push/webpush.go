package push

import (
	"context"
	"cozytown_backend/internal/config"
	"cozytown_backend/internal/model"
	"fmt"
	"io"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
)

type webPushSender struct {
	cfg config.PushConfig
}

// NewWebPushSender - доставка через Web Push протокол с VAPID подписью
func NewWebPushSender(cfg config.PushConfig) Sender {
	return &webPushSender{cfg: cfg}
}

func (w *webPushSender) Send(ctx context.Context, sub model.PushSubscription, payload []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}, &webpush.Options{
		Subscriber:      w.cfg.Subscriber(),
		VAPIDPublicKey:  w.cfg.VAPIDPublicKey(),
		VAPIDPrivateKey: w.cfg.VAPIDPrivateKey(),
		TTL:             w.cfg.TTL(),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return model.ErrSubscriptionGone
	case resp.StatusCode >= 300:
		return fmt.Errorf("push service responded %d", resp.StatusCode)
	}
	return nil
}
