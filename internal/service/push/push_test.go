package push

import (
	"context"
	"cozytown_backend/internal/model"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	webpush "github.com/SherClockHolmes/webpush-go"
)

type memRepo struct {
	mu          sync.Mutex
	subs        map[string]model.PushSubscription
	deactivated []string
}

func newMemRepo() *memRepo {
	return &memRepo{subs: map[string]model.PushSubscription{}}
}

func (m *memRepo) SaveSubscription(_ context.Context, sub *model.PushSubscription) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.subs {
		if s.UserID == sub.UserID && s.Endpoint == sub.Endpoint {
			s.Keys, s.Active = sub.Keys, true
			m.subs[id] = s
			sub.ID = id
			return false, nil
		}
	}
	sub.ID = sub.Endpoint
	sub.Active = true
	m.subs[sub.ID] = *sub
	return true, nil
}

func (m *memRepo) ActiveSubscriptions(_ context.Context, userID int) ([]model.PushSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PushSubscription
	for _, s := range m.subs {
		if s.UserID == userID && s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memRepo) DeactivateSubscription(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.subs[id]
	s.Active = false
	m.subs[id] = s
	m.deactivated = append(m.deactivated, id)
	return nil
}

// sender отвечает по endpoint: ok, gone или ошибка сети
type sender struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (s *sender) Send(_ context.Context, sub model.PushSubscription, payload []byte) error {
	s.mu.Lock()
	s.payloads = append(s.payloads, payload)
	s.mu.Unlock()

	switch sub.Endpoint {
	case "https://push.example/gone":
		return model.ErrSubscriptionGone
	case "https://push.example/down":
		return errors.New("dial tcp: connection refused")
	}
	return nil
}

func subscriptionJSONFor(endpoint string) []byte {
	return []byte(`{"endpoint":"` + endpoint + `","expirationTime":null,"keys":{"p256dh":"BNc","auth":"tBH"}}`)
}

func TestSubscribe(t *testing.T) {
	repo := newMemRepo()
	svc := NewPushService(repo, &sender{}, "pub")
	ctx := context.Background()

	created, err := svc.Subscribe(ctx, 1, subscriptionJSONFor("https://push.example/a"))
	if err != nil || !created {
		t.Fatalf("first Subscribe created=%v err=%v", created, err)
	}

	// Повторная подписка с тем же endpoint обновляет существующую
	_ = repo.DeactivateSubscription(ctx, "https://push.example/a")
	created, err = svc.Subscribe(ctx, 1, subscriptionJSONFor("https://push.example/a"))
	if err != nil || created {
		t.Fatalf("second Subscribe created=%v err=%v want=false,nil", created, err)
	}
	if subs, _ := repo.ActiveSubscriptions(ctx, 1); len(subs) != 1 {
		t.Fatalf("active subscriptions=%d want=1", len(subs))
	}

	if svc.PublicKey() != "pub" {
		t.Fatalf("PublicKey=%q want=pub", svc.PublicKey())
	}
}

func TestSubscribe_RejectsInvalidPayload(t *testing.T) {
	svc := NewPushService(newMemRepo(), &sender{}, "pub")

	bad := []string{
		`not json`,
		`{"keys":{"p256dh":"a","auth":"b"}}`,
		`{"endpoint":"http://insecure.example","keys":{"p256dh":"a","auth":"b"}}`,
		`{"endpoint":"https://push.example/a","keys":{"p256dh":"a"}}`,
		`{"endpoint":"https://push.example/a","keys":{"p256dh":"","auth":"b"}}`,
	}
	for _, raw := range bad {
		if _, err := svc.Subscribe(context.Background(), 1, []byte(raw)); !errors.Is(err, model.ErrInvalidSubscription) {
			t.Fatalf("Subscribe(%s) err=%v want=%v", raw, err, model.ErrInvalidSubscription)
		}
	}
}

func TestSend(t *testing.T) {
	repo := newMemRepo()
	snd := &sender{}
	svc := NewPushService(repo, snd, "pub")
	ctx := context.Background()

	for _, ep := range []string{"https://push.example/ok", "https://push.example/gone", "https://push.example/down"} {
		if _, err := svc.Subscribe(ctx, 5, subscriptionJSONFor(ep)); err != nil {
			t.Fatalf("Subscribe: %v", err)
		}
	}

	report, err := svc.Send(ctx, 5, model.PushMessage{Title: "Hi", Body: "Tile unlocked"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if report.Total != 3 || report.Success != 1 {
		t.Fatalf("report=%+v want total=3 success=1", *report)
	}
	if len(repo.deactivated) != 1 || repo.deactivated[0] != "https://push.example/gone" {
		t.Fatalf("deactivated=%v want only the gone subscription", repo.deactivated)
	}

	// Исчезнувшая подписка больше не используется
	report, err = svc.Send(ctx, 5, model.PushMessage{Title: "Hi", Body: "again"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if report.Total != 2 {
		t.Fatalf("total=%d want=2", report.Total)
	}
}

func TestSend_Errors(t *testing.T) {
	svc := NewPushService(newMemRepo(), &sender{}, "pub")

	if _, err := svc.Send(context.Background(), 1, model.PushMessage{Title: "t", Body: "b"}); !errors.Is(err, model.ErrNoSubscriptions) {
		t.Fatalf("err=%v want=%v", err, model.ErrNoSubscriptions)
	}
	if _, err := svc.Send(context.Background(), 1, model.PushMessage{Title: "t"}); err == nil {
		t.Fatalf("message without body accepted")
	}
}

type pushCfg struct {
	public, private string
}

func (p pushCfg) VAPIDPublicKey() string  { return p.public }
func (p pushCfg) VAPIDPrivateKey() string { return p.private }
func (p pushCfg) Subscriber() string      { return "mailto:test@cozytown.app" }
func (p pushCfg) TTL() int                { return 30 }

func TestWebPushSender_StatusMapping(t *testing.T) {
	private, public, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("GenerateVAPIDKeys: %v", err)
	}

	clientKey, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	authSecret := make([]byte, 16)
	_, _ = rand.Read(authSecret)
	keys := model.PushKeys{
		P256dh: base64.RawURLEncoding.EncodeToString(clientKey.PublicKey().Bytes()),
		Auth:   base64.RawURLEncoding.EncodeToString(authSecret),
	}

	var status atomic.Int32
	status.Store(http.StatusCreated)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			t.Errorf("push request without VAPID authorization")
		}
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	snd := NewWebPushSender(pushCfg{public: public, private: private})
	sub := model.PushSubscription{ID: "s1", Endpoint: srv.URL, Keys: keys}

	if err := snd.Send(context.Background(), sub, []byte(`{"title":"t"}`)); err != nil {
		t.Fatalf("Send (201): %v", err)
	}

	status.Store(http.StatusGone)
	if err := snd.Send(context.Background(), sub, []byte(`{"title":"t"}`)); !errors.Is(err, model.ErrSubscriptionGone) {
		t.Fatalf("Send (410) err=%v want=%v", err, model.ErrSubscriptionGone)
	}

	status.Store(http.StatusTooManyRequests)
	if err := snd.Send(context.Background(), sub, []byte(`{"title":"t"}`)); err == nil || errors.Is(err, model.ErrSubscriptionGone) {
		t.Fatalf("Send (429) err=%v want generic error", err)
	}
}
