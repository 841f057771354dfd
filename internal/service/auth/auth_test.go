package auth

import (
	"context"
	"cozytown_backend/internal/model"
	"cozytown_backend/pkg/token"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

type txManager struct{}

func (txManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (txManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memory struct {
	mu       sync.Mutex
	users    map[string]model.User
	sessions map[string]model.Session
	nextID   int
}

func newMemory() *memory {
	return &memory{users: map[string]model.User{}, sessions: map[string]model.Session{}}
}

func (m *memory) CreateUser(_ context.Context, u *model.User) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Login]; ok {
		return 0, errors.New("duplicate login")
	}
	m.nextID++
	stored := *u
	stored.ID = m.nextID
	m.users[u.Login] = stored
	return stored.ID, nil
}

func (m *memory) GetUserByLogin(_ context.Context, login string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[login]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &u, nil
}

func (m *memory) ListUsers(context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memory) GetBalance(context.Context, int) (int, error)          { return 0, nil }
func (m *memory) GetBalanceForUpdate(context.Context, int) (int, error) { return 0, nil }
func (m *memory) DebitBalance(context.Context, int, int) (int, error)   { return 0, nil }

func (m *memory) CreateSession(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *memory) GetSession(_ context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memory) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return model.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memory) GetUserBySessionID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	for _, u := range m.users {
		if u.ID == s.UserID {
			return &u, nil
		}
	}
	return nil, model.ErrUserNotFound
}

type jwtCfg struct{}

func (jwtCfg) AccessTokenSecretKey() []byte        { return []byte("0123456789abcdef0123456789abcdef") }
func (jwtCfg) AccessTokenDuration() time.Duration  { return time.Minute }
func (jwtCfg) RefreshTokenDuration() time.Duration { return time.Hour }

func TestRegisterLoginRefreshLogout(t *testing.T) {
	mem := newMemory()
	svc := NewAuthService(txManager{}, mem, mem, jwtCfg{}, 100)
	ctx := context.Background()

	data, err := svc.Register(ctx, &model.User{Name: "Ann", Login: "ann", Password: "long-password"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	stored, _ := mem.GetUserByLogin(ctx, "ann")
	if stored.Coins != 100 {
		t.Fatalf("starting coins=%d want=100", stored.Coins)
	}
	if stored.Password == "long-password" {
		t.Fatalf("password stored in plain text")
	}
	session := mem.sessions[data.SessionID]
	if session.RefreshHash == data.RefreshToken {
		t.Fatalf("refresh token stored unhashed")
	}
	if session.RefreshHash != token.HashRefreshToken(data.RefreshToken) {
		t.Fatalf("stored hash does not match issued refresh token")
	}

	claims, err := token.VerifyToken(data.AccessToken, jwtCfg{}.AccessTokenSecretKey())
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if id, _ := token.UserID(claims); id != stored.ID {
		t.Fatalf("token user=%d want=%d", id, stored.ID)
	}

	if _, err := svc.Login(ctx, &model.User{Login: "ann", Password: "wrong-password"}); !errors.Is(err, model.ErrInvalidPassword) {
		t.Fatalf("wrong password err=%v want=%v", err, model.ErrInvalidPassword)
	}
	if _, err := svc.Login(ctx, &model.User{Login: "bob", Password: "whatever1"}); !errors.Is(err, model.ErrInvalidPassword) {
		t.Fatalf("unknown login err=%v want=%v", err, model.ErrInvalidPassword)
	}

	login, err := svc.Login(ctx, &model.User{Login: "ann", Password: "long-password"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.Refresh(ctx, &model.AuthData{SessionID: login.SessionID, RefreshToken: "forged"}); !errors.Is(err, model.ErrInvalidToken) {
		t.Fatalf("forged refresh err=%v want=%v", err, model.ErrInvalidToken)
	}
	access, err := svc.Refresh(ctx, &model.AuthData{SessionID: login.SessionID, RefreshToken: login.RefreshToken})
	if err != nil || access == "" {
		t.Fatalf("Refresh: token=%q err=%v", access, err)
	}

	if err := svc.Logout(ctx, login.SessionID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Refresh(ctx, &model.AuthData{SessionID: login.SessionID, RefreshToken: login.RefreshToken}); !errors.Is(err, model.ErrSessionNotFound) {
		t.Fatalf("refresh after logout err=%v want=%v", err, model.ErrSessionNotFound)
	}
}

func TestRegister_RejectsWeakInput(t *testing.T) {
	mem := newMemory()
	svc := NewAuthService(txManager{}, mem, mem, jwtCfg{}, 0)

	if _, err := svc.Register(context.Background(), &model.User{Login: "ann", Password: "short"}); !errors.Is(err, model.ErrInvalidUser) {
		t.Fatalf("err=%v want=%v", err, model.ErrInvalidUser)
	}
	if len(mem.users) != 0 {
		t.Fatalf("user created despite validation error")
	}
}

func TestRefresh_ExpiredSession(t *testing.T) {
	mem := newMemory()
	svc := NewAuthService(txManager{}, mem, mem, jwtCfg{}, 0)
	ctx := context.Background()

	data, err := svc.Register(ctx, &model.User{Name: "Ann", Login: "ann", Password: "long-password"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	mem.mu.Lock()
	s := mem.sessions[data.SessionID]
	s.ExpiresAt = time.Now().Add(-time.Second)
	mem.sessions[data.SessionID] = s
	mem.mu.Unlock()

	_, err = svc.Refresh(ctx, &model.AuthData{SessionID: data.SessionID, RefreshToken: data.RefreshToken})
	if !errors.Is(err, model.ErrSessionNotFound) {
		t.Fatalf("expired session err=%v want=%v", err, model.ErrSessionNotFound)
	}
}
