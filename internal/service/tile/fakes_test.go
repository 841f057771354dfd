package tile

import (
	"context"
	"cozytown_backend/internal/config"
	"cozytown_backend/internal/model"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
)

// store - хранилище в памяти с транзакциями: Do сериализует транзакции
// (как блокировка строк) и откатывает снимок состояния при ошибке
type store struct {
	txMu sync.Mutex

	mu    sync.Mutex
	tiles map[string]model.Tile
	coins map[int]int

	failDebit    error
	conflicts    int
	updateCalls  int
	debitCalls   int
	transactions int
	rolledBack   int
}

func newStore() *store {
	return &store{
		tiles: make(map[string]model.Tile),
		coins: make(map[int]int),
	}
}

func (s *store) addTile(cost, a, b int) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.tiles[id] = model.Tile{ID: id, UnlockCost: cost, SlotA: a, SlotB: b, TileType: "house"}
	s.mu.Unlock()
	return id
}

func (s *store) tile(id string) model.Tile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tiles[id]
}

func (s *store) balance(userID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coins[userID]
}

func (s *store) setBalance(userID, coins int) {
	s.mu.Lock()
	s.coins[userID] = coins
	s.mu.Unlock()
}

// txManager

func (s *store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.transactions++
	tiles := make(map[string]model.Tile, len(s.tiles))
	for k, v := range s.tiles {
		tiles[k] = v
	}
	coins := make(map[int]int, len(s.coins))
	for k, v := range s.coins {
		coins[k] = v
	}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.tiles, s.coins = tiles, coins
		s.rolledBack++
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *store) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return s.Do(ctx, fn)
}

// TileRepository

type tileRepo struct{ s *store }

func (r tileRepo) GetTile(_ context.Context, id string) (*model.Tile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tiles[id]
	if !ok {
		return nil, model.ErrTileNotFound
	}
	return &t, nil
}

func (r tileRepo) GetTileForUpdate(ctx context.Context, id string) (*model.Tile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tiles[id]
	if !ok {
		return nil, model.ErrTileNotFound
	}
	return &t, nil
}

func (r tileRepo) ListTiles(context.Context) ([]model.Tile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Tile, 0, len(r.s.tiles))
	for _, t := range r.s.tiles {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out, nil
}

func (r tileRepo) UpdateContributions(_ context.Context, upd model.TileUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.updateCalls++
	if r.s.conflicts > 0 {
		r.s.conflicts--
		return model.ErrConflict
	}

	t, ok := r.s.tiles[upd.TileID]
	if !ok {
		return model.ErrTileNotFound
	}
	if t.SlotA != upd.PrevA || t.SlotB != upd.PrevB {
		return model.ErrConflict
	}
	if upd.SlotA > t.Cap() || upd.SlotB > t.Cap() || upd.SlotA < 0 || upd.SlotB < 0 {
		return errors.New("check constraint violated")
	}

	t.SlotA, t.SlotB = upd.SlotA, upd.SlotB
	t.ContributorA, t.ContributorB = upd.ContributorA, upd.ContributorB
	t.UpdatedAt = time.Now()
	r.s.tiles[upd.TileID] = t
	return nil
}

func (r tileRepo) CreateTile(_ context.Context, tile *model.Tile) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tiles {
		if t.X == tile.X && t.Y == tile.Y {
			return false, nil
		}
	}
	if tile.ID == "" {
		tile.ID = uuid.NewString()
	}
	r.s.tiles[tile.ID] = *tile
	return true, nil
}

// UserRepository

type userRepo struct{ s *store }

func (r userRepo) CreateUser(context.Context, *model.User) (int, error) {
	return 0, errors.New("not implemented")
}

func (r userRepo) GetUserByLogin(context.Context, string) (*model.User, error) {
	return nil, errors.New("not implemented")
}

func (r userRepo) ListUsers(context.Context) ([]model.User, error) {
	return nil, errors.New("not implemented")
}

func (r userRepo) GetBalance(_ context.Context, id int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coins[id]
	if !ok {
		return 0, model.ErrUserNotFound
	}
	return c, nil
}

func (r userRepo) GetBalanceForUpdate(ctx context.Context, id int) (int, error) {
	return r.GetBalance(ctx, id)
}

func (r userRepo) DebitBalance(_ context.Context, id int, amount int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.debitCalls++
	if r.s.failDebit != nil {
		return 0, r.s.failDebit
	}
	c, ok := r.s.coins[id]
	if !ok {
		return 0, model.ErrUserNotFound
	}
	if c < amount {
		return 0, model.ErrInsufficientBalance
	}
	r.s.coins[id] = c - amount
	return c - amount, nil
}

// config

type mapCfg struct {
	policy config.SlotPolicy
	width  int
	height int
}

func (m mapCfg) Width() int                    { return m.width }
func (m mapCfg) Height() int                   { return m.height }
func (m mapCfg) UnlockCost(x, y int) int       { return 100 + x*10 }
func (m mapCfg) TileType(x, y int) string      { return "road" }
func (m mapCfg) SlotPolicy() config.SlotPolicy { return m.policy }
func (m mapCfg) StartingCoins() int            { return 100 }

type retryCfg struct{ attempts int }

func (r retryCfg) Attempts() int            { return r.attempts }
func (r retryCfg) BaseDelay() time.Duration { return time.Millisecond }
func (r retryCfg) MaxDelay() time.Duration  { return 2 * time.Millisecond }

// notifier / publisher

type sentPush struct {
	userID int
	msg    model.PushMessage
}

type fakeNotifier struct {
	sent chan sentPush
}

func (n *fakeNotifier) Send(_ context.Context, userID int, msg model.PushMessage) (*model.PushReport, error) {
	n.sent <- sentPush{userID: userID, msg: msg}
	return &model.PushReport{Total: 1, Success: 1}, nil
}

type fakePublisher struct {
	mu    sync.Mutex
	tiles []model.Tile
}

func (p *fakePublisher) Publish(t model.Tile) {
	p.mu.Lock()
	p.tiles = append(p.tiles, t)
	p.mu.Unlock()
}

type fixture struct {
	st        *store
	svc       *serv
	notifier  *fakeNotifier
	publisher *fakePublisher
}

func newFixture(policy config.SlotPolicy) *fixture {
	st := newStore()
	n := &fakeNotifier{sent: make(chan sentPush, 8)}
	p := &fakePublisher{}
	svc := NewTileService(Deps{
		TxManager: st,
		TileRepo:  tileRepo{st},
		UserRepo:  userRepo{st},
		MapCfg:    mapCfg{policy: policy, width: 3, height: 2},
		RetryCfg:  retryCfg{attempts: 3},
		Notifier:  n,
		Publisher: p,
	}).(*serv)
	return &fixture{st: st, svc: svc, notifier: n, publisher: p}
}

// racingTileRepo - перед первым GetTile (чтение после коммита) выполняет hook,
// чтобы чужой коммит успел лечь между транзакцией и перечитыванием
type racingTileRepo struct {
	tileRepo
	fired *atomic.Bool
	hook  func()
}

func (r racingTileRepo) GetTile(ctx context.Context, id string) (*model.Tile, error) {
	if r.fired.CompareAndSwap(false, true) {
		r.hook()
	}
	return r.tileRepo.GetTile(ctx, id)
}
