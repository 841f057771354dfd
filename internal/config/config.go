package config

import (
	"time"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

type HTTPConfig interface {
	Address() string
	AllowedOrigins() []string
	SecureCookies() bool
}

type PGConfig interface {
	DSN() string
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
	RefreshTokenDuration() time.Duration
}

type PushConfig interface {
	VAPIDPublicKey() string
	VAPIDPrivateKey() string
	Subscriber() string
	TTL() int
}

// SlotPolicy - правило назначения слота при вкладе
type SlotPolicy string

const (
	// SlotPolicyBound - слот явно привязан к пользователю
	SlotPolicyBound SlotPolicy = "bound"
	// SlotPolicyHeuristic - старое правило по текущим суммам слотов
	SlotPolicyHeuristic SlotPolicy = "heuristic"
)

type MapConfig interface {
	Width() int
	Height() int
	UnlockCost(x, y int) int
	TileType(x, y int) string
	SlotPolicy() SlotPolicy
	StartingCoins() int
}

type RetryConfig interface {
	Attempts() int
	BaseDelay() time.Duration
	MaxDelay() time.Duration
}
