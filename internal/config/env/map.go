package env

import (
	"cozytown_backend/internal/config"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type tileOverride struct {
	X          int    `yaml:"x"`
	Y          int    `yaml:"y"`
	Type       string `yaml:"type"`
	UnlockCost int    `yaml:"unlock_cost"`
}

type mapSection struct {
	Width             int            `yaml:"width"`
	Height            int            `yaml:"height"`
	DefaultUnlockCost int            `yaml:"default_unlock_cost"`
	DefaultTileType   string         `yaml:"default_tile_type"`
	SlotPolicy        string         `yaml:"slot_policy"`
	StartingCoins     int            `yaml:"starting_coins"`
	Tiles             []tileOverride `yaml:"tiles"`
}

type retrySection struct {
	Attempts  int    `yaml:"attempts"`
	BaseDelay string `yaml:"base_delay"`
	MaxDelay  string `yaml:"max_delay"`
}

type fileConfig struct {
	Map   mapSection   `yaml:"map"`
	Retry retrySection `yaml:"retry"`
}

type coord struct {
	x, y int
}

type mapConfig struct {
	width         int
	height        int
	defaultCost   int
	defaultType   string
	policy        config.SlotPolicy
	startingCoins int
	overrides     map[coord]tileOverride
}

type retryConfig struct {
	attempts  int
	baseDelay time.Duration
	maxDelay  time.Duration
}

// NewMapConfigFromYAML - читает настройки карты и ретраев из yaml файла
func NewMapConfigFromYAML(path string) (config.MapConfig, config.RetryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	m, r, err := parseMapConfig(raw)
	if err != nil {
		return nil, nil, err
	}
	return m, r, nil
}

func parseMapConfig(raw []byte) (*mapConfig, *retryConfig, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, nil, fmt.Errorf("parse map config: %w", err)
	}

	m := fc.Map
	if m.Width <= 0 || m.Height <= 0 {
		return nil, nil, errors.New("map width and height must be positive")
	}
	if m.DefaultUnlockCost <= 0 {
		return nil, nil, errors.New("default unlock cost must be positive")
	}
	if m.StartingCoins < 0 {
		return nil, nil, errors.New("starting coins must not be negative")
	}
	if m.DefaultTileType == "" {
		m.DefaultTileType = "house"
	}

	policy := config.SlotPolicy(m.SlotPolicy)
	switch policy {
	case "":
		policy = config.SlotPolicyBound
	case config.SlotPolicyBound, config.SlotPolicyHeuristic:
	default:
		return nil, nil, fmt.Errorf("unknown slot policy %q", m.SlotPolicy)
	}

	overrides := make(map[coord]tileOverride, len(m.Tiles))
	for _, t := range m.Tiles {
		if t.X < 0 || t.X >= m.Width || t.Y < 0 || t.Y >= m.Height {
			return nil, nil, fmt.Errorf("tile (%d,%d) is outside of the map", t.X, t.Y)
		}
		if t.UnlockCost < 0 {
			return nil, nil, fmt.Errorf("tile (%d,%d) has negative unlock cost", t.X, t.Y)
		}
		overrides[coord{t.X, t.Y}] = t
	}

	rc, err := parseRetry(fc.Retry)
	if err != nil {
		return nil, nil, err
	}

	return &mapConfig{
		width:         m.Width,
		height:        m.Height,
		defaultCost:   m.DefaultUnlockCost,
		defaultType:   m.DefaultTileType,
		policy:        policy,
		startingCoins: m.StartingCoins,
		overrides:     overrides,
	}, rc, nil
}

func parseRetry(r retrySection) (*retryConfig, error) {
	rc := &retryConfig{
		attempts:  3,
		baseDelay: 50 * time.Millisecond,
		maxDelay:  time.Second,
	}
	if r.Attempts > 0 {
		rc.attempts = r.Attempts
	}
	if r.BaseDelay != "" {
		d, err := time.ParseDuration(r.BaseDelay)
		if err != nil {
			return nil, fmt.Errorf("invalid retry base_delay: %w", err)
		}
		rc.baseDelay = d
	}
	if r.MaxDelay != "" {
		d, err := time.ParseDuration(r.MaxDelay)
		if err != nil {
			return nil, fmt.Errorf("invalid retry max_delay: %w", err)
		}
		rc.maxDelay = d
	}
	if rc.maxDelay < rc.baseDelay {
		return nil, errors.New("retry max_delay must not be less than base_delay")
	}
	return rc, nil
}

func (m *mapConfig) Width() int {
	return m.width
}

func (m *mapConfig) Height() int {
	return m.height
}

func (m *mapConfig) UnlockCost(x, y int) int {
	if t, ok := m.overrides[coord{x, y}]; ok && t.UnlockCost > 0 {
		return t.UnlockCost
	}
	return m.defaultCost
}

func (m *mapConfig) TileType(x, y int) string {
	if t, ok := m.overrides[coord{x, y}]; ok && t.Type != "" {
		return t.Type
	}
	return m.defaultType
}

func (m *mapConfig) SlotPolicy() config.SlotPolicy {
	return m.policy
}

func (m *mapConfig) StartingCoins() int {
	return m.startingCoins
}

func (r *retryConfig) Attempts() int {
	return r.attempts
}

func (r *retryConfig) BaseDelay() time.Duration {
	return r.baseDelay
}

func (r *retryConfig) MaxDelay() time.Duration {
	return r.maxDelay
}
