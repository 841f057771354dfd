package env

import (
	"cozytown_backend/internal/config"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	dsnName      = "PG_DSN"
	maxConnsName = "PG_MAX_CONNS"
)

type pgConfig struct {
	dsn      string
	maxConns int32
}

func NewPGConfig() (config.PGConfig, error) {
	dsn := os.Getenv(dsnName)
	if len(dsn) == 0 {
		return nil, errors.New("pg dsn not found")
	}

	cfg := &pgConfig{dsn: dsn}

	if raw := os.Getenv(maxConnsName); len(raw) > 0 {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid %s: %q", maxConnsName, raw)
		}
		cfg.maxConns = int32(n)
	}

	return cfg, nil
}

// DSN - строка подключения. Если задан PG_MAX_CONNS, он добавляется как pool_max_conns
func (cfg *pgConfig) DSN() string {
	if cfg.maxConns == 0 {
		return cfg.dsn
	}
	sep := "?"
	if strings.Contains(cfg.dsn, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spool_max_conns=%d", cfg.dsn, sep, cfg.maxConns)
}
