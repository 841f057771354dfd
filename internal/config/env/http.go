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
	httpAddressEnvName  = "HTTP_ADDRESS"
	corsOriginsEnvName  = "CORS_ALLOWED_ORIGINS"
	cookieSecureEnvName = "COOKIE_SECURE"
)

type httpConfig struct {
	address string
	origins []string
	secure  bool
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	address := os.Getenv(httpAddressEnvName)
	if len(address) == 0 {
		return nil, errors.New("http address not found")
	}

	var origins []string
	for _, o := range strings.Split(os.Getenv(corsOriginsEnvName), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	secure := false
	if raw := os.Getenv(cookieSecureEnvName); len(raw) > 0 {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", cookieSecureEnvName, err)
		}
		secure = v
	}

	return &httpConfig{
		address: address,
		origins: origins,
		secure:  secure,
	}, nil
}

func (cfg *httpConfig) Address() string {
	return cfg.address
}

func (cfg *httpConfig) AllowedOrigins() []string {
	return cfg.origins
}

func (cfg *httpConfig) SecureCookies() bool {
	return cfg.secure
}
