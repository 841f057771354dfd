package env

import (
	"cozytown_backend/internal/config"
	"fmt"
	"os"
	"strconv"
)

const (
	vapidPublicKeyEnvName  = "VAPID_PUBLIC_KEY"
	vapidPrivateKeyEnvName = "VAPID_PRIVATE_KEY"
	vapidSubjectEnvName    = "VAPID_SUBJECT"
	pushTTLEnvName         = "PUSH_TTL"

	defaultSubject = "mailto:admin@cozytown.app"
	defaultTTL     = 60
)

type pushConfig struct {
	publicKey  string
	privateKey string
	subject    string
	ttl        int
}

func NewPushConfig() (config.PushConfig, error) {
	publicKey := os.Getenv(vapidPublicKeyEnvName)
	if len(publicKey) == 0 {
		return nil, fmt.Errorf("vapid public key not found")
	}

	privateKey := os.Getenv(vapidPrivateKeyEnvName)
	if len(privateKey) == 0 {
		return nil, fmt.Errorf("vapid private key not found")
	}

	subject := os.Getenv(vapidSubjectEnvName)
	if len(subject) == 0 {
		subject = defaultSubject
	}

	ttl := defaultTTL
	if raw := os.Getenv(pushTTLEnvName); len(raw) > 0 {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid push ttl: %w", err)
		}
		ttl = parsed
	}

	return &pushConfig{
		publicKey:  publicKey,
		privateKey: privateKey,
		subject:    subject,
		ttl:        ttl,
	}, nil
}

func (p *pushConfig) VAPIDPublicKey() string {
	return p.publicKey
}

func (p *pushConfig) VAPIDPrivateKey() string {
	return p.privateKey
}

func (p *pushConfig) Subscriber() string {
	return p.subject
}

func (p *pushConfig) TTL() int {
	return p.ttl
}
