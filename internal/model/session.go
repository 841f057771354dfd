package model

import "time"

// Session - сессия входа. В хранилище лежит только хэш refresh токена
type Session struct {
	ID          string
	UserID      int
	RefreshHash string
	ExpiresAt   time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
