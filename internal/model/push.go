package model

import "time"

type PushKeys struct {
	P256dh string
	Auth   string
}

// PushSubscription - подписка браузера на web push
type PushSubscription struct {
	ID        string
	UserID    int
	Endpoint  string
	Keys      PushKeys
	Active    bool
	UpdatedAt time.Time
}

type PushMessage struct {
	Title string
	Body  string
}

type PushReport struct {
	Total   int
	Success int
}
