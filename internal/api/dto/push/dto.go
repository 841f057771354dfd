package push

import "encoding/json"

type SubscribeRequest struct {
	Subscription json.RawMessage `json:"subscription"` // PushSubscription.toJSON() браузера
}

type SendRequest struct {
	UserID int    `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type SendResponse struct {
	Message            string `json:"message"`
	TotalSubscriptions int    `json:"total_subscriptions"`
	SuccessCount       int    `json:"success_count"`
}

type PublicKeyResponse struct {
	PublicKey string `json:"public_key"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
