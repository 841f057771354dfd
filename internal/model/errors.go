package model

import "errors"

// Ошибки валидации вклада. Состояние при них не меняется, повтор не нужен
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrCapExceeded         = errors.New("contribution exceeds 50% slot cap")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTileUnlocked        = errors.New("tile already unlocked")
	ErrSlotTaken           = errors.New("both slots are bound to other users")
)

// ErrCommitFailed - транзакция не применилась. Единственный класс ошибок, который можно повторять
var ErrCommitFailed = errors.New("commit failed")

// ErrConflict - слоты тайла изменились между чтением и записью
var ErrConflict = errors.New("concurrent update")

var (
	ErrTileNotFound    = errors.New("tile not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid refresh token")
	ErrInvalidUser     = errors.New("login is required and password must be at least 8 characters")
	ErrLoginTaken      = errors.New("login already taken")
)

var (
	ErrNoSubscriptions     = errors.New("no active subscriptions found for user")
	ErrInvalidSubscription = errors.New("invalid push subscription")
	ErrSubscriptionGone    = errors.New("push subscription gone")
)
