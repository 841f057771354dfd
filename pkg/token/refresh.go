package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// Длина refresh токена в байтах до кодирования
const refreshTokenSize = 32

// NewRefreshToken - случайный токен для cookie и его хэш для хранилища
func NewRefreshToken() (token, hash string, err error) {
	b := make([]byte, refreshTokenSize)
	if _, err = rand.Read(b); err != nil {
		return "", "", err
	}

	token = base64.RawURLEncoding.EncodeToString(b)
	return token, HashRefreshToken(token), nil
}

func HashRefreshToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// VerifyRefreshToken - сравнение с хэшем за постоянное время
func VerifyRefreshToken(token, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashRefreshToken(token)), []byte(hash)) == 1
}
