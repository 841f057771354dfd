package auth

import (
	dto "cozytown_backend/internal/api/dto/auth"
	"cozytown_backend/internal/converter"
	"cozytown_backend/internal/model"
	"cozytown_backend/internal/service"
	"cozytown_backend/pkg/req"
	"cozytown_backend/pkg/resp"
	"errors"
	"log"
	"net/http"
)

const (
	sessionIDCookie    = "session_id"
	refreshTokenCookie = "refresh_token"

	// refresh_token нужен только ручкам /auth/*
	refreshTokenPath = "/auth"

	cookieMaxAge = 30 * 24 * 60 * 60 // 30 дней
)

type HandlerDeps struct {
	Serv         service.AuthService
	SecureCookie bool
}

type Handler struct {
	serv   service.AuthService
	secure bool
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, secure: deps.SecureCookie}
}

// Register создаёт пользователя, открывает сессию
// и возвращает access_token, а session_id и refresh_token через cookies
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	requestBody, err := req.Decode[dto.RegisterRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid request")
		return
	}

	data, err := h.serv.Register(
		r.Context(),
		converter.RegisterRequestToUserModel(&requestBody),
	)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidUser):
			resp.WriteError(w, http.StatusBadRequest, "invalid_user", err.Error())
		case errors.Is(err, model.ErrLoginTaken):
			resp.WriteError(w, http.StatusConflict, "login_taken", err.Error())
		default:
			log.Println("Register error:", err)
			resp.WriteError(w, http.StatusInternalServerError, "internal", "register failed")
		}
		return
	}

	h.setSessionCookies(w, data)

	resp.WriteJSONResponse(w, http.StatusCreated, dto.TokenResponse{AccessToken: data.AccessToken})
}

// Login создаёт сессию и возвращает access_token, session_id и refresh_token через cookies
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	requestBody, err := req.Decode[dto.LoginRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid request")
		return
	}

	data, err := h.serv.Login(r.Context(), converter.LoginRequestToUserModel(&requestBody))
	if err != nil {
		if errors.Is(err, model.ErrInvalidPassword) {
			resp.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid login or password")
			return
		}
		log.Println("Login error:", err)
		resp.WriteError(w, http.StatusInternalServerError, "internal", "login failed")
		return
	}

	h.setSessionCookies(w, data)

	resp.WriteJSONResponse(w, http.StatusOK, dto.TokenResponse{AccessToken: data.AccessToken})
}

// Refresh обновляет access_token по session_id и refresh_token
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	sessionID, err := r.Cookie(sessionIDCookie)
	if err != nil {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized", "no session_id cookie")
		return
	}
	refreshToken, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized", "no refresh_token cookie")
		return
	}

	accessToken, err := h.serv.Refresh(r.Context(), &model.AuthData{
		SessionID:    sessionID.Value,
		RefreshToken: refreshToken.Value,
	})
	if err != nil {
		log.Println("Refresh error:", err)
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized", "refresh failed")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, dto.TokenResponse{AccessToken: accessToken})
}

// Logout закрывает сессию по session_id
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionIDCookie)
	if err != nil {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized", "no session_id cookie")
		return
	}

	err = h.serv.Logout(r.Context(), c.Value)
	if err != nil && !errors.Is(err, model.ErrSessionNotFound) {
		log.Println("Logout error:", err)
		resp.WriteError(w, http.StatusInternalServerError, "internal", "logout failed")
		return
	}

	h.deleteCookie(w, sessionIDCookie, "/")
	h.deleteCookie(w, refreshTokenCookie, refreshTokenPath)

	w.WriteHeader(http.StatusNoContent)
}

// ListUsers - список игроков карты
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.serv.ListUsers(r.Context())
	if err != nil {
		log.Println("ListUsers error:", err)
		resp.WriteError(w, http.StatusInternalServerError, "internal", "list users failed")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToUsersResponse(users))
}

func (h *Handler) setSessionCookies(w http.ResponseWriter, data *model.AuthData) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionIDCookie,
		Value:    data.SessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   cookieMaxAge,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    data.RefreshToken,
		Path:     refreshTokenPath,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   cookieMaxAge,
	})
}

func (h *Handler) deleteCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
}
