package push

import (
	dto "cozytown_backend/internal/api/dto/push"
	"cozytown_backend/internal/converter"
	"cozytown_backend/internal/middleware"
	"cozytown_backend/internal/model"
	"cozytown_backend/internal/service"
	"cozytown_backend/pkg/req"
	"cozytown_backend/pkg/resp"
	"errors"
	"log"
	"net/http"
)

type HandlerDeps struct {
	Serv service.PushService
}

type Handler struct {
	serv service.PushService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

func (h *Handler) PublicKey(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, dto.PublicKeyResponse{PublicKey: h.serv.PublicKey()})
}

// Subscribe - сохраняет подписку браузера текущего пользователя
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	payload, err := req.Decode[dto.SubscribeRequest](r.Body)
	if err != nil || len(payload.Subscription) == 0 {
		resp.WriteError(w, http.StatusBadRequest, "invalid_request", "subscription is required")
		return
	}

	created, err := h.serv.Subscribe(r.Context(), userID, payload.Subscription)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSubscription) {
			resp.WriteError(w, http.StatusBadRequest, "invalid_subscription", err.Error())
			return
		}
		log.Println("Subscribe error:", err)
		resp.WriteError(w, http.StatusInternalServerError, "internal", "failed to save subscription")
		return
	}

	if created {
		resp.WriteJSONResponse(w, http.StatusCreated, dto.MessageResponse{Message: "Subscription created"})
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Subscription updated"})
}

// Send - отправляет пуш на все активные подписки пользователя
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.SendRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if payload.UserID <= 0 || payload.Title == "" || payload.Body == "" {
		resp.WriteError(w, http.StatusBadRequest, "invalid_request", "user_id, title and body are required")
		return
	}

	report, err := h.serv.Send(r.Context(), payload.UserID, converter.ToPushMessage(payload))
	if err != nil {
		if errors.Is(err, model.ErrNoSubscriptions) {
			resp.WriteError(w, http.StatusNotFound, "no_subscriptions", err.Error())
			return
		}
		log.Println("Send error:", err)
		resp.WriteError(w, http.StatusInternalServerError, "internal", "failed to send push notifications")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSendResponse(*report))
}
