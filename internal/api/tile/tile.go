package tile

import (
	dto "cozytown_backend/internal/api/dto/tile"
	"cozytown_backend/internal/converter"
	"cozytown_backend/internal/middleware"
	"cozytown_backend/internal/model"
	"cozytown_backend/internal/service"
	"cozytown_backend/pkg/req"
	"cozytown_backend/pkg/resp"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HandlerDeps struct {
	Serv service.TileService
}

type Handler struct {
	serv service.TileService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

// List - все тайлы карты, построчно
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tiles, err := h.serv.ListTiles(r.Context())
	if err != nil {
		writeServiceError(w, "ListTiles", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToListResponse(tiles))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.serv.GetTile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "GetTile", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToTileResponse(*t))
}

// Suggestion - сумма, которую стоит предложить в диалоге вклада
func (h *Handler) Suggestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	s, err := h.serv.Suggestion(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeServiceError(w, "Suggestion", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSuggestionResponse(*s))
}

// Contribute - вклад монет в тайл от имени текущего пользователя
func (h *Handler) Contribute(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	payload, err := req.Decode[dto.ContributeRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.serv.Contribute(r.Context(),
		converter.ToContribution(chi.URLParam(r, "id"), userID, payload))
	if err != nil {
		writeServiceError(w, "Contribute", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToContributeResponse(*result))
}

// Progress - сколько тайлов карты уже открыто
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	p, err := h.serv.Progress(r.Context())
	if err != nil {
		writeServiceError(w, "Progress", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToProgressResponse(*p))
}

// writeServiceError - перевод доменной ошибки в HTTP статус и код
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidAmount):
		resp.WriteError(w, http.StatusUnprocessableEntity, "invalid_amount", err.Error())
	case errors.Is(err, model.ErrCapExceeded):
		resp.WriteError(w, http.StatusUnprocessableEntity, "cap_exceeded", err.Error())
	case errors.Is(err, model.ErrInsufficientBalance):
		resp.WriteError(w, http.StatusUnprocessableEntity, "insufficient_balance", err.Error())
	case errors.Is(err, model.ErrTileUnlocked):
		resp.WriteError(w, http.StatusConflict, "tile_unlocked", err.Error())
	case errors.Is(err, model.ErrSlotTaken):
		resp.WriteError(w, http.StatusConflict, "slot_taken", err.Error())
	case errors.Is(err, model.ErrTileNotFound):
		resp.WriteError(w, http.StatusNotFound, "tile_not_found", err.Error())
	case errors.Is(err, model.ErrUserNotFound):
		resp.WriteError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, model.ErrCommitFailed):
		log.Printf("%s error: %v", op, err)
		resp.WriteError(w, http.StatusServiceUnavailable, "commit_failed", "contribution was not applied, try again")
	default:
		log.Printf("%s error: %v", op, err)
		resp.WriteError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
