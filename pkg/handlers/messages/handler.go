package messages

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/de-tools/emotion-atlas/pkg/adapters"
	"github.com/de-tools/emotion-atlas/pkg/handlers"
	"github.com/de-tools/emotion-atlas/pkg/models/api"
	"github.com/de-tools/emotion-atlas/pkg/models/domain"
	"github.com/de-tools/emotion-atlas/pkg/services/analysis"
	"github.com/de-tools/emotion-atlas/pkg/services/messages"
)

type Handler struct {
	service messages.Service
}

func NewHandler(service messages.Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /api/v1/messages.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.MessageRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err)
		return
	}

	message := adapters.MapMessageRequestApiToDomain(req)
	if req.Timestamp != "" {
		sentAt, err := analysis.ParseTimestamp(req.Timestamp)
		if err != nil {
			handlers.WriteError(w, r, http.StatusBadRequest, fmt.Errorf("invalid timestamp %q", req.Timestamp))
			return
		}
		message.SentAt = sentAt
	}

	stored, err := h.service.Add(r.Context(), message)
	if err != nil {
		if errors.Is(err, analysis.ErrMalformedInput) {
			handlers.WriteError(w, r, http.StatusBadRequest, err)
			return
		}
		handlers.WriteError(w, r, http.StatusInternalServerError, err)
		return
	}

	handlers.WriteJSON(w, r, http.StatusCreated, adapters.MapAnalyzedMessageDomainToApi(stored))
}

// History handles GET /api/v1/users/{user}/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user")

	page, err := parsePage(r)
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err)
		return
	}
	page = messages.NormalizePage(page)

	list, err := h.service.History(r.Context(), userID, page)
	if err != nil {
		handlers.WriteError(w, r, http.StatusInternalServerError, err)
		return
	}

	resp := api.HistoryResponse{
		UserID:   userID,
		Limit:    page.Limit,
		Offset:   page.Offset,
		Messages: make([]api.MessageResponse, 0, len(list)),
	}
	for _, m := range list {
		resp.Messages = append(resp.Messages, adapters.MapAnalyzedMessageDomainToApi(m))
	}
	handlers.WriteJSON(w, r, http.StatusOK, resp)
}

// Stats handles GET /api/v1/users/{user}/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user")

	counts, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		handlers.WriteError(w, r, http.StatusInternalServerError, err)
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapEmotionCountsDomainToApi(counts))
}

func parsePage(r *http.Request) (domain.Page, error) {
	var page domain.Page
	query := r.URL.Query()

	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return page, fmt.Errorf("invalid limit %q", v)
		}
		page.Limit = limit
	}
	if v := query.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			return page, fmt.Errorf("invalid offset %q", v)
		}
		page.Offset = offset
	}
	return page, nil
}
