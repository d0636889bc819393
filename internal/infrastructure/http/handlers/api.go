// Package handlers provides the JSON API handlers for the engine.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/application/chat"
	"github.com/platewise/v1/internal/domain/menu"
	"github.com/platewise/v1/internal/domain/recommendation"
	"github.com/platewise/v1/internal/ports/inbound"
	apperrors "github.com/platewise/v1/pkg/errors"
)

// API bundles the HTTP handlers over the inbound services.
type API struct {
	chatService      inbound.ChatService
	recommendService inbound.RecommendationService
	catalog          *menu.Catalog
	logger           *zap.Logger
}

// NewAPI creates the handler set.
func NewAPI(
	chatService inbound.ChatService,
	recommendService inbound.RecommendationService,
	catalog *menu.Catalog,
	logger *zap.Logger,
) *API {
	return &API{
		chatService:      chatService,
		recommendService: recommendService,
		catalog:          catalog,
		logger:           logger.Named("api"),
	}
}

// Routes mounts the API onto a router.
func (a *API) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/chat/{sessionID}", func(r chi.Router) {
			r.Post("/messages", a.sendMessage)
			r.Get("/history", a.getHistory)
			r.Delete("/", a.resetSession)
			r.Get("/order", a.getOrder)
			r.Delete("/order", a.clearOrder)
		})
		r.Post("/recommendations", a.recommend)
		r.Get("/menu", a.getMenu)
	})
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

// sendMessage handles POST /api/v1/chat/{sessionID}/messages
func (a *API) sendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, apperrors.NewBadRequestError("Invalid request body"))
		return
	}

	turn, err := a.chatService.Send(r.Context(), sessionID, req.Text)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyInput) {
			a.writeError(w, r, apperrors.NewEmptyInputError())
			return
		}
		a.logger.Error("Send failed", zap.String("session_id", sessionID), zap.Error(err))
		a.writeError(w, r, apperrors.Wrap(err, "Failed to process message"))
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{"turn": turn})
}

// getHistory handles GET /api/v1/chat/{sessionID}/history
func (a *API) getHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	turns, err := a.chatService.History(r.Context(), sessionID)
	if err != nil {
		a.writeError(w, r, apperrors.Wrap(err, "Failed to load history"))
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"turns":      turns,
	})
}

// resetSession handles DELETE /api/v1/chat/{sessionID}
func (a *API) resetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := a.chatService.Reset(r.Context(), sessionID); err != nil {
		a.writeError(w, r, apperrors.NewStorageError("reset session", err))
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"session_id": sessionID, "reset": true})
}

// getOrder handles GET /api/v1/chat/{sessionID}/order
func (a *API) getOrder(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	snapshot, err := a.chatService.Order(r.Context(), sessionID)
	if err != nil {
		a.writeError(w, r, apperrors.Wrap(err, "Failed to load order"))
		return
	}
	a.writeJSON(w, http.StatusOK, snapshot)
}

// clearOrder handles DELETE /api/v1/chat/{sessionID}/order
func (a *API) clearOrder(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := a.chatService.ClearOrder(r.Context(), sessionID); err != nil {
		a.writeError(w, r, apperrors.NewStorageError("clear order", err))
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"session_id": sessionID, "cleared": true})
}

type recommendRequest struct {
	Request recommendation.Request `json:"request"`
	Context recommendContext       `json:"context"`
}

type recommendContext struct {
	Weather      string   `json:"weather,omitempty"`
	LocalTime    string   `json:"local_time,omitempty"`
	Mood         string   `json:"mood,omitempty"`
	Preferences  []string `json:"preferences,omitempty"`
	OrderHistory []string `json:"order_history,omitempty"`
}

// recommend handles POST /api/v1/recommendations
func (a *API) recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, apperrors.NewBadRequestError("Invalid request body"))
		return
	}

	localTime := time.Now()
	if req.Context.LocalTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.Context.LocalTime)
		if err != nil {
			a.writeError(w, r, apperrors.NewBadRequestError("context.local_time must be RFC3339"))
			return
		}
		localTime = parsed
	}

	rctx := recommendation.Context{
		Weather:      req.Context.Weather,
		LocalTime:    localTime,
		Mood:         req.Context.Mood,
		Preferences:  req.Context.Preferences,
		OrderHistory: req.Context.OrderHistory,
	}

	results, err := a.recommendService.Recommend(r.Context(), req.Request, rctx)
	if err != nil {
		a.writeError(w, r, apperrors.Wrap(err, "Failed to compute recommendations"))
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{"recommendations": results})
}

// getMenu handles GET /api/v1/menu
func (a *API) getMenu(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"items": a.catalog.Items()})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, appErr *apperrors.AppError) {
	requestID := chimiddleware.GetReqID(r.Context())
	a.writeJSON(w, appErr.StatusCode(), apperrors.ToErrorResponse(appErr, requestID))
}
