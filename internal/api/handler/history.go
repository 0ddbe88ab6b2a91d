package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/memorygame-go/internal/api/request"
	"github.com/mcoot/memorygame-go/internal/api/response"
	"github.com/mcoot/memorygame-go/internal/model"
	"github.com/mcoot/memorygame-go/internal/services/history"
)

// HistoryHandler handles the game summary endpoints
type HistoryHandler struct {
	history *history.Service
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *history.Service) *HistoryHandler {
	return &HistoryHandler{history: historyService}
}

// Save handles POST /api/v1/memory/save
func (h *HistoryHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req request.SaveSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if _, err := h.history.Save(r.Context(), req.ToInput()); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Message{Message: "Game data saved successfully"})
}

// ListForPlayer handles GET /api/v1/memory/history/{userID}
func (h *HistoryHandler) ListForPlayer(w http.ResponseWriter, r *http.Request) {
	difficulty, err := difficultyFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	summaries, err := h.history.ListForPlayer(r.Context(), mux.Vars(r)["userID"], difficulty)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HistoryFromModel(summaries))
}

// ListAll handles GET /api/v1/memory/history
func (h *HistoryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.history.ListAll(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HistoryFromModel(summaries))
}

// Stats handles GET /api/v1/memory/history/{userID}/stats
func (h *HistoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	difficulty, err := difficultyFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	stats, err := h.history.Stats(r.Context(), mux.Vars(r)["userID"], difficulty)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(stats))
}

// difficultyFilter reads the optional ?difficulty= label; "" and "all" disable filtering
func difficultyFilter(r *http.Request) (model.Difficulty, error) {
	label := strings.TrimSpace(r.URL.Query().Get("difficulty"))
	if label == "" || strings.EqualFold(label, "all") {
		return 0, nil
	}
	return model.ParseDifficulty(label)
}
