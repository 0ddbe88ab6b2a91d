package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/memorygame-go/internal/api/middleware"
	"github.com/mcoot/memorygame-go/internal/api/request"
	"github.com/mcoot/memorygame-go/internal/api/response"
	"github.com/mcoot/memorygame-go/internal/model"
	"github.com/mcoot/memorygame-go/internal/services/game"
)

// GameHandler handles game engine endpoints
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{gameController: gameController}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	g, err := h.gameController.CreateGame(r.Context(), player, req.Difficulty.Model())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDFromPath(w, r)
	if !ok {
		return
	}

	g, err := h.gameController.GetGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Abandon handles DELETE /api/v1/games/{id}
func (h *GameHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	gameID, ok := gameIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.gameController.AbandonGame(r.Context(), gameID, player); err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.gameController.GetGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Move handles POST /api/v1/games/{id}/moves
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	gameID, ok := gameIDFromPath(w, r)
	if !ok {
		return
	}

	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	result, err := h.gameController.PlayMove(r.Context(), gameID, player, *req.CardIndex1, *req.CardIndex2, *req.IsMatch)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MoveResult{
		Move: response.MoveFromModel(result.Move),
		Game: response.GameFromModel(result.Game),
	})
}

// Moves handles GET /api/v1/games/{id}/moves
func (h *GameHandler) Moves(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDFromPath(w, r)
	if !ok {
		return
	}

	moves, err := h.gameController.GetGameMoves(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MoveListFromModel(gameID, moves))
}

// Active handles GET /api/v1/games/{id}/active
func (h *GameHandler) Active(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDFromPath(w, r)
	if !ok {
		return
	}

	active, err := h.gameController.IsGameActive(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Active{GameID: uint64(gameID), Active: active})
}

// Duration handles GET /api/v1/games/{id}/duration
func (h *GameHandler) Duration(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDFromPath(w, r)
	if !ok {
		return
	}

	d, err := h.gameController.GetGameDuration(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Duration{
		GameID:          uint64(gameID),
		DurationSeconds: int64(d / time.Second),
	})
}

// Total handles GET /api/v1/games/total
func (h *GameHandler) Total(w http.ResponseWriter, r *http.Request) {
	total, err := h.gameController.GetTotalGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Total{Total: total})
}

// PlayerGames handles GET /api/v1/players/{player}/games
func (h *GameHandler) PlayerGames(w http.ResponseWriter, r *http.Request) {
	player := model.PlayerID(mux.Vars(r)["player"])

	ids, err := h.gameController.GetPlayerGames(r.Context(), player)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerGamesFromModel(player, ids))
}

// gameIDFromPath parses the {id} route variable, writing a 400 on failure
func gameIDFromPath(w http.ResponseWriter, r *http.Request) (model.GameID, bool) {
	id, err := model.ParseGameID(mux.Vars(r)["id"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("Invalid game id"))
		return 0, false
	}
	return id, true
}
