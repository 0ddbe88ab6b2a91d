package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/memorygame-go/internal/api/handler"
	"github.com/mcoot/memorygame-go/internal/api/middleware"
	"github.com/mcoot/memorygame-go/internal/api/response"
	"github.com/mcoot/memorygame-go/internal/api/sse"
	"github.com/mcoot/memorygame-go/internal/ledger"
	basemw "github.com/mcoot/memorygame-go/internal/middleware"
	"github.com/mcoot/memorygame-go/internal/services/game"
	"github.com/mcoot/memorygame-go/internal/services/history"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	HistoryService *history.Service
	Contract       *ledger.Contract
	HubManager     *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.GameController)
	historyHandler := handler.NewHistoryHandler(cfg.HistoryService)
	ledgerHandler := handler.NewLedgerHandler(cfg.Contract)

	identityMiddleware := middleware.Identity()
	loggingMiddleware := basemw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Read-only game views (no identity required)
	api.HandleFunc("/games/total", gameHandler.Total).Methods(http.MethodGet)
	api.HandleFunc("/games/{id:[0-9]+}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id:[0-9]+}/moves", gameHandler.Moves).Methods(http.MethodGet)
	api.HandleFunc("/games/{id:[0-9]+}/active", gameHandler.Active).Methods(http.MethodGet)
	api.HandleFunc("/games/{id:[0-9]+}/duration", gameHandler.Duration).Methods(http.MethodGet)
	api.HandleFunc("/players/{player}/games", gameHandler.PlayerGames).Methods(http.MethodGet)

	// Game mutations act on behalf of the caller
	games := api.PathPrefix("/games").Subrouter()
	games.Use(identityMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{id:[0-9]+}", gameHandler.Abandon).Methods(http.MethodDelete)
	games.HandleFunc("/{id:[0-9]+}/moves", gameHandler.Move).Methods(http.MethodPost)

	if cfg.HubManager != nil {
		eventsHandler := handler.NewEventsHandler(cfg.HubManager)
		events := api.PathPrefix("/players/{player}/events").Subrouter()
		events.Use(identityMiddleware)
		events.HandleFunc("", eventsHandler.Stream).Methods(http.MethodGet)
	}

	// Summary records (no identity, matching the existing clients)
	api.HandleFunc("/memory/save", historyHandler.Save).Methods(http.MethodPost)
	api.HandleFunc("/memory/history", historyHandler.ListAll).Methods(http.MethodGet)
	api.HandleFunc("/memory/history/{userID}", historyHandler.ListForPlayer).Methods(http.MethodGet)
	api.HandleFunc("/memory/history/{userID}/stats", historyHandler.Stats).Methods(http.MethodGet)

	if cfg.Contract != nil {
		api.HandleFunc("/ledger/methods", ledgerHandler.Methods).Methods(http.MethodGet)
		ledgerRoutes := api.PathPrefix("/ledger").Subrouter()
		ledgerRoutes.Use(identityMiddleware)
		ledgerRoutes.HandleFunc("/tx", ledgerHandler.Call).Methods(http.MethodPost)
	}

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
