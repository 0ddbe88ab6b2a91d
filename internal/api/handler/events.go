package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/memorygame-go/internal/api/middleware"
	"github.com/mcoot/memorygame-go/internal/api/sse"
	"github.com/mcoot/memorygame-go/internal/model"
)

// EventsHandler streams a player's game notifications
type EventsHandler struct {
	hubManager *sse.HubManager
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hubManager *sse.HubManager) *EventsHandler {
	return &EventsHandler{hubManager: hubManager}
}

// Stream handles GET /api/v1/players/{player}/events. Players may only
// subscribe to their own games.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetPlayer(r.Context())
	player := model.PlayerID(mux.Vars(r)["player"])
	if caller != player {
		WriteError(w, NewForbiddenError("Cannot subscribe to another player's events"))
		return
	}

	h.hubManager.Serve(w, r, player)
}
