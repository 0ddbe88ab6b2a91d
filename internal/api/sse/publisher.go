package sse

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mcoot/memorygame-go/internal/model"
)

// EventMessage is the JSON body of every game notification sent to clients
type EventMessage struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	GameID    uint64    `json:"game_id"`
	PlayerID  string    `json:"player_id"`
	Data      any       `json:"data,omitempty"`
}

type gameStartedData struct {
	Difficulty string `json:"difficulty"`
	GridSize   int    `json:"grid_size"`
	TotalPairs int    `json:"total_pairs"`
}

type moveValidatedData struct {
	CardIndex1 int  `json:"card_index_1"`
	CardIndex2 int  `json:"card_index_2"`
	IsMatch    bool `json:"is_match"`
	FoundPairs int  `json:"found_pairs"`
	Attempts   int  `json:"attempts"`
}

type gameCompletedData struct {
	Attempts        int   `json:"attempts"`
	WrongAttempts   int   `json:"wrong_attempts"`
	DurationSeconds int64 `json:"duration_seconds"`
}

type gameAbandonedData struct {
	FoundPairs int `json:"found_pairs"`
	Attempts   int `json:"attempts"`
}

// NewEventMessage converts an engine event into its wire form
func NewEventMessage(e model.Event) EventMessage {
	msg := EventMessage{
		Type:      string(e.Type),
		Timestamp: e.Timestamp,
		GameID:    uint64(e.GameID),
		PlayerID:  string(e.PlayerID),
	}

	switch p := e.Payload.(type) {
	case model.GameStartedPayload:
		msg.Data = gameStartedData{
			Difficulty: p.Difficulty.String(),
			GridSize:   p.GridSize,
			TotalPairs: p.TotalPairs,
		}
	case model.MoveValidatedPayload:
		msg.Data = moveValidatedData(p)
	case model.GameCompletedPayload:
		msg.Data = gameCompletedData{
			Attempts:        p.Attempts,
			WrongAttempts:   p.WrongAttempts,
			DurationSeconds: int64(p.Duration / time.Second),
		}
	case model.GameAbandonedPayload:
		msg.Data = gameAbandonedData(p)
	}
	return msg
}

// Publish forwards an engine event to the owning player's stream, if one is open.
// HubManager satisfies the game controller's Publisher interface.
func (m *HubManager) Publish(_ context.Context, e model.Event) {
	hub := m.GetHub(e.PlayerID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(NewEventMessage(e))
	if err != nil {
		m.logger.Error("sse failed to encode event",
			slog.String("type", string(e.Type)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(string(e.Type), string(data))
}
