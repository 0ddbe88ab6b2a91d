package ledger

import (
	"strconv"

	"github.com/mcoot/memorygame-go/internal/model"
)

// Log is an event emitted by a successful call
type Log struct {
	Event      string            `json:"event"`
	Attributes map[string]string `json:"attributes"`
}

const (
	EventGameStarted   = "GameStarted"
	EventMoveValidated = "MoveValidated"
	EventGameCompleted = "GameCompleted"
	EventGameAbandoned = "GameAbandoned"
)

func gameStartedLog(g *model.Game) Log {
	return Log{Event: EventGameStarted, Attributes: map[string]string{
		"gameId":     g.ID.String(),
		"player":     string(g.Player),
		"difficulty": strconv.Itoa(int(g.Difficulty)),
	}}
}

func moveValidatedLog(g *model.Game, m *model.Move) Log {
	return Log{Event: EventMoveValidated, Attributes: map[string]string{
		"gameId":     g.ID.String(),
		"player":     string(g.Player),
		"cardIndex1": strconv.Itoa(m.CardIndex1),
		"cardIndex2": strconv.Itoa(m.CardIndex2),
		"isMatch":    strconv.FormatBool(m.IsMatch),
	}}
}

func gameCompletedLog(g *model.Game) Log {
	return Log{Event: EventGameCompleted, Attributes: map[string]string{
		"gameId":        g.ID.String(),
		"player":        string(g.Player),
		"attempts":      strconv.Itoa(g.Attempts),
		"wrongAttempts": strconv.Itoa(g.WrongAttempts),
		"duration":      strconv.FormatInt(durationSeconds(g.Duration(g.EndTime)), 10),
	}}
}

func gameAbandonedLog(gameID model.GameID, player model.PlayerID) Log {
	return Log{Event: EventGameAbandoned, Attributes: map[string]string{
		"gameId": gameID.String(),
		"player": string(player),
	}}
}
