package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventGameStarted   EventType = "game_started"
	EventMoveValidated EventType = "move_validated"
	EventGameCompleted EventType = "game_completed"
	EventGameAbandoned EventType = "game_abandoned"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	GameID    GameID
	PlayerID  PlayerID // The game's player
	Payload   any      // Type-specific data
}

// GameStartedPayload contains data for game started events
type GameStartedPayload struct {
	Difficulty Difficulty
	GridSize   int
	TotalPairs int
}

// MoveValidatedPayload contains data for move validated events
type MoveValidatedPayload struct {
	CardIndex1 int
	CardIndex2 int
	IsMatch    bool
	FoundPairs int
	Attempts   int
}

// GameCompletedPayload contains data for game completed events
type GameCompletedPayload struct {
	Attempts      int
	WrongAttempts int
	Duration      time.Duration
}

// GameAbandonedPayload contains data for game abandoned events
type GameAbandonedPayload struct {
	FoundPairs int
	Attempts   int
}
