package model

import "time"

// Per-query caps for summary history
const (
	PlayerHistoryLimit = 50
	GlobalHistoryLimit = 100
)

// GameSummary is a stored record of one finished game, independent of the engine
type GameSummary struct {
	ID         string
	UserID     string
	GameDate   time.Time
	Failed     int
	Difficulty Difficulty
	Completed  int
	TimeTaken  int // seconds
	CreatedAt  time.Time
}

// SummaryInput is the unvalidated payload for saving a summary. Pointer
// fields distinguish an absent value from an explicit zero.
type SummaryInput struct {
	UserID     string
	GameDate   *time.Time
	Failed     *int
	Difficulty string
	Completed  *int
	TimeTaken  *int
}

// SummaryStats aggregates a list of summaries
type SummaryStats struct {
	Games          int
	Completed      int
	SuccessRate    int // percent, rounded
	AverageTimeSec int // average over completed games, rounded
}
