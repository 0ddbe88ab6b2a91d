package response

import (
	"time"

	"github.com/mcoot/memorygame-go/internal/model"
)

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}

// Game represents a game in API responses
type Game struct {
	ID              uint64     `json:"id"`
	Player          string     `json:"player"`
	Difficulty      string     `json:"difficulty"`
	DifficultyLevel int        `json:"difficulty_level"`
	GridSize        int        `json:"grid_size"`
	TotalPairs      int        `json:"total_pairs"`
	FoundPairs      int        `json:"found_pairs"`
	Attempts        int        `json:"attempts"`
	WrongAttempts   int        `json:"wrong_attempts"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	IsActive        bool       `json:"is_active"`
	IsCompleted     bool       `json:"is_completed"`
	Status          string     `json:"status"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	resp := Game{
		ID:              uint64(g.ID),
		Player:          string(g.Player),
		Difficulty:      g.Difficulty.String(),
		DifficultyLevel: int(g.Difficulty),
		GridSize:        g.GridSize,
		TotalPairs:      g.TotalPairs,
		FoundPairs:      g.FoundPairs,
		Attempts:        g.Attempts,
		WrongAttempts:   g.WrongAttempts,
		StartTime:       g.StartTime,
		IsActive:        g.IsActive,
		IsCompleted:     g.IsCompleted,
		Status:          string(g.Status()),
	}
	if !g.EndTime.IsZero() {
		end := g.EndTime
		resp.EndTime = &end
	}
	return resp
}

// Move represents a recorded move
type Move struct {
	GameID     uint64    `json:"game_id"`
	CardIndex1 int       `json:"card_index_1"`
	CardIndex2 int       `json:"card_index_2"`
	IsMatch    bool      `json:"is_match"`
	Timestamp  time.Time `json:"timestamp"`
}

// MoveFromModel converts a model.Move
func MoveFromModel(m *model.Move) Move {
	return Move{
		GameID:     uint64(m.GameID),
		CardIndex1: m.CardIndex1,
		CardIndex2: m.CardIndex2,
		IsMatch:    m.IsMatch,
		Timestamp:  m.Timestamp,
	}
}

// MoveResult is returned after a move is accepted
type MoveResult struct {
	Move Move `json:"move"`
	Game Game `json:"game"`
}

// MoveList is a game's move history in play order
type MoveList struct {
	GameID uint64 `json:"game_id"`
	Moves  []Move `json:"moves"`
}

// MoveListFromModel converts a slice of moves
func MoveListFromModel(gameID model.GameID, moves []model.Move) MoveList {
	resp := MoveList{GameID: uint64(gameID), Moves: make([]Move, len(moves))}
	for i := range moves {
		resp.Moves[i] = MoveFromModel(&moves[i])
	}
	return resp
}

// PlayerGames lists the ids of the games a player created
type PlayerGames struct {
	Player  string   `json:"player"`
	GameIDs []uint64 `json:"game_ids"`
}

// PlayerGamesFromModel converts a list of game ids
func PlayerGamesFromModel(player model.PlayerID, ids []model.GameID) PlayerGames {
	resp := PlayerGames{Player: string(player), GameIDs: make([]uint64, len(ids))}
	for i, id := range ids {
		resp.GameIDs[i] = uint64(id)
	}
	return resp
}

// Total is the number of games ever created
type Total struct {
	Total int `json:"total"`
}

// Active reports whether a game accepts moves
type Active struct {
	GameID uint64 `json:"game_id"`
	Active bool   `json:"active"`
}

// Duration reports elapsed play time
type Duration struct {
	GameID          uint64 `json:"game_id"`
	DurationSeconds int64  `json:"duration_seconds"`
}

// Message is a plain acknowledgement
type Message struct {
	Message string `json:"message"`
}

// Summary is a saved game summary record
type Summary struct {
	ID         string    `json:"_id"`
	UserID     string    `json:"userID"`
	GameDate   time.Time `json:"gameDate"`
	Failed     int       `json:"failed"`
	Difficulty string    `json:"difficulty"`
	Completed  int       `json:"completed"`
	TimeTaken  int       `json:"timeTaken"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SummaryFromModel converts a model.GameSummary
func SummaryFromModel(s *model.GameSummary) Summary {
	return Summary{
		ID:         s.ID,
		UserID:     s.UserID,
		GameDate:   s.GameDate,
		Failed:     s.Failed,
		Difficulty: s.Difficulty.String(),
		Completed:  s.Completed,
		TimeTaken:  s.TimeTaken,
		CreatedAt:  s.CreatedAt,
	}
}

// History wraps a list of summaries
type History struct {
	Success bool      `json:"success"`
	Data    []Summary `json:"data"`
	Count   int       `json:"count"`
}

// HistoryFromModel converts a list of summaries
func HistoryFromModel(summaries []*model.GameSummary) History {
	resp := History{Success: true, Data: make([]Summary, len(summaries)), Count: len(summaries)}
	for i, s := range summaries {
		resp.Data[i] = SummaryFromModel(s)
	}
	return resp
}

// Stats aggregates a player's summaries
type Stats struct {
	Success bool      `json:"success"`
	Data    StatsData `json:"data"`
}

// StatsData holds the aggregated numbers
type StatsData struct {
	Games       int `json:"games"`
	Completed   int `json:"completed"`
	SuccessRate int `json:"successRate"`
	AverageTime int `json:"averageTime"`
}

// StatsFromModel converts model.SummaryStats
func StatsFromModel(s model.SummaryStats) Stats {
	return Stats{
		Success: true,
		Data: StatsData{
			Games:       s.Games,
			Completed:   s.Completed,
			SuccessRate: s.SuccessRate,
			AverageTime: s.AverageTimeSec,
		},
	}
}

// Methods lists the ledger's callable methods
type Methods struct {
	Methods []string `json:"methods"`
}
