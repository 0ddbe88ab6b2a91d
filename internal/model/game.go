package model

import (
	"strconv"
	"strings"
	"time"
)

// GameID uniquely identifies a game. IDs start at 1 and are never reused.
type GameID uint64

// String returns the decimal form of the ID
func (id GameID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseGameID parses a decimal game ID
func ParseGameID(s string) (GameID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return GameID(v), nil
}

// Difficulty selects the grid size of a game
type Difficulty uint8

const (
	DifficultyEasy   Difficulty = 1
	DifficultyNormal Difficulty = 2
	DifficultyHard   Difficulty = 3
)

// IsValid returns true for Easy, Normal and Hard
func (d Difficulty) IsValid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

// GridSize returns the grid dimension for the difficulty, or 0 if invalid
func (d Difficulty) GridSize() int {
	switch d {
	case DifficultyEasy:
		return 4
	case DifficultyNormal:
		return 6
	case DifficultyHard:
		return 8
	default:
		return 0
	}
}

// TotalPairs returns the number of pairs on a grid of this difficulty
func (d Difficulty) TotalPairs() int {
	size := d.GridSize()
	return size * size / 2
}

// String returns the display label (Easy, Normal, Hard)
func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyNormal:
		return "Normal"
	case DifficultyHard:
		return "Hard"
	default:
		return "Unknown"
	}
}

// ParseDifficulty converts a label into a Difficulty (case-insensitive)
func ParseDifficulty(label string) (Difficulty, error) {
	for _, d := range Difficulties() {
		if strings.EqualFold(label, d.String()) {
			return d, nil
		}
	}
	return 0, ErrInvalidDifficulty
}

// Difficulties returns all valid difficulties in ascending order
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// GameStatus is the lifecycle phase derived from IsActive/IsCompleted
type GameStatus string

const (
	GameStatusActive    GameStatus = "active"
	GameStatusCompleted GameStatus = "completed"
	GameStatusAbandoned GameStatus = "abandoned"
)

// Game is a single memory game owned by one player
type Game struct {
	ID         GameID
	Player     PlayerID
	Difficulty Difficulty
	GridSize   int
	TotalPairs int

	// Counters, only changed by move validation
	FoundPairs    int
	Attempts      int
	WrongAttempts int

	// Timing; EndTime stays zero until the game is terminal
	StartTime time.Time
	EndTime   time.Time

	IsActive    bool
	IsCompleted bool
}

// CardCount returns the number of cards on the grid
func (g *Game) CardCount() int {
	return g.GridSize * g.GridSize
}

// IsValidCardIndex returns true if the index is on the grid
func (g *Game) IsValidCardIndex(idx int) bool {
	return idx >= 0 && idx < g.CardCount()
}

// IsTerminal returns true once the game is completed or abandoned
func (g *Game) IsTerminal() bool {
	return !g.IsActive
}

// Status returns the lifecycle phase of the game
func (g *Game) Status() GameStatus {
	switch {
	case g.IsActive:
		return GameStatusActive
	case g.IsCompleted:
		return GameStatusCompleted
	default:
		return GameStatusAbandoned
	}
}

// Duration returns the elapsed play time, measured up to now while the game is active
func (g *Game) Duration(now time.Time) time.Duration {
	end := g.EndTime
	if end.IsZero() {
		end = now
	}
	return end.Sub(g.StartTime)
}

// Clone returns a copy of the game
func (g *Game) Clone() *Game {
	c := *g
	return &c
}

// Move is one validated attempt to match two cards
type Move struct {
	GameID     GameID
	CardIndex1 int
	CardIndex2 int
	IsMatch    bool
	Timestamp  time.Time
}
